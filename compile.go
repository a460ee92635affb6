// Package pegasus is the top-level entry point: Compile runs the
// lexical pipeline (via lexspec) and the grammar pipeline (via
// grammar) over one structured description and assembles their
// outputs into a single langdata.LanguageData a runtime can drive.
package pegasus

import (
	"github.com/dsisnero/pegasus/grammar"
	"github.com/dsisnero/pegasus/langdata"
	"github.com/dsisnero/pegasus/lexspec"
	"github.com/dsisnero/pegasus/symbol"
)

// Description is the full structured grammar input: tokens plus a
// start rule name plus the rules that define it.
type Description struct {
	Tokens []lexspec.TokenDef
	Start string
	Rules []grammar.Rule

	// MaxDFAStates overrides lexspec.MaxDFAStates when non-zero.
	MaxDFAStates int
}

// Compile runs the full pipeline end to end and returns the resulting
// LanguageData, or the first GrammarError/GrammarConflict/InternalError
// encountered.
func Compile(desc Description) (*langdata.LanguageData, error) {
	symTab := symbol.NewTable()

	lex, err := lexspec.Compile(lexspec.Description{Tokens: desc.Tokens}, symTab, desc.MaxDFAStates)
	if err != nil {
		return nil, err
	}

	gram, err := grammar.Compile(grammar.Description{Start: desc.Start, Rules: desc.Rules}, symTab)
	if err != nil {
		return nil, err
	}

	return assemble(lex, gram, symTab)
}

func assemble(lex *lexspec.Lexer, gram *grammar.Grammar, symTab *symbol.Table) (*langdata.LanguageData, error) {
	ld := &langdata.LanguageData{
		StateCount: gram.Table.StateCount,
		TerminalCount: gram.Table.TerminalCount,
		NonTerminalCount: gram.Table.NonTerminalCount,
		ActionWidth: gram.Table.ActionWidth(),
		StateWidth: gram.Table.StateWidth(),
		InitialState: gram.Table.InitialState.Int(),
		MaxTerminal: symTab.MaxTerminal().Int(),
		Terminals: symTab.TerminalTexts(),
		NonTerminals: symTab.NonTerminalTexts(),
	}

	ld.LexStateTable = make([][256]int, len(lex.DFA.StateTable))
	for i, row := range lex.DFA.StateTable {
		var out [256]int
		for b, s := range row {
			out[b] = int(s)
		}
		ld.LexStateTable[i] = out
	}
	ld.LexFinalTable = append([]int{}, lex.DFA.FinalTable...)
	ld.LexSkipTable = append([]bool{}, lex.Skip...)

	ld.ParseActionTable = make([]int, gram.Table.ActionLen())
	for i := range ld.ParseActionTable {
		ld.ParseActionTable[i] = gram.Table.RawAction(i)
	}
	ld.ParseStateTable = make([]int, gram.Table.StateLen())
	for i := range ld.ParseStateTable {
		ld.ParseStateTable[i] = gram.Table.RawState(i)
	}

	ld.Items = make([]langdata.Item, gram.Prods.Count())
	startNum := 0
	for _, prod := range gram.Prods.All() {
		ld.Items[prod.Num.Int()] = langdata.Item{LHS: prod.LHS.Num().Int(), RHSLength: prod.RHSLen}
		if prod.LHS.IsStart() {
			startNum = prod.Num.Int()
		}
	}
	ld.StartProduction = startNum

	return ld, nil
}
