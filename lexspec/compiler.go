// Package lexspec ties the regex, nfa and dfa packages together to compile
// a user's named token set into the lexer tables, grounded on the
// lexical-compilation pipeline but collapsed to a single implicit lex
// mode: tokens are a flat name->regex map with only a `skip` option.
package lexspec

import (
	"fmt"

	"github.com/dsisnero/pegasus/dfa"
	"github.com/dsisnero/pegasus/gerrors"
	"github.com/dsisnero/pegasus/nfa"
	"github.com/dsisnero/pegasus/regex"
	"github.com/dsisnero/pegasus/symbol"
)

// TokenDef is one named token declaration: a regex pattern plus a
// "skip" option, the only option honored by the core. Declaration
// order matters: it fixes both the terminal's id and the lowest-id-wins
// tie-break for overlapping patterns.
type TokenDef struct {
	Name string
	Pattern string
	Skip bool
}

// Description is the token half of the structured grammar input:
// `{tokens: name->(regex, options), ...}`.
type Description struct {
	Tokens []TokenDef
}

// Lexer is the compiled lexical half of a LanguageData: the DFA plus the
// per-terminal skip flags.
type Lexer struct {
	DFA *dfa.DFA
	Skip []bool // indexed by symbol.Num; index 0 unused
}

// MaxDFAStates is the default ceiling on lexer DFA state count.
const MaxDFAStates = 1 << 16

// Compile parses every token's pattern, builds the shared NFA, runs subset
// construction, and registers each token name as a terminal symbol in
// symTab (so the grammar package can later resolve rule-body references to
// the same ids). Token ids are assigned in declaration order starting at
// symbol.TerminalNumMin, so declaration order also fixes tie-breaking
// between overlapping patterns: declared earlier wins.
func Compile(desc Description, symTab *symbol.Table, maxDFAStates int) (*Lexer, error) {
	if len(desc.Tokens) == 0 {
		return nil, &gerrors.GrammarError{Detail: "a grammar must declare at least one token"}
	}
	if maxDFAStates <= 0 {
		maxDFAStates = MaxDFAStates
	}

	seen := map[string]bool{}
	var entries []nfa.Entry
	maxNum := symbol.Num(0)
	for _, tok := range desc.Tokens {
		if seen[tok.Name] {
			return nil, &gerrors.GrammarError{Detail: fmt.Sprintf("token %q is declared more than once", tok.Name)}
		}
		seen[tok.Name] = true

		ast, err := regex.Parse(tok.Pattern)
		if err != nil {
			ge := &gerrors.GrammarError{Cause: err, Detail: fmt.Sprintf("token %q: %v", tok.Name, err)}
			if pe, ok := err.(*regex.ParseError); ok {
				ge.Offset = pe.Offset
			}
			return nil, ge
		}

		sym, err := symTab.RegisterTerminal(tok.Name)
		if err != nil {
			return nil, &gerrors.InternalError{Cause: err}
		}

		entries = append(entries, nfa.Entry{TokenID: nfa.TokenID(sym.Num()), Pattern: ast})
		if sym.Num() > maxNum {
			maxNum = sym.Num()
		}
	}

	n := nfa.Build(entries)
	d, err := dfa.Build(n, maxDFAStates)
	if err != nil {
		return nil, &gerrors.GrammarError{Cause: err, Detail: err.Error()}
	}

	skip := make([]bool, maxNum+1)
	for _, tok := range desc.Tokens {
		sym, _ := symTab.ToSymbol(tok.Name)
		skip[sym.Num()] = tok.Skip
	}

	return &Lexer{DFA: d, Skip: skip}, nil
}

// Token is one scanned token: its terminal symbol and its byte-range
// [From, To) within the source.
type Token struct {
	Sym symbol.Symbol
	From int
	To int
}

// BadCharacterError reports a source offset where no DFA transition
// matches: the lexer cannot extend or complete a token there.
type BadCharacterError struct {
	Offset int
}

func (e *BadCharacterError) Error() string {
	return fmt.Sprintf("bad character at offset %v", e.Offset)
}

// Lex tokenizes src against l, applying the longest-match protocol and
// discarding tokens whose terminal is marked skip.
func (l *Lexer) Lex(src []byte, symTab *symbol.Table) ([]Token, error) {
	num2Sym := map[symbol.Num]symbol.Symbol{}
	for _, s := range symTab.TerminalSymbols() {
		num2Sym[s.Num()] = s
	}

	var toks []Token
	i := 0
	for i < len(src) {
		id, end, ok := l.DFA.Run(src, i)
		if !ok {
			return nil, &BadCharacterError{Offset: i}
		}
		num := symbol.Num(id)
		if int(num) >= len(l.Skip) || !l.Skip[num] {
			toks = append(toks, Token{Sym: num2Sym[num], From: i, To: end})
		}
		i = end
	}
	return toks, nil
}
