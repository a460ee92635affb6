// Package report renders a plain-text dump of a compiled grammar's
// terminals, productions, states and transitions. It works on a
// successfully compiled Grammar, so it never lists conflicts.
// Graph-visualization exporters are out of scope.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/dsisnero/pegasus/grammar"
	"github.com/dsisnero/pegasus/symbol"
)

// Describe writes a human-readable summary of gram to w: its terminals,
// productions, and for every state its shift/reduce/goto actions, with
// the lookahead symbol driving each reduce. The items of each state are
// not printed.
func Describe(w io.Writer, gram *grammar.Grammar) {
	symTab := gram.SymTab

	fmt.Fprintf(w, "# Terminals\n\n")
	terms := symTab.TerminalSymbols()
	fmt.Fprintf(w, "%v symbols:\n\n", len(terms))
	for _, s := range terms {
		text, _ := symTab.ToText(s)
		fmt.Fprintf(w, "%4v %v\n", s.Num(), text)
	}

	fmt.Fprintf(w, "\n# Productions\n\n")
	prods := sortedProductions(gram)
	fmt.Fprintf(w, "%v productions:\n\n", len(prods))
	for _, p := range prods {
		fmt.Fprintf(w, "%4v %v\n", p.Num, productionString(symTab, p, -1))
	}

	fmt.Fprintf(w, "\n# States\n\n")
	fmt.Fprintf(w, "%v states:\n\n", gram.Table.StateCount)
	for state := 0; state < gram.Table.StateCount; state++ {
		fmt.Fprintf(w, "state %v\n", state)

		var shifts, reduces, gotos []string
		for _, t := range terms {
			ty, prod := gram.Table.GetAction(grammar.StateNum(state), t.Num())
			switch ty {
			case grammar.ActionTypeShift:
				_, next := gram.Table.GetShiftTarget(grammar.StateNum(state), t.Num())
				shifts = append(shifts, fmt.Sprintf("shift %4v on %v", next, symbolText(symTab, t)))
			case grammar.ActionTypeReduce:
				reduces = append(reduces, fmt.Sprintf("reduce %4v on %v", prod, symbolText(symTab, t)))
			case grammar.ActionTypeAccept:
				reduces = append(reduces, fmt.Sprintf("accept on %v", symbolText(symTab, t)))
			}
		}
		if ty, prod := gram.Table.GetAction(grammar.StateNum(state), symTab.MaxTerminal()+1); ty == grammar.ActionTypeReduce || ty == grammar.ActionTypeAccept {
			if ty == grammar.ActionTypeAccept {
				reduces = append(reduces, "accept on <eof>")
			} else {
				reduces = append(reduces, fmt.Sprintf("reduce %4v on <eof>", prod))
			}
		}
		for _, nt := range symTab.NonTerminalSymbols() {
			ok, next := gram.Table.GetGoTo(grammar.StateNum(state), nt.Num())
			if ok {
				gotos = append(gotos, fmt.Sprintf("goto %4v on %v", next, symbolText(symTab, nt)))
			}
		}

		for _, r := range shifts {
			fmt.Fprintf(w, " %v\n", r)
		}
		for _, r := range reduces {
			fmt.Fprintf(w, " %v\n", r)
		}
		for _, r := range gotos {
			fmt.Fprintf(w, " %v\n", r)
		}
		fmt.Fprintf(w, "\n")
	}
}

func sortedProductions(gram *grammar.Grammar) []*grammar.Production {
	var out []*grammar.Production
	for _, p := range gram.Prods.All() {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Num < out[j].Num })
	return out
}

func productionString(symTab *symbol.Table, p *grammar.Production, dot int) string {
	s := symbolText(symTab, p.LHS) + " ->"
	for i, sym := range p.RHS {
		if i == dot {
			s += " ."
		}
		s += " " + symbolText(symTab, sym)
	}
	if dot == len(p.RHS) {
		s += " ."
	}
	return s
}

func symbolText(symTab *symbol.Table, s symbol.Symbol) string {
	if s.IsNil() {
		return "<nil>"
	}
	text, ok := symTab.ToText(s)
	if !ok {
		return fmt.Sprintf("<symbol %v>", s)
	}
	return text
}
