// Package grammar implements the grammar-compilation pipeline: Compile
// takes the rule half of a structured grammar description (tokens
// already compiled by lexspec) and runs start augmentation, the LR(0)
// canonical collection, FIRST sets, LALR(1) lookahead propagation, and
// parsing table assembly in sequence, producing either a ParsingTable
// or the first fatal GrammarError or GrammarConflict encountered.
package grammar

import (
	"fmt"

	"github.com/dsisnero/pegasus/gerrors"
	"github.com/dsisnero/pegasus/symbol"
)

// Alt is one alternative of a rule's RHS: an ordered list of symbol
// names, each resolved against symTab. An empty Body declares an
// epsilon production.
type Alt struct {
	Body []string
}

// Rule is one named nonterminal and its alternatives.
type Rule struct {
	Name string
	Alts []Alt
}

// Description is the grammar-rule half of a compiled language: the
// start symbol's name plus every rule.
type Description struct {
	Start string
	Rules []Rule
}

// Grammar is the fully resolved output of the grammar-compilation
// pipeline: the production set, the parsing table, and whatever the
// symbol table looked like once every token and rule was registered.
type Grammar struct {
	SymTab *symbol.Table
	Prods *ProductionSet
	Table *ParsingTable
}

// Compile resolves desc against symTab (which must already have every
// token registered as a terminal — see lexspec.Compile), performs start
// augmentation, builds the LALR(1) automaton, and assembles the parsing
// table. A symbol name that resolves to neither a terminal nor an
// already-declared nonterminal is a GrammarError naming the identifier.
func Compile(desc Description, symTab *symbol.Table) (*Grammar, error) {
	if desc.Start == "" {
		return nil, &gerrors.GrammarError{Detail: "a grammar must declare a start rule"}
	}
	if len(desc.Rules) == 0 {
		return nil, &gerrors.GrammarError{Detail: "a grammar must declare at least one rule"}
	}

	ruleNames := map[string]bool{}
	for _, r := range desc.Rules {
		ruleNames[r.Name] = true
	}
	if !ruleNames[desc.Start] {
		return nil, &gerrors.GrammarError{Detail: fmt.Sprintf("start rule %q is not declared among the grammar's rules", desc.Start)}
	}

	for _, r := range desc.Rules {
		if _, err := symTab.RegisterNonTerminal(r.Name); err != nil {
			return nil, &gerrors.InternalError{Cause: err}
		}
	}

	prods := newProductionSet()
	for _, r := range desc.Rules {
		lhs, _ := symTab.ToSymbol(r.Name)
		for _, alt := range r.Alts {
			rhs := make([]symbol.Symbol, 0, len(alt.Body))
			for _, name := range alt.Body {
				sym, ok := symTab.ToSymbol(name)
				if !ok {
					return nil, &gerrors.GrammarError{Detail: fmt.Sprintf("undefined symbol %q referenced in rule %q", name, r.Name)}
				}
				rhs = append(rhs, sym)
			}
			prod, err := newProduction(lhs, rhs)
			if err != nil {
				return nil, &gerrors.InternalError{Cause: err}
			}
			prods.append(prod)
		}
	}

	startLHS := symTab.RegisterStart(fmt.Sprintf("%s'", desc.Start))
	origStart, _ := symTab.ToSymbol(desc.Start)
	augmented, err := newProduction(startLHS, []symbol.Symbol{origStart})
	if err != nil {
		return nil, &gerrors.InternalError{Cause: err}
	}
	prods.append(augmented)

	automaton, err := genLR0Automaton(prods, startLHS)
	if err != nil {
		return nil, &gerrors.InternalError{Cause: err}
	}

	first, err := genFirstSet(prods)
	if err != nil {
		return nil, &gerrors.InternalError{Cause: err}
	}

	if err := genLALR1Lookaheads(automaton, prods, first); err != nil {
		return nil, &gerrors.InternalError{Cause: err}
	}

	table, conflicts, err := buildParsingTable(automaton, prods, symTab)
	if err != nil {
		return nil, &gerrors.InternalError{Cause: err}
	}
	if len(conflicts) > 0 {
		// Production numbers are internal; only the names leave Compile.
		c := conflicts[0]
		c.ProductionIDs = nil
		return nil, c
	}

	return &Grammar{SymTab: symTab, Prods: prods, Table: table}, nil
}
