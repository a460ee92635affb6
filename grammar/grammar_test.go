package grammar

import (
	"testing"

	"github.com/dsisnero/pegasus/gerrors"
	"github.com/dsisnero/pegasus/symbol"
)

func newSymTabWithTerminals(names ...string) *symbol.Table {
	tab := symbol.NewTable()
	for _, n := range names {
		tab.RegisterTerminal(n)
	}
	return tab
}

func TestCompileTrivialArithmetic(t *testing.T) {
	// sum -> num plus num | num
	symTab := newSymTabWithTerminals("num", "plus")
	desc := Description{
		Start: "sum",
		Rules: []Rule{
			{Name: "sum", Alts: []Alt{
				{Body: []string{"num", "plus", "num"}},
				{Body: []string{"num"}},
			}},
		},
	}
	g, err := Compile(desc, symTab)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if g.Table.StateCount == 0 {
		t.Fatalf("expected a non-empty parsing table")
	}
}

func TestCompileLeftRecursiveList(t *testing.T) {
	// list -> list item | item
	symTab := newSymTabWithTerminals("item")
	desc := Description{
		Start: "list",
		Rules: []Rule{
			{Name: "list", Alts: []Alt{
				{Body: []string{"list", "item"}},
				{Body: []string{"item"}},
			}},
		},
	}
	g, err := Compile(desc, symTab)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if g.Table.StateCount == 0 {
		t.Fatalf("expected a non-empty parsing table")
	}
}

func TestCompileUnknownSymbolInRuleBody(t *testing.T) {
	symTab := newSymTabWithTerminals("item")
	desc := Description{
		Start: "list",
		Rules: []Rule{
			{Name: "list", Alts: []Alt{
				{Body: []string{"list", "bogus"}},
				{Body: []string{"item"}},
			}},
		},
	}
	_, err := Compile(desc, symTab)
	if err == nil {
		t.Fatalf("expected a GrammarError for the undefined symbol")
	}
	ge, ok := err.(*gerrors.GrammarError)
	if !ok {
		t.Fatalf("got %T, want *gerrors.GrammarError", err)
	}
	if ge.Detail == "" {
		t.Fatalf("expected the error detail to name the undefined symbol")
	}
}

func TestCompileUndeclaredStartRule(t *testing.T) {
	symTab := newSymTabWithTerminals("item")
	desc := Description{
		Start: "missing",
		Rules: []Rule{
			{Name: "list", Alts: []Alt{{Body: []string{"item"}}}},
		},
	}
	_, err := Compile(desc, symTab)
	if err == nil {
		t.Fatalf("expected a GrammarError for the undeclared start rule")
	}
}

func TestCompileShiftReduceConflictNamesNonterminal(t *testing.T) {
	// A classic dangling-else-shaped ambiguity: e -> e plus e | num,
	// left-recursive and right-recursive in the same rule, forces a
	// shift/reduce conflict on "plus".
	symTab := newSymTabWithTerminals("num", "plus")
	desc := Description{
		Start: "e",
		Rules: []Rule{
			{Name: "e", Alts: []Alt{
				{Body: []string{"e", "plus", "e"}},
				{Body: []string{"num"}},
			}},
		},
	}
	_, err := Compile(desc, symTab)
	if err == nil {
		t.Fatalf("expected a shift/reduce conflict")
	}
	conflict, ok := err.(*gerrors.GrammarConflict)
	if !ok {
		t.Fatalf("got %T, want *gerrors.GrammarConflict", err)
	}
	if conflict.Kind != gerrors.ShiftReduce {
		t.Fatalf("got conflict kind %v, want shift/reduce", conflict.Kind)
	}
	found := false
	for _, n := range conflict.Nonterminals {
		if n == "e" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected the conflict to name nonterminal %q, got %v", "e", conflict.Nonterminals)
	}
}

func TestCompileReduceReduceConflictNamesBothNonterminals(t *testing.T) {
	// "s -> a | b" with "a -> x" and "b -> x": once "x" is shifted there
	// are two equally valid reductions, both with the same lookahead
	// (whatever follows s), so the table builder can't pick one.
	symTab := newSymTabWithTerminals("x")
	desc := Description{
		Start: "s",
		Rules: []Rule{
			{Name: "s", Alts: []Alt{
				{Body: []string{"a"}},
				{Body: []string{"b"}},
			}},
			{Name: "a", Alts: []Alt{{Body: []string{"x"}}}},
			{Name: "b", Alts: []Alt{{Body: []string{"x"}}}},
		},
	}
	_, err := Compile(desc, symTab)
	if err == nil {
		t.Fatalf("expected a reduce/reduce conflict")
	}
	conflict, ok := err.(*gerrors.GrammarConflict)
	if !ok {
		t.Fatalf("got %T, want *gerrors.GrammarConflict", err)
	}
	if conflict.Kind != gerrors.ReduceReduce {
		t.Fatalf("got conflict kind %v, want reduce/reduce", conflict.Kind)
	}
	names := map[string]bool{}
	for _, n := range conflict.Nonterminals {
		names[n] = true
	}
	if !names["a"] || !names["b"] {
		t.Fatalf("expected the conflict to name both %q and %q, got %v", "a", "b", conflict.Nonterminals)
	}
}
