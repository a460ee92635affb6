package grammar

import (
	"testing"

	"github.com/dsisnero/pegasus/symbol"
)

func TestGenFirstSetSimple(t *testing.T) {
	prods, symTab, _ := buildSumProds(t)
	fst, err := genFirstSet(prods)
	if err != nil {
		t.Fatalf("genFirstSet: %v", err)
	}
	sumSym, _ := symTab.ToSymbol("sum")
	numSym, _ := symTab.ToSymbol("num")

	e := fst.findBySymbol(sumSym)
	if e == nil {
		t.Fatalf("no FIRST entry for sum")
	}
	if e.empty {
		t.Fatalf("FIRST(sum) must not be nullable")
	}
	if !e.symbols.Contains(numSym) {
		t.Fatalf("FIRST(sum) must contain num")
	}
}

func TestGenFirstSetNullableRule(t *testing.T) {
	symTab := symbol.NewTable()
	aSym, _ := symTab.RegisterTerminal("a")
	optSym, _ := symTab.RegisterNonTerminal("opt")

	prods := newProductionSet()
	p1, err := newProduction(optSym, []symbol.Symbol{aSym})
	if err != nil {
		t.Fatal(err)
	}
	prods.append(p1)
	p2, err := newProduction(optSym, nil)
	if err != nil {
		t.Fatal(err)
	}
	prods.append(p2)

	fst, err := genFirstSet(prods)
	if err != nil {
		t.Fatalf("genFirstSet: %v", err)
	}
	e := fst.findBySymbol(optSym)
	if !e.empty {
		t.Fatalf("FIRST(opt) must be nullable")
	}
	if !e.symbols.Contains(aSym) {
		t.Fatalf("FIRST(opt) must still contain a")
	}
}
