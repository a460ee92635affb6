package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/dsisnero/pegasus/symbol"
)

func symbolComparator(a, b interface{}) int {
	sa, sb := a.(symbol.Symbol), b.(symbol.Symbol)
	switch {
	case sa < sb:
		return -1
	case sa > sb:
		return 1
	default:
		return 0
	}
}

// firstEntry is FIRST(X) for one symbol X: the set of terminals that can
// begin a string derived from X, plus whether X can derive the empty
// string.
type firstEntry struct {
	symbols *treeset.Set
	empty bool
}

func newFirstEntry() *firstEntry {
	return &firstEntry{symbols: treeset.NewWith(symbolComparator)}
}

func (e *firstEntry) add(sym symbol.Symbol) bool {
	if e.symbols.Contains(sym) {
		return false
	}
	e.symbols.Add(sym)
	return true
}

func (e *firstEntry) addEmpty() bool {
	if e.empty {
		return false
	}
	e.empty = true
	return true
}

func (e *firstEntry) mergeExceptEmpty(o *firstEntry) bool {
	if o == nil {
		return false
	}
	changed := false
	for _, v := range o.symbols.Values() {
		if e.add(v.(symbol.Symbol)) {
			changed = true
		}
	}
	return changed
}

// firstSet maps every nonterminal to its firstEntry.
type firstSet struct {
	set map[symbol.Symbol]*firstEntry
}

func newFirstSet(prods *ProductionSet) *firstSet {
	fs := &firstSet{set: map[symbol.Symbol]*firstEntry{}}
	for _, prod := range prods.all() {
		if _, ok := fs.set[prod.LHS]; !ok {
			fs.set[prod.LHS] = newFirstEntry()
		}
	}
	return fs
}

func (fs *firstSet) findBySymbol(sym symbol.Symbol) *firstEntry {
	return fs.set[sym]
}

// find computes FIRST of the RHS suffix of prod starting at head, used by
// LALR(1) closure to compute the lookahead a nonterminal reference
// inherits from what follows it in the same production.
func (fs *firstSet) find(prod *Production, head int) (*firstEntry, error) {
	entry := newFirstEntry()
	if prod.RHSLen <= head {
		entry.addEmpty()
		return entry, nil
	}
	for _, sym := range prod.RHS[head:] {
		if sym.IsTerminal() {
			entry.add(sym)
			return entry, nil
		}
		e := fs.findBySymbol(sym)
		if e == nil {
			return nil, fmt.Errorf("no FIRST entry for symbol %v", sym)
		}
		for _, v := range e.symbols.Values() {
			entry.add(v.(symbol.Symbol))
		}
		if !e.empty {
			return entry, nil
		}
	}
	entry.addEmpty()
	return entry, nil
}

// genFirstSet computes FIRST for every nonterminal to a fixpoint.
func genFirstSet(prods *ProductionSet) (*firstSet, error) {
	fs := newFirstSet(prods)
	for {
		changed := false
		for _, prod := range prods.all() {
			acc := fs.findBySymbol(prod.LHS)
			c, err := genProdFirstEntry(fs, acc, prod)
			if err != nil {
				return nil, err
			}
			if c {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return fs, nil
}

func genProdFirstEntry(fs *firstSet, acc *firstEntry, prod *Production) (bool, error) {
	if prod.IsEmpty() {
		return acc.addEmpty(), nil
	}
	for _, sym := range prod.RHS {
		if sym.IsTerminal() {
			return acc.add(sym), nil
		}
		e := fs.findBySymbol(sym)
		changed := acc.mergeExceptEmpty(e)
		if !e.empty {
			return changed, nil
		}
	}
	return acc.addEmpty(), nil
}
