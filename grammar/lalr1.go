package grammar

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/dsisnero/pegasus/symbol"
)

// stateItem addresses one item by the state it lives in and its item id,
// the unit lookahead propagation edges connect.
type stateItem struct {
	state KernelID
	item ItemID
}

// propagation records that whatever lookahead symbols accumulate on src
// must also be copied onto every entry in dest, discovered once while
// walking the LALR(1) closures and then applied to a fixpoint.
type propagation struct {
	src stateItem
	dest []stateItem
}

// genLALR1Lookaheads computes LALR(1) lookahead sets for every item of
// automaton in place: it seeds the initial item with {EOF}, discovers
// spontaneous lookaheads and propagation edges via one bounded LALR(1)
// closure per kernel item, then propagates along those edges to a
// fixpoint. This computes true LALR(1) lookaheads, not
// full canonical LR(1) — lookaheads are merged onto the LR(0) skeleton,
// so states that LR(1) would keep apart are collapsed here.
func genLALR1Lookaheads(automaton *Automaton, prods *ProductionSet, first *firstSet) error {
	nonKernel := map[KernelID]map[ItemID]*Item{}
	itemLookup := func(state *State, id ItemID) *Item {
		for _, it := range state.Items {
			if it.ID == id {
				return it
			}
		}
		if m, ok := nonKernel[state.ID]; ok {
			if it, ok := m[id]; ok {
				return it
			}
		}
		return nil
	}
	ensureNonKernel := func(state *State, item *Item) *Item {
		m, ok := nonKernel[state.ID]
		if !ok {
			m = map[ItemID]*Item{}
			nonKernel[state.ID] = m
		}
		if existing, ok := m[item.ID]; ok {
			return existing
		}
		item.Lookahead = map[symbol.Symbol]struct{}{}
		m[item.ID] = item
		return item
	}

	initState := automaton.States[automaton.InitialState]
	initState.Items[0].Lookahead = map[symbol.Symbol]struct{}{symbol.EOF: {}}

	var props []*propagation
	for _, state := range automaton.States {
		for _, kItem := range state.Items {
			items, err := genLALR1Closure(kItem, prods, first)
			if err != nil {
				return err
			}
			kItem.propagates = true

			var dests []stateItem
			for _, item := range items {
				if item.Reducible {
					prod, ok := prods.findByID(item.Prod)
					if !ok {
						return fmt.Errorf("production not found: %v", item.Prod)
					}
					if prod.IsEmpty() {
						target := ensureNonKernel(state, item)
						for a := range item.Lookahead {
							target.Lookahead[a] = struct{}{}
						}
						dests = append(dests, stateItem{state: state.ID, item: item.ID})
					}
					continue
				}

				nextKID := state.Next[item.DottedSymbol]
				nextProd, ok := prods.findByID(item.Prod)
				if !ok {
					return fmt.Errorf("production not found: %v", item.Prod)
				}
				nextItemTmpl, err := newItem(nextProd, item.Dot+1)
				if err != nil {
					return err
				}

				if item.propagates {
					dests = append(dests, stateItem{state: nextKID, item: nextItemTmpl.ID})
					continue
				}

				nextState := automaton.States[nextKID]
				target := itemLookup(nextState, nextItemTmpl.ID)
				if target == nil {
					return fmt.Errorf("successor item not found: %v", nextItemTmpl.ID)
				}
				if target.Lookahead == nil {
					target.Lookahead = map[symbol.Symbol]struct{}{}
				}
				for a := range item.Lookahead {
					target.Lookahead[a] = struct{}{}
				}
			}
			if len(dests) > 0 {
				props = append(props, &propagation{src: stateItem{state: state.ID, item: kItem.ID}, dest: dests})
			}
		}
	}

	return propagateLookaheads(automaton, itemLookup, props)
}

// genLALR1Closure computes the LALR(1) closure of a single kernel item:
// like genClosure, but each derived item also carries the lookahead it
// inherits — either the FIRST set of what follows the dotted nonterminal
// in the same production, or (when that suffix is nullable) the source
// item's own lookahead via a propagation marker.
func genLALR1Closure(src *Item, prods *ProductionSet, first *firstSet) ([]*Item, error) {
	items := []*Item{src}
	knownWithLA := map[ItemID]map[symbol.Symbol]struct{}{}
	knownPropagated := map[ItemID]struct{}{}

	worklist := arraylist.New()
	worklist.Add(src)

	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		item := v.(*Item)

		if item.DottedSymbol.IsTerminal() || item.DottedSymbol.IsNil() {
			continue
		}

		prod, ok := prods.findByID(item.Prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.Prod)
		}

		fst, err := first.find(prod, item.Dot+1)
		if err != nil {
			return nil, err
		}

		ps, _ := prods.findByLHS(item.DottedSymbol)
		for _, p := range ps {
			for _, v := range fst.symbols.Values() {
				a := v.(symbol.Symbol)
				ni, err := newItem(p, 0)
				if err != nil {
					return nil, err
				}
				if seen, ok := knownWithLA[ni.ID]; ok {
					if _, ok := seen[a]; ok {
						continue
					}
				} else {
					knownWithLA[ni.ID] = map[symbol.Symbol]struct{}{}
				}
				knownWithLA[ni.ID][a] = struct{}{}
				ni.Lookahead = map[symbol.Symbol]struct{}{a: {}}
				items = append(items, ni)
				worklist.Add(ni)
			}

			if fst.empty {
				ni, err := newItem(p, 0)
				if err != nil {
					return nil, err
				}
				if _, ok := knownPropagated[ni.ID]; ok {
					continue
				}
				knownPropagated[ni.ID] = struct{}{}
				ni.propagates = true
				ni.Lookahead = map[symbol.Symbol]struct{}{}
				for a := range item.Lookahead {
					ni.Lookahead[a] = struct{}{}
				}
				items = append(items, ni)
				worklist.Add(ni)
			}
		}
	}

	return items, nil
}

func propagateLookaheads(automaton *Automaton, lookup func(*State, ItemID) *Item, props []*propagation) error {
	bySrc := map[stateItem][]*propagation{}
	worklist := arraylist.New()
	for _, prop := range props {
		bySrc[prop.src] = append(bySrc[prop.src], prop)
		worklist.Add(prop)
	}
	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		prop := v.(*propagation)
		srcState, ok := automaton.States[prop.src.state]
		if !ok {
			return fmt.Errorf("source state not found: %v", prop.src.state)
		}
		srcItem := lookup(srcState, prop.src.item)
		if srcItem == nil {
			return fmt.Errorf("source item not found: %v", prop.src.item)
		}

		for _, dest := range prop.dest {
			destState, ok := automaton.States[dest.state]
			if !ok {
				return fmt.Errorf("destination state not found: %v", dest.state)
			}
			destItem := lookup(destState, dest.item)
			if destItem == nil {
				return fmt.Errorf("destination item not found: %v", dest.item)
			}
			if destItem.Lookahead == nil {
				destItem.Lookahead = map[symbol.Symbol]struct{}{}
			}
			changed := false
			for a := range srcItem.Lookahead {
				if _, ok := destItem.Lookahead[a]; ok {
					continue
				}
				destItem.Lookahead[a] = struct{}{}
				changed = true
			}
			// Only the edges leaving an item whose set grew need another pass.
			if changed {
				for _, next := range bySrc[dest] {
					worklist.Add(next)
				}
			}
		}
	}
	return nil
}
