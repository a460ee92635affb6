package grammar

import (
	"fmt"
	"sort"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/dsisnero/pegasus/symbol"
)

// StateNum is the dense state index used throughout the parsing table.
type StateNum int

const StateNumInitial = StateNum(0)

func (n StateNum) Int() int { return int(n) }

// State is one node of the canonical LR(0) collection: its kernel, the
// GOTO map to its successors keyed by the transition symbol, and the set
// of productions reducible in this state.
type State struct {
	*Kernel
	Num StateNum
	Next map[symbol.Symbol]KernelID
	Reducible map[ProductionID]struct{}
}

// Automaton is the canonical collection of LR(0) states.
type Automaton struct {
	InitialState KernelID
	States map[KernelID]*State
}

// genLR0Automaton builds the canonical LR(0) collection from CLOSURE and
// GOTO starting at the augmented start production, exploring new kernels
// with a worklist until a fixpoint.
//
// The exploration worklist is a gods arraylist rather than a bare slice:
// the queue only ever grows at the tail and drains from the head, which
// is exactly the shape arraylist.Add/Get gives without reslicing.
func genLR0Automaton(prods *ProductionSet, startSym symbol.Symbol) (*Automaton, error) {
	if !startSym.IsStart() {
		return nil, fmt.Errorf("passed symbol is not a start symbol")
	}

	automaton := &Automaton{States: map[KernelID]*State{}}
	knownKernels := map[KernelID]struct{}{}

	startProds, _ := prods.findByLHS(startSym)
	if len(startProds) == 0 {
		return nil, fmt.Errorf("no production found for the start symbol")
	}
	initialItem, err := newItem(startProds[0], 0)
	if err != nil {
		return nil, err
	}
	initialKernel, err := newKernel([]*Item{initialItem})
	if err != nil {
		return nil, err
	}
	automaton.InitialState = initialKernel.ID
	knownKernels[initialKernel.ID] = struct{}{}

	worklist := arraylist.New()
	worklist.Add(initialKernel)

	currentState := StateNumInitial
	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		k := v.(*Kernel)

		state, neighbours, err := genStateAndNeighbourKernels(k, prods)
		if err != nil {
			return nil, err
		}
		state.Num = currentState
		currentState++
		automaton.States[state.ID] = state

		for _, nk := range neighbours {
			if _, known := knownKernels[nk.ID]; known {
				continue
			}
			knownKernels[nk.ID] = struct{}{}
			worklist.Add(nk)
		}
	}

	return automaton, nil
}

func genStateAndNeighbourKernels(k *Kernel, prods *ProductionSet) (*State, []*Kernel, error) {
	items, err := genClosure(k, prods)
	if err != nil {
		return nil, nil, err
	}
	neighbours, err := genNeighbourKernels(items, prods)
	if err != nil {
		return nil, nil, err
	}

	next := map[symbol.Symbol]KernelID{}
	var kernels []*Kernel
	for _, n := range neighbours {
		next[n.symbol] = n.kernel.ID
		kernels = append(kernels, n.kernel)
	}

	reducible := map[ProductionID]struct{}{}
	for _, item := range items {
		if item.Reducible {
			reducible[item.Prod] = struct{}{}
		}
	}

	return &State{Kernel: k, Next: next, Reducible: reducible}, kernels, nil
}

// genClosure computes CLOSURE(k): repeatedly add, for every item with the
// dot before a nonterminal A, a zero-dot item for every production of A,
// until nothing new appears.
func genClosure(k *Kernel, prods *ProductionSet) ([]*Item, error) {
	items := append([]*Item{}, k.Items...)
	known := map[ItemID]struct{}{}
	for _, item := range items {
		known[item.ID] = struct{}{}
	}

	worklist := arraylist.New()
	for _, item := range k.Items {
		worklist.Add(item)
	}

	for !worklist.Empty() {
		v, _ := worklist.Get(0)
		worklist.Remove(0)
		item := v.(*Item)

		if item.DottedSymbol.IsTerminal() || item.DottedSymbol.IsNil() {
			continue
		}
		ps, _ := prods.findByLHS(item.DottedSymbol)
		for _, prod := range ps {
			ni, err := newItem(prod, 0)
			if err != nil {
				return nil, err
			}
			if _, exists := known[ni.ID]; exists {
				continue
			}
			known[ni.ID] = struct{}{}
			items = append(items, ni)
			worklist.Add(ni)
		}
	}

	return items, nil
}

type neighbourKernel struct {
	symbol symbol.Symbol
	kernel *Kernel
}

// genNeighbourKernels computes GOTO(items, X) for every symbol X that
// appears as a dotted symbol in items, producing the kernel of the
// successor state reached by shifting X.
func genNeighbourKernels(items []*Item, prods *ProductionSet) ([]*neighbourKernel, error) {
	byNext := map[symbol.Symbol][]*Item{}
	for _, item := range items {
		if item.DottedSymbol.IsNil() {
			continue
		}
		prod, ok := prods.findByID(item.Prod)
		if !ok {
			return nil, fmt.Errorf("production not found: %v", item.Prod)
		}
		ni, err := newItem(prod, item.Dot+1)
		if err != nil {
			return nil, err
		}
		byNext[item.DottedSymbol] = append(byNext[item.DottedSymbol], ni)
	}

	var syms []symbol.Symbol
	for s := range byNext {
		syms = append(syms, s)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	var out []*neighbourKernel
	for _, s := range syms {
		k, err := newKernel(byNext[s])
		if err != nil {
			return nil, err
		}
		out = append(out, &neighbourKernel{symbol: s, kernel: k})
	}
	return out, nil
}
