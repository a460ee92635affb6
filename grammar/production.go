// This file and its siblings implement the production set, the LR(0)
// canonical collection, LALR(1) lookahead propagation, and the
// action/goto table assembler with conflict detection: sha256-identified
// productions and items, kernel-based state interning, a worklist-driven
// fixpoint for lookahead propagation. There is no SLR construction,
// precedence/associativity conflict resolution, or error recovery —
// the grammar model has no room for those, so conflicts are always
// fatal.
package grammar

import (
	"crypto/sha256"
	"fmt"

	"github.com/dsisnero/pegasus/symbol"
)

// ProductionID identifies a production by the hash of its LHS and RHS
// symbols, so that two rules written identically collapse to one
// production regardless of which alternative introduced them first.
type ProductionID [32]byte

// ProductionNum is the stable reduction id: productions are indexed
// 0..M-1 in a stable order, and this index is the reduction id. 0 is
// the augmented start production; user productions begin at 1.
type ProductionNum uint16

const (
	ProductionNumStart = ProductionNum(0)
	ProductionNumMin = ProductionNum(1)
)

func (n ProductionNum) Int() int { return int(n) }

// Production is one grammar rule alternative: LHS → RHS.
type Production struct {
	ID ProductionID
	Num ProductionNum
	LHS symbol.Symbol
	RHS []symbol.Symbol
	RHSLen int
}

func genProductionID(lhs symbol.Symbol, rhs []symbol.Symbol) ProductionID {
	var seq []byte
	seq = append(seq, byte(lhs), byte(lhs>>8))
	for _, s := range rhs {
		seq = append(seq, byte(s), byte(s>>8))
	}
	return ProductionID(sha256.Sum256(seq))
}

func newProduction(lhs symbol.Symbol, rhs []symbol.Symbol) (*Production, error) {
	if lhs.IsNil() {
		return nil, fmt.Errorf("LHS must be a non-nil symbol; LHS: %v, RHS: %v", lhs, rhs)
	}
	for _, s := range rhs {
		if s.IsNil() {
			return nil, fmt.Errorf("a symbol of RHS must be non-nil; LHS: %v, RHS: %v", lhs, rhs)
		}
	}
	return &Production{
		ID: genProductionID(lhs, rhs),
		LHS: lhs,
		RHS: rhs,
		RHSLen: len(rhs),
	}, nil
}

func (p *Production) IsEmpty() bool { return p.RHSLen == 0 }

// ProductionSet interns productions by id and indexes them by LHS,
// assigning each a stable ProductionNum in the order it is appended:
// declared earlier wins, reused here for reduce/reduce tie-breaking.
type ProductionSet struct {
	lhs2Prods map[symbol.Symbol][]*Production
	id2Prod map[ProductionID]*Production
	num ProductionNum
}

func newProductionSet() *ProductionSet {
	return &ProductionSet{
		lhs2Prods: map[symbol.Symbol][]*Production{},
		id2Prod: map[ProductionID]*Production{},
		num: ProductionNumMin,
	}
}

// append registers prod, assigning it the next ProductionNum unless it
// is the augmented start production (which always gets
// ProductionNumStart) or a duplicate of an already-registered rule.
// Returns false for a duplicate.
func (ps *ProductionSet) append(prod *Production) bool {
	if _, ok := ps.id2Prod[prod.ID]; ok {
		return false
	}
	if prod.LHS.IsStart() {
		prod.Num = ProductionNumStart
	} else {
		prod.Num = ps.num
		ps.num++
	}
	ps.lhs2Prods[prod.LHS] = append(ps.lhs2Prods[prod.LHS], prod)
	ps.id2Prod[prod.ID] = prod
	return true
}

func (ps *ProductionSet) findByID(id ProductionID) (*Production, bool) {
	prod, ok := ps.id2Prod[id]
	return prod, ok
}

func (ps *ProductionSet) findByLHS(lhs symbol.Symbol) ([]*Production, bool) {
	if lhs.IsNil() {
		return nil, false
	}
	prods, ok := ps.lhs2Prods[lhs]
	return prods, ok
}

func (ps *ProductionSet) all() map[ProductionID]*Production {
	return ps.id2Prod
}

func (ps *ProductionSet) count() int {
	return len(ps.id2Prod)
}

// All and Count expose the production set to callers outside the
// package (the top-level Compile orchestration that assembles
// langdata.LanguageData's Items table).
func (ps *ProductionSet) All() map[ProductionID]*Production { return ps.all() }
func (ps *ProductionSet) Count() int { return ps.count() }
