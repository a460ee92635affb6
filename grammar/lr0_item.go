package grammar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/dsisnero/pegasus/symbol"
)

// ItemID identifies a dotted item by the hash of its production and dot
// position (grounded on grammar/lr0_item.go lr0ItemID).
type ItemID [32]byte

// Item is a dotted LR(0) item: a production with a dot at some position
// between 0 and len(RHS), plus (once LALR(1) lookahead has been
// computed) the set of terminals that may legally follow a reduction
// by this item.
type Item struct {
	ID ItemID
	Prod ProductionID
	Dot int
	DottedSymbol symbol.Symbol
	Initial bool
	Reducible bool
	Kernel bool

	// Lookahead is populated by genLALR1Lookaheads; nil beforehand.
	Lookahead map[symbol.Symbol]struct{}
	propagates bool
}

func newItem(prod *Production, dot int) (*Item, error) {
	if prod == nil {
		return nil, fmt.Errorf("production must be non-nil")
	}
	if dot < 0 || dot > prod.RHSLen {
		return nil, fmt.Errorf("dot must be between 0 and %v", prod.RHSLen)
	}

	var b []byte
	b = append(b, prod.ID[:]...)
	bDot := make([]byte, 8)
	binary.LittleEndian.PutUint64(bDot, uint64(dot))
	b = append(b, bDot...)
	id := ItemID(sha256.Sum256(b))

	dotted := symbol.Nil
	if dot < prod.RHSLen {
		dotted = prod.RHS[dot]
	}

	initial := prod.LHS.IsStart() && dot == 0
	reducible := dot == prod.RHSLen

	return &Item{
		ID: id,
		Prod: prod.ID,
		Dot: dot,
		DottedSymbol: dotted,
		Initial: initial,
		Reducible: reducible,
		Kernel: initial || dot > 0,
	}, nil
}

// KernelID identifies a kernel by the hash of its sorted item ids.
type KernelID [32]byte

// Kernel is the set of items that determine a state's identity: the
// initial item, or every item with a non-zero dot. States are interned
// by kernel identity, not by their full closure.
type Kernel struct {
	ID KernelID
	Items []*Item
}

func newKernel(items []*Item) (*Kernel, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("a kernel needs at least one item")
	}
	m := map[ItemID]*Item{}
	for _, item := range items {
		if !item.Kernel {
			return nil, fmt.Errorf("not a kernel item: %v", item.ID)
		}
		m[item.ID] = item
	}
	sorted := make([]*Item, 0, len(m))
	for _, item := range m {
		sorted = append(sorted, item)
	}
	sort.Slice(sorted, func(i, j int) bool {
		return binary.LittleEndian.Uint64(sorted[i].ID[:8]) < binary.LittleEndian.Uint64(sorted[j].ID[:8])
	})

	var b []byte
	for _, item := range sorted {
		b = append(b, item.ID[:]...)
	}
	return &Kernel{ID: sha256.Sum256(b), Items: sorted}, nil
}
