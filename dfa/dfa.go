// Package dfa converts an NFA into the dense, byte-indexed transition
// table a table-driven lexer runs directly, interning states by
// epsilon-closure subset identity.
package dfa

import (
	"sort"
	"strconv"
	"strings"

	"github.com/dsisnero/pegasus/nfa"
)

// State indexes the dense tables. State 0 is always the reject sink; state
// 1 is always the start state.
type State int

const (
	Reject State = 0
	Start State = 1
)

// DFA holds the lexer tables:
//
//	StateTable[s][b] -> next state, or Reject
//	FinalTable[s] -> 0, or the terminal id recognized on entering s
type DFA struct {
	StateTable [][256]State
	FinalTable []int
}

// subsetKey canonicalizes a set of NFA states into a sortable, hashable
// string so that subset construction can intern states by identity.
func subsetKey(ids []nfa.StateID) string {
	sorted := make([]nfa.StateID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	var b strings.Builder
	for i, id := range sorted {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(int(id)))
	}
	return b.String()
}

// Build runs subset construction over n, honoring the configured state
// ceiling: beyond it, Build refuses with TooLargeError. maxStates <= 0
// means no ceiling.
func Build(n *nfa.NFA, maxStates int) (*DFA, error) {
	startSet := n.EpsilonClosure([]nfa.StateID{n.Start})
	startKey := subsetKey(startSet)

	type pending struct {
		key string
		set []nfa.StateID
	}

	keyToState := map[string]State{startKey: Start}
	sets := map[State][]nfa.StateID{Start: startSet}
	worklist := []pending{{key: startKey, set: startSet}}
	nextState := Start + 1

	rows := map[State][256]State{}

	for len(worklist) > 0 {
		cur := worklist[0]
		worklist = worklist[1:]
		curState := keyToState[cur.key]

		var row [256]State
		for b := 0; b < 256; b++ {
			moved := n.Move(cur.set, byte(b))
			if len(moved) == 0 {
				row[b] = Reject
				continue
			}
			closed := n.EpsilonClosure(moved)
			key := subsetKey(closed)
			s, known := keyToState[key]
			if !known {
				if maxStates > 0 && int(nextState) >= maxStates {
					return nil, &TooLargeError{Limit: maxStates}
				}
				s = nextState
				nextState++
				keyToState[key] = s
				sets[s] = closed
				worklist = append(worklist, pending{key: key, set: closed})
			}
			row[b] = s
		}
		rows[curState] = row
	}

	stateCount := int(nextState)
	d := &DFA{
		StateTable: make([][256]State, stateCount),
		FinalTable: make([]int, stateCount),
	}
	// State 0, the reject sink, transitions to itself on every byte and is
	// never final.
	for b := 0; b < 256; b++ {
		d.StateTable[Reject][b] = Reject
	}
	for s, row := range rows {
		d.StateTable[s] = row
	}
	for s, set := range sets {
		d.FinalTable[s] = finalTag(n, set)
	}
	return d, nil
}

// finalTag applies the smallest-non-zero-tag tie-break among the
// set's NFA final states.
func finalTag(n *nfa.NFA, set []nfa.StateID) int {
	tag := 0
	for _, id := range set {
		f := int(n.States[id].Final)
		if f != 0 && (tag == 0 || f < tag) {
			tag = f
		}
	}
	return tag
}

// TooLargeError is returned when subset construction would exceed the
// configured DFA state ceiling.
type TooLargeError struct {
	Limit int
}

func (e *TooLargeError) Error() string {
	return "lexer too large: exceeded " + strconv.Itoa(e.Limit) + " DFA states"
}

// Run applies the longest-match lexer protocol starting at index in
// src: run the DFA from the start state, remembering the last
// (final, index) pair seen, and report it (or ok=false if none was
// ever seen before rejection).
func (d *DFA) Run(src []byte, index int) (tokenID int, end int, ok bool) {
	state := Start
	lastTok := 0
	lastEnd := index
	i := index
	for {
		if f := d.FinalTable[state]; f != 0 {
			lastTok = f
			lastEnd = i
		}
		if i >= len(src) {
			break
		}
		next := d.StateTable[state][src[i]]
		if next == Reject {
			break
		}
		state = next
		i++
	}
	if lastTok == 0 {
		return 0, index, false
	}
	return lastTok, lastEnd, true
}
