// Package nfa implements the Thompson construction: each token's
// regex AST is compiled into a fragment sharing one NFA, and each
// fragment's accepting state is tagged with that token's id.
package nfa

import "github.com/dsisnero/pegasus/regex"

// StateID indexes NFA.States. State 0 is always the global start.
type StateID int

// TokenID identifies which token an accepting state belongs to. 0 means
// "not accepting".
type TokenID int

// Trans is a non-epsilon transition: if the current input byte falls in
// any of Ranges, move to To.
type Trans struct {
	Ranges []regex.ByteRange
	To StateID
}

// State is one NFA state: zero or more byte-class transitions plus zero or
// more epsilon transitions, and an optional final tag.
type State struct {
	Trans []Trans
	Epsilons []StateID
	Final TokenID
}

// NFA is a set of states with a single designated start, shared across all
// compiled tokens.
type NFA struct {
	States []*State
	Start StateID
}

func newNFA() *NFA {
	n := &NFA{}
	n.Start = n.addState()
	return n
}

func (n *NFA) addState() StateID {
	n.States = append(n.States, &State{})
	return StateID(len(n.States) - 1)
}

func (n *NFA) state(id StateID) *State { return n.States[id] }

func (n *NFA) addEpsilon(from, to StateID) {
	n.state(from).Epsilons = append(n.state(from).Epsilons, to)
}

func (n *NFA) addTrans(from StateID, ranges []regex.ByteRange, to StateID) {
	n.state(from).Trans = append(n.state(from).Trans, Trans{Ranges: ranges, To: to})
}

// Entry pairs a token's id with its parsed pattern. Entries must be
// given in declared order: when two tokens' patterns both match the
// same input, the DFA built from this NFA resolves the tie by lowest
// TokenID, so declared earlier wins.
type Entry struct {
	TokenID TokenID
	Pattern *regex.Node
}

// Build compiles entries into a single NFA, threading each pattern's
// fragment from the shared start state with an epsilon edge, and tagging
// each fragment's accept state with its token id.
func Build(entries []Entry) *NFA {
	n := newNFA()
	for _, e := range entries {
		start, accept := compile(n, e.Pattern)
		n.addEpsilon(n.Start, start)
		n.state(accept).Final = e.TokenID
	}
	return n
}

// compile translates one AST node into a fragment (start, accept) per
// the standard Thompson rules: literal/class become two states joined
// by a byte-class transition; concatenation threads the first
// fragment's accept into the second's start via an epsilon edge;
// alternation introduces a new start/accept pair with epsilons to and
// from both branches; `*` loops the old accept back to the old start
// and adds a bypass; `+` loops without the bypass; `?` bypasses
// without the loop.
func compile(n *NFA, node *regex.Node) (start, accept StateID) {
	switch node.Kind {
	case regex.Literal:
		s, a := n.addState(), n.addState()
		n.addTrans(s, []regex.ByteRange{{From: node.Byte, To: node.Byte}}, a)
		return s, a
	case regex.Class:
		s, a := n.addState(), n.addState()
		n.addTrans(s, classRanges(node), a)
		return s, a
	case regex.Concat:
		s1, a1 := compile(n, node.Left)
		s2, a2 := compile(n, node.Right)
		n.addEpsilon(a1, s2)
		return s1, a2
	case regex.Alt:
		s1, a1 := compile(n, node.Left)
		s2, a2 := compile(n, node.Right)
		s, a := n.addState(), n.addState()
		n.addEpsilon(s, s1)
		n.addEpsilon(s, s2)
		n.addEpsilon(a1, a)
		n.addEpsilon(a2, a)
		return s, a
	case regex.Star:
		s1, a1 := compile(n, node.Left)
		s, a := n.addState(), n.addState()
		n.addEpsilon(s, s1)
		n.addEpsilon(s, a)
		n.addEpsilon(a1, s1)
		n.addEpsilon(a1, a)
		return s, a
	case regex.Plus:
		s1, a1 := compile(n, node.Left)
		n.addEpsilon(a1, s1)
		return s1, a1
	case regex.Opt:
		s1, a1 := compile(n, node.Left)
		s, a := n.addState(), n.addState()
		n.addEpsilon(s, s1)
		n.addEpsilon(s, a)
		n.addEpsilon(a1, a)
		return s, a
	default:
		panic("nfa: unknown node kind")
	}
}

// classRanges negates a Class node's ranges into their complement over
// the 256-byte alphabet when Negate is set, since the NFA's Trans type
// only expresses "in one of these ranges".
func classRanges(node *regex.Node) []regex.ByteRange {
	if !node.Negate {
		out := make([]regex.ByteRange, len(node.Ranges))
		copy(out, node.Ranges)
		return out
	}
	var covered [256]bool
	for _, r := range node.Ranges {
		for b := int(r.From); b <= int(r.To); b++ {
			covered[b] = true
		}
	}
	var out []regex.ByteRange
	start := -1
	for b := 0; b < 256; b++ {
		if !covered[b] {
			if start == -1 {
				start = b
			}
			continue
		}
		if start != -1 {
			out = append(out, regex.ByteRange{From: byte(start), To: byte(b - 1)})
			start = -1
		}
	}
	if start != -1 {
		out = append(out, regex.ByteRange{From: byte(start), To: 255})
	}
	return out
}

// EpsilonClosure returns the set of states reachable from any state in ids
// via zero or more epsilon transitions, including ids themselves.
func (n *NFA) EpsilonClosure(ids []StateID) []StateID {
	seen := map[StateID]bool{}
	var stack []StateID
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			stack = append(stack, id)
		}
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, eps := range n.state(id).Epsilons {
			if !seen[eps] {
				seen[eps] = true
				stack = append(stack, eps)
			}
		}
	}
	out := make([]StateID, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	return out
}

// Move returns the set of states reachable from any state in ids by
// consuming byte b via a single non-epsilon transition.
func (n *NFA) Move(ids []StateID, b byte) []StateID {
	seen := map[StateID]bool{}
	var out []StateID
	for _, id := range ids {
		for _, tr := range n.state(id).Trans {
			for _, r := range tr.Ranges {
				if b >= r.From && b <= r.To {
					if !seen[tr.To] {
						seen[tr.To] = true
						out = append(out, tr.To)
					}
					break
				}
			}
		}
	}
	return out
}
