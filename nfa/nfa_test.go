package nfa

import (
	"sort"
	"testing"

	"github.com/dsisnero/pegasus/regex"
)

func mustParse(t *testing.T, pattern string) *regex.Node {
	n, err := regex.Parse(pattern)
	if err != nil {
		t.Fatalf("%v: %v", pattern, err)
	}
	return n
}

// run simulates the NFA directly (no DFA involved) to exercise Build,
// EpsilonClosure and Move; it mirrors the longest-match protocol by
// remembering the last final tag visited, breaking ties among
// simultaneously-final states at one position by lowest token id.
func run(n *NFA, input string) (accepted TokenID, matchLen int) {
	states := n.EpsilonClosure([]StateID{n.Start})
	lastFinal := TokenID(0)
	lastLen := -1
	for i := 0; i <= len(input); i++ {
		localMin := TokenID(0)
		for _, s := range states {
			if f := n.States[s].Final; f != 0 && (localMin == 0 || f < localMin) {
				localMin = f
			}
		}
		if localMin != 0 {
			lastFinal = localMin
			lastLen = i
		}
		if i == len(input) {
			break
		}
		states = n.EpsilonClosure(n.Move(states, input[i]))
		if len(states) == 0 {
			break
		}
	}
	return lastFinal, lastLen
}

func TestBuildSingleLiteral(t *testing.T) {
	n := Build([]Entry{{TokenID: 1, Pattern: mustParse(t, "ab")}})
	tok, l := run(n, "ab")
	if tok != 1 || l != 2 {
		t.Fatalf("got tok=%v len=%v", tok, l)
	}
}

func TestBuildAltAndStar(t *testing.T) {
	n := Build([]Entry{{TokenID: 1, Pattern: mustParse(t, "(a|b)*c")}})
	tok, l := run(n, "ababc")
	if tok != 1 || l != 5 {
		t.Fatalf("got tok=%v len=%v", tok, l)
	}
}

func TestLowestTokenIDWins(t *testing.T) {
	// "if" and "[a-z]+" both match "if"; token 1 must win because it has
	// the lower id.
	n := Build([]Entry{
		{TokenID: 1, Pattern: mustParse(t, "if")},
		{TokenID: 2, Pattern: mustParse(t, "[a-z]+")},
	})
	tok, l := run(n, "if")
	if tok != 1 || l != 2 {
		t.Fatalf("got tok=%v len=%v, want token 1 (lowest id)", tok, l)
	}
}

func TestNegatedClass(t *testing.T) {
	n := Build([]Entry{{TokenID: 1, Pattern: mustParse(t, "[^a-z]")}})
	tok, l := run(n, "A")
	if tok != 1 || l != 1 {
		t.Fatalf("got tok=%v len=%v", tok, l)
	}
	tok, l = run(n, "a")
	if tok != 0 {
		t.Fatalf("negated class unexpectedly matched 'a': tok=%v len=%v", tok, l)
	}
}

func TestEpsilonClosureDeterministicSet(t *testing.T) {
	n := Build([]Entry{{TokenID: 1, Pattern: mustParse(t, "a?b")}})
	closure := n.EpsilonClosure([]StateID{n.Start})
	sort.Slice(closure, func(i, j int) bool { return closure[i] < closure[j] })
	if len(closure) == 0 {
		t.Fatalf("expected a non-empty closure from the start state")
	}
	again := n.EpsilonClosure([]StateID{n.Start})
	sort.Slice(again, func(i, j int) bool { return again[i] < again[j] })
	if len(again) != len(closure) {
		t.Fatalf("closure changed between calls: %v vs %v", closure, again)
	}
	for i := range closure {
		if closure[i] != again[i] {
			t.Fatalf("closure changed between calls: %v vs %v", closure, again)
		}
	}
}
