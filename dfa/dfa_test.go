package dfa

import (
	"testing"

	"github.com/dsisnero/pegasus/nfa"
	"github.com/dsisnero/pegasus/regex"
)

func build(t *testing.T, patterns map[int]string) *DFA {
	var entries []nfa.Entry
	for id, pat := range patterns {
		n, err := regex.Parse(pat)
		if err != nil {
			t.Fatalf("%v: %v", pat, err)
		}
		entries = append(entries, nfa.Entry{TokenID: nfa.TokenID(id), Pattern: n})
	}
	d, err := Build(nfa.Build(entries), 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return d
}

func TestRejectSinkInvariant(t *testing.T) {
	d := build(t, map[int]string{1: "a"})
	for b := 0; b < 256; b++ {
		if d.StateTable[Reject][b] != Reject {
			t.Fatalf("reject sink byte %v does not transition to itself", b)
		}
	}
	if d.FinalTable[Reject] != 0 {
		t.Fatalf("reject sink must not be final")
	}
}

func TestLongestMatch(t *testing.T) {
	d := build(t, map[int]string{1: "[0-9]+", 2: "\\+"})
	tok, end, ok := d.Run([]byte("12+3"), 0)
	if !ok || tok != 1 || end != 2 {
		t.Fatalf("got tok=%v end=%v ok=%v", tok, end, ok)
	}
}

func TestLowestTokenIDTieBreak(t *testing.T) {
	// "if" declared before "ident": input "if" must lex as "if", but
	// "iff" must lex as "ident" since "if" stops matching at length 2.
	d := build(t, map[int]string{1: "if", 2: "[a-z]+"})

	tok, end, ok := d.Run([]byte("if"), 0)
	if !ok || tok != 1 || end != 2 {
		t.Fatalf("'if': got tok=%v end=%v ok=%v", tok, end, ok)
	}

	tok, end, ok = d.Run([]byte("iff"), 0)
	if !ok || tok != 2 || end != 3 {
		t.Fatalf("'iff': got tok=%v end=%v ok=%v", tok, end, ok)
	}
}

func TestNoMatch(t *testing.T) {
	d := build(t, map[int]string{1: "a"})
	_, _, ok := d.Run([]byte("z"), 0)
	if ok {
		t.Fatalf("expected no match")
	}
}

func TestStateCeiling(t *testing.T) {
	var entries []nfa.Entry
	n, err := regex.Parse("[a-z][a-z][a-z][a-z]")
	if err != nil {
		t.Fatal(err)
	}
	entries = append(entries, nfa.Entry{TokenID: 1, Pattern: n})
	_, err = Build(nfa.Build(entries), 2)
	if err == nil {
		t.Fatalf("expected a TooLargeError")
	}
	if _, ok := err.(*TooLargeError); !ok {
		t.Fatalf("got %T, want *TooLargeError", err)
	}
}
