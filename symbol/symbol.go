// Package symbol defines the tagged-union identity shared by terminals and
// nonterminals throughout the compiler: a single packed integer that keeps
// the two namespaces disjoint while letting them share one column space in
// the parser tables.
package symbol

import (
	"fmt"
	"sort"
)

// Symbol packs a kind bit, a start-or-EOF bit, and a 14-bit sequence number
// into a single uint16:
//
//	bit 15 kind: 0 = nonterminal, 1 = terminal
//	bit 14 start/EOF: 1 = the augmented start nonterminal or the EOF terminal
//	bits 0-13 number: declaration-order sequence number
type Symbol uint16

type Num uint16

func (n Num) Int() int { return int(n) }

const (
	maskKind = uint16(0x8000)
	maskSubKind = uint16(0x4000)
	maskNum = uint16(0x3fff)

	numStart = uint16(0x0000)
	numEOF = uint16(0x0000)

	// Nil is the zero value: neither a terminal nor a nonterminal.
	Nil = Symbol(0)

	// Start is the augmented start nonterminal introduced by start
	// augmentation. It always carries number 0 — the start nonterminal
	// is id 0 in the namespace a runtime sees, and every other
	// nonterminal is numbered from 1.
	Start = Symbol(maskSubKind | numStart)

	// EOF is a sentinel used only while computing lookaheads (it seeds
	// the augmented item's lookahead set and flows through FIRST/follow
	// closures); it never gets a terminal number and is never present
	// in a Table's terminal namespace. A compiled language's end-of-input
	// column is a table position, not a registered terminal — see
	// langdata.LanguageData.
	EOF = Symbol(maskKind | maskSubKind | numEOF)

	// NonTerminalNumMin is the first sequence number available to a
	// user-declared nonterminal; 0 is reserved for Start.
	NonTerminalNumMin = Num(1)

	// TerminalNumMin is the first sequence number available to a
	// user-declared terminal; 0 is reserved and never assigned; EOF is
	// not a terminal-namespace member at all.
	TerminalNumMin = Num(1)
	numMax = Num(0x3fff)
)

func newSymbol(terminal, start bool, num Num) (Symbol, error) {
	if num > numMax {
		return Nil, fmt.Errorf("symbol number %v exceeds the limit %v", num, numMax)
	}
	if terminal && start {
		return Nil, fmt.Errorf("a start symbol must be a nonterminal")
	}
	var s uint16
	if terminal {
		s |= maskKind
	}
	if start {
		s |= maskSubKind
	}
	return Symbol(s | uint16(num)), nil
}

// Num returns the declaration-order sequence number of s.
func (s Symbol) Num() Num {
	return Num(uint16(s) & maskNum)
}

// IsNil reports whether s is the zero value. Num() == 0 is not a
// sufficient test any more: the start nonterminal legitimately carries
// number 0, so nilness is decided by the raw value instead.
func (s Symbol) IsNil() bool { return s == Nil }

// IsStart reports whether s is the augmented start nonterminal.
func (s Symbol) IsStart() bool {
	return !s.IsNil() && !s.IsTerminal() && uint16(s)&maskSubKind != 0
}

func (s Symbol) isEOF() bool {
	return !s.IsNil() && s.IsTerminal() && uint16(s)&maskSubKind != 0
}

// IsTerminal reports whether s belongs to the terminal namespace.
func (s Symbol) IsTerminal() bool {
	return !s.IsNil() && uint16(s)&maskKind != 0
}

func (s Symbol) IsNonTerminal() bool {
	return !s.IsNil() && !s.IsTerminal()
}

func (s Symbol) String() string {
	switch {
	case s.IsNil():
		return "nil"
	case s.IsStart():
		return fmt.Sprintf("s%v", s.Num())
	case s.isEOF():
		return "e1"
	case s.IsTerminal():
		return fmt.Sprintf("t%v", s.Num())
	default:
		return fmt.Sprintf("n%v", s.Num())
	}
}

// Table interns symbol names to Symbol values and back. The zero value is
// not usable; construct with NewTable.
type Table struct {
	text2Sym map[string]Symbol
	sym2Text map[Symbol]string
	termText []string
	ntText []string
	ntNum Num
	termNum Num
}

func NewTable() *Table {
	return &Table{
		text2Sym: map[string]Symbol{},
		sym2Text: map[Symbol]string{},
		termText: []string{""},
		ntText: []string{""},
		ntNum: NonTerminalNumMin,
		termNum: TerminalNumMin,
	}
}

// RegisterStart assigns the reserved Start symbol to text. It must be
// called exactly once, before any other nonterminal referring to the same
// name is registered.
func (t *Table) RegisterStart(text string) Symbol {
	t.text2Sym[text] = Start
	t.sym2Text[Start] = text
	t.ntText[Start.Num().Int()] = text
	return Start
}

func (t *Table) RegisterNonTerminal(text string) (Symbol, error) {
	if s, ok := t.text2Sym[text]; ok {
		return s, nil
	}
	s, err := newSymbol(false, false, t.ntNum)
	if err != nil {
		return Nil, err
	}
	t.ntNum++
	t.text2Sym[text] = s
	t.sym2Text[s] = text
	t.ntText = append(t.ntText, text)
	return s, nil
}

func (t *Table) RegisterTerminal(text string) (Symbol, error) {
	if s, ok := t.text2Sym[text]; ok {
		return s, nil
	}
	s, err := newSymbol(true, false, t.termNum)
	if err != nil {
		return Nil, err
	}
	t.termNum++
	t.text2Sym[text] = s
	t.sym2Text[s] = text
	t.termText = append(t.termText, text)
	return s, nil
}

func (t *Table) ToSymbol(text string) (Symbol, bool) {
	s, ok := t.text2Sym[text]
	return s, ok
}

func (t *Table) ToText(s Symbol) (string, bool) {
	text, ok := t.sym2Text[s]
	return text, ok
}

// MaxTerminal returns the highest terminal sequence number assigned so
// far; the parsing table has one more terminal column than this, since
// column 0 is unused.
func (t *Table) MaxTerminal() Num {
	return t.termNum - 1
}

// MaxNonTerminal returns the highest nonterminal sequence number
// assigned so far; the parsing table has one more goto column than
// this, since column 0 belongs to the start nonterminal.
func (t *Table) MaxNonTerminal() Num {
	return t.ntNum - 1
}

func (t *Table) TerminalTexts() []string {
	out := make([]string, len(t.termText))
	copy(out, t.termText)
	return out
}

func (t *Table) NonTerminalTexts() []string {
	out := make([]string, len(t.ntText))
	copy(out, t.ntText)
	return out
}

func (t *Table) TerminalSymbols() []Symbol {
	var syms []Symbol
	for s := range t.sym2Text {
		if s.IsTerminal() && !s.IsNil() {
			syms = append(syms, s)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// NonTerminalSymbols returns every registered nonterminal symbol
// (including the augmented start symbol, once RegisterStart has been
// called), sorted by declaration order.
func (t *Table) NonTerminalSymbols() []Symbol {
	var syms []Symbol
	for s := range t.sym2Text {
		if s.IsNonTerminal() && !s.IsNil() {
			syms = append(syms, s)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
