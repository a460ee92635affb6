// Package langdata defines LanguageData, the aggregate the compiler
// pipeline produces and a runtime consumes: lexer DFA tables plus
// LALR(1) parser tables, with no AST-action fields or
// compression/serialization concern — this core is semantic-action-free
// and never writes its tables to a wire format.
package langdata

// Item is one production, recorded by its LHS and the length of its RHS
// so a runtime can pop the right number of stack entries on reduce.
type Item struct {
	LHS int
	RHSLength int
}

// LanguageData is everything lexspec.Compile and grammar.Compile produce
// together: the lexer's DFA tables and the parser's LALR(1) tables,
// indexed so a runtime can drive both with nothing but array lookups.
type LanguageData struct {
	// Lexer tables.
	LexStateTable [][256]int
	LexFinalTable []int
	LexSkipTable []bool

	// Parser tables. ParseActionTable is state*ActionWidth+col ->
	// action, where col is a terminal id in 0..MaxTerminal or the
	// dedicated EOFColumn; -1 is error, 0 is shift, k>0 is reduce by
	// production k-1.
	//
	// ParseStateTable is state*StateWidth+col -> next state+1 (0 means
	// no transition), where col is either a terminal id (shift targets)
	// or TerminalCount+nonterminal (goto targets after a reduce).
	ParseActionTable []int
	ParseStateTable []int
	InitialState int
	StartProduction int

	StateCount int
	TerminalCount int
	NonTerminalCount int
	ActionWidth int
	StateWidth int
	MaxTerminal int

	Terminals []string
	NonTerminals []string
	Items []Item
}

// EOFColumn is ParseActionTable's end-of-input sentinel column: one
// past the highest ordinary terminal id.
func (ld *LanguageData) EOFColumn() int { return ld.TerminalCount }

// NonTerminalColumn maps a nonterminal id to its column in
// ParseStateTable.
func (ld *LanguageData) NonTerminalColumn(nonterminal int) int { return ld.TerminalCount + nonterminal }

// ActionAt looks up the packed action entry for (state, col): -1 is
// error, 0 is shift, k>0 is reduce by production k-1. col is a
// terminal id or EOFColumn().
func (ld *LanguageData) ActionAt(state, col int) int {
	return ld.ParseActionTable[state*ld.ActionWidth+col]
}

// StateAt looks up the successor state for (state, col), or -1 if none
// is registered. col is a terminal id (a shift target) or
// NonTerminalColumn(nonterminal) (a goto target).
func (ld *LanguageData) StateAt(state, col int) int {
	v := ld.ParseStateTable[state*ld.StateWidth+col]
	return v - 1
}
