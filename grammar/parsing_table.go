// This file assembles the dense action/state tables from a LALR(1)
// automaton and detects shift/reduce and reduce/reduce conflicts,
// rewriting their production-id context into declaration-ordered
// nonterminal names before the conflict crosses the generator
// boundary. The grammar model carries no precedence declarations, so
// every conflict detected here is fatal rather than resolved.
package grammar

import (
	"fmt"
	"sort"

	"github.com/dsisnero/pegasus/gerrors"
	"github.com/dsisnero/pegasus/symbol"
)

type ActionType string

const (
	ActionTypeError = ActionType("error")
	ActionTypeShift = ActionType("shift")
	ActionTypeReduce = ActionType("reduce")
	ActionTypeAccept = ActionType("accept")
)

// actionEntry packs an action into a single int, matching the runtime
// ABI directly: -1 is "error", 0 is "shift" (the target state is read
// from the state table, not carried here), and a positive value k is
// "reduce by production k-1".
type actionEntry int

const actionEntryError = actionEntry(-1)
const actionEntryShift = actionEntry(0)

func newReduceActionEntry(p ProductionNum) actionEntry { return actionEntry(p) + 1 }

func (e actionEntry) isError() bool { return e == actionEntryError }

func (e actionEntry) describe() (ActionType, ProductionNum) {
	switch {
	case e == actionEntryError:
		return ActionTypeError, ProductionNum(0)
	case e == actionEntryShift:
		return ActionTypeShift, ProductionNum(0)
	case ProductionNum(e-1) == ProductionNumStart:
		return ActionTypeAccept, ProductionNumStart
	default:
		return ActionTypeReduce, ProductionNum(e - 1)
	}
}

// stateEntry packs a GOTO/shift target as next+1, so 0 is free to mean
// "no transition" while state 0 remains an ordinary, reachable state.
type stateEntry int

const stateEntryEmpty = stateEntry(0)

func newStateEntry(s StateNum) stateEntry { return stateEntry(s + 1) }

func (e stateEntry) describe() (bool, StateNum) {
	if e == stateEntryEmpty {
		return false, StateNumInitial
	}
	return true, StateNum(e - 1)
}

// ParsingTable is the dense shift/reduce/goto table a PDA driver walks
// directly: it mirrors `parse_action_table` and `parse_state_table`
// column for column. ActionTable has one row per state and
// TerminalCount+1 columns: columns 0..MaxTerminal are ordinary
// terminals, and the last column (EOFColumn) is the end-of-input
// sentinel the runtime supplies once the token stream is exhausted.
// StateTable is the combined GOTO table: the same TerminalCount
// terminal columns (the shift targets), followed by NonTerminalCount
// nonterminal columns (the targets the PDA driver reaches after
// popping a reduced production's body).
type ParsingTable struct {
	ActionTable []actionEntry
	StateTable []stateEntry
	StateCount int
	TerminalCount int
	NonTerminalCount int
	InitialState StateNum
}

// ActionWidth and StateWidth are the row strides of ActionTable and
// StateTable respectively.
func (t *ParsingTable) ActionWidth() int { return t.TerminalCount + 1 }
func (t *ParsingTable) StateWidth() int { return t.TerminalCount + t.NonTerminalCount }

// EOFColumn is the action table's sentinel terminal column.
func (t *ParsingTable) EOFColumn() int { return t.TerminalCount }

// NonTerminalColumn maps a nonterminal number to its column in
// StateTable.
func (t *ParsingTable) NonTerminalColumn(nt symbol.Num) int { return t.TerminalCount + nt.Int() }

func (t *ParsingTable) GetAction(state StateNum, sym symbol.Num) (ActionType, ProductionNum) {
	return t.readAction(state.Int(), sym.Int()).describe()
}

func (t *ParsingTable) GetGoTo(state StateNum, nt symbol.Num) (bool, StateNum) {
	return t.readState(state.Int(), t.NonTerminalColumn(nt)).describe()
}

// GetShiftTarget reports the state a shift on terminal term reaches
// from state, reading the terminal's own column of StateTable (the
// same column a shift action in ActionTable is keyed by).
func (t *ParsingTable) GetShiftTarget(state StateNum, term symbol.Num) (bool, StateNum) {
	return t.readState(state.Int(), term.Int()).describe()
}

// RawAction and RawState expose the packed table entries as plain
// ints, the encoding langdata.LanguageData's ParseActionTable and
// ParseStateTable carry across the generator boundary unchanged.
func (t *ParsingTable) RawAction(i int) int { return int(t.ActionTable[i]) }
func (t *ParsingTable) RawState(i int) int { return int(t.StateTable[i]) }

func (t *ParsingTable) ActionLen() int { return len(t.ActionTable) }
func (t *ParsingTable) StateLen() int { return len(t.StateTable) }

func (t *ParsingTable) readAction(row, col int) actionEntry { return t.ActionTable[row*t.ActionWidth()+col] }
func (t *ParsingTable) writeAction(row, col int, a actionEntry) {
	t.ActionTable[row*t.ActionWidth()+col] = a
}
func (t *ParsingTable) readState(row, col int) stateEntry { return t.StateTable[row*t.StateWidth()+col] }
func (t *ParsingTable) writeState(row, col int, s stateEntry) {
	t.StateTable[row*t.StateWidth()+col] = s
}

// actionCol maps a lookahead symbol to its action-table column: EOF
// gets the dedicated sentinel column, every other terminal uses its
// own number directly.
func (t *ParsingTable) actionCol(sym symbol.Symbol) int {
	if sym == symbol.EOF {
		return t.EOFColumn()
	}
	return sym.Num().Int()
}

type tableBuilder struct {
	automaton *Automaton
	prods *ProductionSet
	symTab *symbol.Table
	termCount int
	ntCount int

	conflicts []*gerrors.GrammarConflict
}

// buildParsingTable assembles the action/state tables from automaton's
// reducible sets and lookaheads, returning every conflict found rather
// than resolving any of them: all conflicts here are fatal regardless
// of kind.
func buildParsingTable(automaton *Automaton, prods *ProductionSet, symTab *symbol.Table) (*ParsingTable, []*gerrors.GrammarConflict, error) {
	b := &tableBuilder{
		automaton: automaton,
		prods: prods,
		symTab: symTab,
		termCount: symTab.MaxTerminal().Int() + 1,
		ntCount: symTab.MaxNonTerminal().Int() + 1,
	}

	initialState := automaton.States[automaton.InitialState]
	tab := &ParsingTable{
		StateCount: len(automaton.States),
		TerminalCount: b.termCount,
		NonTerminalCount: b.ntCount,
		InitialState: initialState.Num,
	}
	tab.ActionTable = make([]actionEntry, tab.StateCount*tab.ActionWidth())
	for i := range tab.ActionTable {
		tab.ActionTable[i] = actionEntryError
	}
	tab.StateTable = make([]stateEntry, tab.StateCount*tab.StateWidth())

	for _, state := range automaton.States {
		for sym, kID := range state.Next {
			next := automaton.States[kID]
			if sym.IsTerminal() {
				b.writeShift(tab, state.Num, sym, next.Num)
				tab.writeState(state.Num.Int(), sym.Num().Int(), newStateEntry(next.Num))
			} else {
				tab.writeState(state.Num.Int(), tab.NonTerminalColumn(sym.Num()), newStateEntry(next.Num))
			}
		}

		for prodID := range state.Reducible {
			prod, ok := prods.findByID(prodID)
			if !ok {
				return nil, nil, fmt.Errorf("reducible production not found: %v", prodID)
			}

			item := findItem(state, prodID)
			if item == nil {
				return nil, nil, fmt.Errorf("reducible item not found; state %v, production %v", state.Num, prod.Num)
			}
			for a := range item.Lookahead {
				b.writeReduce(tab, state.Num, a, prod.Num)
			}
		}
	}

	return tab, b.conflicts, nil
}

func findItem(state *State, prodID ProductionID) *Item {
	for _, item := range state.Items {
		if item.Prod == prodID && item.Reducible {
			return item
		}
	}
	return nil
}

func (b *tableBuilder) writeShift(tab *ParsingTable, state StateNum, sym symbol.Symbol, next StateNum) {
	col := tab.actionCol(sym)
	act := tab.readAction(state.Int(), col)
	if !act.isError() {
		ty, p := act.describe()
		if ty == ActionTypeReduce || ty == ActionTypeAccept {
			b.conflicts = append(b.conflicts, b.conflict(gerrors.ShiftReduce, state, sym, []ProductionNum{p}))
			return
		}
	}
	tab.writeAction(state.Int(), col, actionEntryShift)
}

func (b *tableBuilder) writeReduce(tab *ParsingTable, state StateNum, sym symbol.Symbol, prod ProductionNum) {
	col := tab.actionCol(sym)
	act := tab.readAction(state.Int(), col)
	if !act.isError() {
		ty, p := act.describe()
		switch ty {
		case ActionTypeReduce, ActionTypeAccept:
			if p == prod {
				return
			}
			b.conflicts = append(b.conflicts, b.conflict(gerrors.ReduceReduce, state, sym, []ProductionNum{p, prod}))
			if p < prod {
				return
			}
		case ActionTypeShift:
			b.conflicts = append(b.conflicts, b.conflict(gerrors.ShiftReduce, state, sym, []ProductionNum{prod}))
			return
		}
	}
	tab.writeAction(state.Int(), col, newReduceActionEntry(prod))
}

func (b *tableBuilder) conflict(kind gerrors.ConflictKind, state StateNum, sym symbol.Symbol, prodNums []ProductionNum) *gerrors.GrammarConflict {
	// Productions are numbered in rule declaration order, so visiting them
	// in ascending order yields the names in declaration order.
	sort.Slice(prodNums, func(i, j int) bool { return prodNums[i] < prodNums[j] })
	seen := map[string]bool{}
	var names []string
	var ids []int
	for _, pn := range prodNums {
		ids = append(ids, pn.Int())
		for _, prod := range b.prods.all() {
			if prod.Num != pn {
				continue
			}
			name, _ := b.symTab.ToText(prod.LHS)
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	termText := "<eof>"
	if sym != symbol.EOF {
		termText, _ = b.symTab.ToText(sym)
	}
	return &gerrors.GrammarConflict{
		Kind: kind,
		State: state.Int(),
		Terminal: termText,
		ProductionIDs: ids,
		Nonterminals: names,
	}
}
