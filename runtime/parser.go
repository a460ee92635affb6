package runtime

import (
	"fmt"

	"github.com/emirpasic/gods/lists/arraylist"

	"github.com/dsisnero/pegasus/langdata"
)

// Node is one node of the parse tree a Parser builds: a leaf carries the
// matched Token, an interior node carries the reduced nonterminal's
// children in left-to-right order ('s `parse(token list) ->
// tree`; no semantic actions or tree-flattening run over it — those are
// explicit Non-goals left to an external consumer).
type Node struct {
	Symbol string
	Token *Token
	Children []*Node
}

// BadTokenError reports a syntax error: no action is registered for the
// current state and the next token's terminal. When the next token is
// EOF, Terminal is -1 and TerminalName is "<eof>".
type BadTokenError struct {
	State int
	Terminal int
	TerminalName string
	ExpectedTerminals []string
}

func (e *BadTokenError) Error() string {
	return fmt.Sprintf("unexpected token %q in state %v (expected one of %v)", e.TerminalName, e.State, e.ExpectedTerminals)
}

// EofShiftError reports that the automaton wanted to shift with no
// more input left: the current state's action on the EOF column is
// "shift" (0), which only a still-incomplete parse can produce, since
// EOF carries no lexeme to push. Reported distinctly from an ordinary
// BadTokenError.
type EofShiftError struct {
	State int
}

func (e *EofShiftError) Error() string {
	return fmt.Sprintf("unexpected end of input in state %v", e.State)
}

// Parser is a shift/reduce PDA driven entirely by langdata.LanguageData's
// tables. Its operand stack is a gods arraylist rather than a bare
// slice: every push is an append at the tail and every pop trims the
// tail, which is exactly what arraylist.Add/Remove model, and it keeps
// the state stack and the tree-node stack visibly in lock-step as the
// same data structure throughout CLOSURE-adjacent driver code.
type Parser struct {
	ld *langdata.LanguageData
	lex *Lexer
	states *arraylist.List
	nodes *arraylist.List
}

func NewParser(ld *langdata.LanguageData, lex *Lexer) *Parser {
	states := arraylist.New()
	states.Add(ld.InitialState)
	return &Parser{ld: ld, lex: lex, states: states, nodes: arraylist.New()}
}

func (p *Parser) top() int {
	v, _ := p.states.Get(p.states.Size() - 1)
	return v.(int)
}

func (p *Parser) pushState(s int) { p.states.Add(s) }
func (p *Parser) popStates(n int) {
	for i := 0; i < n; i++ {
		p.states.Remove(p.states.Size() - 1)
	}
}

func (p *Parser) pushNode(n *Node) { p.nodes.Add(n) }
func (p *Parser) popNodes(n int) []*Node {
	size := p.nodes.Size()
	out := make([]*Node, n)
	for i := 0; i < n; i++ {
		v, _ := p.nodes.Get(size - n + i)
		out[i] = v.(*Node)
	}
	for i := 0; i < n; i++ {
		p.nodes.Remove(p.nodes.Size() - 1)
	}
	return out
}

// Parse drives the PDA to acceptance or to the first syntax error,
// returning the root Node of the parse tree on success.
func (p *Parser) Parse() (*Node, error) {
	tok, err := p.lex.Next()
	if err != nil {
		return nil, err
	}

	for {
		state := p.top()
		col := tok.Terminal
		if tok.EOF {
			col = p.ld.EOFColumn()
		}
		act := p.ld.ActionAt(state, col)
		switch {
		case act == -1: // error
			name := "<eof>"
			if !tok.EOF {
				name = p.ld.Terminals[tok.Terminal]
			}
			return nil, &BadTokenError{
				State: state,
				Terminal: tok.Terminal,
				TerminalName: name,
				ExpectedTerminals: p.expectedTerminals(state),
			}
		case act == 0: // shift
			if tok.EOF {
				return nil, &EofShiftError{State: state}
			}
			next := p.ld.StateAt(state, tok.Terminal)
			if next < 0 {
				return nil, fmt.Errorf("no shift target for state %v, terminal %v", state, tok.Terminal)
			}
			shifted := tok
			p.pushState(next)
			p.pushNode(&Node{Symbol: p.ld.Terminals[tok.Terminal], Token: &shifted})
			tok, err = p.lex.Next()
			if err != nil {
				return nil, err
			}
		default: // reduce
			prodNum := act - 1
			item := p.ld.Items[prodNum]
			if prodNum == p.ld.StartProduction {
				root := p.popNodes(item.RHSLength)[0]
				return root, nil
			}
			children := p.popNodes(item.RHSLength)
			p.popStates(item.RHSLength)
			next := p.ld.StateAt(p.top(), p.ld.NonTerminalColumn(item.LHS))
			if next < 0 {
				return nil, fmt.Errorf("no goto entry for state %v, nonterminal %v", p.top(), item.LHS)
			}
			p.pushState(next)
			p.pushNode(&Node{Symbol: p.ld.NonTerminals[item.LHS], Children: children})
		}
	}
}

func (p *Parser) expectedTerminals(state int) []string {
	var names []string
	for term := 1; term < p.ld.TerminalCount; term++ {
		if p.ld.ActionAt(state, term) != -1 {
			names = append(names, p.ld.Terminals[term])
		}
	}
	return names
}
