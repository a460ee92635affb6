package pegasus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsisnero/pegasus/gerrors"
	"github.com/dsisnero/pegasus/grammar"
	"github.com/dsisnero/pegasus/lexspec"
	"github.com/dsisnero/pegasus/runtime"
)

// TestCompileTrivialArithmeticEndToEnd covers the trivial-arithmetic scenario:
// "sum -> num plus num | num" over tokens num/plus parses "1 + 2" into a
// tree rooted at sum with three children.
func TestCompileTrivialArithmeticEndToEnd(t *testing.T) {
	ld, err := Compile(Description{
		Tokens: []lexspec.TokenDef{
			{Name: "num", Pattern: "[0-9]+"},
			{Name: "plus", Pattern: `\+`},
			{Name: "ws", Pattern: "[ \t]+", Skip: true},
		},
		Start: "sum",
		Rules: []grammar.Rule{
			{Name: "sum", Alts: []grammar.Alt{
				{Body: []string{"num", "plus", "num"}},
				{Body: []string{"num"}},
			}},
		},
	})
	require.NoError(t, err)

	lex := runtime.NewLexer(ld, []byte("1 + 2"))
	p := runtime.NewParser(ld, lex)
	root, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, "sum", root.Symbol)
	assert.Len(t, root.Children, 3)
	assert.Equal(t, "num", root.Children[0].Symbol)
	assert.Equal(t, "plus", root.Children[1].Symbol)
	assert.Equal(t, "num", root.Children[2].Symbol)
}

// TestCompileSkipsWhitespaceEndToEnd covers the whitespace-skipping scenario:
// a skip-flagged token never reaches the parser, so "1+2" and "1 + 2"
// both parse to the same tree shape.
func TestCompileSkipsWhitespaceEndToEnd(t *testing.T) {
	desc := Description{
		Tokens: []lexspec.TokenDef{
			{Name: "num", Pattern: "[0-9]+"},
			{Name: "plus", Pattern: `\+`},
			{Name: "ws", Pattern: "[ \t]+", Skip: true},
		},
		Start: "sum",
		Rules: []grammar.Rule{
			{Name: "sum", Alts: []grammar.Alt{
				{Body: []string{"num", "plus", "num"}},
			}},
		},
	}
	ld, err := Compile(desc)
	require.NoError(t, err)

	for _, src := range []string{"1+2", "1 + 2", "1\t+\t2"} {
		lex := runtime.NewLexer(ld, []byte(src))
		p := runtime.NewParser(ld, lex)
		root, err := p.Parse()
		require.NoError(t, err, "source %q", src)
		assert.Len(t, root.Children, 3, "source %q", src)
	}
}

// TestCompileShiftReduceConflictEndToEnd covers the shift-reduce
// conflict scenario: an ambiguous self-recursive rule surfaces a
// shift/reduce conflict naming the offending nonterminal.
func TestCompileShiftReduceConflictEndToEnd(t *testing.T) {
	_, err := Compile(Description{
		Tokens: []lexspec.TokenDef{
			{Name: "num", Pattern: "[0-9]+"},
			{Name: "plus", Pattern: `\+`},
		},
		Start: "e",
		Rules: []grammar.Rule{
			{Name: "e", Alts: []grammar.Alt{
				{Body: []string{"e", "plus", "e"}},
				{Body: []string{"num"}},
			}},
		},
	})
	require.Error(t, err)
	conflict, ok := err.(*gerrors.GrammarConflict)
	require.True(t, ok, "got %T, want *gerrors.GrammarConflict", err)
	assert.Equal(t, gerrors.ShiftReduce, conflict.Kind)
	assert.Contains(t, conflict.Nonterminals, "e")
}

// TestCompileTieBreakEndToEnd covers the declaration-order tie-break scenario: "if"
// declared before "ident" means "if" lexes as the keyword but "iff"
// (which the keyword pattern stops matching after two bytes) lexes as
// an identifier.
func TestCompileTieBreakEndToEnd(t *testing.T) {
	ld, err := Compile(Description{
		Tokens: []lexspec.TokenDef{
			{Name: "if", Pattern: "if"},
			{Name: "ident", Pattern: "[a-z]+"},
		},
		Start: "s",
		Rules: []grammar.Rule{
			{Name: "s", Alts: []grammar.Alt{
				{Body: []string{"if"}},
				{Body: []string{"ident"}},
			}},
		},
	})
	require.NoError(t, err)

	lex := runtime.NewLexer(ld, []byte("if"))
	toks, err := lex.All()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "if", ld.Terminals[toks[0].Terminal])

	lex = runtime.NewLexer(ld, []byte("iff"))
	toks, err = lex.All()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, "ident", ld.Terminals[toks[0].Terminal])
}

// TestCompileLeftRecursiveListEndToEnd covers the left-recursive-list scenario:
// "list -> list item | item" builds a left-nested tree of list nodes whose
// leaves, read in order, are the items a, b, c.
func TestCompileLeftRecursiveListEndToEnd(t *testing.T) {
	ld, err := Compile(Description{
		Tokens: []lexspec.TokenDef{
			{Name: "item", Pattern: "[a-z]"},
		},
		Start: "list",
		Rules: []grammar.Rule{
			{Name: "list", Alts: []grammar.Alt{
				{Body: []string{"list", "item"}},
				{Body: []string{"item"}},
			}},
		},
	})
	require.NoError(t, err)

	lex := runtime.NewLexer(ld, []byte("abc"))
	p := runtime.NewParser(ld, lex)
	root, err := p.Parse()
	require.NoError(t, err)
	assert.Equal(t, "list", root.Symbol)

	var leaves []string
	var walk func(n *runtime.Node)
	walk = func(n *runtime.Node) {
		if n.Token != nil {
			leaves = append(leaves, string(n.Token.Lexeme))
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
	assert.Equal(t, []string{"a", "b", "c"}, leaves)
}

// TestCompileUndefinedSymbolEndToEnd covers the undefined-symbol scenario:
// a rule body referencing an undeclared symbol is a GrammarError naming
// it, not a panic or an internal error.
func TestCompileUndefinedSymbolEndToEnd(t *testing.T) {
	_, err := Compile(Description{
		Tokens: []lexspec.TokenDef{
			{Name: "item", Pattern: "[a-z]"},
		},
		Start: "list",
		Rules: []grammar.Rule{
			{Name: "list", Alts: []grammar.Alt{
				{Body: []string{"bogus"}},
			}},
		},
	})
	require.Error(t, err)
	ge, ok := err.(*gerrors.GrammarError)
	require.True(t, ok, "got %T, want *gerrors.GrammarError", err)
	assert.Contains(t, ge.Detail, "bogus")
}
