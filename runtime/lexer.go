// Package runtime is the external consumer side of the pipeline: a
// lexer and a shift/reduce PDA that drive nothing but the array lookups
// langdata.LanguageData exposes. There is a single implicit lex mode
// and no semantic actions, AST-flattening, or error-recovery/LAC
// machinery.
package runtime

import (
	"fmt"

	"github.com/dsisnero/pegasus/langdata"
)

// Token is one lexeme the Lexer produced: its terminal symbol number,
// its byte range in the source, and the matched text. An EOF token
// carries no terminal number — EOF is not a registered terminal, only
// a sentinel column in the parser's action table — so Terminal is
// meaningless when EOF is set.
type Token struct {
	Terminal int
	From int
	To int
	Lexeme []byte
	EOF bool
}

// BadCharacterError reports a byte offset where no DFA transition
// matched.
type BadCharacterError struct {
	Offset int
}

func (e *BadCharacterError) Error() string {
	return fmt.Sprintf("bad character at offset %v", e.Offset)
}

// Lexer walks langdata.LanguageData's lexer tables directly; it has no
// dependency on the dfa package, since LanguageData is the boundary a
// runtime is meant to cross without linking the compiler.
type Lexer struct {
	ld *langdata.LanguageData
	src []byte
	pos int
}

func NewLexer(ld *langdata.LanguageData, src []byte) *Lexer {
	return &Lexer{ld: ld, src: src}
}

// Next scans and returns the next token, applying the longest-match
// protocol and silently dropping terminals flagged skip.
// It returns an EOF token once the source is exhausted.
func (l *Lexer) Next() (Token, error) {
	for {
		if l.pos >= len(l.src) {
			return Token{Terminal: -1, From: l.pos, To: l.pos, EOF: true}, nil
		}

		tok, end, ok := l.run(l.pos)
		if !ok {
			return Token{}, &BadCharacterError{Offset: l.pos}
		}
		from := l.pos
		l.pos = end
		if tok < len(l.ld.LexSkipTable) && l.ld.LexSkipTable[tok] {
			continue
		}
		return Token{Terminal: tok, From: from, To: end, Lexeme: l.src[from:end]}, nil
	}
}

// All drains the lexer to a slice of tokens including the trailing EOF
// token.
func (l *Lexer) All() ([]Token, error) {
	var toks []Token
	for {
		tok, err := l.Next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.EOF {
			return toks, nil
		}
	}
}

func (l *Lexer) run(index int) (tokenID int, end int, ok bool) {
	const start = 1
	state := start
	lastTok := 0
	lastEnd := index
	i := index
	for {
		if f := l.ld.LexFinalTable[state]; f != 0 {
			lastTok = f
			lastEnd = i
		}
		if i >= len(l.src) {
			break
		}
		next := l.ld.LexStateTable[state][l.src[i]]
		if next == 0 {
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
