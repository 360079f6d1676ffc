package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weavelang/weave/pkg/token"
)

func tokenTypes(tokens []token.Token) []token.Type {
	types := make([]token.Type, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizeOperators(t *testing.T) {
	tokens := New(`-- ?. ++ >= <= == != -> + * = > < . : , { } [ ] ( )`).Tokenize()
	want := []token.Type{
		token.MINUSMINUS, token.SAFE_DOT, token.PLUSPLUS, token.GTE, token.LTE,
		token.EQ, token.NEQ, token.ARROW, token.PLUS, token.STAR, token.ASSIGN,
		token.GT, token.LT, token.DOT, token.COLON, token.COMMA,
		token.LBRACE, token.RBRACE, token.LBRACK, token.RBRACK, token.LPAREN, token.RPAREN,
		token.EOF,
	}
	assert.Equal(t, want, tokenTypes(tokens))
}

func TestTokenizeKeywordsReclassified(t *testing.T) {
	tokens := New(`true false null default payload`).Tokenize()
	want := []token.Type{token.BOOLEAN, token.BOOLEAN, token.NULL, token.DEFAULT, token.IDENT, token.EOF}
	assert.Equal(t, want, tokenTypes(tokens))
}

func TestTokenizeContextualKeywordsStayIdentifiers(t *testing.T) {
	// if/else/match/case/when/var/to/map/reduce/filter/flatMap/distinctBy
	// are recognized contextually by the parser, not the lexer.
	tokens := New(`if else match case when var to map reduce filter flatMap distinctBy`).Tokenize()
	for _, tok := range tokens[:len(tokens)-1] {
		assert.Equal(t, token.IDENT, tok.Type)
	}
}

func TestTokenizeNumbers(t *testing.T) {
	tokens := New(`123 1.5 0 0.0`).Tokenize()
	require.Len(t, tokens, 5)
	for i, want := range []string{"123", "1.5", "0", "0.0"} {
		assert.Equal(t, token.NUMBER, tokens[i].Type)
		assert.Equal(t, want, tokens[i].Literal)
	}
}

func TestTokenizeStrings(t *testing.T) {
	tokens := New(`"hello" 'world' "a\nb" "quote: \""`).Tokenize()
	require.Len(t, tokens, 5)
	assert.Equal(t, "hello", tokens[0].Literal)
	assert.Equal(t, "world", tokens[1].Literal)
	assert.Equal(t, "a\nb", tokens[2].Literal)
	assert.Equal(t, `quote: "`, tokens[3].Literal)
}

func TestTokenizeComments(t *testing.T) {
	tokens := New("1 // trailing comment\n2 /* block */ 3").Tokenize()
	require.Len(t, tokens, 4)
	assert.Equal(t, "1", tokens[0].Literal)
	assert.Equal(t, "2", tokens[1].Literal)
	assert.Equal(t, "3", tokens[2].Literal)
}

func TestUnterminatedBlockCommentReportsOpenPosition(t *testing.T) {
	l := New("1 + /* never closed")
	l.Tokenize()
	require.NotNil(t, l.Err())
	assert.Equal(t, 1, l.Err().Pos.Line)
}

func TestUnknownCharacterIsLexError(t *testing.T) {
	l := New("1 @ 2")
	l.Tokenize()
	require.NotNil(t, l.Err())
	assert.Contains(t, l.Err().Message, "@")
}

// Round-trip lexing positions: the literal text recorded for every token
// must match what is actually at that line/column in the source.
func TestRoundTripPositions(t *testing.T) {
	src := "foo\n  bar"
	tokens := New(src).Tokenize()
	require.Len(t, tokens, 3)
	assert.Equal(t, token.Position{Line: 1, Column: 1, Offset: 0}, tokens[0].Pos)
	assert.Equal(t, "foo", tokens[0].Literal)
	assert.Equal(t, 2, tokens[1].Pos.Line)
	assert.Equal(t, 3, tokens[1].Pos.Column)
	assert.Equal(t, "bar", tokens[1].Literal)
}

func TestUnicodeIdentifierRunesCountAsOneColumn(t *testing.T) {
	tokens := New("café x").Tokenize()
	require.Len(t, tokens, 3)
	assert.Equal(t, "café", tokens[0].Literal)
	// "café" is 4 runes, then a space, so x starts at column 6.
	assert.Equal(t, 6, tokens[1].Pos.Column)
}
