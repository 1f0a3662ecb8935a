package lexer_test

import (
	"testing"

	"github.com/Taly-projects/taly-lang/pkgs/lexer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func typesOf(tokens []lexer.Token) []lexer.TokenType {
	types := make([]lexer.TokenType, len(tokens))
	for i, t := range tokens {
		types[i] = t.Type
	}
	return types
}

func TestTokenize_Keywords(t *testing.T) {
	tokens, err := lexer.Tokenize("fn class end")
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{lexer.FN, lexer.CLASS, lexer.END, lexer.EOF}, typesOf(tokens))
}

func TestTokenize_FourSpacesCollapseToTab(t *testing.T) {
	tokens, err := lexer.Tokenize("    x")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, lexer.TAB, tokens[0].Type)
	assert.Equal(t, lexer.IDENTIFIER, tokens[1].Type)
	assert.Equal(t, "x", tokens[1].Value)
}

func TestTokenize_PhysicalTabIsOneTabToken(t *testing.T) {
	tokens, err := lexer.Tokenize("\tx")
	require.NoError(t, err)
	assert.Equal(t, lexer.TAB, tokens[0].Type)
}

func TestTokenize_ShortSpaceRunIsSilentlyConsumed(t *testing.T) {
	tokens, err := lexer.Tokenize("a b")
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{lexer.IDENTIFIER, lexer.IDENTIFIER, lexer.EOF}, typesOf(tokens))
}

func TestTokenize_NewLine(t *testing.T) {
	tokens, err := lexer.Tokenize("a\nb")
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{lexer.IDENTIFIER, lexer.NEWLINE, lexer.IDENTIFIER, lexer.EOF}, typesOf(tokens))
}

func TestTokenize_Comment(t *testing.T) {
	tokens, err := lexer.Tokenize("a # comment\nb")
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{lexer.IDENTIFIER, lexer.NEWLINE, lexer.IDENTIFIER, lexer.EOF}, typesOf(tokens))
}

func TestTokenize_StringLiteral(t *testing.T) {
	tokens, err := lexer.Tokenize(`"hello world"`)
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.STRING, tokens[0].Type)
	assert.Equal(t, "hello world", tokens[0].Value)
}

func TestTokenize_UnterminatedStringIsError(t *testing.T) {
	_, err := lexer.Tokenize(`"hello`)
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, lexer.UnexpectedEOF, lexErr.Kind)
}

func TestTokenize_Numbers(t *testing.T) {
	tokens, err := lexer.Tokenize("1_000 3.14")
	require.NoError(t, err)
	require.Len(t, tokens, 3)
	assert.Equal(t, lexer.INTEGER, tokens[0].Type)
	assert.Equal(t, "1000", tokens[0].Value)
	assert.Equal(t, lexer.DECIMAL, tokens[1].Type)
	assert.Equal(t, "3.14", tokens[1].Value)
}

func TestTokenize_Booleans(t *testing.T) {
	tokens, err := lexer.Tokenize("true false")
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{lexer.BOOLEAN, lexer.BOOLEAN, lexer.EOF}, typesOf(tokens))
}

func TestTokenize_Label(t *testing.T) {
	tokens, err := lexer.Tokenize("$outer")
	require.NoError(t, err)
	require.Len(t, tokens, 2)
	assert.Equal(t, lexer.LABEL, tokens[0].Type)
	assert.Equal(t, "outer", tokens[0].Value)
}

func TestTokenize_CompoundPunctuation(t *testing.T) {
	tokens, err := lexer.Tokenize("=> == != <= >= =")
	require.NoError(t, err)
	assert.Equal(t, []lexer.TokenType{
		lexer.ARROW, lexer.EQUAL_EQUAL, lexer.NOT_EQUAL, lexer.LESS_EQUAL, lexer.GREATER_EQUAL, lexer.EQUAL, lexer.EOF,
	}, typesOf(tokens))
}

func TestTokenize_UnexpectedChar(t *testing.T) {
	_, err := lexer.Tokenize("a ! b")
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, lexer.UnexpectedChar, lexErr.Kind)
}

func TestTokenize_SpanCoversFullToken(t *testing.T) {
	tokens, err := lexer.Tokenize("  foo")
	require.NoError(t, err)
	// "foo" starts after a 2-space run that is silently consumed (no Tab).
	foo := tokens[0]
	assert.Equal(t, lexer.IDENTIFIER, foo.Type)
	assert.Equal(t, 2, foo.Span.Start.Column)
	assert.Equal(t, 5, foo.Span.End.Column)
}
