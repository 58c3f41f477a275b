package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osllang/osl/lexer"
	"github.com/osllang/osl/token"
)

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestTokenize_Basic(t *testing.T) {
	toks, err := lexer.New("function main():void { var i:int = 3; }").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.KwFunction, token.Identifier, token.LeftParen, token.RightParen,
		token.Colon, token.KwVoid, token.LeftBrace,
		token.KwVar, token.Identifier, token.Colon, token.KwInt, token.Equal, token.IntLiteral, token.Semicolon,
		token.RightBrace, token.EOF,
	}, kinds(toks))
}

func TestTokenize_PositionInvariant(t *testing.T) {
	src := "  var\n    x:int;"
	toks, err := lexer.New(src).Tokenize()
	require.NoError(t, err)
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		lines := splitLines(src)
		line := lines[tok.Line-1]
		require.GreaterOrEqual(t, len(line), tok.Column)
		got := string([]rune(line)[tok.Column-1])
		assert.Equal(t, got, string([]rune(tok.Lexeme)[0]))
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, c := range s {
		if c == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func TestTokenize_NumericLiterals(t *testing.T) {
	toks, err := lexer.New("1 1.5 1.5f 1e3 1.0e-3f").Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 6)
	assert.Equal(t, token.IntLiteral, toks[0].Kind)
	assert.Equal(t, token.DoubleLiteral, toks[1].Kind)
	assert.Equal(t, token.FloatLiteral, toks[2].Kind)
	assert.Equal(t, token.DoubleLiteral, toks[3].Kind)
	assert.Equal(t, token.FloatLiteral, toks[4].Kind)
}

func TestTokenize_LeadingDotNumericLiteral(t *testing.T) {
	toks, err := lexer.New(".5f .25").Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 3)
	assert.Equal(t, token.FloatLiteral, toks[0].Kind)
	assert.Equal(t, ".5f", toks[0].Lexeme)
	assert.Equal(t, token.DoubleLiteral, toks[1].Kind)
	assert.Equal(t, ".25", toks[1].Lexeme)
}

func TestTokenize_InvalidNumberSuffix(t *testing.T) {
	_, err := lexer.New("1q").Tokenize()
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, "InvalidNumber", lexErr.Kind)
}

func TestTokenize_StringEscapes(t *testing.T) {
	toks, err := lexer.New(`"a\tb\n\"c\""`).Tokenize()
	require.NoError(t, err)
	require.Len(t, toks, 2)
	assert.Equal(t, token.StringLiteral, toks[0].Kind)
}

func TestTokenize_UnterminatedString(t *testing.T) {
	_, err := lexer.New("\"never closed\n").Tokenize()
	require.Error(t, err)
}

func TestTokenize_MultiCharOperators(t *testing.T) {
	toks, err := lexer.New("<<= >>= == != <= >= && || ++ -- += -= ...").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.LessLessEqual, token.GreaterGreaterEqual, token.EqualEqual, token.BangEqual,
		token.LessEqual, token.GreaterEqual, token.AmpAmp, token.PipePipe,
		token.PlusPlus, token.MinusMinus, token.PlusEqual, token.MinusEqual, token.Ellipsis,
		token.EOF,
	}, kinds(toks))
}

func TestTokenize_AlternativeSpellings(t *testing.T) {
	toks, err := lexer.New("and or not bitand bitor xor compl").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{
		token.KwAnd, token.KwOr, token.KwNot, token.KwBitand, token.KwBitor, token.KwXor, token.KwCompl, token.EOF,
	}, kinds(toks))
}

func TestTokenize_UnknownChar(t *testing.T) {
	_, err := lexer.New("$").Tokenize()
	require.Error(t, err)
	var lexErr *lexer.Error
	require.ErrorAs(t, err, &lexErr)
	assert.Equal(t, "UnknownChar", lexErr.Kind)
}

func TestTokenize_AttributeBrackets(t *testing.T) {
	toks, err := lexer.New("[[fragment]]").Tokenize()
	require.NoError(t, err)
	assert.Equal(t, []token.Kind{token.LeftAttr, token.Identifier, token.RightAttr, token.EOF}, kinds(toks))
}
