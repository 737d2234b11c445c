package praat

import (
	"regexp"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/textgrid/core/encoding"
)

// lineLexer splits a line on whitespace, keeping a quoted span (with
// doubled quotes inside it) as one token.
var lineLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "String", Pattern: `"(?:[^"]|"")*"`},
	{Name: "Bare", Pattern: `\S+`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var (
	stringToken = lineLexer.Symbols()["String"]
	bareToken   = lineLexer.Symbols()["Bare"]
)

// numericShape matches bare tokens made only of digits and at most one
// decimal point.
var numericShape = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`)

// Token is a value kept by the token filter.
type Token struct {
	Value  string
	Quoted bool
}

func (t Token) String() string {
	if t.Quoted {
		return encoding.Quote(t.Value)
	}
	return t.Value
}

// SplitLine returns the raw whitespace-separated tokens of line, quoted
// spans included with their quotes.
func SplitLine(line string) []string {
	lex, err := lineLexer.LexString("", line)
	if err != nil {
		return nil
	}
	raw, err := lexer.ConsumeAll(lex)
	if err != nil {
		return nil
	}
	parts := make([]string, 0, len(raw))
	for _, tok := range raw {
		if tok.Type == stringToken || tok.Type == bareToken {
			parts = append(parts, tok.Value)
		}
	}
	return parts
}

// Tokenize reduces lines to the ordered sequence of values they carry:
// quoted strings (unquoted) and numeric literals (verbatim). Labels,
// '=' signs, index decorations and keywords are dropped.
func Tokenize(lines []string) []Token {
	var tokens []Token
	for _, line := range lines {
		for _, part := range SplitLine(line) {
			switch {
			case encoding.IsQuoted(part):
				tokens = append(tokens, Token{Value: encoding.Unquote(part), Quoted: true})
			case numericShape.MatchString(part):
				tokens = append(tokens, Token{Value: part})
			}
		}
	}
	return tokens
}
