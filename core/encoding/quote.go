// Package encoding provides the string quoting rules of the Praat text format.
//
// A quoted value is wrapped in double quotes and every double quote inside
// the value is doubled, so `say "hi"` is written as `"say ""hi"""`.
package encoding

import "strings"

// Quote wraps s in double quotes, doubling any embedded double quote.
func Quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	b.WriteString(strings.ReplaceAll(s, `"`, `""`))
	b.WriteByte('"')
	return b.String()
}

// IsQuoted reports whether tok starts and ends with a double quote and is
// at least two bytes long.
func IsQuoted(tok string) bool {
	return len(tok) >= 2 && tok[0] == '"' && tok[len(tok)-1] == '"'
}

// Unquote returns the text between the first and last double quote of tok
// with doubled quotes collapsed. Tokens that are not quoted are returned
// unchanged.
func Unquote(tok string) string {
	if !IsQuoted(tok) {
		return tok
	}
	return strings.ReplaceAll(tok[1:len(tok)-1], `""`, `"`)
}
