package praat

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/FocuswithJustin/textgrid/core/errors"
	"github.com/FocuswithJustin/textgrid/core/textgrid"
)

// formatName is the format reported in parse errors.
const formatName = "TextGrid"

var numberPattern = regexp.MustCompile(`^(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)

// tokenQueue is a FIFO over the filtered tokens.
type tokenQueue struct {
	tokens []Token
	pos    int
}

func newTokenQueue(tokens []Token) *tokenQueue {
	return &tokenQueue{tokens: tokens}
}

func (q *tokenQueue) empty() bool {
	return q.pos >= len(q.tokens)
}

func (q *tokenQueue) peek() (Token, bool) {
	if q.empty() {
		return Token{}, false
	}
	return q.tokens[q.pos], true
}

func (q *tokenQueue) pop() (Token, bool) {
	tok, ok := q.peek()
	if ok {
		q.pos++
	}
	return tok, ok
}

// popRequired pops the next token of any shape.
func (q *tokenQueue) popRequired(field string) (Token, error) {
	tok, ok := q.pop()
	if !ok {
		return Token{}, errors.NewParse(formatName, field, "unexpected end of input", errors.ErrUnexpectedEnd)
	}
	return tok, nil
}

// atTierClass reports whether the front token is a quoted tier class name.
func (q *tokenQueue) atTierClass() bool {
	tok, ok := q.peek()
	if !ok || !tok.Quoted {
		return false
	}
	_, isClass := textgrid.ParseTierKind(tok.Value)
	return isClass
}

// nextNumber drops tokens until one is shaped like a number and returns it.
func (q *tokenQueue) nextNumber(field string) (string, error) {
	for {
		tok, ok := q.pop()
		if !ok {
			return "", errors.NewParse(formatName, field, "missing expected number", errors.ErrUnexpectedEnd)
		}
		if numberPattern.MatchString(tok.Value) {
			return tok.Value, nil
		}
	}
}

func (q *tokenQueue) nextFloat(field string) (float64, error) {
	s, err := q.nextNumber(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, malformedNumber(field, s, "float", err)
	}
	return v, nil
}

func (q *tokenQueue) nextInt(field string) (int, error) {
	s, err := q.nextNumber(field)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, malformedNumber(field, s, "integer", err)
	}
	return v, nil
}

func malformedNumber(field, token, kind string, cause error) error {
	pe := errors.NewParse(formatName, field, fmt.Sprintf("cannot parse %q as %s: %v", token, kind, cause), errors.ErrInvalidNumber)
	pe.Token = token
	return pe
}
