// Package jsonscan extracts JSON objects embedded in free-form text, such as
// a language model reply that wraps its answer in prose.
package jsonscan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoObject is returned when the text contains no balanced {...} span
var ErrNoObject = errors.New("no JSON object found")

// MalformedError is returned when balanced spans exist but none parses as JSON.
// Err holds the parse error of the first span.
type MalformedError struct {
	Span string
	Err  error
}

func (e *MalformedError) Error() string {
	return e.Err.Error()
}

func (e *MalformedError) Unwrap() error {
	return e.Err
}

// FirstObject returns the first balanced {...} span of s that is valid JSON,
// compacted. Braces inside JSON string literals do not count towards nesting.
func FirstObject(s string) ([]byte, error) {
	var firstErr *MalformedError

	for start := 0; start < len(s); start++ {
		if s[start] != '{' {
			continue
		}

		end, ok := matchBrace(s, start)
		if !ok {
			continue
		}

		span := s[start : end+1]
		var buf bytes.Buffer
		if err := json.Compact(&buf, []byte(span)); err != nil {
			if firstErr == nil {
				firstErr = &MalformedError{Span: span, Err: describe(err)}
			}
			continue
		}
		return buf.Bytes(), nil
	}

	if firstErr != nil {
		return nil, firstErr
	}
	return nil, ErrNoObject
}

// matchBrace returns the index of the brace closing the one at start.
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}

	return 0, false
}

// describe adds the byte offset to syntax errors, which otherwise read as a bare token complaint.
func describe(err error) error {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Errorf("%s at offset %d", syntaxErr.Error(), syntaxErr.Offset)
	}
	return err
}
