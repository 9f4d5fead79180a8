package entity

import (
	"fmt"
	"strings"
)

// WordLength: число букв в слове и клеток в строке доски.
const WordLength = 5

// Mark is the feedback shown for one letter of a guess.
type Mark byte

const (
	MarkCorrect Mark = 'c' // green
	MarkPresent Mark = 'p' // yellow
	MarkAbsent  Mark = 'a' // gray
	MarkUnknown Mark = 'u' // not evaluated (invalid word or row not rendered)
)

func (m Mark) valid() bool {
	switch m {
	case MarkCorrect, MarkPresent, MarkAbsent, MarkUnknown:
		return true
	}
	return false
}

// GuessResult: результат одной строки доски. Всегда ровно 5 отметок.
type GuessResult [WordLength]Mark

// Unknown is what a reader returns when a row could not be read.
var Unknown = GuessResult{MarkUnknown, MarkUnknown, MarkUnknown, MarkUnknown, MarkUnknown}

// AllCorrect is the only winning result.
var AllCorrect = GuessResult{MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect, MarkCorrect}

// ParseResult converts a result code such as "cpaaa".
func ParseResult(code string) (GuessResult, error) {
	var r GuessResult
	code = strings.ToLower(strings.TrimSpace(code))
	if len(code) != WordLength {
		return r, fmt.Errorf("result code %q: want %d marks, got %d", code, WordLength, len(code))
	}
	for i := 0; i < WordLength; i++ {
		m := Mark(code[i])
		if !m.valid() {
			return r, fmt.Errorf("result code %q: invalid mark %q at %d", code, code[i], i)
		}
		r[i] = m
	}
	return r, nil
}

// MustParseResult is ParseResult for literals; it panics on bad input.
func MustParseResult(code string) GuessResult {
	r, err := ParseResult(code)
	if err != nil {
		panic(err)
	}
	return r
}

func (r GuessResult) String() string {
	var b [WordLength]byte
	for i, m := range r {
		if m == 0 {
			m = MarkUnknown
		}
		b[i] = byte(m)
	}
	return string(b[:])
}

// Won reports an exact match with ccccc.
func (r GuessResult) Won() bool {
	return r == AllCorrect
}

// Accepted reports whether the game evaluated the guess. A single unknown
// position makes the whole row an invalid submission.
func (r GuessResult) Accepted() bool {
	for _, m := range r {
		if m != MarkCorrect && m != MarkPresent && m != MarkAbsent {
			return false
		}
	}
	return true
}

// GuessRecord: принятая попытка: слово и его результат.
type GuessRecord struct {
	Word   string
	Result GuessResult
}

func (g GuessRecord) String() string {
	return fmt.Sprintf("%s -> %s", strings.ToUpper(g.Word), g.Result)
}

// IsValidWord reports whether w is exactly five ASCII letters (any case).
func IsValidWord(w string) bool {
	if len(w) != WordLength {
		return false
	}
	for i := 0; i < len(w); i++ {
		c := w[i]
		if (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') {
			return false
		}
	}
	return true
}
