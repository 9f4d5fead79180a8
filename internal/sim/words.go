package sim

import (
	"bufio"
	"crypto/rand"
	_ "embed"
	"errors"
	"io"
	"math/big"
	"os"
	"strings"

	"wordle-agent/internal/entity"
)

//go:embed assets/answers.txt
var embeddedAnswers string

//go:embed assets/allowed.txt
var embeddedAllowed string

// Words holds the answer pool and the set of accepted guesses (answers
// included). It is read-only after construction.
type Words struct {
	answers []string
	allowed map[string]struct{}
}

// DefaultWords returns the embedded lists.
func DefaultWords() *Words {
	w, _ := newWords(readWords(strings.NewReader(embeddedAnswers)), readWords(strings.NewReader(embeddedAllowed)))
	return w
}

// LoadWords reads one word per line from path and uses it for both answers and
// guesses. Lines that are not five letters, blanks and # comments are skipped.
func LoadWords(path string) (*Words, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return newWords(readWords(f), nil)
}

func newWords(answers, extra []string) (*Words, error) {
	if len(answers) == 0 {
		return nil, errors.New("words: answers list is empty")
	}
	allowed := make(map[string]struct{}, len(answers)+len(extra))
	for _, w := range answers {
		allowed[w] = struct{}{}
	}
	for _, w := range extra {
		allowed[w] = struct{}{}
	}
	return &Words{answers: answers, allowed: allowed}, nil
}

func readWords(r io.Reader) []string {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		w := strings.TrimSpace(strings.ToLower(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") || !entity.IsValidWord(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

// Random returns a cryptographically random answer.
func (w *Words) Random() string {
	n, _ := rand.Int(rand.Reader, big.NewInt(int64(len(w.answers))))
	return w.answers[n.Int64()]
}

// Allowed reports whether word is an accepted guess.
func (w *Words) Allowed(word string) bool {
	_, ok := w.allowed[strings.ToLower(word)]
	return ok
}

// Stats returns (answers, allowed) counts.
func (w *Words) Stats() (int, int) {
	return len(w.answers), len(w.allowed)
}
