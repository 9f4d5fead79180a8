package sim

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"wordle-agent/internal/entity"

	"github.com/rs/zerolog"
)

// Board is an in-process game with the behaviour of the real page: letters go
// into the current row, Enter submits it, a rejected word stays typed (and the
// row stays unevaluated) until it is erased.
type Board struct {
	mu    sync.Mutex
	game  *Game
	words *Words
	typed []byte
	log   zerolog.Logger
}

// NewBoard starts a game on the given answer (random when empty).
func NewBoard(answer string, words *Words, log zerolog.Logger) (*Board, error) {
	if words == nil {
		words = DefaultWords()
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		answer = words.Random()
	}
	if !entity.IsValidWord(answer) {
		return nil, ErrInvalidGuess
	}
	// ответ вне списка нельзя было бы угадать: каждая попытка получит not_in_list
	if !words.Allowed(answer) {
		return nil, fmt.Errorf("%w: answer %q", ErrNotInList, answer)
	}
	return &Board{
		game:  NewGame("local", answer),
		words: words,
		log:   log.With().Str("component", "sim").Logger(),
	}, nil
}

// Open does nothing: there are no start screens to get past.
func (b *Board) Open(context.Context, string) error { return nil }

func (b *Board) Close() error { return nil }

// Submit types the word and presses Enter. Letters beyond the row width are
// ignored, like on the real keyboard.
func (b *Board) Submit(ctx context.Context, word string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, c := range []byte(strings.ToLower(word)) {
		if c < 'a' || c > 'z' {
			return errors.New("only letters can be typed")
		}
		if len(b.typed) < entity.WordLength {
			b.typed = append(b.typed, c)
		}
	}
	return b.enter()
}

func (b *Board) enter() error {
	if len(b.typed) < entity.WordLength {
		b.log.Debug().Str("typed", string(b.typed)).Msg("not enough letters")
		return nil
	}
	result, state, err := b.game.ApplyGuess(string(b.typed), b.words)
	if err != nil {
		// Как на сайте: слово остается в строке, строка не оценена
		b.log.Debug().Err(err).Str("typed", string(b.typed)).Msg("guess rejected")
		return nil
	}
	b.log.Debug().Str("word", string(b.typed)).Str("result", result.String()).Str("state", string(state)).Msg("guess scored")
	b.typed = b.typed[:0]
	return nil
}

// Clear presses Backspace five times.
func (b *Board) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.typed) - entity.WordLength
	if n < 0 {
		n = 0
	}
	b.typed = b.typed[:n]
	return nil
}

// ReadRow returns the evaluated result of row, or Unknown for a row that has
// not been scored.
func (b *Board) ReadRow(_ context.Context, row int) entity.GuessResult {
	b.mu.Lock()
	defer b.mu.Unlock()

	if row < 0 || row >= len(b.game.Guesses) {
		return entity.Unknown
	}
	return b.game.Guesses[row].Result
}

func (b *Board) ReadBoard(context.Context) []entity.GuessRecord {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]entity.GuessRecord(nil), b.game.Guesses...)
}

// Typed returns the letters in the current row.
func (b *Board) Typed() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.typed)
}

// Answer reveals the hidden word.
func (b *Board) Answer() string { return b.game.Answer }

// State reports the game state.
func (b *Board) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.game.State()
}
