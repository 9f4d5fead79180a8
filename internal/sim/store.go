package sim

import (
	"fmt"
	"strings"
	"sync"

	"wordle-agent/internal/entity"

	"github.com/google/uuid"
)

// Store keeps games in memory. State is lost on restart.
type Store struct {
	mu    sync.Mutex
	games map[string]*Game
	words *Words
}

func NewStore(words *Words) *Store {
	if words == nil {
		words = DefaultWords()
	}
	return &Store{games: make(map[string]*Game), words: words}
}

// Create starts a new game. An empty answer picks a random one.
func (s *Store) Create(answer string) (*Game, error) {
	answer = strings.ToLower(strings.TrimSpace(answer))
	if answer == "" {
		answer = s.words.Random()
	}
	if !entity.IsValidWord(answer) {
		return nil, fmt.Errorf("%w: answer %q", ErrInvalidGuess, answer)
	}
	if !s.words.Allowed(answer) {
		return nil, fmt.Errorf("%w: answer %q", ErrNotInList, answer)
	}

	g := NewGame(uuid.NewString(), answer)

	s.mu.Lock()
	s.games[g.ID] = g
	s.mu.Unlock()
	return g, nil
}

// Guess applies a guess to game id under the store lock.
func (s *Store) Guess(id, guess string) (entity.GuessResult, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return entity.Unknown, "", ErrNotFound
	}
	return g.ApplyGuess(guess, s.words)
}

// Snapshot returns a copy of game id.
func (s *Store) Snapshot(id string) (Game, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, ok := s.games[id]
	if !ok {
		return Game{}, ErrNotFound
	}
	cp := *g
	cp.Guesses = append([]entity.GuessRecord(nil), g.Guesses...)
	return cp, nil
}

func (s *Store) Words() *Words { return s.words }
