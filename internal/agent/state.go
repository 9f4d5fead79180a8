package agent

import (
	"fmt"

	"wordle-agent/internal/entity"
)

// Status: состояние сессии. Won, Lost, Aborted и Failed терминальные.
type Status int

const (
	StatusNotStarted Status = iota
	StatusInProgress
	StatusWon
	StatusLost
	StatusAborted // лимит попыток, отмена контекста или модель сдалась
	StatusFailed  // неизвестное или битое действие от модели
)

func (s Status) String() string {
	switch s {
	case StatusNotStarted:
		return "not_started"
	case StatusInProgress:
		return "in_progress"
	case StatusWon:
		return "won"
	case StatusLost:
		return "lost"
	case StatusAborted:
		return "aborted"
	case StatusFailed:
		return "failed"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Terminal reports whether no more guesses may be made.
func (s Status) Terminal() bool {
	return s >= StatusWon
}

// GameState принадлежит только игровому циклу. Коллабораторы возвращают сырые
// наблюдения, цикл сам решает, что с ними делать.
type GameState struct {
	History     []entity.GuessRecord
	Round       int // число принятых попыток == индекс строки доски для следующей
	MaxRounds   int
	Attempts    int // принятые + отклоненные
	MaxAttempts int
	Status      Status
}

// NewGameState creates a state in StatusNotStarted.
func NewGameState(maxRounds, maxAttempts int) *GameState {
	return &GameState{
		MaxRounds:   maxRounds,
		MaxAttempts: maxAttempts,
		Status:      StatusNotStarted,
	}
}

// Start moves NotStarted -> InProgress.
func (s *GameState) Start() {
	if s.Status == StatusNotStarted {
		s.Status = StatusInProgress
	}
}

// NextAttempt reserves one more submission. When the attempt ceiling is already
// reached the session is aborted and false is returned.
func (s *GameState) NextAttempt() bool {
	if s.Status != StatusInProgress {
		return false
	}
	if s.Attempts >= s.MaxAttempts {
		s.Status = StatusAborted
		return false
	}
	s.Attempts++
	return true
}

// Apply folds one observed result into the state. A result with any unknown
// position is rejected: nothing is recorded and Round does not move.
// Returns whether the guess was accepted.
func (s *GameState) Apply(word string, result entity.GuessResult) bool {
	if s.Status != StatusInProgress || !result.Accepted() {
		return false
	}

	s.History = append(s.History, entity.GuessRecord{Word: word, Result: result})
	s.Round++

	switch {
	case result.Won():
		s.Status = StatusWon
	case s.Round >= s.MaxRounds:
		s.Status = StatusLost
	}
	return true
}

// Abort ends an in-progress session as Aborted.
func (s *GameState) Abort() {
	if !s.Status.Terminal() {
		s.Status = StatusAborted
	}
}

// Fail ends an in-progress session as Failed.
func (s *GameState) Fail() {
	if !s.Status.Terminal() {
		s.Status = StatusFailed
	}
}

// Remaining: сколько попыток осталось.
func (s *GameState) Remaining() int {
	return s.MaxRounds - s.Round
}

// Snapshot returns a copy of the history.
func (s *GameState) Snapshot() []entity.GuessRecord {
	return append([]entity.GuessRecord(nil), s.History...)
}
