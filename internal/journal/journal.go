// Package journal keeps a summary of every finished game session.
package journal

import (
	"context"
	"time"

	"wordle-agent/internal/agent"
)

// Guess is one accepted guess.
type Guess struct {
	Word   string `json:"word"`
	Result string `json:"result"`
}

// Entry: итог одной сессии в том виде, в котором он хранится.
type Entry struct {
	SessionID  string    `json:"session_id"`
	Mode       string    `json:"mode"`
	Status     string    `json:"status"`
	Guesses    []Guess   `json:"guesses"`
	Attempts   int       `json:"attempts"`
	Steps      int       `json:"steps,omitempty"` // действий агента
	Error      string    `json:"error,omitempty"`
	Model      string    `json:"model,omitempty"`
	Driver     string    `json:"driver,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// Journal persists finished sessions.
type Journal interface {
	Record(ctx context.Context, e Entry) error
	Recent(ctx context.Context, n int) ([]Entry, error)
	Close() error
}

// FromOutcome converts a game outcome into an entry.
func FromOutcome(out agent.Outcome, startedAt, finishedAt time.Time) Entry {
	e := Entry{
		SessionID:  out.SessionID,
		Mode:       out.Mode,
		Status:     out.Status.String(),
		Guesses:    make([]Guess, 0, len(out.History)),
		Attempts:   out.Attempts,
		Steps:      len(out.Actions),
		StartedAt:  startedAt.UTC(),
		FinishedAt: finishedAt.UTC(),
	}
	for _, rec := range out.History {
		e.Guesses = append(e.Guesses, Guess{Word: rec.Word, Result: rec.Result.String()})
	}
	if out.Err != nil {
		e.Error = out.Err.Error()
	}
	return e
}

// Nop is used when no journal is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error          { return nil }
func (Nop) Recent(context.Context, int) ([]Entry, error) { return nil, nil }
func (Nop) Close() error                                 { return nil }
