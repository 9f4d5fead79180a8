// Package sim is an offline stand-in for the real game: a scoring engine, an
// in-process board for the game loop and an HTTP page with the same DOM as
// the real site.
package sim

import (
	"errors"
	"strings"

	"wordle-agent/internal/entity"
)

const DefaultRows = 6

var (
	ErrInvalidGuess = errors.New("invalid guess")
	ErrNotInList    = errors.New("not in word list")
	ErrFinished     = errors.New("game finished")
	ErrNotFound     = errors.New("game not found")
)

// State is the coarse game state reported to clients.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// Game is one game session. Not safe for concurrent use; Store serializes access.
type Game struct {
	ID       string
	Answer   string
	Rows     int
	Guesses  []entity.GuessRecord
	Finished bool
	Won      bool
}

// NewGame starts a game with a known answer.
func NewGame(id, answer string) *Game {
	return &Game{
		ID:     id,
		Answer: strings.ToLower(answer),
		Rows:   DefaultRows,
	}
}

// ApplyGuess validates and scores a guess. A rejected guess leaves the game
// untouched.
func (g *Game) ApplyGuess(guess string, words *Words) (entity.GuessResult, State, error) {
	if g.Finished {
		return entity.Unknown, g.State(), ErrFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if !entity.IsValidWord(guess) {
		return entity.Unknown, g.State(), ErrInvalidGuess
	}
	if words != nil && !words.Allowed(guess) {
		return entity.Unknown, g.State(), ErrNotInList
	}

	result := Score(g.Answer, guess)
	g.Guesses = append(g.Guesses, entity.GuessRecord{Word: guess, Result: result})

	if result.Won() {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.Rows {
		g.Finished = true
	}
	return result, g.State(), nil
}

// State reports playing, won or lost.
func (g *Game) State() State {
	switch {
	case g.Won:
		return StateWon
	case g.Finished:
		return StateLost
	}
	return StatePlaying
}

// Score is the two-pass Wordle scoring: exact hits first, then presents limited
// by how many of each letter remain unmatched in the answer.
func Score(answer, guess string) entity.GuessResult {
	var (
		res    entity.GuessResult
		counts [26]int
	)

	for i := 0; i < entity.WordLength; i++ {
		if guess[i] == answer[i] {
			res[i] = entity.MarkCorrect
		} else {
			counts[answer[i]-'a']++
		}
	}

	for i := 0; i < entity.WordLength; i++ {
		if res[i] == entity.MarkCorrect {
			continue
		}
		j := guess[i] - 'a'
		if counts[j] > 0 {
			res[i] = entity.MarkPresent
			counts[j]--
		} else {
			res[i] = entity.MarkAbsent
		}
	}
	return res
}
