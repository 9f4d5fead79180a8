package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"wordle-agent/internal/entity"
	"wordle-agent/internal/llm"

	"github.com/rs/zerolog"
)

// Board читает результат строки доски. Если строка еще не отрисована или слово
// не принято, возвращается entity.Unknown, а не ошибка.
type Board interface {
	ReadRow(ctx context.Context, row int) entity.GuessResult
}

// Keyboard вводит слово через экранную клавиатуру и стирает набранное.
type Keyboard interface {
	Submit(ctx context.Context, word string) error
	Clear(ctx context.Context) error
}

// Brain: LLM. Ошибка означает "ответа нет".
type Brain interface {
	Complete(ctx context.Context, instructions, input string) (string, error)
}

var (
	// ErrAttemptsExhausted: принятых + отклоненных попыток больше MaxAttempts.
	ErrAttemptsExhausted = errors.New("attempt limit reached")
	// ErrEndedByModel: модель вызвала end_game до конца игры.
	ErrEndedByModel = errors.New("game ended by model")
	// ErrInvalidFallback: запасное слово не из 5 букв.
	ErrInvalidFallback = errors.New("fallback word must be 5 letters")
)

const (
	DefaultFallbackWord = "slope"
	DefaultMaxRounds    = 6
	DefaultMaxAttempts  = 30
	DefaultSettleDelay  = 2500 * time.Millisecond
)

// Options: вся конфигурация цикла, никаких глобальных переменных.
type Options struct {
	SessionID         string
	Instructions      string // system prompt режима workflow
	AgentInstructions string // system prompt режима агента
	FallbackWord      string
	MaxRounds         int
	MaxAttempts       int
	SettleDelay       time.Duration // пауза на анимацию клеток после Enter
	Logger            zerolog.Logger
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		Instructions: llm.WordleInstructions,
		FallbackWord: DefaultFallbackWord,
		MaxRounds:    DefaultMaxRounds,
		MaxAttempts:  DefaultMaxAttempts,
		SettleDelay:  DefaultSettleDelay,
		Logger:       zerolog.Nop(),
	}
}

// Outcome: итог одной сессии.
type Outcome struct {
	SessionID string
	Mode      string
	Status    Status
	History   []entity.GuessRecord
	Actions   []entity.ActionRecord
	Attempts  int
	Err       error
}

// Orchestrator связывает Мозг, Доску и Клавиатуру
type Orchestrator struct {
	Board    Board
	Keyboard Keyboard
	Brain    Brain

	opts Options
	log  zerolog.Logger
}

// New validates opts (zero values take defaults) and builds the orchestrator.
func New(board Board, keyboard Keyboard, brain Brain, opts Options) (*Orchestrator, error) {
	def := DefaultOptions()
	if opts.Instructions == "" {
		opts.Instructions = def.Instructions
	}
	if opts.FallbackWord == "" {
		opts.FallbackWord = def.FallbackWord
	}
	if !entity.IsValidWord(opts.FallbackWord) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFallback, opts.FallbackWord)
	}
	opts.FallbackWord = strings.ToLower(opts.FallbackWord)
	if opts.MaxRounds <= 0 {
		opts.MaxRounds = def.MaxRounds
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	if opts.MaxAttempts < opts.MaxRounds {
		return nil, fmt.Errorf("max attempts (%d) must be at least max rounds (%d)", opts.MaxAttempts, opts.MaxRounds)
	}
	if opts.AgentInstructions == "" {
		opts.AgentInstructions = llm.AgentInstructions(opts.MaxRounds, llm.Tools)
	}

	return &Orchestrator{
		Board:    board,
		Keyboard: keyboard,
		Brain:    brain,
		opts:     opts,
		log:      opts.Logger.With().Str("session", opts.SessionID).Logger(),
	}, nil
}

// PlayWorkflow играет одну партию: цикл сам ведет игру, модель только выбирает слово.
func (o *Orchestrator) PlayWorkflow(ctx context.Context) Outcome {
	log := o.log.With().Str("mode", "workflow").Logger()
	state := NewGameState(o.opts.MaxRounds, o.opts.MaxAttempts)
	state.Start()

	var err error
	for state.Status == StatusInProgress {
		if ctxErr := ctx.Err(); ctxErr != nil {
			state.Abort()
			err = ctxErr
			break
		}
		if !state.NextAttempt() {
			err = fmt.Errorf("%w (%d)", ErrAttemptsExhausted, o.opts.MaxAttempts)
			break
		}

		log.Info().Int("round", state.Round+1).Int("attempt", state.Attempts).Msg("--- round ---")

		// A. THINK
		word := o.guessWord(ctx, state)

		// B. ACT + OBSERVE
		result := o.submit(ctx, state.Round, word)
		log.Info().Str("word", word).Str("result", result.String()).Msg("guess result")

		// C. RECORD
		if !state.Apply(word, result) {
			log.Info().Int("round", state.Round+1).Msg("word not in dictionary or not submitted properly, clearing and retrying")
			o.clear(ctx)
			continue
		}
	}

	return o.finish(log, "workflow", state, nil, err)
}

// guessWord спрашивает модель и при любой неудаче возвращает запасное слово.
func (o *Orchestrator) guessWord(ctx context.Context, state *GameState) string {
	input := llm.BuildGameContext(state.History, state.MaxRounds)
	o.log.Debug().Str("context", input).Msg("llm input")

	text, err := o.Brain.Complete(ctx, o.opts.Instructions, input)
	if err != nil {
		o.log.Warn().Err(err).Str("fallback", o.opts.FallbackWord).Msg("llm unavailable, using fallback word")
		return o.opts.FallbackWord
	}

	word, err := llm.ParseWord(text)
	if err != nil {
		o.log.Warn().Err(err).Str("fallback", o.opts.FallbackWord).Msg("llm answer unusable, using fallback word")
		return o.opts.FallbackWord
	}

	o.log.Info().Str("word", word).Msg("llm chose")
	return word
}

// submit вводит слово, ждет анимацию и читает строку row.
func (o *Orchestrator) submit(ctx context.Context, row int, word string) entity.GuessResult {
	if err := o.Keyboard.Submit(ctx, word); err != nil {
		// Не фатально: строка прочитается как unknown и попытка будет повторена
		o.log.Warn().Err(err).Str("word", word).Msg("submit failed")
	}
	sleep(ctx, o.opts.SettleDelay)
	return o.Board.ReadRow(ctx, row)
}

func (o *Orchestrator) clear(ctx context.Context) {
	if err := o.Keyboard.Clear(ctx); err != nil {
		o.log.Warn().Err(err).Msg("clear failed")
	}
}

func (o *Orchestrator) finish(log zerolog.Logger, mode string, state *GameState, actions []entity.ActionRecord, err error) Outcome {
	out := Outcome{
		SessionID: o.opts.SessionID,
		Mode:      mode,
		Status:    state.Status,
		History:   state.Snapshot(),
		Actions:   actions,
		Attempts:  state.Attempts,
		Err:       err,
	}

	ev := log.Info()
	switch state.Status {
	case StatusWon:
		ev = ev.Str("word", state.History[len(state.History)-1].Word)
	case StatusAborted, StatusFailed:
		ev = log.Warn().Err(err)
	}
	ev.Str("status", state.Status.String()).
		Int("guesses", state.Round).
		Int("attempts", state.Attempts).
		Msg("game over")

	return out
}

// sleep: пауза, которую можно прервать контекстом.
func sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
