package agent

import (
	"context"
	"fmt"

	"wordle-agent/internal/entity"
	"wordle-agent/internal/llm"

	"github.com/rs/zerolog"
)

// PlayAgent играет партию в режиме агента: на каждом шаге модель выбирает одно
// действие из закрытого набора, а цикл его проверяет и исполняет.
// Вся бухгалтерия игры остается у цикла.
func (o *Orchestrator) PlayAgent(ctx context.Context) Outcome {
	log := o.log.With().Str("mode", "agent").Logger()
	state := NewGameState(o.opts.MaxRounds, o.opts.MaxAttempts)
	state.Start()

	var (
		actions []entity.ActionRecord
		err     error
	)

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

		log.Info().Int("step", state.Attempts).Int("round", state.Round+1).Msg("--- STEP ---")

		// A. THINK
		input := llm.BuildAgentContext(actions, state.History, state.MaxRounds)
		text, callErr := o.Brain.Complete(ctx, o.opts.AgentInstructions, input)
		if callErr != nil {
			log.Warn().Err(callErr).Msg("🧠 llm error, skipping step")
			continue
		}

		action, parseErr := llm.ParseAction(text)
		if parseErr != nil {
			log.Error().Err(parseErr).Str("raw", text).Msg("❌ bad action from model")
			state.Fail()
			err = parseErr
			break
		}
		log.Info().Str("reasoning", action.Reasoning).Str("action", action.String()).Msg("⚡ action")

		// B. ACT
		result, endErr := o.execute(ctx, log, state, action)
		log.Info().Str("result", result).Msg("✅ result")

		// C. RECORD
		actions = append(actions, entity.ActionRecord{
			Reasoning: action.Reasoning,
			Action:    action.String(),
			Result:    result,
		})
		if endErr != nil {
			err = endErr
		}
	}

	return o.finish(log, "agent", state, actions, err)
}

// execute исполняет одно проверенное действие и возвращает текст для модели.
// Ошибка возвращается только когда модель завершила игру досрочно.
func (o *Orchestrator) execute(ctx context.Context, log zerolog.Logger, state *GameState, action entity.Action) (string, error) {
	switch action.Kind {
	case entity.ActionSubmitWord:
		row := state.Round
		result := o.submit(ctx, row, action.Word)
		if !state.Apply(action.Word, result) {
			o.clear(ctx)
			return fmt.Sprintf("Rejected: %s was not accepted (row %d reads %s), input cleared", action.Word, row+1, result), nil
		}

		msg := fmt.Sprintf("Accepted: %s -> %s", action.Word, result)
		switch state.Status {
		case StatusWon:
			msg += ". Solved!"
		case StatusLost:
			msg += ". No guesses left."
		}
		return msg, nil

	case entity.ActionClearWord:
		if err := o.Keyboard.Clear(ctx); err != nil {
			return fmt.Sprintf("Error clearing input: %v", err), nil
		}
		return "Input cleared", nil

	case entity.ActionReadBoard:
		if len(state.History) == 0 {
			return "Board is empty", nil
		}
		return llm.FormatGuessHistory(state.History), nil

	case entity.ActionEndGame:
		// Won/Lost уже выставлены циклом, сюда попадаем только пока игра идет
		log.Warn().Str("claimed", string(action.Status)).Msg("model ended the game early")
		state.Abort()
		return fmt.Sprintf("Game ended by model (claimed %s)", action.Status), fmt.Errorf("%w: claimed %s", ErrEndedByModel, action.Status)
	}

	// ParseAction не пропускает другие варианты
	state.Fail()
	return "Unknown action", fmt.Errorf("%w: %s", llm.ErrUnknownTool, action.Kind)
}
