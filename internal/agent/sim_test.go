package agent

import (
	"context"
	"testing"

	"wordle-agent/internal/sim"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Полный цикл на встроенном симуляторе: отклоненное слово остается в строке,
// цикл стирает его и повторяет ту же строку.
func TestPlayWorkflow_OnSimulator(t *testing.T) {
	board, err := sim.NewBoard("crane", nil, zerolog.Nop())
	require.NoError(t, err)
	brain := &scriptedBrain{replies: answers("qwert", "slate", "crank", "crane")}

	out := newTestOrchestrator(t, board, board, brain).PlayWorkflow(context.Background())

	assert.Equal(t, StatusWon, out.Status)
	require.Len(t, out.History, 3)
	assert.Equal(t, "slate", out.History[0].Word)
	assert.Equal(t, "aacac", out.History[0].Result.String())
	assert.Equal(t, "cccca", out.History[1].Result.String())
	assert.Equal(t, 4, out.Attempts)
	assert.Equal(t, sim.StateWon, board.State())
}

func TestPlayAgent_OnSimulator(t *testing.T) {
	board, err := sim.NewBoard("slope", nil, zerolog.Nop())
	require.NoError(t, err)
	brain := &scriptedBrain{replies: []string{
		`ACTION: submit_word(word="slate")`,
		`ACTION: submit_word(word="slope")`,
	}}

	out := newTestOrchestrator(t, board, board, brain).PlayAgent(context.Background())

	assert.Equal(t, StatusWon, out.Status)
	assert.Len(t, out.History, 2)
	assert.Equal(t, board.ReadBoard(context.Background()), out.History)
}

func TestPlayAgent_OnSimulator_BracesInReasoning(t *testing.T) {
	board, err := sim.NewBoard("crane", nil, zerolog.Nop())
	require.NoError(t, err)
	brain := &scriptedBrain{replies: []string{"Known greens {c, r}.\nACTION: submit_word(word=\"crane\")"}}

	out := newTestOrchestrator(t, board, board, brain).PlayAgent(context.Background())

	assert.Equal(t, StatusWon, out.Status)
	assert.NoError(t, out.Err)
	require.Len(t, out.History, 1)
}

func TestPlayWorkflow_OnSimulator_Lost(t *testing.T) {
	board, err := sim.NewBoard("crane", nil, zerolog.Nop())
	require.NoError(t, err)
	brain := &scriptedBrain{} // модель молчит, играем запасным словом

	out := newTestOrchestrator(t, board, board, brain).PlayWorkflow(context.Background())

	assert.Equal(t, StatusLost, out.Status)
	require.Len(t, out.History, DefaultMaxRounds)
	for _, rec := range out.History {
		assert.Equal(t, "slope", rec.Word)
	}
	assert.Equal(t, sim.StateLost, board.State())
}
