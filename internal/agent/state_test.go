package agent

import (
	"testing"

	"wordle-agent/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameState_Lifecycle(t *testing.T) {
	s := NewGameState(6, 30)
	assert.Equal(t, StatusNotStarted, s.Status)
	assert.False(t, s.NextAttempt(), "attempts are refused before Start")

	s.Start()
	require.True(t, s.NextAttempt())
	assert.True(t, s.Apply("crane", entity.MustParseResult("cpaaa")))
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 5, s.Remaining())
	assert.Equal(t, StatusInProgress, s.Status)
}

func TestGameState_RejectedResultIsNotRecorded(t *testing.T) {
	s := NewGameState(6, 30)
	s.Start()

	assert.False(t, s.Apply("xxxxx", entity.Unknown))
	assert.False(t, s.Apply("crane", entity.MustParseResult("cpaau")), "one unknown mark rejects the whole row")
	assert.Empty(t, s.History)
	assert.Equal(t, 0, s.Round)
}

func TestGameState_WinIsExactMatch(t *testing.T) {
	s := NewGameState(6, 30)
	s.Start()

	s.Apply("crane", entity.MustParseResult("ccccp"))
	assert.Equal(t, StatusInProgress, s.Status)

	s.Apply("crank", entity.AllCorrect)
	assert.Equal(t, StatusWon, s.Status)
	assert.False(t, s.Apply("later", entity.AllCorrect), "nothing is recorded after the game ends")
	assert.Len(t, s.History, 2)
}

func TestGameState_LostAfterMaxRounds(t *testing.T) {
	s := NewGameState(3, 30)
	s.Start()
	for i := 0; i < 3; i++ {
		s.Apply("crane", entity.MustParseResult("aaaaa"))
	}
	assert.Equal(t, StatusLost, s.Status)
	assert.True(t, s.Status.Terminal())
}

func TestGameState_AttemptCeiling(t *testing.T) {
	s := NewGameState(6, 2)
	s.Start()
	assert.True(t, s.NextAttempt())
	assert.True(t, s.NextAttempt())
	assert.False(t, s.NextAttempt())
	assert.Equal(t, StatusAborted, s.Status)
	assert.Equal(t, 2, s.Attempts)
}

func TestGameState_AbortAndFailKeepTerminalStatus(t *testing.T) {
	s := NewGameState(1, 5)
	s.Start()
	s.Apply("crane", entity.AllCorrect)

	s.Abort()
	s.Fail()
	assert.Equal(t, StatusWon, s.Status)
}

func TestGameState_SnapshotIsACopy(t *testing.T) {
	s := NewGameState(6, 30)
	s.Start()
	s.Apply("crane", entity.MustParseResult("aaaaa"))

	snap := s.Snapshot()
	snap[0].Word = "hacked"
	assert.Equal(t, "crane", s.History[0].Word)
}

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "won", StatusWon.String())
	assert.Equal(t, "aborted", StatusAborted.String())
	assert.Equal(t, "status(42)", Status(42).String())
}
