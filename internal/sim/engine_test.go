package sim

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	cases := []struct {
		answer, guess, want string
	}{
		{"crane", "crane", "ccccc"},
		{"crane", "slate", "aacac"},
		{"crane", "nacre", "ppppc"},
		// повторяющиеся буквы: желтых не больше, чем оставшихся букв в ответе
		{"abbey", "babes", "ppcca"},
		{"apple", "papal", "ppcap"},
		{"robot", "boots", "pcppa"},
		{"spool", "loops", "ppcpp"},
		{"eerie", "geese", "acpac"},
	}
	for _, tc := range cases {
		t.Run(tc.answer+"/"+tc.guess, func(t *testing.T) {
			assert.Equal(t, tc.want, Score(tc.answer, tc.guess).String())
		})
	}
}

func TestGame_ApplyGuess(t *testing.T) {
	words := DefaultWords()
	g := NewGame("g1", "CRANE")

	_, _, err := g.ApplyGuess("cran", words)
	assert.ErrorIs(t, err, ErrInvalidGuess)
	_, _, err = g.ApplyGuess("zzzzz", words)
	assert.ErrorIs(t, err, ErrNotInList)
	assert.Empty(t, g.Guesses, "rejected guesses are not recorded")

	res, state, err := g.ApplyGuess("Slate", words)
	require.NoError(t, err)
	assert.Equal(t, "aacac", res.String())
	assert.Equal(t, StatePlaying, state)

	_, state, err = g.ApplyGuess("crane", words)
	require.NoError(t, err)
	assert.Equal(t, StateWon, state)

	_, _, err = g.ApplyGuess("crane", words)
	assert.ErrorIs(t, err, ErrFinished)
}

func TestGame_Lost(t *testing.T) {
	g := NewGame("g1", "crane")
	for i := 0; i < DefaultRows; i++ {
		_, _, err := g.ApplyGuess("slate", nil)
		require.NoError(t, err)
	}
	assert.Equal(t, StateLost, g.State())
	assert.True(t, g.Finished)
	assert.False(t, g.Won)
}

func TestWords(t *testing.T) {
	w := DefaultWords()
	answers, allowed := w.Stats()
	assert.Greater(t, answers, 100)
	assert.Greater(t, allowed, answers)
	assert.True(t, w.Allowed("CRANE"))
	assert.True(t, w.Allowed("xenon"), "extra guesses are allowed")
	assert.False(t, w.Allowed("qwert"))
	assert.True(t, w.Allowed(w.Random()))
}

func TestLoadWords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(path, []byte("# list\nCRANE\nslate\ntoolong\n\n"), 0o600))

	w, err := LoadWords(path)
	require.NoError(t, err)
	answers, allowed := w.Stats()
	assert.Equal(t, 2, answers)
	assert.Equal(t, 2, allowed)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("# nothing\n"), 0o600))
	_, err = LoadWords(empty)
	assert.Error(t, err)

	_, err = LoadWords(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)
}

func TestBoard_RejectedWordStaysTyped(t *testing.T) {
	ctx := context.Background()
	b, err := NewBoard("crane", nil, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, b.Submit(ctx, "qwert"))
	assert.Equal(t, "qwert", b.Typed())
	assert.Equal(t, "uuuuu", b.ReadRow(ctx, 0).String())

	// без очистки новые буквы не влезают в строку
	require.NoError(t, b.Submit(ctx, "slate"))
	assert.Equal(t, "qwert", b.Typed())

	require.NoError(t, b.Clear(ctx))
	assert.Empty(t, b.Typed())

	require.NoError(t, b.Submit(ctx, "slate"))
	assert.Equal(t, "aacac", b.ReadRow(ctx, 0).String())
	assert.Equal(t, "uuuuu", b.ReadRow(ctx, 1).String())
	assert.Len(t, b.ReadBoard(ctx), 1)
	assert.Equal(t, StatePlaying, b.State())
}

func TestBoard_Win(t *testing.T) {
	ctx := context.Background()
	b, err := NewBoard("", nil, zerolog.Nop())
	require.NoError(t, err)

	require.NoError(t, b.Submit(ctx, b.Answer()))
	assert.True(t, b.ReadRow(ctx, 0).Won())
	assert.Equal(t, StateWon, b.State())
}

func TestNewBoard_InvalidAnswer(t *testing.T) {
	_, err := NewBoard("abc", nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidGuess)

	_, err = NewBoard("qwert", nil, zerolog.Nop())
	assert.ErrorIs(t, err, ErrNotInList)
}

func TestStore_Create_AnswerMustBeAllowed(t *testing.T) {
	s := NewStore(nil)

	_, err := s.Create("qwert")
	assert.ErrorIs(t, err, ErrNotInList)

	g, err := s.Create("CRANE")
	require.NoError(t, err)
	assert.Equal(t, "crane", g.Answer)
}
