package dom

import (
	"testing"

	"wordle-agent/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const scanned = `[
 {"letter":"c","state":"correct"},{"letter":"r","state":"present"},{"letter":"a","state":"absent"},{"letter":"n","state":"absent"},{"letter":"e","state":"absent"},
 {"letter":"q","state":"tbd"},{"letter":"w","state":"tbd"},{"letter":"e","state":"tbd"},{"letter":"r","state":"tbd"},{"letter":"t","state":"tbd"},
 {"letter":"","state":"empty"},{"letter":"","state":"empty"},{"letter":"","state":"empty"},{"letter":"","state":"empty"},{"letter":"","state":"empty"}
]`

func TestRowResult(t *testing.T) {
	tiles, err := DecodeTiles(scanned)
	require.NoError(t, err)
	require.Len(t, tiles, 15)

	assert.Equal(t, "cpaaa", RowResult(tiles, 0).String())
	assert.Equal(t, "uuuuu", RowResult(tiles, 1).String(), "typed but rejected row")
	assert.Equal(t, "uuuuu", RowResult(tiles, 2).String())
	assert.Equal(t, entity.Unknown, RowResult(tiles, 3), "row not rendered")
	assert.Equal(t, entity.Unknown, RowResult(tiles, -1))
}

func TestBoard(t *testing.T) {
	tiles, err := DecodeTiles(scanned)
	require.NoError(t, err)

	board := Board(tiles)
	require.Len(t, board, 1)
	assert.Equal(t, "crane", board[0].Word)
	assert.Equal(t, "cpaaa", board[0].Result.String())
}

func TestDecodeTiles(t *testing.T) {
	tiles, err := DecodeTiles("null")
	require.NoError(t, err)
	assert.Empty(t, tiles)

	_, err = DecodeTiles("{")
	assert.Error(t, err)
}

func TestMarkFromState(t *testing.T) {
	assert.Equal(t, entity.MarkCorrect, MarkFromState("correct"))
	assert.Equal(t, entity.MarkPresent, MarkFromState(" Present "))
	assert.Equal(t, entity.MarkAbsent, MarkFromState("absent"))
	assert.Equal(t, entity.MarkUnknown, MarkFromState("tbd"))
	assert.Equal(t, entity.MarkUnknown, MarkFromState(""))
}

func TestKey(t *testing.T) {
	assert.Equal(t, `button[data-key="a"]`, Key('a'))
}
