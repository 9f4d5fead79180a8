package dom

import (
	"encoding/json"
	"fmt"
	"strings"

	"wordle-agent/internal/entity"
)

// TileState is one tile as scanned from the page.
type TileState struct {
	Letter string `json:"letter"`
	State  string `json:"state"`
}

// MarkFromState maps a tile's data-state attribute. tbd, empty and anything
// else count as unknown.
func MarkFromState(state string) entity.Mark {
	switch strings.ToLower(strings.TrimSpace(state)) {
	case "correct":
		return entity.MarkCorrect
	case "present":
		return entity.MarkPresent
	case "absent":
		return entity.MarkAbsent
	}
	return entity.MarkUnknown
}

// DecodeTiles parses the output of ScanTilesScript.
func DecodeTiles(raw string) ([]TileState, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return nil, nil
	}
	var tiles []TileState
	if err := json.Unmarshal([]byte(raw), &tiles); err != nil {
		return nil, fmt.Errorf("decode tiles: %w", err)
	}
	return tiles, nil
}

// RowResult returns the result of a 0-indexed row. A row that is not fully
// rendered reads as entity.Unknown.
func RowResult(tiles []TileState, row int) entity.GuessResult {
	start := row * entity.WordLength
	end := start + entity.WordLength
	if row < 0 || len(tiles) < end {
		return entity.Unknown
	}

	var r entity.GuessResult
	for i, t := range tiles[start:end] {
		r[i] = MarkFromState(t.State)
	}
	return r
}

// Board returns every complete, evaluated row as a record. Rows with a typed
// but unsubmitted or rejected word are skipped.
func Board(tiles []TileState) []entity.GuessRecord {
	var out []entity.GuessRecord
	for start := 0; start+entity.WordLength <= len(tiles); start += entity.WordLength {
		var word strings.Builder
		for _, t := range tiles[start : start+entity.WordLength] {
			word.WriteString(t.Letter)
		}
		r := RowResult(tiles, start/entity.WordLength)
		if !entity.IsValidWord(word.String()) || !r.Accepted() {
			continue
		}
		out = append(out, entity.GuessRecord{Word: strings.ToLower(word.String()), Result: r})
	}
	return out
}
