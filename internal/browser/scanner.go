package browser

import (
	"context"
	"time"

	"wordle-agent/internal/dom"
	"wordle-agent/internal/entity"
)

// ReadRow читает результат строки row (с нуля). Любая ошибка = entity.Unknown.
func (s *BrowserService) ReadRow(ctx context.Context, row int) entity.GuessResult {
	tiles, ok := s.scan(ctx)
	if !ok {
		return entity.Unknown
	}
	return dom.RowResult(tiles, row)
}

// ReadBoard returns every evaluated row currently on the page.
func (s *BrowserService) ReadBoard(ctx context.Context) []entity.GuessRecord {
	tiles, ok := s.scan(ctx)
	if !ok {
		return nil
	}
	return dom.Board(tiles)
}

func (s *BrowserService) scan(ctx context.Context) ([]dom.TileState, bool) {
	evalCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := s.page.Context(evalCtx).Eval(dom.ScanTilesScript)
	if err != nil {
		s.log.Warn().Err(err).Msg("⚠️ tile scan failed")
		return nil, false
	}

	tiles, err := dom.DecodeTiles(res.Value.Str())
	if err != nil {
		s.log.Warn().Err(err).Msg("⚠️ tile scan returned garbage")
		return nil, false
	}
	return tiles, true
}
