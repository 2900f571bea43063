package phh

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/lox/headsup/internal/fileutil"
	"github.com/lox/headsup/internal/game"
)

// Recorder writes each completed hand to <dir>/<game id>/<hand id>.phh.
type Recorder struct {
	dir    string
	opts   Options
	logger zerolog.Logger
}

// NewRecorder creates a recorder rooted at dir.
func NewRecorder(dir string, opts Options, logger zerolog.Logger) *Recorder {
	if dir == "" {
		dir = "hands"
	}
	return &Recorder{
		dir:    dir,
		opts:   opts,
		logger: logger.With().Str("component", "phh").Logger(),
	}
}

// Path returns where a hand's history is written.
func (r *Recorder) Path(gameID, handID string) string {
	return filepath.Join(r.dir, gameID, handID+".phh")
}

// Record exports a completed hand.
func (r *Recorder) Record(g game.Game, h game.Hand) error {
	hist, err := FromHand(g, h, r.opts)
	if err != nil {
		return err
	}
	data, err := EncodeToBytes(hist)
	if err != nil {
		return fmt.Errorf("phh: encode hand %s: %w", h.ID, err)
	}
	path := r.Path(g.ID, h.ID)
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("phh: write hand %s: %w", h.ID, err)
	}
	r.logger.Debug().
		Str("game_id", g.ID).
		Str("hand_id", h.ID).
		Str("path", path).
		Msg("Hand history written")
	return nil
}
