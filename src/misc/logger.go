package misc

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// NewLogger builds the bench logger. Verbosity levels follow the runner
// convention: 0 reports run progress and verdicts, 1 adds per-transaction
// detail, 2 and above adds per-edge detail with source locations.
func NewLogger(verbose int) *slog.Logger {
	level := slog.LevelInfo
	if verbose >= 1 {
		level = slog.LevelDebug
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05.000",
		AddSource:  verbose >= 2,
	}))
}
