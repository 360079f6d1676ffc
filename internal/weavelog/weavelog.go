// Package weavelog builds the structured logger the CLI uses. Neither the
// format registry nor the evaluator logs; the evaluator
// stays synchronous and side-effect free, so every log line traces back
// to a CLI-level operation rather than interpreter internals.
package weavelog

import (
	"io"
	"log/slog"
)

// New returns a text-handler slog.Logger writing to w.
func New(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// RunResult logs one structured summary line per CLI `run` invocation:
// the run's correlation id, script path, input format, elapsed
// duration, input size, and outcome.
func RunResult(logger *slog.Logger, runID, path, format string, elapsed string, size string, err error) {
	attrs := []any{
		"run_id", runID,
		"script", path,
		"format", format,
		"elapsed", elapsed,
		"input_size", size,
	}
	if err != nil {
		logger.Error("run failed", append(attrs, "error", err.Error())...)
		return
	}
	logger.Info("run completed", attrs...)
}
