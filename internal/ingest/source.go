package ingest

import (
	"context"
	"errors"
	"io"

	"log-sentinel/internal/config"
	"log-sentinel/internal/types"

	"go.uber.org/zap"
)

// Source yields raw log lines, newline stripped, one per call. Next returns
// io.EOF once a finite source is exhausted. Any other error is a read
// failure the caller must treat as fatal.
type Source interface {
	Next(ctx context.Context) (string, error)
	Close() error
}

// Open selects the source named by the input configuration: standard input,
// a followed file, or a static file.
func Open(cfg *types.Config, stdin io.Reader, logger *zap.Logger) (Source, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch {
	case cfg.Input.Stdin:
		logger.Info("Reading from standard input")
		return NewReaderSource(stdin, "stdin"), nil
	case cfg.Input.File == "":
		return nil, config.ErrNoInput
	case cfg.Input.Follow:
		return NewFileTailer(cfg.Input.File, cfg.Input.Poll, logger)
	default:
		logger.Info("Reading file", zap.String("path", cfg.Input.File))
		return OpenFile(cfg.Input.File)
	}
}

// IsEnd reports whether err marks the normal end of a source.
func IsEnd(err error) bool {
	return errors.Is(err, io.EOF)
}
