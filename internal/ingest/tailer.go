package ingest

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nxadm/tail"
	"go.uber.org/zap"
)

// FileTailer follows a growing file like tail -F. When no complete line is
// available it waits, and the tail poller checks every 250ms whether the
// path now names a different file. A replaced file is read from its start.
// A line split across a rotation is not reassembled.
type FileTailer struct {
	path   string
	t      *tail.Tail
	logger *zap.Logger
}

// NewFileTailer starts following path. The file must exist.
func NewFileTailer(path string, poll bool, logger *zap.Logger) (*FileTailer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	// Config for tailing (follow, reopen on rotate)
	config := tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: true,
		Poll:      poll, // inotify misses events on some filesystems/docker mounts
		Logger:    zap.NewStdLog(logger.Named("tail")),
	}

	logger.Info("Following file", zap.String("path", path), zap.Bool("poll", poll))

	t, err := tail.TailFile(path, config)
	if err != nil {
		return nil, fmt.Errorf("failed to tail file %s: %w", path, err)
	}

	return &FileTailer{
		path:   path,
		t:      t,
		logger: logger,
	}, nil
}

// Next blocks until a line is available, ctx is done, or the tailer dies.
func (f *FileTailer) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-f.t.Lines:
		if !ok {
			// The tailer only stops on Close or a failure it cannot recover from.
			if err := f.t.Wait(); err != nil {
				return "", fmt.Errorf("failed to follow %s: %w", f.path, err)
			}
			return "", io.EOF
		}
		if line.Err != nil {
			return "", fmt.Errorf("failed to read %s: %w", f.path, line.Err)
		}
		return strings.TrimSuffix(line.Text, "\r"), nil
	}
}

// Close stops the tailing
func (f *FileTailer) Close() error {
	err := f.t.Stop()
	f.t.Cleanup()
	return err
}
