package audit

import (
	"fmt"
	"os"
	"sync"

	"log-sentinel/internal/output"
	"log-sentinel/internal/types"
)

// Logger handles appending alerts to the audit log, one JSON record per line
type Logger struct {
	mu       sync.Mutex
	filePath string
}

// NewLogger creates a new audit logger
func NewLogger(filePath string) *Logger {
	return &Logger{
		filePath: filePath,
	}
}

// Emit appends the alert to the audit log. The file is opened per write so
// an external rotation of the audit log is picked up without a restart.
func (l *Logger) Emit(a *types.Alert) error {
	b, err := output.MarshalAlert(a)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}

	if _, err := f.Write(append(b, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return f.Close()
}
