package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"log-sentinel/internal/types"

	"github.com/goccy/go-json"
)

// Sink receives every alert once, in emission order.
type Sink interface {
	Emit(a *types.Alert) error
}

// Record is the structured form of an alert: one JSON object per line.
type Record struct {
	ID        string         `json:"id"`
	RuleID    string         `json:"rule_id"`
	Severity  types.Severity `json:"severity"`
	Timestamp time.Time      `json:"ts"`
	IP        *string        `json:"ip"`
	User      *string        `json:"user"`
	Message   string         `json:"message"`
	Raw       string         `json:"raw"`
}

// NewRecord converts an alert; absent address and user become null.
func NewRecord(a *types.Alert) Record {
	r := Record{
		ID:        a.ID,
		RuleID:    a.RuleID,
		Severity:  a.Severity,
		Timestamp: a.Timestamp,
		Message:   a.Message,
		Raw:       a.Raw,
	}
	if a.HasIP() {
		ip := a.IP.String()
		r.IP = &ip
	}
	if a.User != "" {
		user := a.User
		r.User = &user
	}
	return r
}

// MarshalAlert encodes an alert as a single JSON object without a newline.
func MarshalAlert(a *types.Alert) ([]byte, error) {
	b, err := json.Marshal(NewRecord(a))
	if err != nil {
		return nil, fmt.Errorf("failed to encode alert %s: %w", a.RuleID, err)
	}
	return b, nil
}

// FormatText renders the single-line human form:
//
//	[High] brute_force ip=1.2.3.4 user=root :: Possible brute-force attack: ...
//	[Info] sudo_usage Sudo command executed or attempted
func FormatText(a *types.Alert) string {
	var parts []string
	if a.HasIP() {
		parts = append(parts, "ip="+a.IP.String())
	}
	if a.User != "" {
		parts = append(parts, "user="+a.User)
	}

	info := ""
	if len(parts) > 0 {
		info = " " + strings.Join(parts, " ") + " ::"
	}

	return sanitize(fmt.Sprintf("[%s] %s%s %s", a.Severity, a.RuleID, info, a.Message))
}

// TextSink writes FormatText lines.
type TextSink struct {
	w io.Writer
}

func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

func (s *TextSink) Emit(a *types.Alert) error {
	if _, err := fmt.Fprintln(s.w, FormatText(a)); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}
	return nil
}

// JSONSink writes one Record per line (JSON Lines).
type JSONSink struct {
	w io.Writer
}

func NewJSONSink(w io.Writer) *JSONSink {
	return &JSONSink{w: w}
}

func (s *JSONSink) Emit(a *types.Alert) error {
	b, err := MarshalAlert(a)
	if err != nil {
		return err
	}
	if _, err := s.w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("failed to write alert: %w", err)
	}
	return nil
}

// New returns the sink for a configured output format.
func New(format string, w io.Writer) (Sink, error) {
	switch format {
	case "", "text":
		return NewTextSink(w), nil
	case "json":
		return NewJSONSink(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// sanitize strips control characters to prevent terminal injection
func sanitize(s string) string {
	var builder strings.Builder
	for _, r := range s {
		if r >= 32 && r != 127 {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
