package detect

import (
	"strings"
	"time"

	"log-sentinel/internal/feature"
	"log-sentinel/internal/parser"
	"log-sentinel/internal/types"
)

// Engine is the core detection engine. It is not safe for concurrent use:
// the brute-force state is owned by the engine and mutated on every failure.
type Engine struct {
	rules []Rule
	brute *BruteForceDetector
	now   func() time.Time
}

// Option configures an Engine.
type Option func(*engineOptions)

type engineOptions struct {
	now        func() time.Time
	maxTracked int
}

// WithClock sets the clock used for events that carry no timestamp.
func WithClock(now func() time.Time) Option {
	return func(o *engineOptions) { o.now = now }
}

// WithMaxTrackedAddresses bounds the brute-force state.
func WithMaxTrackedAddresses(n int) Option {
	return func(o *engineOptions) { o.maxTracked = n }
}

// NewEngine creates a new detection engine
func NewEngine(threshold int, window time.Duration, opts ...Option) (*Engine, error) {
	o := engineOptions{
		now:        time.Now,
		maxTracked: feature.DefaultMaxTrackedIPs,
	}
	for _, opt := range opts {
		opt(&o)
	}

	brute, err := NewBruteForceDetector(threshold, window, o.maxTracked)
	if err != nil {
		return nil, err
	}

	return &Engine{
		// Alerts for one event come out in this order.
		rules: []Rule{
			authFailureRule(),
			sshSuccessRule(),
			sudoUsageRule(),
			brute,
		},
		brute: brute,
		now:   o.now,
	}, nil
}

// Process applies every rule to one event and returns the alerts it raised.
func (e *Engine) Process(evt *parser.Event) []*types.Alert {
	if evt == nil {
		return nil
	}

	o := &observation{
		evt:   evt,
		lower: strings.ToLower(evt.Raw),
		now:   e.now(),
	}

	var alerts []*types.Alert
	for _, r := range e.rules {
		if a := r.evaluate(o); a != nil {
			alerts = append(alerts, a)
		}
	}
	return alerts
}

// BruteForce exposes the stateful detector for inspection.
func (e *Engine) BruteForce() *BruteForceDetector {
	return e.brute
}
