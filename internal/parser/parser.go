package parser

import (
	"time"
)

// EventParser extracts timestamp, address and username from free-text auth
// log lines. It holds no per-line state and never fails.
type EventParser struct {
	userMatchers []userMatcher
	now          func() time.Time
	loc          *time.Location
}

// Option configures an EventParser.
type Option func(*EventParser)

// WithClock sets the clock used to pick the year for syslog timestamps.
func WithClock(now func() time.Time) Option {
	return func(p *EventParser) { p.now = now }
}

// WithLocation sets the zone syslog wall clock readings are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(p *EventParser) { p.loc = loc }
}

// NewEventParser creates a parser reading timestamps in the local zone.
func NewEventParser(opts ...Option) *EventParser {
	p := &EventParser{
		userMatchers: newUserMatchers(),
		now:          time.Now,
		loc:          time.Local,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse implements the Parser interface. An empty line carries no facts and
// yields nil; any other line yields an Event.
func (p *EventParser) Parse(line string) *Event {
	if line == "" {
		return nil
	}

	// Syslog omits the year, assume the current one
	year := p.now().In(p.loc).Year()

	return &Event{
		Timestamp: extractTimestamp(line, year, p.loc),
		IP:        extractIP(line),
		User:      extractUser(p.userMatchers, line),
		Raw:       line,
	}
}
