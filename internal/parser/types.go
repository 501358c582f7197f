package parser

import (
	"net/netip"
	"time"
)

// Event holds the facts extracted from one raw log line. Every field other
// than Raw is best-effort and may be absent.
type Event struct {
	Timestamp time.Time  // zero when the line has no usable syslog timestamp
	IP        netip.Addr // invalid (zero) when no address was found
	User      string     // empty when no username pattern matched
	Raw       string
}

// HasTimestamp reports whether a timestamp was extracted.
func (e *Event) HasTimestamp() bool {
	return !e.Timestamp.IsZero()
}

// HasIP reports whether an address was extracted.
func (e *Event) HasIP() bool {
	return e.IP.IsValid()
}

// Parser defines the interface for log parsers
type Parser interface {
	Parse(line string) *Event
}
