package parser

import (
	"net/netip"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newUTCParser() *EventParser {
	return NewEventParser(
		WithClock(fixedClock(time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC))),
		WithLocation(time.UTC),
	)
}

func TestEventParser_Parse_AuthFailure(t *testing.T) {
	p := newUTCParser()

	line := "Jan 2 15:04:05 server sshd[1]: Failed password for admin from 192.168.1.100 port 22 ssh2"
	evt := p.Parse(line)
	require.NotNil(t, evt)

	want := time.Date(2026, time.January, 2, 15, 4, 5, 0, time.UTC)
	assert.True(t, want.Equal(evt.Timestamp), "want %v, got %v", want, evt.Timestamp)
	assert.Equal(t, netip.MustParseAddr("192.168.1.100"), evt.IP)
	assert.Equal(t, "admin", evt.User)
	assert.Equal(t, line, evt.Raw)
}

func TestEventParser_Parse_CurrentYearLocalZone(t *testing.T) {
	p := NewEventParser()

	evt := p.Parse("Jan  2 15:04:05 server sshd[1234]: Failed password for admin from 192.168.1.100 port 22 ssh2")
	require.NotNil(t, evt)
	require.True(t, evt.HasTimestamp())

	ts := evt.Timestamp
	assert.Equal(t, time.Now().Year(), ts.Year())
	assert.Equal(t, time.January, ts.Month())
	assert.Equal(t, 2, ts.Day())
	assert.Equal(t, 15, ts.Hour())
	assert.Equal(t, 4, ts.Minute())
	assert.Equal(t, 5, ts.Second())
	assert.Equal(t, time.Local, ts.Location())
}

func TestEventParser_Parse_SSHSuccess(t *testing.T) {
	evt := newUTCParser().Parse("Jan  2 15:10:23 server sshd[5678]: Accepted publickey for alice from 10.0.0.50 port 54321 ssh2")
	require.NotNil(t, evt)

	assert.True(t, evt.HasTimestamp())
	assert.Equal(t, netip.MustParseAddr("10.0.0.50"), evt.IP)
	assert.Equal(t, "alice", evt.User)
}

func TestEventParser_Parse_SudoTargetUser(t *testing.T) {
	evt := newUTCParser().Parse("Jan  2 16:20:15 server sudo: alice : TTY=pts/0 ; PWD=/home/alice ; USER=root ; COMMAND=/bin/cat /etc/shadow")
	require.NotNil(t, evt)

	assert.True(t, evt.HasTimestamp())
	assert.False(t, evt.HasIP())
	// USER= names the account the command runs as, not the caller
	assert.Equal(t, "root", evt.User)
}

func TestEventParser_Parse_NoFields(t *testing.T) {
	evt := newUTCParser().Parse("kernel: eth0 link up")
	require.NotNil(t, evt)

	assert.False(t, evt.HasTimestamp())
	assert.False(t, evt.HasIP())
	assert.Empty(t, evt.User)
	assert.Equal(t, "kernel: eth0 link up", evt.Raw)
}

func TestEventParser_Parse_EmptyLine(t *testing.T) {
	assert.Nil(t, newUTCParser().Parse(""))
}

func TestExtractUser_Priority(t *testing.T) {
	matchers := newUserMatchers()

	tests := []struct {
		line string
		want string
	}{
		{"Failed password for admin from", "admin"},
		{"Accepted publickey for alice from", "alice"},
		{"Accepted keyboard-interactive/pam for carol from", "carol"},
		{"invalid user hacker from", "hacker"},
		{"USER=root COMMAND=", "root"},
		{"Disconnected from user for dave from 1.2.3.4", "dave"},
		// the first pattern wins even when a later one would be more precise
		{"Failed password for invalid user bob from 1.2.3.4", "invalid"},
		{"Invalid user eve from 1.2.3.4 USER=root", "root"},
		{"nothing to see here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, extractUser(matchers, tt.line))
		})
	}
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name string
		line string
		want string
	}{
		{"ipv4", "Failed password from 192.168.1.100 port 22", "192.168.1.100"},
		{"first ipv4 wins", "from 10.0.0.1 via 10.0.0.2", "10.0.0.1"},
		{"ipv4 before ipv6", "from 2001:db8::1 via 10.0.0.2", "10.0.0.2"},
		{"ipv6 full", "from 2001:0db8:0000:0000:0000:ff00:0042:8329 port 22", "2001:db8::ff00:42:8329"},
		{"ipv6 compressed", "Failed password for root from 2001:db8::1 port 22 ssh2", "2001:db8::1"},
		{"ipv6 loopback", "Accepted password for root from ::1 port 22", "::1"},
		{"bracketed ipv6", "from [fe80::1]:22", "fe80::1"},
		{"scope resolution is not an address", "Failed password for root from unknown: std::runtime_error", ""},
		{"trailing identifier", "auth failure via cafe::handler", ""},
		{"embedded in a longer word", "decafe::1 seen", ""},
		{"out of range octet", "from 999.1.1.1 port 22", ""},
		{"timestamp is not an address", "Jan  2 15:04:05 host cron[1]: job done", ""},
		{"none", "no address here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractIP(tt.line)
			if tt.want == "" {
				assert.False(t, got.IsValid(), "unexpected address %s", got)
				return
			}
			assert.Equal(t, netip.MustParseAddr(tt.want), got)
		})
	}
}

func TestExtractTimestamp(t *testing.T) {
	tests := []struct {
		name string
		line string
		want time.Time
	}{
		{"single space day", "Jan 2 15:04:05 host x", time.Date(2026, 1, 2, 15, 4, 5, 0, time.UTC)},
		{"padded day", "Dec 31 23:59:59 host x", time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)},
		{"unknown month", "Foo 2 15:04:05 host x", time.Time{}},
		{"lowercase month", "jan 2 15:04:05 host x", time.Time{}},
		{"not anchored", "host Jan 2 15:04:05 x", time.Time{}},
		{"hour out of range", "Jan 2 24:00:00 host x", time.Time{}},
		{"minute out of range", "Jan 2 12:60:00 host x", time.Time{}},
		{"leap second", "Jan 2 12:00:60 host x", time.Time{}},
		{"day zero", "Jan 0 12:00:00 host x", time.Time{}},
		{"impossible date", "Feb 30 12:00:00 host x", time.Time{}},
		{"unpadded hour", "Jan 2 5:04:05 host x", time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extractTimestamp(tt.line, 2026, time.UTC)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}
}

func TestExtractTimestamp_DSTTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// 2026-03-08 02:30 does not exist in New York
	assert.True(t, extractTimestamp("Mar  8 02:30:00 host x", 2026, loc).IsZero())

	// 2026-11-01 01:30 happens twice in New York
	assert.True(t, extractTimestamp("Nov  1 01:30:00 host x", 2026, loc).IsZero())

	// Either side of a transition resolves normally
	got := extractTimestamp("Nov  1 03:30:00 host x", 2026, loc)
	require.False(t, got.IsZero())
	assert.Equal(t, time.Date(2026, 11, 1, 8, 30, 0, 0, time.UTC), got.UTC())

	got = extractTimestamp("Mar  8 03:30:00 host x", 2026, loc)
	require.False(t, got.IsZero())
	assert.Equal(t, time.Date(2026, 3, 8, 7, 30, 0, 0, time.UTC), got.UTC())
}
