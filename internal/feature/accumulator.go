package feature

import (
	"fmt"
	"net/netip"
	"slices"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxTrackedIPs bounds the number of addresses with live state.
const DefaultMaxTrackedIPs = 5000

// FailureWindow is the brute-force state of one address.
type FailureWindow struct {
	IP netip.Addr
	// Failures holds recent failure times in ascending order. Immediately
	// after AddFailure it holds nothing older than the accumulator window.
	Failures []time.Time
	// LastAlert is the time of the last brute-force alert, zero if none.
	LastAlert time.Time
}

// Count returns the number of failures currently in the window.
func (w *FailureWindow) Count() int {
	return len(w.Failures)
}

// Accumulator tracks failure windows per address. Once MaxTrackedIPs
// addresses are held, the least recently touched one is evicted.
type Accumulator struct {
	windows *lru.Cache[netip.Addr, *FailureWindow]
	window  time.Duration
}

// NewAccumulator creates a new accumulator with the given sliding window
func NewAccumulator(window time.Duration, maxTracked int) (*Accumulator, error) {
	if window <= 0 {
		return nil, fmt.Errorf("window must be positive, got %s", window)
	}
	if maxTracked <= 0 {
		maxTracked = DefaultMaxTrackedIPs
	}

	windows, err := lru.New[netip.Addr, *FailureWindow](maxTracked)
	if err != nil {
		return nil, fmt.Errorf("failed to create address cache: %w", err)
	}

	return &Accumulator{
		windows: windows,
		window:  window,
	}, nil
}

// Window returns the sliding window length.
func (a *Accumulator) Window() time.Duration {
	return a.window
}

// AddFailure records a failure for ip at time at, then drops every failure
// strictly older than at minus the window.
func (a *Accumulator) AddFailure(ip netip.Addr, at time.Time) *FailureWindow {
	w, ok := a.windows.Get(ip)
	if !ok {
		w = &FailureWindow{IP: ip}
		a.windows.Add(ip, w)
	}

	// Lines are not guaranteed to arrive in time order; keep the queue sorted.
	i, _ := slices.BinarySearchFunc(w.Failures, at, func(e, t time.Time) int {
		if e.After(t) {
			return 1
		}
		return -1
	})
	w.Failures = slices.Insert(w.Failures, i, at)

	cutoff := at.Add(-a.window)
	drop := 0
	for drop < len(w.Failures) && w.Failures[drop].Before(cutoff) {
		drop++
	}
	w.Failures = w.Failures[drop:]

	return w
}

// GetFeatures returns the current window for an address without touching its
// recency, or nil if the address is not tracked.
func (a *Accumulator) GetFeatures(ip netip.Addr) *FailureWindow {
	w, ok := a.windows.Peek(ip)
	if !ok {
		return nil
	}
	return w
}

// Len returns the number of tracked addresses.
func (a *Accumulator) Len() int {
	return a.windows.Len()
}
