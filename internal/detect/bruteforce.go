package detect

import (
	"fmt"
	"net/netip"
	"time"

	"log-sentinel/internal/feature"
	"log-sentinel/internal/metrics"
	"log-sentinel/internal/types"
)

// BruteForceCooldown is the minimum gap between two brute-force alerts for
// the same address. It does not depend on the configured window.
const BruteForceCooldown = 5 * time.Minute

// BruteForceDetector raises a High alert when one address produces threshold
// failures within the window, at most once per cooldown.
type BruteForceDetector struct {
	threshold int
	features  *feature.Accumulator
}

// NewBruteForceDetector creates a detector tracking at most maxTracked addresses.
func NewBruteForceDetector(threshold int, window time.Duration, maxTracked int) (*BruteForceDetector, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("brute-force threshold must be positive, got %d", threshold)
	}
	features, err := feature.NewAccumulator(window, maxTracked)
	if err != nil {
		return nil, fmt.Errorf("brute-force window: %w", err)
	}
	return &BruteForceDetector{
		threshold: threshold,
		features:  features,
	}, nil
}

func (d *BruteForceDetector) ID() string { return types.RuleBruteForce }

func (d *BruteForceDetector) evaluate(o *observation) *types.Alert {
	// Only failures with a known source count. Everything else leaves the
	// state untouched.
	if !isAuthFailure(o.lower) || !o.evt.HasIP() {
		return nil
	}

	at := o.effectiveTime()
	w := d.features.AddFailure(o.evt.IP, at)
	metrics.TrackedAddresses.Set(float64(d.features.Len()))

	if w.Count() < d.threshold {
		return nil
	}

	if !w.LastAlert.IsZero() && at.Sub(w.LastAlert) < BruteForceCooldown {
		metrics.BruteForceSuppressed.Inc()
		return nil
	}
	w.LastAlert = at

	msg := fmt.Sprintf("Possible brute-force attack: %d failures in %d seconds",
		w.Count(), int64(d.features.Window()/time.Second))
	return newAlert(types.RuleBruteForce, types.SeverityHigh, at, o.evt, msg)
}

// State returns the tracked failure window of an address, or nil if it has none.
func (d *BruteForceDetector) State(ip netip.Addr) *feature.FailureWindow {
	return d.features.GetFeatures(ip)
}

// TrackedAddresses returns the number of addresses with live state.
func (d *BruteForceDetector) TrackedAddresses() int {
	return d.features.Len()
}
