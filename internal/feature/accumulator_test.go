package feature

import (
	"fmt"
	"net/netip"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 1, 2, 15, 0, 0, 0, time.UTC)

func newTestAccumulator(t *testing.T, window time.Duration, max int) *Accumulator {
	t.Helper()
	acc, err := NewAccumulator(window, max)
	require.NoError(t, err)
	return acc
}

func TestAccumulator_AddFailure(t *testing.T) {
	acc := newTestAccumulator(t, time.Minute, 10)
	ip := netip.MustParseAddr("192.168.1.1")

	w := acc.AddFailure(ip, base)

	assert.Equal(t, ip, w.IP)
	assert.Equal(t, 1, w.Count())
	assert.True(t, w.LastAlert.IsZero())
	assert.Same(t, w, acc.GetFeatures(ip))
}

func TestAccumulator_PrunesOutsideWindow(t *testing.T) {
	acc := newTestAccumulator(t, 60*time.Second, 10)
	ip := netip.MustParseAddr("10.0.0.1")

	var w *FailureWindow
	for i := 0; i <= 7; i++ {
		w = acc.AddFailure(ip, base.Add(time.Duration(i*10)*time.Second))
	}

	// t=0..70: t=0 is older than 70-60=10 and is gone, t=10 sits on the edge and stays
	require.Equal(t, 7, w.Count())
	assert.Equal(t, base.Add(10*time.Second), w.Failures[0])
	assert.Equal(t, base.Add(70*time.Second), w.Failures[6])
}

func TestAccumulator_OutOfOrderStaysSorted(t *testing.T) {
	acc := newTestAccumulator(t, time.Minute, 10)
	ip := netip.MustParseAddr("10.0.0.1")

	acc.AddFailure(ip, base.Add(30*time.Second))
	acc.AddFailure(ip, base.Add(10*time.Second))
	w := acc.AddFailure(ip, base.Add(20*time.Second))

	require.Equal(t, 3, w.Count())
	for i := 1; i < len(w.Failures); i++ {
		assert.False(t, w.Failures[i].Before(w.Failures[i-1]), "failures out of order at %d", i)
	}
}

func TestAccumulator_AddressesIndependent(t *testing.T) {
	acc := newTestAccumulator(t, time.Minute, 10)
	a := netip.MustParseAddr("10.0.0.1")
	b := netip.MustParseAddr("10.0.0.2")

	for i := 0; i < 3; i++ {
		acc.AddFailure(a, base)
	}
	acc.AddFailure(b, base)

	assert.Equal(t, 3, acc.GetFeatures(a).Count())
	assert.Equal(t, 1, acc.GetFeatures(b).Count())
	assert.Nil(t, acc.GetFeatures(netip.MustParseAddr("10.0.0.3")))
}

func TestAccumulator_EvictsLeastRecentlyTouched(t *testing.T) {
	acc := newTestAccumulator(t, time.Minute, 3)

	addrs := make([]netip.Addr, 4)
	for i := range addrs {
		addrs[i] = netip.MustParseAddr(fmt.Sprintf("10.0.0.%d", i+1))
	}

	acc.AddFailure(addrs[0], base)
	acc.AddFailure(addrs[1], base)
	acc.AddFailure(addrs[2], base)
	// touch the oldest so the second becomes the eviction candidate
	acc.AddFailure(addrs[0], base)
	acc.AddFailure(addrs[3], base)

	assert.Equal(t, 3, acc.Len())
	assert.NotNil(t, acc.GetFeatures(addrs[0]))
	assert.Nil(t, acc.GetFeatures(addrs[1]))
	assert.NotNil(t, acc.GetFeatures(addrs[3]))
}

func TestNewAccumulator_RejectsBadWindow(t *testing.T) {
	_, err := NewAccumulator(0, 10)
	assert.Error(t, err)
}
