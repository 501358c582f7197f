package stats

import (
	"cmp"
	"fmt"
	"io"
	"slices"

	"log-sentinel/internal/types"
)

// Collector tallies alerts by rule and by source address.
type Collector struct {
	byRule map[string]int
	byIP   map[string]int
}

func NewCollector() *Collector {
	return &Collector{
		byRule: make(map[string]int),
		byIP:   make(map[string]int),
	}
}

// Emit implements output.Sink.
func (c *Collector) Emit(a *types.Alert) error {
	c.Observe(a)
	return nil
}

// Observe counts one alert.
func (c *Collector) Observe(a *types.Alert) {
	c.byRule[a.RuleID]++
	if a.HasIP() {
		c.byIP[a.IP.String()]++
	}
}

// Count is one tally entry.
type Count struct {
	Key   string
	Count int
}

// ByRule returns rule counts, highest first.
func (c *Collector) ByRule() []Count {
	return sorted(c.byRule)
}

// TopIPs returns the n addresses with the most alerts, highest first.
func (c *Collector) TopIPs(n int) []Count {
	counts := sorted(c.byIP)
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

// WriteSummary prints the end-of-run report.
func (c *Collector) WriteSummary(w io.Writer, topN int) error {
	if _, err := fmt.Fprintln(w, "\n== Summary =="); err != nil {
		return err
	}
	fmt.Fprintln(w, "By rule:")
	for _, rc := range c.ByRule() {
		fmt.Fprintf(w, "  %s: %d\n", rc.Key, rc.Count)
	}
	fmt.Fprintln(w, "Top IPs:")
	for _, ic := range c.TopIPs(topN) {
		fmt.Fprintf(w, "  %s: %d\n", ic.Key, ic.Count)
	}
	return nil
}

// sorted orders by count descending; ties by key keep the report stable.
func sorted(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for k, v := range m {
		out = append(out, Count{Key: k, Count: v})
	}
	slices.SortFunc(out, func(a, b Count) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Key, b.Key)
	})
	return out
}
