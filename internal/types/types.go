package types

import (
	"fmt"
	"net/netip"
	"time"
)

// Severity is the ordered risk level of an alert: Info < Low < Medium < High.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityLow
	SeverityMedium
	SeverityHigh
)

var severityNames = [...]string{"Info", "Low", "Medium", "High"}

func (s Severity) String() string {
	if s < SeverityInfo || s > SeverityHigh {
		return fmt.Sprintf("Severity(%d)", int(s))
	}
	return severityNames[s]
}

// MarshalText renders the severity by name so JSON records carry "High", not 3.
func (s Severity) MarshalText() ([]byte, error) {
	if s < SeverityInfo || s > SeverityHigh {
		return nil, fmt.Errorf("invalid severity %d", int(s))
	}
	return []byte(severityNames[s]), nil
}

// UnmarshalText accepts the names produced by MarshalText.
func (s *Severity) UnmarshalText(b []byte) error {
	for i, name := range severityNames {
		if string(b) == name {
			*s = Severity(i)
			return nil
		}
	}
	return fmt.Errorf("unknown severity %q", string(b))
}

// Rule identifiers
const (
	RuleAuthFailure = "auth_failure"
	RuleSSHSuccess  = "ssh_success"
	RuleSudoUsage   = "sudo_usage"
	RuleBruteForce  = "brute_force"
)

// Alert is one rule's finding for one event. Alerts are not mutated after
// the rule that created them returns.
type Alert struct {
	ID        string
	RuleID    string
	Severity  Severity
	Timestamp time.Time
	IP        netip.Addr // zero value when the event carried no address
	User      string     // empty when the event carried no username
	Message   string
	Raw       string
}

// HasIP reports whether the alert carries a source address.
func (a *Alert) HasIP() bool {
	return a.IP.IsValid()
}

// Config represents the application configuration
type Config struct {
	Input struct {
		File   string `yaml:"file"`
		Stdin  bool   `yaml:"stdin"`
		Follow bool   `yaml:"follow"`
		Poll   bool   `yaml:"poll"` // poll for changes instead of inotify in follow mode
	} `yaml:"input"`

	Detection struct {
		BruteThreshold      int `yaml:"brute_threshold" validate:"gt=0"`
		BruteWindowSecs     int `yaml:"brute_window_secs" validate:"gt=0"`
		MaxTrackedAddresses int `yaml:"max_tracked_addresses" validate:"gt=0"`
	} `yaml:"detection"`

	Output struct {
		Format       string `yaml:"format" validate:"oneof=text json"`
		Summary      bool   `yaml:"summary"`
		AuditLogPath string `yaml:"audit_log_path"`
		ArchivePath  string `yaml:"archive_path"`
	} `yaml:"output"`

	Metrics struct {
		ListenAddr string `yaml:"listen_addr"` // e.g. ":9090", empty disables
	} `yaml:"metrics"`

	Log struct {
		Level string `yaml:"level" validate:"oneof=debug info warn error"`
	} `yaml:"log"`
}

// BruteWindow returns the configured brute-force window as a duration.
func (c *Config) BruteWindow() time.Duration {
	return time.Duration(c.Detection.BruteWindowSecs) * time.Second
}
