package detect

import (
	"strings"
	"time"

	"log-sentinel/internal/parser"
	"log-sentinel/internal/types"

	"github.com/google/uuid"
)

// observation is one event as seen by the rules: the event itself, its
// lowercased line and the evaluation-time clock reading.
type observation struct {
	evt   *parser.Event
	lower string
	now   time.Time
}

// effectiveTime is the event's own timestamp, or the evaluation clock when
// the line had none.
func (o *observation) effectiveTime() time.Time {
	if o.evt.HasTimestamp() {
		return o.evt.Timestamp
	}
	return o.now
}

// Rule turns one observation into at most one alert.
type Rule interface {
	ID() string
	evaluate(o *observation) *types.Alert
}

// statelessRule is a Rule with no memory between events.
type statelessRule struct {
	id    string
	check func(o *observation) (types.Severity, string, bool)
}

func (r statelessRule) ID() string { return r.id }

func (r statelessRule) evaluate(o *observation) *types.Alert {
	sev, msg, ok := r.check(o)
	if !ok {
		return nil
	}
	return newAlert(r.id, sev, o.effectiveTime(), o.evt, msg)
}

func newAlert(ruleID string, sev types.Severity, ts time.Time, evt *parser.Event, msg string) *types.Alert {
	return &types.Alert{
		ID:        uuid.NewString(),
		RuleID:    ruleID,
		Severity:  sev,
		Timestamp: ts,
		IP:        evt.IP,
		User:      evt.User,
		Message:   msg,
		Raw:       evt.Raw,
	}
}

// isAuthFailure is shared by the auth failure rule and the brute-force detector.
func isAuthFailure(lower string) bool {
	return strings.Contains(lower, "failed password") || strings.Contains(lower, "authentication failure")
}

// authFailureRule: Failed password for root from 1.2.3.4, pam_unix(...): authentication failure
func authFailureRule() Rule {
	return statelessRule{
		id: types.RuleAuthFailure,
		check: func(o *observation) (types.Severity, string, bool) {
			if !isAuthFailure(o.lower) {
				return 0, "", false
			}
			return types.SeverityMedium, "Authentication failure detected", true
		},
	}
}

// sshSuccessRule: Accepted password/publickey for alice from 10.0.0.5
func sshSuccessRule() Rule {
	return statelessRule{
		id: types.RuleSSHSuccess,
		check: func(o *observation) (types.Severity, string, bool) {
			if !strings.Contains(o.lower, "accepted password") && !strings.Contains(o.lower, "accepted publickey") {
				return 0, "", false
			}
			return types.SeverityInfo, "Successful SSH login", true
		},
	}
}

// sudoUsageRule fires on any sudo line. A failed sudo authentication is High,
// a command execution Low, anything else Info.
func sudoUsageRule() Rule {
	return statelessRule{
		id: types.RuleSudoUsage,
		check: func(o *observation) (types.Severity, string, bool) {
			raw := o.evt.Raw
			if !strings.Contains(raw, "sudo:") {
				return 0, "", false
			}

			sev := types.SeverityInfo
			switch {
			case strings.Contains(o.lower, "authentication failure"):
				sev = types.SeverityHigh
			case strings.Contains(raw, "COMMAND="):
				sev = types.SeverityLow
			}
			return sev, "Sudo command executed or attempted", true
		},
	}
}
