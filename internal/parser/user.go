package parser

import (
	"regexp"
)

// userMatcher captures a username from one common auth log phrasing.
type userMatcher struct {
	name string
	re   *regexp.Regexp
}

func (m userMatcher) match(line string) (string, bool) {
	matches := m.re.FindStringSubmatch(line)
	if len(matches) < 2 {
		return "", false
	}
	return matches[1], true
}

// newUserMatchers returns the matchers in priority order. The first one that
// matches anywhere in the line wins.
func newUserMatchers() []userMatcher {
	return []userMatcher{
		// Failed password for root from 1.2.3.4 port 22 ssh2
		{name: "failed_password", re: regexp.MustCompile(`Failed password for (\S+)`)},
		// Accepted publickey for alice from 10.0.0.5 port 22 ssh2
		{name: "accepted", re: regexp.MustCompile(`Accepted \w+ for (\S+)`)},
		// Invalid user hacker from 1.2.3.4
		{name: "invalid_user", re: regexp.MustCompile(`invalid user (\S+)`)},
		// sudo: alice : TTY=pts/0 ; PWD=/home/alice ; USER=root ; COMMAND=...
		// This is the account the command runs as, not the caller.
		{name: "sudo_target", re: regexp.MustCompile(`USER=(\S+)`)},
		// Connection closed by authenticating user for bob from 1.2.3.4
		{name: "for_from", re: regexp.MustCompile(`for (\S+) from`)},
	}
}

func extractUser(matchers []userMatcher, line string) string {
	for _, m := range matchers {
		if user, ok := m.match(line); ok {
			return user
		}
	}
	return ""
}
