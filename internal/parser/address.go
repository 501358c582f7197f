package parser

import (
	"net/netip"
	"regexp"
)

const hexGroups = `[0-9a-fA-F]{1,4}(?::[0-9a-fA-F]{1,4}){0,6}`

var (
	// 192.168.1.100
	reIPv4 = regexp.MustCompile(`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}`)
	// 2001:0db8:0000:0000:0000:ff00:0042:8329
	reIPv6Full = delimited(`(?:[0-9a-fA-F]{1,4}:){7}[0-9a-fA-F]{1,4}`)
	// 2001:db8::1, fe80::1, ::1 (a bare "::" is not an address here)
	reIPv6Compressed = delimited(`(?:` + hexGroups + `::(?:` + hexGroups + `)?|::` + hexGroups + `)`)
)

// delimited requires the address to stand alone, so std::string or
// decafe::1 never yield one. The address is submatch 1.
func delimited(expr string) *regexp.Regexp {
	return regexp.MustCompile(`(?:^|[^0-9A-Za-z:])(` + expr + `)(?:$|[^0-9A-Za-z:])`)
}

// addressPatterns are tried in order: IPv4 first, then IPv6. Only the first
// match of each pattern is considered.
var addressPatterns = []*regexp.Regexp{reIPv4, reIPv6Full, reIPv6Compressed}

// extractIP returns the first address in the line, or the zero Addr. A match
// that does not parse (e.g. 999.1.1.1) counts as no match for that pattern.
func extractIP(line string) netip.Addr {
	for _, re := range addressPatterns {
		m := re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		if addr, err := netip.ParseAddr(m[len(m)-1]); err == nil {
			return addr
		}
	}
	return netip.Addr{}
}
