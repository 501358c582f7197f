package parser

import (
	"regexp"
	"strconv"
	"time"
)

// Jan  2 15:04:05 or Jan 2 15:04:05, anchored at the start of the line.
var reSyslogTime = regexp.MustCompile(`^([A-Z][a-z]{2})\s+(\d{1,2})\s+(\d{2}):(\d{2}):(\d{2})`)

var months = map[string]time.Month{
	"Jan": time.January, "Feb": time.February, "Mar": time.March,
	"Apr": time.April, "May": time.May, "Jun": time.June,
	"Jul": time.July, "Aug": time.August, "Sep": time.September,
	"Oct": time.October, "Nov": time.November, "Dec": time.December,
}

// extractTimestamp decodes the syslog prefix in year and loc. The zero time
// is returned when the prefix is missing or malformed, or when the wall clock
// reading does not name exactly one instant in loc.
func extractTimestamp(line string, year int, loc *time.Location) time.Time {
	m := reSyslogTime.FindStringSubmatch(line)
	if m == nil {
		return time.Time{}
	}

	month, ok := months[m[1]]
	if !ok {
		return time.Time{}
	}

	var fields [4]int
	for i, s := range m[2:] {
		n, err := strconv.Atoi(s)
		if err != nil {
			return time.Time{}
		}
		fields[i] = n
	}

	ts, ok := resolveLocal(year, month, fields[0], fields[1], fields[2], fields[3], loc)
	if !ok {
		return time.Time{}
	}
	return ts
}

// resolveLocal maps a wall clock reading in loc to the single instant that
// displays it. Readings skipped by a forward transition, or repeated by a
// backward one, are rejected.
func resolveLocal(year int, month time.Month, day, hour, min, sec int, loc *time.Location) (time.Time, bool) {
	if day < 1 || hour > 23 || min > 59 || sec > 59 {
		return time.Time{}, false
	}

	wall := time.Date(year, month, day, hour, min, sec, 0, time.UTC)
	if wall.Month() != month || wall.Day() != day {
		// Feb 30 and friends
		return time.Time{}, false
	}

	// Every instant showing this reading must use one of the offsets in
	// force around it. Zone transitions are far more than 12h apart.
	guess := time.Date(year, month, day, hour, min, sec, 0, loc)
	var found []time.Time
	for _, probe := range []time.Time{guess.Add(-12 * time.Hour), guess, guess.Add(12 * time.Hour)} {
		_, offset := probe.Zone()
		candidate := wall.Add(-time.Duration(offset) * time.Second).In(loc)
		if !sameWallClock(candidate, wall) || containsInstant(found, candidate) {
			continue
		}
		found = append(found, candidate)
	}

	if len(found) != 1 {
		return time.Time{}, false
	}
	return found[0], true
}

func sameWallClock(t, wall time.Time) bool {
	return t.Year() == wall.Year() && t.Month() == wall.Month() && t.Day() == wall.Day() &&
		t.Hour() == wall.Hour() && t.Minute() == wall.Minute() && t.Second() == wall.Second()
}

func containsInstant(ts []time.Time, t time.Time) bool {
	for _, x := range ts {
		if x.Equal(t) {
			return true
		}
	}
	return false
}
