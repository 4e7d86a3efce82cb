package signal

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// dottedMinute matches the vendor export format "DD-MM-YYYY HH.MM"
// (minutes separated by a dot). Matching is anchored at the start only;
// trailing garbage is tolerated.
var dottedMinute = regexp.MustCompile(`^(\d{2})-(\d{2})-(\d{4})\s+(\d{2})\.(\d{2})`)

// layouts tried in order after the dotted-minute pattern fails.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
}

// ParseTimestamp normalises a heterogeneous timestamp string into a naive
// local instant. The second return is false when the input matches none of
// the recognised formats. It never fails any other way.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	if m := dottedMinute.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		hour, _ := strconv.Atoi(m[4])
		minute, _ := strconv.Atoi(m[5])
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 && hour <= 23 && minute <= 59 {
			t := time.Date(year, time.Month(month), day, hour, minute, 0, 0, time.Local)
			// time.Date normalizes overflow (31 April becomes 1 May); a
			// round-trip mismatch means the day was invalid for the month.
			if t.Day() == day && t.Month() == time.Month(month) {
				return t, true
			}
		}
	}

	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// parseOptional handles the absent-field case for raw record pointers.
func parseOptional(s *string) (time.Time, bool) {
	if s == nil {
		return time.Time{}, false
	}
	return ParseTimestamp(*s)
}
