// Package posixtz evaluates POSIX TZ strings as found in the footer of
// TZif version 2+ files, e.g. "CET-1CEST,M3.5.0,M10.5.0/3".
package posixtz

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/ngrash/worldclock/internal/unixtime"
)

// A basic regex to capture the main parts:
//  1. Standard Time Abbr (STD)
//  2. STD Offset
//  3. Optional DST Abbr (DST)
//  4. Optional DST Offset (one hour ahead of STD if absent)
//  5. Optional DST Start Rule
//  6. Optional DST End Rule
var tzRegexp = regexp.MustCompile(`^(?P<StdName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)` +
	`(?P<StdOffset>[-+]?[0-9]+(?::[0-9]+){0,2})` +
	`(?P<DstName>[[:alpha:]]{3,}|<[[:alnum:]+-]+>)?` +
	`(?P<DstOffset>[-+]?[0-9]+(?::[0-9]+){0,2})?` +
	`(?:,(?P<StartRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?)` +
	`,(?P<EndRule>(?:J?[0-9]+|M[0-9]+(?:\.[0-9]+){2})(?:/[+-]?[0-9]+(?::[0-9]+){0,2})?))?$`)

// defaultRules is used when a DST name is given without rules.
// It matches what most TZ implementations assume (US rules since 2007).
const defaultRules = "M3.2.0,M11.1.0"

// Zone is one side of a TZ string: a designation and its offset.
type Zone struct {
	Name   string
	Offset int32 // seconds east of UT
}

// TZ is a parsed POSIX TZ string.
type TZ struct {
	Std Zone
	// Dst is only meaningful when HasDST is true.
	Dst    Zone
	HasDST bool
	Start  Rule
	End    Rule
}

type ruleForm int

const (
	ruleJulian     ruleForm = iota // Jn, 1 <= n <= 365, February 29 never counted
	ruleZeroJulian                 // n, 0 <= n <= 365, February 29 counted
	ruleMonthWeek                  // Mm.w.d
)

// Rule describes the day and local time of a transition.
type Rule struct {
	form  ruleForm
	day   int // Julian day or weekday
	week  int
	month int
	// Time is the local time of day of the transition in seconds.
	// It may be negative or exceed 24 hours (RFC8536 section 3.3.1).
	Time int
}

// Parse parses a POSIX TZ string.
func Parse(s string) (TZ, error) {
	var tz TZ
	m := tzRegexp.FindStringSubmatch(s)
	if m == nil {
		return tz, fmt.Errorf("invalid POSIX TZ string format: %q", s)
	}
	stdName, stdOffset, dstName, dstOffset, start, end := m[1], m[2], m[3], m[4], m[5], m[6]

	off, err := parseOffset(stdOffset)
	if err != nil {
		return tz, fmt.Errorf("invalid standard offset: %w", err)
	}
	// POSIX offsets are west of Greenwich.
	tz.Std = Zone{Name: trimBrackets(stdName), Offset: int32(-off)}

	if dstName == "" {
		if start != "" {
			return tz, fmt.Errorf("rules without daylight saving time name: %q", s)
		}
		return tz, nil
	}

	tz.HasDST = true
	tz.Dst = Zone{Name: trimBrackets(dstName), Offset: tz.Std.Offset + 3600}
	if dstOffset != "" {
		off, err := parseOffset(dstOffset)
		if err != nil {
			return tz, fmt.Errorf("invalid daylight offset: %w", err)
		}
		tz.Dst.Offset = int32(-off)
	}

	if start == "" {
		start, end, _ = strings.Cut(defaultRules, ",")
	}
	if tz.Start, err = parseRule(start); err != nil {
		return tz, fmt.Errorf("invalid start rule %q: %w", start, err)
	}
	if tz.End, err = parseRule(end); err != nil {
		return tz, fmt.Errorf("invalid end rule %q: %w", end, err)
	}
	return tz, nil
}

func trimBrackets(s string) string {
	return strings.TrimSuffix(strings.TrimPrefix(s, "<"), ">")
}

// parseOffset converts "[+-]hh[:mm[:ss]]" to seconds.
func parseOffset(s string) (int, error) {
	sign := 1
	if strings.HasPrefix(s, "+") {
		s = s[1:]
	} else if strings.HasPrefix(s, "-") {
		s = s[1:]
		sign = -1
	}

	var secs int
	for i, part := range strings.Split(s, ":") {
		if i > 2 {
			return 0, fmt.Errorf("too many fields in %q", s)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return 0, err
		}
		secs += n * []int{3600, 60, 1}[i]
	}
	return sign * secs, nil
}

func parseRule(s string) (Rule, error) {
	r := Rule{Time: 2 * 3600}
	date, clock, hasTime := strings.Cut(s, "/")
	if hasTime {
		t, err := parseOffset(clock)
		if err != nil {
			return r, fmt.Errorf("invalid time: %w", err)
		}
		r.Time = t
	}

	switch {
	case strings.HasPrefix(date, "J"):
		n, err := strconv.Atoi(date[1:])
		if err != nil || n < 1 || n > 365 {
			return r, fmt.Errorf("invalid julian day %q", date)
		}
		r.form, r.day = ruleJulian, n
	case strings.HasPrefix(date, "M"):
		parts := strings.Split(date[1:], ".")
		var nums [3]int
		for i, p := range parts {
			n, err := strconv.Atoi(p)
			if err != nil {
				return r, err
			}
			nums[i] = n
		}
		if nums[0] < 1 || nums[0] > 12 || nums[1] < 1 || nums[1] > 5 || nums[2] < 0 || nums[2] > 6 {
			return r, fmt.Errorf("out of range: %q", date)
		}
		r.form, r.month, r.week, r.day = ruleMonthWeek, nums[0], nums[1], nums[2]
	default:
		n, err := strconv.Atoi(date)
		if err != nil || n < 0 || n > 365 {
			return r, fmt.Errorf("invalid zero-based julian day %q", date)
		}
		r.form, r.day = ruleZeroJulian, n
	}
	return r, nil
}

// localStart returns the local wall-clock time of the transition in year,
// as seconds since 1970-01-01 00:00 in the same local frame.
func (r Rule) localStart(year int) int64 {
	var day int64
	switch r.form {
	case ruleJulian:
		n := r.day - 1
		if isLeapYear(year) && r.day >= 60 {
			n++
		}
		day = unixtime.FromDateTime(year, 1, 1, 0, 0, 0) + int64(n)*unixtime.SecondsPerDay
	case ruleZeroJulian:
		day = unixtime.FromDateTime(year, 1, 1, 0, 0, 0) + int64(r.day)*unixtime.SecondsPerDay
	case ruleMonthWeek:
		d := nthWeekdayOfMonth(year, r.month, r.week, r.day)
		day = unixtime.FromDateTime(year, r.month, d, 0, 0, 0)
	}
	return day + int64(r.Time)
}

// transitions returns the UT instants at which DST starts and ends in year.
func (tz TZ) transitions(year int) (start, end int64) {
	// The start rule is given in standard time, the end rule in daylight time.
	start = tz.Start.localStart(year) - int64(tz.Std.Offset)
	end = tz.End.localStart(year) - int64(tz.Dst.Offset)
	return start, end
}

// Lookup returns the zone in effect at the given Unix time and whether it
// is daylight saving time.
func (tz TZ) Lookup(unix int64) (Zone, bool) {
	if !tz.HasDST {
		return tz.Std, false
	}
	year := unixtime.Year(unix + int64(tz.Std.Offset))
	start, end := tz.transitions(year)
	var dst bool
	if start < end {
		dst = start <= unix && unix < end
	} else {
		// Southern hemisphere: DST spans the turn of the year.
		dst = !(end <= unix && unix < start)
	}
	if dst {
		return tz.Dst, true
	}
	return tz.Std, false
}

// Change is a transition produced by a TZ rule.
type Change struct {
	When  int64 // Unix seconds
	Zone  Zone
	IsDST bool
}

// Changes returns the rule transitions in the half-open interval (from, to].
func (tz TZ) Changes(from, to int64) []Change {
	if !tz.HasDST || to <= from {
		return nil
	}
	var changes []Change
	for y := unixtime.Year(from) - 1; y <= unixtime.Year(to)+1; y++ {
		start, end := tz.transitions(y)
		if start > from && start <= to {
			changes = append(changes, Change{When: start, Zone: tz.Dst, IsDST: true})
		}
		if end > from && end <= to {
			changes = append(changes, Change{When: end, Zone: tz.Std, IsDST: false})
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].When < changes[j].When })
	return changes
}
