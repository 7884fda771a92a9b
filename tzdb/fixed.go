package tzdb

import (
	"strconv"
	"strings"
	"time"
)

// Fixed is a zone with a constant offset and no daylight saving time.
type Fixed struct {
	name   string
	offset time.Duration
}

// NewFixed returns a fixed zone called name.
func NewFixed(name string, offset time.Duration) Fixed {
	return Fixed{name: name, offset: offset}
}

func (f Fixed) Name() string { return f.name }

func (f Fixed) Lookup(time.Time) (time.Duration, bool) { return f.offset, false }

// Changes always returns nil: a fixed zone never transitions.
func (f Fixed) Changes(from, to time.Time) []Change { return nil }

// Offset returns the constant offset of the zone.
func (f Fixed) Offset() time.Duration { return f.offset }

// ParseFixed parses a literal UTC offset. Accepted forms are "Z", "UTC",
// "GMT", and a sign followed by "hh", "hhmm" or "hh:mm" (one-digit hours
// are allowed), optionally prefixed with "UTC" or "GMT": "+05:30",
// "-0800", "+07", "UTC+3", "GMT-2". The returned zone is named s.
func ParseFixed(s string) (Fixed, bool) {
	switch s {
	case "Z", "UTC", "GMT":
		return NewFixed(s, 0), true
	}
	v := s
	if len(v) > 3 {
		if p := strings.ToUpper(v[:3]); p == "UTC" || p == "GMT" {
			v = v[3:]
		}
	}
	if len(v) < 2 || (v[0] != '+' && v[0] != '-') {
		return Fixed{}, false
	}
	sign := time.Duration(1)
	if v[0] == '-' {
		sign = -1
	}
	v = v[1:]

	var hh, mm string
	switch {
	case strings.Contains(v, ":"):
		hh, mm, _ = strings.Cut(v, ":")
		if len(mm) != 2 {
			return Fixed{}, false
		}
	case len(v) <= 2:
		hh = v
	case len(v) == 4:
		hh, mm = v[:2], v[2:]
	default:
		return Fixed{}, false
	}
	if len(hh) == 0 || len(hh) > 2 {
		return Fixed{}, false
	}
	h, err := strconv.ParseUint(hh, 10, 8)
	if err != nil || h > 26 {
		return Fixed{}, false
	}
	var m uint64
	if mm != "" {
		m, err = strconv.ParseUint(mm, 10, 8)
		if err != nil || m > 59 {
			return Fixed{}, false
		}
	}
	return NewFixed(s, sign*(time.Duration(h)*time.Hour+time.Duration(m)*time.Minute)), true
}

// WithFixed wraps db so that identifiers db does not know, but which are
// literal offsets, resolve to Fixed zones.
func WithFixed(db Database) Database {
	return withFixed{db}
}

type withFixed struct {
	Database
}

func (w withFixed) Lookup(id string) (Zone, error) {
	z, err := w.Database.Lookup(id)
	if err == nil {
		return z, nil
	}
	if f, ok := ParseFixed(id); ok {
		return f, nil
	}
	return nil, err
}
