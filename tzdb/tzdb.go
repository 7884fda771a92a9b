// Package tzdb provides read access to a time zone database: looking up
// a zone by identifier, querying its offset and DST flag at an instant,
// and enumerating the identifiers the database knows.
//
// Three backends exist. System uses Go's time package, Dir reads TZif
// files from a zoneinfo directory, and Fixed represents literal UTC
// offsets such as "+05:30" that no database carries.
package tzdb

import (
	"errors"
	"fmt"
	"time"
)

// Zone answers offset queries for one time zone.
type Zone interface {
	// Name returns the identifier the zone was looked up with.
	Name() string
	// Lookup returns the offset from UTC in effect at t and whether that
	// offset is daylight saving time.
	Lookup(t time.Time) (offset time.Duration, isDST bool)
}

// Database looks up zones by identifier.
type Database interface {
	// Lookup returns the zone named id. It fails with an error matching
	// ErrUnknownZone if the database does not contain id.
	Lookup(id string) (Zone, error)
	// ZoneIDs returns every identifier the database can look up, sorted.
	ZoneIDs() ([]string, error)
}

// Transitioner is implemented by zones that know their transition table.
type Transitioner interface {
	// Changes returns the offset changes in the interval (from, to],
	// in chronological order.
	Changes(from, to time.Time) []Change
}

// Change is the start of a new offset or DST state in a zone.
type Change struct {
	When   time.Time
	Offset time.Duration
	IsDST  bool
}

// ErrUnknownZone is matched by errors for identifiers a database does not know.
var ErrUnknownZone = errors.New("unknown time zone")

// UnknownZoneError reports a zone identifier missing from the database.
type UnknownZoneError struct {
	ID string
	// Err is the underlying lookup failure, if any.
	Err error
}

func (e *UnknownZoneError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("unknown time zone %q: %v", e.ID, e.Err)
	}
	return fmt.Sprintf("unknown time zone %q", e.ID)
}

func (e *UnknownZoneError) Is(target error) bool { return target == ErrUnknownZone }

func (e *UnknownZoneError) Unwrap() error { return e.Err }

func seconds(s int32) time.Duration {
	return time.Duration(s) * time.Second
}
