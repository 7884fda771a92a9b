package worldclock

import (
	"fmt"
	"time"

	"github.com/ngrash/worldclock/tzdb"
)

// HorizonDays bounds the search for the next DST change.
const HorizonDays = 366

// Date is a calendar date without a zone.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// localDate returns the date of the wall clock at t in a zone with offset off.
func localDate(t time.Time, off time.Duration) Date {
	y, m, d := t.UTC().Add(off).Date()
	return Date{y, m, d}
}

// Transition is the result of a search for the next DST change. Date is
// the local date of the last hour before the change and is only set if
// Occurs is true.
type Transition struct {
	Occurs bool
	Date   Date
}

func (t Transition) String() string {
	if !t.Occurs {
		return ""
	}
	return t.Date.String()
}

// TransitionFinder searches the next change of the DST flag of a zone
// within HorizonDays after start. isDST is the flag at start.
type TransitionFinder interface {
	NextTransition(z tzdb.Zone, start time.Time, isDST bool) Transition
}

// HorizonScanner finds transitions by querying the zone only. It steps
// forward a day at a time until the flag differs, then steps back an hour
// at a time until it matches again. A search makes at most HorizonDays+24
// queries.
type HorizonScanner struct{}

func (HorizonScanner) NextTransition(z tzdb.Zone, start time.Time, isDST bool) Transition {
	t := start
	for range HorizonDays {
		t = t.Add(24 * time.Hour)
		if _, dst := z.Lookup(t); dst != isDST {
			return refine(z, t, isDST)
		}
	}
	return Transition{}
}

// refine steps back from t, where the flag differs, to the first hour
// where it matches again. The previous day step matched, so this ends
// within 24 steps.
func refine(z tzdb.Zone, t time.Time, isDST bool) Transition {
	for range 24 {
		t = t.Add(-time.Hour)
		if off, dst := z.Lookup(t); dst == isDST {
			return Transition{Occurs: true, Date: localDate(t, off)}
		}
	}
	return Transition{}
}

// TableFinder reads the next transition from the transition table of
// zones implementing tzdb.Transitioner. Other zones are handed to
// Fallback, or to a HorizonScanner if Fallback is nil.
type TableFinder struct {
	Fallback TransitionFinder
}

func (f TableFinder) NextTransition(z tzdb.Zone, start time.Time, isDST bool) Transition {
	tz, ok := z.(tzdb.Transitioner)
	if !ok {
		if f.Fallback == nil {
			return HorizonScanner{}.NextTransition(z, start, isDST)
		}
		return f.Fallback.NextTransition(z, start, isDST)
	}
	end := start.Add(HorizonDays * 24 * time.Hour)
	for _, c := range tz.Changes(start, end) {
		if c.IsDST == isDST {
			// offset change without DST change
			continue
		}
		last := c.When.Add(-time.Second)
		off, _ := z.Lookup(last)
		return Transition{Occurs: true, Date: localDate(last, off)}
	}
	return Transition{}
}
