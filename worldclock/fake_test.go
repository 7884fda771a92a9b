package worldclock

import (
	"sort"
	"time"

	"github.com/ngrash/worldclock/tzdb"
)

// fakeDB is a database over a fixed set of zones.
type fakeDB map[string]tzdb.Zone

func (db fakeDB) Lookup(id string) (tzdb.Zone, error) {
	if z, ok := db[id]; ok {
		return z, nil
	}
	return nil, &tzdb.UnknownZoneError{ID: id}
}

func (db fakeDB) ZoneIDs() ([]string, error) {
	ids := make([]string, 0, len(db))
	for id := range db {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// stepZone switches between standard and daylight time at the given
// instants, starting in standard time. It counts its lookups.
type stepZone struct {
	name     string
	std, dst time.Duration
	changes  []time.Time
	calls    int
}

func (z *stepZone) Name() string { return z.name }

func (z *stepZone) Lookup(t time.Time) (time.Duration, bool) {
	z.calls++
	n := sort.Search(len(z.changes), func(i int) bool { return z.changes[i].After(t) })
	if n%2 == 1 {
		return z.dst, true
	}
	return z.std, false
}

func (z *stepZone) Changes(from, to time.Time) []tzdb.Change {
	var changes []tzdb.Change
	for i, c := range z.changes {
		if c.After(from) && !c.After(to) {
			if i%2 == 0 {
				changes = append(changes, tzdb.Change{When: c, Offset: z.dst, IsDST: true})
			} else {
				changes = append(changes, tzdb.Change{When: c, Offset: z.std, IsDST: false})
			}
		}
	}
	return changes
}

// scanOnly hides the transition table of a zone.
type scanOnly struct {
	z tzdb.Zone
}

func (s scanOnly) Name() string { return s.z.Name() }

func (s scanOnly) Lookup(t time.Time) (time.Duration, bool) { return s.z.Lookup(t) }

func utc(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

// newEastern returns a zone with the US eastern rules of 2024 and 2025.
func newEastern() *stepZone {
	return &stepZone{
		name: "Test/Eastern",
		std:  -5 * time.Hour,
		dst:  -4 * time.Hour,
		changes: []time.Time{
			utc("2024-03-10T07:00:00Z"),
			utc("2024-11-03T06:00:00Z"),
			utc("2025-03-09T07:00:00Z"),
			utc("2025-11-02T06:00:00Z"),
		},
	}
}
