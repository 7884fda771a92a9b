package tzdb

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"time"
)

// System is the database Go's time package uses: the host zoneinfo,
// $ZONEINFO, and the tzdata embedded with the time/tzdata package.
type System struct {
	// Dirs are searched to enumerate zones. If nil, DefaultDirs is used.
	Dirs []string
	// Logger receives debug output about skipped files. If nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

func (s *System) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

// Lookup loads the zone with time.LoadLocation. "Local" is the process
// local zone.
func (s *System) Lookup(id string) (Zone, error) {
	if id == "" {
		return nil, &UnknownZoneError{ID: id}
	}
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, &UnknownZoneError{ID: id, Err: err}
	}
	return Location(loc), nil
}

// ZoneIDs walks the zoneinfo directories. If none of them exist, the
// zoneinfo.zip of the Go installation is read instead. Only identifiers
// that time.LoadLocation accepts are returned.
func (s *System) ZoneIDs() ([]string, error) {
	dirs := s.Dirs
	if dirs == nil {
		dirs = DefaultDirs
	}
	log := s.logger()

	var ids []string
	for _, dir := range dirs {
		found, err := walkZoneDir(dir, log)
		if err != nil {
			log.Debug("zoneinfo directory is not available", "path", dir, "error", err)
			continue
		}
		ids = append(ids, found...)
	}
	if len(ids) == 0 {
		zipPath := filepath.Join(runtime.GOROOT(), "lib", "time", "zoneinfo.zip")
		found, err := zipZoneIDs(zipPath)
		if err != nil {
			return nil, fmt.Errorf("%w: searched %v and %s: %v", errNoZones, dirs, zipPath, err)
		}
		ids = found
	}

	valid := ids[:0]
	for _, id := range ids {
		if _, err := time.LoadLocation(id); err != nil {
			log.Debug("skipping zone time package cannot load", "zone", id, "error", err)
			continue
		}
		valid = append(valid, id)
	}
	return sortedUnique(valid), nil
}

// Local returns the process local zone.
func (s *System) Local() Zone {
	return Location(time.Local)
}

// Location adapts a *time.Location to a Zone.
func Location(loc *time.Location) Zone {
	return locationZone{loc}
}

type locationZone struct {
	loc *time.Location
}

func (z locationZone) Name() string { return z.loc.String() }

func (z locationZone) Lookup(t time.Time) (time.Duration, bool) {
	lt := t.In(z.loc)
	_, off := lt.Zone()
	return time.Duration(off) * time.Second, lt.IsDST()
}
