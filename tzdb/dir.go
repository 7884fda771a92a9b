package tzdb

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/ngrash/worldclock/internal/posixtz"
	"github.com/ngrash/worldclock/tzif"
)

// Dir is a database backed by a directory of TZif files, such as
// /usr/share/zoneinfo. Zones returned by Dir implement Transitioner.
//
// A Dir caches the zones it decoded. Create a new Dir to pick up changes
// to the directory.
type Dir struct {
	Path string
	// Logger receives debug output. If nil, slog.Default() is used.
	Logger *slog.Logger

	zones map[string]*TableZone
}

// NewDir returns a database reading from the zoneinfo directory at path.
func NewDir(path string) *Dir {
	return &Dir{Path: path}
}

func (d *Dir) logger() *slog.Logger {
	if d.Logger == nil {
		return slog.Default()
	}
	return d.Logger
}

// Lookup decodes and validates the TZif file for id.
func (d *Dir) Lookup(id string) (Zone, error) {
	if z, ok := d.zones[id]; ok {
		return z, nil
	}
	if !validID(id) {
		return nil, &UnknownZoneError{ID: id}
	}
	b, err := os.ReadFile(filepath.Join(d.Path, filepath.FromSlash(id)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, &UnknownZoneError{ID: id}
	}
	if err != nil {
		return nil, fmt.Errorf("read zone %s: %w", id, err)
	}
	if !tzif.HasMagic(b) {
		return nil, &UnknownZoneError{ID: id, Err: errors.New("not a TZif file")}
	}
	z, err := DecodeZone(id, b)
	if err != nil {
		return nil, err
	}
	d.logger().Debug("decoded zone", "zone", id, "transitions", len(z.table.Transitions), "tzstring", z.table.TZString)
	if d.zones == nil {
		d.zones = make(map[string]*TableZone)
	}
	d.zones[id] = z
	return z, nil
}

// ZoneIDs walks the directory for TZif files.
func (d *Dir) ZoneIDs() ([]string, error) {
	ids, err := walkZoneDir(d.Path, d.logger())
	if err != nil {
		return nil, fmt.Errorf("list zones in %s: %w", d.Path, err)
	}
	return sortedUnique(ids), nil
}

func validID(id string) bool {
	if id == "" || strings.HasPrefix(id, "/") || strings.Contains(id, `\`) {
		return false
	}
	return path.Clean(id) == id && !strings.HasPrefix(id, "..")
}

// TableZone is a zone decoded from a TZif file.
type TableZone struct {
	name  string
	table tzif.Table
	rule  *posixtz.TZ
}

// DecodeZone decodes the TZif file b for the zone called name.
func DecodeZone(name string, b []byte) (*TableZone, error) {
	data, err := tzif.DecodeData(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode zone %s: %w", name, err)
	}
	if err := tzif.Validate(data); err != nil {
		return nil, fmt.Errorf("decode zone %s: invalid tzif: %w", name, err)
	}
	z := &TableZone{name: name, table: data.Table()}
	if s := z.table.TZString; s != "" {
		rule, err := posixtz.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("decode zone %s: footer: %w", name, err)
		}
		z.rule = &rule
	}
	return z, nil
}

func (z *TableZone) Name() string { return z.name }

func (z *TableZone) Lookup(t time.Time) (time.Duration, bool) {
	unix := t.Unix()
	typ, ok := z.table.Find(unix)
	if !ok && z.rule != nil {
		zone, dst := z.rule.Lookup(unix)
		return seconds(zone.Offset), dst
	}
	return seconds(typ.Offset), typ.DST
}

// Changes merges the transition table with the footer rule, which takes
// over after the last transition.
func (z *TableZone) Changes(from, to time.Time) []Change {
	f, t := from.Unix(), to.Unix()
	var changes []Change
	for _, tr := range z.table.After(f) {
		if tr.When > t {
			return changes
		}
		typ := z.table.Types[tr.Type]
		changes = append(changes, Change{When: time.Unix(tr.When, 0).UTC(), Offset: seconds(typ.Offset), IsDST: typ.DST})
	}
	if z.rule == nil {
		return changes
	}
	if end, ok := z.table.End(); ok && end > f {
		f = end
	}
	for _, c := range z.rule.Changes(f, t) {
		changes = append(changes, Change{When: time.Unix(c.When, 0).UTC(), Offset: seconds(c.Zone.Offset), IsDST: c.IsDST})
	}
	return changes
}
