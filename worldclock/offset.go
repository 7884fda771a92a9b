package worldclock

import (
	"fmt"
	"time"

	"github.com/ngrash/worldclock/tzdb"
)

// LocalLayout is how local times are displayed, at minute precision.
const LocalLayout = "2006-01-02 15:04"

// OffsetResult is the state of one zone at one instant.
type OffsetResult struct {
	ZoneID string
	// Offset is the signed offset formatted by FormatOffset.
	Offset string
	IsDST  bool
	// Local is the instant in a fixed zone with the zone's offset, so that
	// its wall clock fields are the local time.
	Local time.Time
}

// LocalString formats the local time with LocalLayout.
func (r OffsetResult) LocalString() string {
	return r.Local.Format(LocalLayout)
}

// Calculator computes offsets from a zone database. Identifiers the
// database does not know, but which are literal offsets like "+05:30",
// are accepted as fixed zones.
type Calculator struct {
	DB tzdb.Database
}

// Zone looks up id in the database, falling back to literal offsets.
func (c Calculator) Zone(id string) (tzdb.Zone, error) {
	return tzdb.WithFixed(c.DB).Lookup(id)
}

// OffsetAt returns the offset, DST flag and local time of zoneID at t.
// It fails with *tzdb.UnknownZoneError for unknown identifiers.
func (c Calculator) OffsetAt(zoneID string, t time.Time) (OffsetResult, error) {
	z, err := c.Zone(zoneID)
	if err != nil {
		return OffsetResult{}, err
	}
	return Offset(z, t), nil
}

// Offset returns the offset, DST flag and local time of z at t.
func Offset(z tzdb.Zone, t time.Time) OffsetResult {
	off, dst := z.Lookup(t)
	return OffsetResult{
		ZoneID: z.Name(),
		Offset: FormatOffset(off),
		IsDST:  dst,
		Local:  t.In(time.FixedZone("", int(off/time.Second))),
	}
}

// FormatOffset formats d as "+hh:mm" or "-hh:mm". Seconds are truncated,
// and an offset that truncates to zero is always "+00:00".
func FormatOffset(d time.Duration) string {
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	h := d / time.Hour
	m := d % time.Hour / time.Minute
	if h == 0 && m == 0 {
		sign = '+'
	}
	return fmt.Sprintf("%c%02d:%02d", sign, h, m)
}
