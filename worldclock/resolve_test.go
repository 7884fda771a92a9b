package worldclock

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/worldclock/abbrev"
	"github.com/ngrash/worldclock/tzdb"
)

func newResolver() *Resolver {
	return &Resolver{
		DB:    &tzdb.System{},
		Local: tzdb.NewFixed("Test/Local", -3*time.Hour),
		Clock: FixedClock(utc("2024-06-01T20:00:00Z")),
	}
}

func TestResolve(t *testing.T) {
	table := abbrev.Default()
	tests := []struct {
		text string
		want time.Time
	}{
		{"", utc("2024-06-01T20:00:00Z")},
		{"  ", utc("2024-06-01T20:00:00Z")},
		{"CET", utc("2024-06-01T20:00:00Z")},
		{"2030-07-01 12:00 CET", utc("2030-07-01T10:00:00Z")},
		{"CET 2030-07-01 12:00", utc("2030-07-01T10:00:00Z")},
		{"2024-06-01 12:00", utc("2024-06-01T15:00:00Z")},
		{"2024-06-01 12:00 Europe/Lisbon", utc("2024-06-01T11:00:00Z")},
		{"2024-06-01 12:00 +05:30", utc("2024-06-01T06:30:00Z")},
		{"2024-06-01 12:00 UTC+3", utc("2024-06-01T09:00:00Z")},
		{"2024-06-01 12:00 +0330", utc("2024-06-01T08:30:00Z")}, // table label for Asia/Tehran
		{"2024-06-01 12:00 UTC", utc("2024-06-01T12:00:00Z")},
		{"2024-06-01 12:00 Z", utc("2024-06-01T12:00:00Z")},
		{"2024-06-01T12:00:00+02:00", utc("2024-06-01T10:00:00Z")},
		// A time of day is taken on today's date in the zone. It is
		// already June 2 in Tokyo.
		{"12:00 JST", utc("2024-06-02T03:00:00Z")},
		{"12:00", utc("2024-06-01T15:00:00Z")},
		// Unix timestamps are instants, whatever the local zone.
		{"1700000000", utc("2023-11-14T22:13:20Z")},
		{"1700000000123", utc("2023-11-14T22:13:20.123Z")},
		// Eight digits are a date.
		{"20240601", utc("2024-06-01T03:00:00Z")},
	}
	r := newResolver()
	for _, tt := range tests {
		got, err := r.Resolve(tt.text, table, FoldUnspecified)
		if assert.NoError(t, err, "Resolve(%q)", tt.text) {
			assert.True(t, tt.want.Equal(got), "Resolve(%q) = %v, want %v", tt.text, got.UTC(), tt.want)
		}
	}
}

func TestResolve_UnixTimestampIgnoresLocal(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	r := &Resolver{Local: tzdb.Location(berlin), Clock: FixedClock(utc("2024-06-01T20:00:00Z"))}

	got, err := r.Resolve("1700000000", abbrev.Default(), FoldUnspecified)
	require.NoError(t, err)
	want := utc("2023-11-14T22:13:20Z")
	assert.True(t, want.Equal(got), "Resolve(1700000000) = %v, want %v", got.UTC(), want)
}

func TestResolve_RoundTrip(t *testing.T) {
	table := abbrev.MustNew(abbrev.Entry{Label: "CET", Zone: "Europe/Berlin"})
	r := newResolver()
	at, err := r.Resolve("2030-07-01 12:00 CET", table, FoldUnspecified)
	require.NoError(t, err)

	res, err := Calculator{DB: r.DB}.OffsetAt("Europe/Berlin", at)
	require.NoError(t, err)
	assert.Equal(t, "2030-07-01 12:00", res.LocalString())
	assert.Equal(t, "+02:00", res.Offset)
}

func TestResolve_ParseError(t *testing.T) {
	table := abbrev.Default().WithExtra("Bad")
	tests := []struct {
		text    string
		unknown bool
	}{
		{text: "not a time at all"},
		{text: "2024-06-01 12:00 CET JST"},
		{text: "2024-06-01T12:00:00+02:00 CET"},
		{text: "1700000000 Europe/Berlin"},
		{text: "2024-06-01 12:00 Bad", unknown: true},
	}
	r := newResolver()
	for _, tt := range tests {
		_, err := r.Resolve(tt.text, table, FoldUnspecified)
		var pe *ParseError
		if assert.True(t, errors.As(err, &pe), "Resolve(%q) error = %v", tt.text, err) {
			assert.Equal(t, tt.text, pe.Text)
		}
		assert.Equal(t, tt.unknown, IsUnknownZone(err), "Resolve(%q) error = %v", tt.text, err)
	}
}

func TestResolve_Fold(t *testing.T) {
	table := abbrev.Only("America/New_York")
	r := newResolver()
	text := "2024-11-03 01:30 America/New_York"

	earlier, err := r.Resolve(text, table, FoldEarlier)
	require.NoError(t, err)
	later, err := r.Resolve(text, table, FoldLater)
	require.NoError(t, err)
	unspecified, err := r.Resolve(text, table, FoldUnspecified)
	require.NoError(t, err)

	assert.True(t, earlier.Equal(utc("2024-11-03T05:30:00Z")), "earlier = %v", earlier)
	assert.Equal(t, time.Hour, later.Sub(earlier))
	assert.True(t, unspecified.Equal(earlier))

	r.StrictFold = true
	_, err = r.Resolve(text, table, FoldUnspecified)
	var ae *AmbiguousTimeError
	require.True(t, errors.As(err, &ae), "got %v", err)
	assert.True(t, ae.Earlier.Equal(earlier))
	assert.True(t, ae.Later.Equal(later))
	assert.Equal(t, "America/New_York", ae.Zone)

	got, err := r.Resolve(text, table, FoldLater)
	require.NoError(t, err)
	assert.True(t, got.Equal(later))
}

func TestResolveLocal(t *testing.T) {
	z := newEastern()
	wall := func(s string) time.Time {
		t, err := time.Parse("2006-01-02 15:04", s)
		if err != nil {
			panic(err)
		}
		return t
	}
	tests := []struct {
		name string
		wall string
		fold Fold
		want string
	}{
		{"standard", "2024-01-15 12:00", FoldUnspecified, "2024-01-15T17:00:00Z"},
		{"daylight", "2024-07-15 12:00", FoldLater, "2024-07-15T16:00:00Z"},
		{"repeated earlier", "2024-11-03 01:30", FoldEarlier, "2024-11-03T05:30:00Z"},
		{"repeated later", "2024-11-03 01:30", FoldLater, "2024-11-03T06:30:00Z"},
		{"repeated unspecified", "2024-11-03 01:30", FoldUnspecified, "2024-11-03T05:30:00Z"},
		{"gap earlier", "2024-03-10 02:30", FoldEarlier, "2024-03-10T07:30:00Z"},
		{"gap unspecified", "2024-03-10 02:30", FoldUnspecified, "2024-03-10T07:30:00Z"},
		{"gap later", "2024-03-10 02:30", FoldLater, "2024-03-10T06:30:00Z"},
		{"after gap", "2024-03-10 03:00", FoldLater, "2024-03-10T07:00:00Z"},
	}
	r := &Resolver{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.ResolveLocal(z, wall(tt.wall), tt.fold)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.UTC().Format(time.RFC3339))
		})
	}
}

func TestResolveLocal_StrictGap(t *testing.T) {
	r := &Resolver{StrictFold: true}
	got, err := r.ResolveLocal(newEastern(), time.Date(2024, 3, 10, 2, 30, 0, 0, time.UTC), FoldUnspecified)
	require.NoError(t, err, "a skipped time is not ambiguous")
	assert.Equal(t, "2024-03-10T07:30:00Z", got.UTC().Format(time.RFC3339))
}

func TestFold_String(t *testing.T) {
	assert.Equal(t, "unspecified", FoldUnspecified.String())
	assert.Equal(t, "earlier", FoldEarlier.String())
	assert.Equal(t, "later", FoldLater.String())
}
