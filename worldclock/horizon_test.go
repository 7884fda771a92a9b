package worldclock

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"

	"github.com/ngrash/worldclock/tzdb"
)

func TestHorizonScanner_NoTransition(t *testing.T) {
	z := &stepZone{name: "Test/Never", std: 3 * time.Hour}
	got := HorizonScanner{}.NextTransition(z, utc("2024-01-01T00:00:00Z"), false)
	assert.Equal(t, Transition{}, got)
	assert.Equal(t, HorizonDays, z.calls)
	assert.Equal(t, "", got.String())
}

func TestHorizonScanner_WorstCase(t *testing.T) {
	start := utc("2024-01-01T00:00:00Z")
	z := &stepZone{
		name:    "Test/Late",
		std:     0,
		dst:     time.Hour,
		changes: []time.Time{start.Add(365*24*time.Hour + 30*time.Minute)},
	}
	got := HorizonScanner{}.NextTransition(z, start, false)
	assert.True(t, got.Occurs)
	assert.Equal(t, HorizonDays+24, z.calls)
	assert.Equal(t, "2024-12-31", got.Date.String())
}

func TestHorizonScanner_BeyondHorizon(t *testing.T) {
	start := utc("2024-01-01T00:00:00Z")
	z := &stepZone{
		name:    "Test/TooLate",
		dst:     time.Hour,
		changes: []time.Time{start.Add(366*24*time.Hour + time.Minute)},
	}
	got := HorizonScanner{}.NextTransition(z, start, false)
	assert.False(t, got.Occurs)
	assert.LessOrEqual(t, z.calls, HorizonDays+24)
}

func TestNextTransition(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		dst   bool
		want  Transition
	}{
		{
			name:  "spring forward",
			start: utc("2024-03-01T17:00:00Z"), // 12:00 EST
			want:  Transition{Occurs: true, Date: Date{2024, time.March, 10}},
		},
		{
			name:  "just before midnight",
			start: utc("2024-03-01T04:59:00Z"), // 23:59 EST on February 29
			want:  Transition{Occurs: true, Date: Date{2024, time.March, 10}},
		},
		{
			name:  "fall back",
			start: utc("2024-07-01T16:00:00Z"),
			dst:   true,
			want:  Transition{Occurs: true, Date: Date{2024, time.November, 3}},
		},
		{
			name:  "next year",
			start: utc("2024-11-20T17:00:00Z"),
			want:  Transition{Occurs: true, Date: Date{2025, time.March, 9}},
		},
		{
			name:  "no more rules",
			start: utc("2025-11-20T17:00:00Z"),
			want:  Transition{},
		},
	}
	finders := map[string]TransitionFinder{
		"scan":  HorizonScanner{},
		"table": TableFinder{},
	}
	for fname, f := range finders {
		for _, tt := range tests {
			t.Run(fname+"/"+tt.name, func(t *testing.T) {
				got := f.NextTransition(newEastern(), tt.start, tt.dst)
				if diff := cmp.Diff(tt.want, got); diff != "" {
					t.Errorf("NextTransition mismatch (-want +got):\n%s", diff)
				}
			})
		}
	}
}

type recordingFinder struct {
	called bool
}

func (f *recordingFinder) NextTransition(tzdb.Zone, time.Time, bool) Transition {
	f.called = true
	return Transition{Occurs: true, Date: Date{2000, time.January, 1}}
}

func TestTableFinder_Fallback(t *testing.T) {
	fallback := &recordingFinder{}
	f := TableFinder{Fallback: fallback}
	start := utc("2024-03-01T17:00:00Z")

	got := f.NextTransition(scanOnly{newEastern()}, start, false)
	assert.True(t, fallback.called)
	assert.Equal(t, "2000-01-01", got.String())

	got = TableFinder{}.NextTransition(scanOnly{newEastern()}, start, false)
	assert.Equal(t, "2024-03-10", got.String())

	fallback.called = false
	got = f.NextTransition(tzdb.NewFixed("+01:00", time.Hour), start, false)
	assert.False(t, fallback.called)
	assert.False(t, got.Occurs)
}

func TestTableFinder_Queries(t *testing.T) {
	z := newEastern()
	TableFinder{}.NextTransition(z, utc("2024-03-01T17:00:00Z"), false)
	assert.Equal(t, 1, z.calls)
}
