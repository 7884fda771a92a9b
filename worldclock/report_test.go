package worldclock

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/worldclock/abbrev"
	"github.com/ngrash/worldclock/tzdb"
)

func reportDB() fakeDB {
	return fakeDB{
		"Test/Eastern": newEastern(),
		"Etc/Zero":     tzdb.NewFixed("Etc/Zero", 0),
		"Zone/A":       tzdb.NewFixed("Zone/A", -5*time.Hour),
		"Zone/B":       tzdb.NewFixed("Zone/B", -5*time.Hour),
	}
}

func TestAssembler_Rows(t *testing.T) {
	db := reportDB()
	at := utc("2024-03-01T17:00:00Z")
	ids, _ := db.ZoneIDs()
	calc := Calculator{DB: db}
	clusters, err := BuildClusters(calc, ids, at)
	require.NoError(t, err)

	table := abbrev.MustNew(
		abbrev.Entry{Label: "EST", Zone: "Test/Eastern"},
		abbrev.Entry{Label: "Z", Zone: "Etc/Zero"},
	).WithExtra("+05:30", "Zone/A")

	a := &Assembler{Calc: calc, DSTInfo: true, AlsoIn: true}
	got, err := a.Rows(table, clusters, at)
	require.NoError(t, err)

	eastern := Transition{Occurs: true, Date: Date{2024, time.March, 10}}
	want := []Row{
		{Name: "Test/Eastern", Abbr: "EST", Offset: "-05:00", Local: "2024-03-01 12:00", Until: eastern, AlsoIn: "Test/Eastern, Zone/A, Zone/B"},
		{Name: "Etc/Zero", Abbr: "Z", Offset: "+00:00", Local: "2024-03-01 17:00", AlsoIn: "Etc/Zero"},
		{Name: "+05:30", Offset: "+05:30", Local: "2024-03-01 22:30"},
		{Name: "Zone/A", Offset: "-05:00", Local: "2024-03-01 12:00", AlsoIn: "Test/Eastern, Zone/A, Zone/B"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler_Rows_Minimal(t *testing.T) {
	a := &Assembler{Calc: Calculator{DB: reportDB()}}
	got, err := a.Rows(abbrev.Only("Test/Eastern"), nil, utc("2024-07-01T16:00:00Z"))
	require.NoError(t, err)
	want := []Row{{Name: "Test/Eastern", Offset: "-04:00", Local: "2024-07-01 12:00", IsDST: true}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Rows mismatch (-want +got):\n%s", diff)
	}
}

func TestAssembler_Rows_Unknown(t *testing.T) {
	table := abbrev.Only("Zone/A", "Not/AZone", "Zone/B")
	at := utc("2024-01-01T00:00:00Z")

	a := &Assembler{Calc: Calculator{DB: reportDB()}}
	_, err := a.Rows(table, nil, at)
	assert.True(t, IsUnknownZone(err))
	assert.ErrorContains(t, err, "Not/AZone")

	a.SkipUnknown = true
	rows, err := a.Rows(table, nil, at)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Zone/A", rows[0].Name)
	assert.Equal(t, "Zone/B", rows[1].Name)
}

func TestCompanions(t *testing.T) {
	zones := make([]string, 30)
	for i := range zones {
		zones[i] = "Region/City"
	}
	full := strings.Join(zones, ", ")

	assert.Equal(t, full, companions(zones, AlsoInWidth, true))
	short := companions(zones, AlsoInWidth, false)
	assert.Equal(t, full[:AlsoInWidth]+"...", short)
	assert.Equal(t, full[:AlsoInWidthDST]+"...", companions(zones, AlsoInWidthDST, false))
	assert.Equal(t, "A, B", companions([]string{"A", "B"}, 4, false))
	assert.Equal(t, "", companions(nil, AlsoInWidth, false))
}
