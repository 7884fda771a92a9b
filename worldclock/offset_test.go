package worldclock

import (
	"errors"
	"regexp"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ngrash/worldclock/tzdb"
)

func TestFormatOffset(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "+00:00"},
		{-30 * time.Second, "+00:00"},
		{59 * time.Second, "+00:00"},
		{time.Hour, "+01:00"},
		{-8 * time.Hour, "-08:00"},
		{5*time.Hour + 30*time.Minute, "+05:30"},
		{-(9*time.Hour + 30*time.Minute), "-09:30"},
		{5*time.Hour + 45*time.Minute, "+05:45"},
		{14 * time.Hour, "+14:00"},
		{-(4*time.Hour + 56*time.Minute + 2*time.Second), "-04:56"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatOffset(tt.in), "FormatOffset(%v)", tt.in)
	}
}

func TestFormatOffset_Shape(t *testing.T) {
	shape := regexp.MustCompile(`^[+-]\d{2}:\d{2}$`)
	for d := -26 * time.Hour; d <= 26*time.Hour; d += 7*time.Minute + 13*time.Second {
		s := FormatOffset(d)
		assert.Regexp(t, shape, s)
		assert.NotEqual(t, "-00:00", s)
	}
}

func TestOffsetAt(t *testing.T) {
	calc := Calculator{DB: &tzdb.System{}}
	at := utc("2030-07-01T10:00:00Z")

	res, err := calc.OffsetAt("Europe/Berlin", at)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", res.ZoneID)
	assert.Equal(t, "+02:00", res.Offset)
	assert.True(t, res.IsDST)
	assert.Equal(t, "2030-07-01 12:00", res.LocalString())
	assert.True(t, res.Local.Equal(at), "local time keeps the instant")

	res, err = calc.OffsetAt("Asia/Kolkata", at.Add(59*time.Second))
	require.NoError(t, err)
	assert.Equal(t, "+05:30", res.Offset)
	assert.False(t, res.IsDST)
	assert.Equal(t, "2030-07-01 15:30", res.LocalString(), "seconds are not shown")
}

func TestOffsetAt_Literal(t *testing.T) {
	calc := Calculator{DB: &tzdb.System{}}
	res, err := calc.OffsetAt("+05:45", utc("2024-01-01T00:00:00Z"))
	require.NoError(t, err)
	assert.Equal(t, "+05:45", res.Offset)
	assert.False(t, res.IsDST)
	assert.Equal(t, "2024-01-01 05:45", res.LocalString())
}

func TestOffsetAt_UnknownZone(t *testing.T) {
	calc := Calculator{DB: &tzdb.System{}}
	_, err := calc.OffsetAt("Not/AZone", utc("2024-01-01T00:00:00Z"))
	var uz *tzdb.UnknownZoneError
	require.True(t, errors.As(err, &uz), "got %v", err)
	assert.Equal(t, "Not/AZone", uz.ID)
	assert.True(t, IsUnknownZone(err))
}
