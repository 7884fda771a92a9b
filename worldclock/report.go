package worldclock

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ngrash/worldclock/abbrev"
)

const (
	// MaxAbbrevLen is the longest label shown as an abbreviation. Longer
	// labels are usually zone names, which are shown anyway.
	MaxAbbrevLen = 5

	// AlsoInWidth is the number of characters of the companion zone list
	// that are kept, AlsoInWidthDST when DST columns are shown as well.
	AlsoInWidth    = 120
	AlsoInWidthDST = 110
)

// Row is one line of the report.
type Row struct {
	Name   string // zone identifier
	Abbr   string // empty for long labels
	Offset string
	Local  string // LocalLayout
	IsDST  bool
	Until  Transition
	// AlsoIn lists the zones with the same offset, possibly shortened.
	AlsoIn string
}

// Assembler builds report rows.
type Assembler struct {
	Calc Calculator
	// Finder searches DST transitions when DSTInfo is set. If nil, a
	// HorizonScanner is used.
	Finder TransitionFinder

	DSTInfo bool
	AlsoIn  bool
	// Long keeps companion lists at full length.
	Long bool
	// SkipUnknown drops rows of unknown zones instead of failing.
	SkipUnknown bool

	Logger *slog.Logger
}

func (a *Assembler) logger() *slog.Logger {
	if a.Logger == nil {
		return slog.Default()
	}
	return a.Logger
}

// Rows returns a row for every entry of table at t, in table order.
// clusters is only read when AlsoIn is set.
func (a *Assembler) Rows(table abbrev.Table, clusters Clusters, t time.Time) ([]Row, error) {
	finder := a.Finder
	if finder == nil {
		finder = HorizonScanner{}
	}
	width := AlsoInWidth
	if a.DSTInfo {
		width = AlsoInWidthDST
	}

	rows := make([]Row, 0, table.Len())
	for _, e := range table.Entries() {
		z, err := a.Calc.Zone(e.Zone)
		if err != nil {
			if a.SkipUnknown && IsUnknownZone(err) {
				a.logger().Warn("skipping unknown zone", "label", e.Label, "zone", e.Zone, "error", err)
				continue
			}
			return nil, fmt.Errorf("row %s: %w", e.Label, err)
		}
		res := Offset(z, t)
		row := Row{
			Name:   e.Zone,
			Offset: res.Offset,
			Local:  res.LocalString(),
			IsDST:  res.IsDST,
		}
		if utf8.RuneCountInString(e.Label) <= MaxAbbrevLen {
			row.Abbr = e.Label
		}
		if a.DSTInfo {
			row.Until = finder.NextTransition(z, t, res.IsDST)
			a.logger().Debug("next transition", "zone", e.Zone, "dst", res.IsDST, "until", row.Until)
		}
		if a.AlsoIn {
			row.AlsoIn = companions(clusters.Members(res.Offset), width, a.Long)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// companions joins zones and cuts the result after width characters.
func companions(zones []string, width int, long bool) string {
	s := strings.Join(zones, ", ")
	if long || utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width]) + "..."
}
