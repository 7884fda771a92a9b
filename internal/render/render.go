// Package render prints worldclock reports as aligned text.
package render

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/width"

	"github.com/ngrash/worldclock/worldclock"
)

// Options selects the optional columns of a table.
type Options struct {
	DSTInfo bool
	AlsoIn  bool
}

// Header returns the column titles for opts.
func Header(opts Options) []string {
	h := []string{"Name", "Abbr", "UTC offset", "Time"}
	if opts.DSTInfo {
		h = append(h, "DST", "until")
	}
	if opts.AlsoIn {
		h = append(h, "Same time also in")
	}
	return h
}

// Cells returns the columns of r for opts.
func Cells(r worldclock.Row, opts Options) []string {
	c := []string{r.Name, r.Abbr, "UTC" + r.Offset, r.Local}
	if opts.DSTInfo {
		dst := "no"
		if r.IsDST {
			dst = "yes"
		}
		c = append(c, dst, r.Until.String())
	}
	if opts.AlsoIn {
		c = append(c, r.AlsoIn)
	}
	return c
}

// Table writes rows below a header underlined with "=". Columns are left
// aligned and separated by two spaces.
func Table(w io.Writer, rows []worldclock.Row, opts Options) error {
	lines := [][]string{Header(opts)}
	for _, r := range rows {
		lines = append(lines, Cells(r, opts))
	}
	widths := make([]int, len(lines[0]))
	for _, line := range lines {
		for i, cell := range line {
			widths[i] = max(widths[i], Width(cell))
		}
	}

	header := formatLine(lines[0], widths)
	if _, err := fmt.Fprintf(w, "%s\n%s\n", header, strings.Repeat("=", Width(header))); err != nil {
		return err
	}
	for _, line := range lines[1:] {
		if _, err := fmt.Fprintln(w, formatLine(line, widths)); err != nil {
			return err
		}
	}
	return nil
}

func formatLine(cells []string, widths []int) string {
	var b strings.Builder
	for i, cell := range cells {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", widths[i]-Width(cell)))
	}
	return b.String()
}

// Width returns the number of terminal cells s occupies. East Asian wide
// and fullwidth characters take two cells.
func Width(s string) int {
	n := 0
	for _, r := range s {
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			n += 2
		default:
			n++
		}
	}
	return n
}

// ZoneOffset is one line of a zone listing.
type ZoneOffset struct {
	Zone   string
	Offset string
}

// Zones writes one line per zone with its offset.
func Zones(w io.Writer, zones []ZoneOffset) error {
	for _, z := range zones {
		if _, err := fmt.Fprintf(w, "%-30s UTC%s\n", z.Zone, z.Offset); err != nil {
			return err
		}
	}
	return nil
}
