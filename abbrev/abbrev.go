// Package abbrev holds the table of display labels, mostly short zone
// abbreviations, and the zones they stand for.
//
// A Table is an immutable, ordered value. The order is the order rows are
// reported in.
package abbrev

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Entry maps a display label to a zone identifier or a literal offset.
type Entry struct {
	Label string
	Zone  string
}

// Table is an ordered mapping from unique labels to zones.
// The zero value is an empty table.
type Table struct {
	entries []Entry
	index   map[string]int
}

// New builds a table from entries. Labels must be unique and non-empty.
func New(entries ...Entry) (Table, error) {
	t := Table{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		if e.Label == "" {
			return Table{}, fmt.Errorf("empty label for zone %q", e.Zone)
		}
		if e.Zone == "" {
			return Table{}, fmt.Errorf("empty zone for label %q", e.Label)
		}
		if _, dup := t.index[e.Label]; dup {
			return Table{}, fmt.Errorf("duplicate label %q", e.Label)
		}
		t.index[e.Label] = len(t.entries)
		t.entries = append(t.entries, e)
	}
	return t, nil
}

// MustNew is like New but panics on invalid entries.
func MustNew(entries ...Entry) Table {
	t, err := New(entries...)
	if err != nil {
		panic(err)
	}
	return t
}

// defaultEntries is an opinionated list of zones with labels that are
// unambiguous within this list.
var defaultEntries = []Entry{
	{"UTC", "UTC"},
	{"HST", "Pacific/Honolulu"},
	{"PST", "America/Tijuana"},
	{"CST", "America/Chicago"},
	{"EST", "America/Thunder_Bay"},
	{"WET", "Europe/Lisbon"},
	{"CET", "Europe/Berlin"},
	{"EET", "Europe/Kyiv"},
	{"+0330", "Asia/Tehran"},
	{"IST", "Asia/Kolkata"},
	{"+07", "Asia/Novosibirsk"},
	{"HKT", "Asia/Hong_Kong"},
	{"JST", "Asia/Tokyo"},
	{"AEST", "Australia/Sydney"},
}

// Default returns the built-in table.
func Default() Table {
	return MustNew(defaultEntries...)
}

// Len returns the number of entries.
func (t Table) Len() int { return len(t.entries) }

// Entries returns a copy of the entries in order.
func (t Table) Entries() []Entry {
	return append([]Entry(nil), t.entries...)
}

// Lookup returns the zone for label.
func (t Table) Lookup(label string) (string, bool) {
	i, ok := t.index[label]
	if !ok {
		return "", false
	}
	return t.entries[i].Zone, true
}

// WithExtra returns a copy of t with every label mapped to itself. A label
// that is already present keeps its position but now maps to itself.
func (t Table) WithExtra(labels ...string) Table {
	entries := t.Entries()
	index := make(map[string]int, len(entries)+len(labels))
	for i, e := range entries {
		index[e.Label] = i
	}
	for _, l := range labels {
		if l == "" {
			continue
		}
		if i, ok := index[l]; ok {
			entries[i].Zone = l
			continue
		}
		index[l] = len(entries)
		entries = append(entries, Entry{Label: l, Zone: l})
	}
	return Table{entries: entries, index: index}
}

// Only returns a table holding just labels, each mapped to itself.
func Only(labels ...string) Table {
	return Table{}.WithExtra(labels...)
}

// UnmarshalYAML decodes a mapping of label to zone, keeping the order of
// the document:
//
//	UTC: UTC
//	CET: Europe/Berlin
func (t *Table) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: timezones must be a mapping of label to zone", n.Line)
	}
	entries := make([]Entry, 0, len(n.Content)/2)
	for i := 0; i+1 < len(n.Content); i += 2 {
		var e Entry
		if err := n.Content[i].Decode(&e.Label); err != nil {
			return err
		}
		if err := n.Content[i+1].Decode(&e.Zone); err != nil {
			return err
		}
		entries = append(entries, e)
	}
	table, err := New(entries...)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*t = table
	return nil
}
