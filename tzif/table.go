package tzif

import (
	"bytes"
	"sort"
)

// LocalTimeType is a local time type record with its designation resolved.
type LocalTimeType struct {
	Offset int32 // seconds east of UT
	DST    bool
	Abbrev string
}

// Transition marks the instant from which Types[Type] is in effect.
type Transition struct {
	When int64 // seconds since 1970-01-01 UT
	Type int
}

// Table is the transition table of a TZif file. It is taken from the
// version 2+ data block when the file has one, and from the version 1
// block otherwise.
type Table struct {
	Types       []LocalTimeType
	Transitions []Transition
	// TZString is the footer rule for instants after the last transition.
	TZString string
}

// Table returns the decoded transition table of d.
// The data should have passed Validate.
func (d Data) Table() Table {
	var (
		times        []int64
		types        []uint8
		records      []LocalTimeTypeRecord
		designations []byte
		t            Table
	)
	if d.Version > V1 {
		times, types = d.V2Data.TransitionTimes, d.V2Data.TransitionTypes
		records, designations = d.V2Data.LocalTimeTypeRecord, d.V2Data.TimeZoneDesignation
		t.TZString = string(d.V2Footer.TZString)
	} else {
		times, types = widen(d.V1Data.TransitionTimes), d.V1Data.TransitionTypes
		records, designations = d.V1Data.LocalTimeTypeRecord, d.V1Data.TimeZoneDesignation
	}

	t.Types = make([]LocalTimeType, len(records))
	for i, r := range records {
		t.Types[i] = LocalTimeType{Offset: r.Utoff, DST: r.Dst, Abbrev: designation(designations, r.Idx)}
	}
	t.Transitions = make([]Transition, len(times))
	for i := range times {
		t.Transitions[i] = Transition{When: times[i], Type: int(types[i])}
	}
	return t
}

func designation(b []byte, idx uint8) string {
	if int(idx) >= len(b) {
		return ""
	}
	s := b[idx:]
	if end := bytes.IndexByte(s, 0); end >= 0 {
		s = s[:end]
	}
	return string(s)
}

// Find returns the local time type in effect at unix. If unix lies at or
// after the last transition and the table carries a TZString, ok is false
// and the caller has to evaluate the footer rule instead.
func (t Table) Find(unix int64) (typ LocalTimeType, ok bool) {
	if len(t.Types) == 0 {
		return LocalTimeType{}, false
	}
	if len(t.Transitions) == 0 {
		return t.Types[0], t.TZString == ""
	}
	if unix < t.Transitions[0].When {
		return t.Types[0], true
	}
	// Index of the last transition at or before unix.
	i := sort.Search(len(t.Transitions), func(i int) bool { return t.Transitions[i].When > unix }) - 1
	if i == len(t.Transitions)-1 && t.TZString != "" {
		return t.Types[t.Transitions[i].Type], false
	}
	return t.Types[t.Transitions[i].Type], true
}

// After returns the transitions strictly after unix.
func (t Table) After(unix int64) []Transition {
	i := sort.Search(len(t.Transitions), func(i int) bool { return t.Transitions[i].When > unix })
	return t.Transitions[i:]
}

// End returns the time of the last transition, or false if there is none.
func (t Table) End() (int64, bool) {
	if len(t.Transitions) == 0 {
		return 0, false
	}
	return t.Transitions[len(t.Transitions)-1].When, true
}

// Data returns a version 2 TZif file holding t. Its version 1 data block
// carries only the local time types; version 2+ readers ignore it.
func (t Table) Data() Data {
	var (
		designations []byte
		index        = make(map[string]uint8)
		records      = make([]LocalTimeTypeRecord, len(t.Types))
	)
	for i, typ := range t.Types {
		idx, ok := index[typ.Abbrev]
		if !ok {
			idx = uint8(len(designations))
			index[typ.Abbrev] = idx
			designations = append(designations, typ.Abbrev...)
			designations = append(designations, 0)
		}
		records[i] = LocalTimeTypeRecord{Utoff: typ.Offset, Dst: typ.DST, Idx: idx}
	}

	v2 := V2DataBlock{
		LocalTimeTypeRecord: records,
		TimeZoneDesignation: designations,
	}
	for _, tr := range t.Transitions {
		v2.TransitionTimes = append(v2.TransitionTimes, tr.When)
		v2.TransitionTypes = append(v2.TransitionTypes, uint8(tr.Type))
	}

	return Data{
		Version: V2,
		V1Header: Header{
			Version: V2,
			Typecnt: uint32(len(records)),
			Charcnt: uint32(len(designations)),
		},
		V1Data: V1DataBlock{
			LocalTimeTypeRecord: records,
			TimeZoneDesignation: designations,
		},
		V2Header: Header{
			Version: V2,
			Timecnt: uint32(len(v2.TransitionTimes)),
			Typecnt: uint32(len(records)),
			Charcnt: uint32(len(designations)),
		},
		V2Data:   v2,
		V2Footer: Footer{TZString: []byte(t.TZString)},
	}
}
