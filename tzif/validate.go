package tzif

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of RFC8536 that a reader
// relies on: counts match the header, indices are in range and
// transition times ascend.
func Validate(d Data) error {
	var errs []error
	if d.Version > V1 && d.V1Header.Version != d.V2Header.Version {
		errs = append(errs, fmt.Errorf("inconsistent version: file = %v, v1 header = %v, v2 header = %v", d.Version, d.V1Header.Version, d.V2Header.Version))
	}

	v1 := d.V1Data
	errs = append(errs, validateBlock("v1", d.V1Header, blockView{
		times:        widen(v1.TransitionTimes),
		types:        v1.TransitionTypes,
		records:      v1.LocalTimeTypeRecord,
		designations: v1.TimeZoneDesignation,
		leapcnt:      len(v1.LeapSecondRecords),
		isstdcnt:     len(v1.StandardWallIndicators),
		isutcnt:      len(v1.UTLocalIndicators),
	})...)

	if d.Version > V1 {
		v2 := d.V2Data
		errs = append(errs, validateBlock("v2", d.V2Header, blockView{
			times:        v2.TransitionTimes,
			types:        v2.TransitionTypes,
			records:      v2.LocalTimeTypeRecord,
			designations: v2.TimeZoneDesignation,
			leapcnt:      len(v2.LeapSecondRecords),
			isstdcnt:     len(v2.StandardWallIndicators),
			isutcnt:      len(v2.UTLocalIndicators),
		})...)
	}

	return errors.Join(errs...)
}

type blockView struct {
	times        []int64
	types        []uint8
	records      []LocalTimeTypeRecord
	designations []byte
	leapcnt      int
	isstdcnt     int
	isutcnt      int
}

func widen(t32 []int32) []int64 {
	if t32 == nil {
		return nil
	}
	t := make([]int64, len(t32))
	for i, v := range t32 {
		t[i] = int64(v)
	}
	return t
}

func validateBlock(v string, header Header, b blockView) []error {
	var err []error

	// Isutcnt
	if header.Isutcnt != 0 && header.Isutcnt != header.Typecnt {
		err = append(err, fmt.Errorf("invalid %s isutcnt (%d): must be 0 or equal to typecnt (%d)", v, header.Isutcnt, header.Typecnt))
	}
	if b.isutcnt != int(header.Isutcnt) {
		err = append(err, fmt.Errorf("invalid %s isutcnt: header = %d, data = %d", v, header.Isutcnt, b.isutcnt))
	}

	// Isstdcnt
	if header.Isstdcnt != 0 && header.Isstdcnt != header.Typecnt {
		err = append(err, fmt.Errorf("invalid %s isstdcnt (%d): must be 0 or equal to typecnt (%d)", v, header.Isstdcnt, header.Typecnt))
	}
	if b.isstdcnt != int(header.Isstdcnt) {
		err = append(err, fmt.Errorf("invalid %s isstdcnt: header = %d, data = %d", v, header.Isstdcnt, b.isstdcnt))
	}

	// Leapcnt
	if b.leapcnt != int(header.Leapcnt) {
		err = append(err, fmt.Errorf("invalid %s leapcnt: header = %d, data = %d", v, header.Leapcnt, b.leapcnt))
	}

	// Timecnt
	if len(b.times) != int(header.Timecnt) {
		err = append(err, fmt.Errorf("invalid %s timecnt: header = %d, transition times = %d", v, header.Timecnt, len(b.times)))
	}
	if times, types := len(b.times), len(b.types); times != types {
		err = append(err, fmt.Errorf("inconsistent %s transitions: transition times = %d, transition types = %d", v, times, types))
	}
	for i := 1; i < len(b.times); i++ {
		if b.times[i] <= b.times[i-1] {
			err = append(err, fmt.Errorf("invalid %s transition times: %d is not after %d", v, b.times[i], b.times[i-1]))
			break
		}
	}
	for _, t := range b.types {
		if int(t) >= len(b.records) {
			err = append(err, fmt.Errorf("invalid %s transition type %d: only %d local time types", v, t, len(b.records)))
			break
		}
	}

	// Typecnt
	if header.Typecnt == 0 {
		err = append(err, fmt.Errorf("invalid %s typecnt: must not be zero", v))
	}
	if len(b.records) != int(header.Typecnt) {
		err = append(err, fmt.Errorf("invalid %s typecnt: header = %d, data = %d", v, header.Typecnt, len(b.records)))
	}

	// Charcnt
	if header.Charcnt == 0 {
		err = append(err, fmt.Errorf("invalid %s charcnt: must not be zero", v))
	}
	if len(b.designations) != int(header.Charcnt) {
		err = append(err, fmt.Errorf("invalid %s charcnt: header = %d, data = %d", v, header.Charcnt, len(b.designations)))
	}
	if len(b.designations) > 0 && b.designations[len(b.designations)-1] != 0 {
		err = append(err, fmt.Errorf("invalid %s time zone designations: missing null terminator", v))
	}
	for _, r := range b.records {
		if int(r.Idx) >= len(b.designations) {
			err = append(err, fmt.Errorf("invalid %s designation index %d: charcnt = %d", v, r.Idx, len(b.designations)))
			break
		}
	}
	return err
}
