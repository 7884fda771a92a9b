// Package tzif reads and writes the TZif file format according to RFC8536.
// https://datatracker.ietf.org/doc/html/rfc8536
//
// The package is used as the on-disk zone database reader: zoneinfo
// directories shipped by operating systems are trees of TZif files.
package tzif

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// All multi-octet integer values are stored big-endian, two's complement.
var order = binary.BigEndian

// Version represents the version of a TZif file.
// In V1, time values are 32bit and in V2 upwards time values are 64bit.
// Therefore, V1DataBlock is only used by V1 and V2DataBlock is used by V2, V3 and V4.
type Version byte

func (v Version) String() string {
	switch v {
	case V1:
		return "V1 (0x00)"
	case V2:
		return "V2 (0x32)"
	case V3:
		return "V3 (0x33)"
	case V4:
		return "V4 (0x34)"
	default:
		return fmt.Sprintf("<undefined version (%d)>", v)
	}
}

const (
	// V1 files contain only the version 1 header and data block.
	V1 Version = 0x00
	// V2 files add a 64bit header, data block and a footer with a POSIX TZ string.
	V2 Version = 0x32 // '2'
	// V3 files may use the TZ string extensions of RFC8536 section 3.3.1.
	V3 Version = 0x33 // '3'
	// V4 files may carry a truncated leap second table (tzfile(5)).
	V4 Version = 0x34 // '4'
)

// Magic is the four-octet ASCII sequence "TZif" (0x54 0x5A 0x69 0x66),
// which identifies the file as utilizing the Time Zone Information Format.
var Magic = [4]byte{'T', 'Z', 'i', 'f'}

// Header is the header of a TZif file.
//
//	+---------------+---+
//	|  magic    (4) |ver|
//	+---------------+---+---------------------------------------+
//	|           [unused - reserved for future use] (15)         |
//	+---------------+---------------+---------------+-----------+
//	|  isutcnt  (4) |  isstdcnt (4) |  leapcnt  (4) |
//	+---------------+---------------+---------------+
//	|  timecnt  (4) |  typecnt  (4) |  charcnt  (4) |
//	+---------------+---------------+---------------+
type Header struct {
	Version  Version
	Reserved [15]byte

	// Isutcnt is the number of UT/local indicators; zero or typecnt.
	Isutcnt uint32
	// Isstdcnt is the number of standard/wall indicators; zero or typecnt.
	Isstdcnt uint32
	// Leapcnt is the number of leap-second records.
	Leapcnt uint32
	// Timecnt is the number of transition times.
	Timecnt uint32
	// Typecnt is the number of local time type records. Never zero.
	Typecnt uint32
	// Charcnt is the number of octets of time zone designations,
	// including the trailing NUL. Never zero.
	Charcnt uint32
}

// Write writes the Header to w.
func (h Header) Write(w io.Writer) error {
	if _, err := w.Write(Magic[:]); err != nil {
		return err
	}
	return binary.Write(w, order, h)
}

// ReadHeader reads a header including the magic from r.
// It fails early on anything that is not a TZif stream, which makes it
// suitable for sniffing files in a zoneinfo directory.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header
	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return h, fmt.Errorf("reading magic: %w", err)
	}
	if !bytes.Equal(magic, Magic[:]) {
		return h, fmt.Errorf("invalid magic: %v", magic)
	}
	err := binary.Read(r, order, &h)
	return h, err
}

// V1DataBlock is the data block of a version 1 TZif file (TIME_SIZE 4).
//
//	+---------------------------------------------------------+
//	|  transition times          (timecnt x TIME_SIZE)        |
//	|  transition types          (timecnt)                    |
//	|  local time type records   (typecnt x 6)                |
//	|  time zone designations    (charcnt)                    |
//	|  leap-second records       (leapcnt x (TIME_SIZE + 4))  |
//	|  standard/wall indicators  (isstdcnt)                   |
//	|  UT/local indicators       (isutcnt)                    |
//	+---------------------------------------------------------+
type V1DataBlock struct {
	TransitionTimes        []int32
	TransitionTypes        []uint8
	LocalTimeTypeRecord    []LocalTimeTypeRecord
	TimeZoneDesignation    []byte
	LeapSecondRecords      []V1LeapSecondRecord
	StandardWallIndicators []bool
	UTLocalIndicators      []bool
}

func (b V1DataBlock) Write(w io.Writer) error {
	if err := binary.Write(w, order, b.TransitionTimes); err != nil {
		return err
	}
	return writeTail(w, b.TransitionTypes, b.LocalTimeTypeRecord, b.TimeZoneDesignation, b.LeapSecondRecords, b.StandardWallIndicators, b.UTLocalIndicators)
}

func ReadV1DataBlock(r io.Reader, h Header) (V1DataBlock, error) {
	var b V1DataBlock
	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int32, h.Timecnt)
		if err := binary.Read(r, order, &b.TransitionTimes); err != nil {
			return b, fmt.Errorf("reading transition times: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSecondRecords = make([]V1LeapSecondRecord, h.Leapcnt)
	}
	t, err := readTail(r, h, b.LeapSecondRecords)
	if err != nil {
		return b, err
	}
	b.TransitionTypes = t.types
	b.LocalTimeTypeRecord = t.records
	b.TimeZoneDesignation = t.designations
	b.StandardWallIndicators = t.isstd
	b.UTLocalIndicators = t.isut
	return b, nil
}

// V1LeapSecondRecord is a leap-second record of a V1DataBlock.
//
//	+---------------+---------------+
//	|  occur (4)    |  corr (4)     |
//	+---------------+---------------+
type V1LeapSecondRecord struct {
	Occur int32
	Corr  int32
}

// V2DataBlock is the data block of a version 2+ TZif file (TIME_SIZE 8).
// The layout is the same as V1DataBlock.
type V2DataBlock struct {
	TransitionTimes        []int64
	TransitionTypes        []uint8
	LocalTimeTypeRecord    []LocalTimeTypeRecord
	TimeZoneDesignation    []byte
	LeapSecondRecords      []V2LeapSecondRecord
	StandardWallIndicators []bool
	UTLocalIndicators      []bool
}

func (b V2DataBlock) Write(w io.Writer) error {
	if err := binary.Write(w, order, b.TransitionTimes); err != nil {
		return err
	}
	return writeTail(w, b.TransitionTypes, b.LocalTimeTypeRecord, b.TimeZoneDesignation, b.LeapSecondRecords, b.StandardWallIndicators, b.UTLocalIndicators)
}

func ReadV2DataBlock(r io.Reader, h Header) (V2DataBlock, error) {
	if h.Version < V2 {
		return V2DataBlock{}, fmt.Errorf("invalid header version: %v", h.Version)
	}

	var b V2DataBlock
	if h.Timecnt > 0 {
		b.TransitionTimes = make([]int64, h.Timecnt)
		if err := binary.Read(r, order, &b.TransitionTimes); err != nil {
			return b, fmt.Errorf("reading transition times: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		b.LeapSecondRecords = make([]V2LeapSecondRecord, h.Leapcnt)
	}
	t, err := readTail(r, h, b.LeapSecondRecords)
	if err != nil {
		return b, err
	}
	b.TransitionTypes = t.types
	b.LocalTimeTypeRecord = t.records
	b.TimeZoneDesignation = t.designations
	b.StandardWallIndicators = t.isstd
	b.UTLocalIndicators = t.isut
	return b, nil
}

// V2LeapSecondRecord is a leap-second record of a V2DataBlock.
//
//	+---------------+---------------+---------------+
//	|  occur (8)                    |  corr (4)     |
//	+---------------+---------------+---------------+
type V2LeapSecondRecord struct {
	Occur int64
	Corr  int32
}

// LocalTimeTypeRecord represents a local time type record.
//
//	+---------------+---+---+
//	|  utoff (4)    |dst|idx|
//	+---------------+---+---+
type LocalTimeTypeRecord struct {
	// Utoff is the number of seconds to be added to UT in order to
	// determine local time.
	Utoff int32
	// Dst reports whether local time should be considered Daylight Saving Time.
	Dst bool
	// Idx is a zero-based index into the time zone designations.
	Idx uint8
}

func (r LocalTimeTypeRecord) Write(w io.Writer) error {
	return binary.Write(w, order, r)
}

// Footer represents the footer of a TZif file.
//
//	+---+--------------------+---+
//	| NL|  TZ string (0...)  |NL |
//	+---+--------------------+---+
//
// TZString contains a rule for computing local time changes after the last
// transition time stored in the version 2+ data block, in the format of
// the POSIX "TZ" environment variable. If the string is empty, the
// corresponding information is not available.
type Footer struct {
	TZString []byte
}

var asciiNewLine = byte(0x0A)

func (f Footer) Write(w io.Writer) error {
	if _, err := w.Write([]byte{asciiNewLine}); err != nil {
		return err
	}
	if _, err := w.Write(f.TZString); err != nil {
		return err
	}
	_, err := w.Write([]byte{asciiNewLine})
	return err
}

func ReadFooter(r io.Reader) (Footer, error) {
	var f Footer
	buf := make([]byte, 1)
	if _, err := io.ReadFull(r, buf); err != nil {
		return f, fmt.Errorf("reading newline: %w", err)
	}
	if buf[0] != asciiNewLine {
		return f, fmt.Errorf("expected newline: %v", buf[0])
	}
	var b []byte
	for {
		if _, err := io.ReadFull(r, buf); err != nil {
			return f, fmt.Errorf("reading TZ string: %w", err)
		}
		if buf[0] == asciiNewLine {
			break
		}
		b = append(b, buf[0])
	}
	f.TZString = b
	return f, nil
}

// tail holds the parts of a data block that do not depend on TIME_SIZE.
type tail struct {
	types        []uint8
	records      []LocalTimeTypeRecord
	designations []byte
	isstd        []bool
	isut         []bool
}

// readTail reads everything after the transition times. leaps must be
// preallocated to leapcnt elements of the block's leap record type.
func readTail(r io.Reader, h Header, leaps any) (tail, error) {
	var t tail
	if h.Timecnt > 0 {
		t.types = make([]uint8, h.Timecnt)
		if _, err := io.ReadFull(r, t.types); err != nil {
			return t, fmt.Errorf("reading transition types: %w", err)
		}
	}
	if h.Typecnt > 0 {
		t.records = make([]LocalTimeTypeRecord, h.Typecnt)
		if err := binary.Read(r, order, &t.records); err != nil {
			return t, fmt.Errorf("reading local time type record: %w", err)
		}
	}
	if h.Charcnt > 0 {
		t.designations = make([]byte, h.Charcnt)
		if _, err := io.ReadFull(r, t.designations); err != nil {
			return t, fmt.Errorf("reading time zone designation: %w", err)
		}
	}
	if h.Leapcnt > 0 {
		if err := binary.Read(r, order, leaps); err != nil {
			return t, fmt.Errorf("reading leap second record: %w", err)
		}
	}
	if h.Isstdcnt > 0 {
		t.isstd = make([]bool, h.Isstdcnt)
		if err := binary.Read(r, order, &t.isstd); err != nil {
			return t, fmt.Errorf("reading standard/wall indicator: %w", err)
		}
	}
	if h.Isutcnt > 0 {
		t.isut = make([]bool, h.Isutcnt)
		if err := binary.Read(r, order, &t.isut); err != nil {
			return t, fmt.Errorf("reading UT/local indicator: %w", err)
		}
	}
	return t, nil
}

func writeTail(w io.Writer, types []uint8, records []LocalTimeTypeRecord, designations []byte, leaps any, isstd, isut []bool) error {
	if _, err := w.Write(types); err != nil {
		return err
	}
	for _, r := range records {
		if err := r.Write(w); err != nil {
			return err
		}
	}
	if _, err := w.Write(designations); err != nil {
		return err
	}
	if err := binary.Write(w, order, leaps); err != nil {
		return err
	}
	if err := binary.Write(w, order, isstd); err != nil {
		return err
	}
	return binary.Write(w, order, isut)
}
