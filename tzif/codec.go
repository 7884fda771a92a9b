package tzif

import (
	"bytes"
	"fmt"
	"io"
)

// Data represents a TZif file. The V2 fields are unused for version 1.
type Data struct {
	Version Version

	V1Header Header
	V1Data   V1DataBlock

	V2Header Header
	V2Data   V2DataBlock
	V2Footer Footer
}

type part struct {
	name  string
	write func(io.Writer) error
}

// Encode writes d to w. A version 1 file ends after the first data block.
func (d Data) Encode(w io.Writer) error {
	parts := []part{
		{"v1 header", d.V1Header.Write},
		{"v1 data block", d.V1Data.Write},
	}
	if d.Version > V1 {
		parts = append(parts,
			part{"v2 header", d.V2Header.Write},
			part{"v2 data block", d.V2Data.Write},
			part{"footer", d.V2Footer.Write})
	}
	for _, p := range parts {
		if err := p.write(w); err != nil {
			return fmt.Errorf("write %s: %w", p.name, err)
		}
	}
	return nil
}

// offsetReader counts the bytes read so far.
type offsetReader struct {
	r io.Reader
	n int64
}

func (o *offsetReader) Read(p []byte) (int, error) {
	n, err := o.r.Read(p)
	o.n += int64(n)
	return n, err
}

// DecodeData reads a TZif file from r. Errors name the part that failed
// and the offset it started at.
func DecodeData(r io.Reader) (Data, error) {
	var d Data
	or := &offsetReader{r: r}
	fail := func(name string, start int64, err error) (Data, error) {
		return d, fmt.Errorf("read %s at byte %d: %w", name, start, err)
	}

	var err error
	start := or.n
	if d.V1Header, err = ReadHeader(or); err != nil {
		return fail("v1 header", start, err)
	}
	d.Version = d.V1Header.Version

	start = or.n
	if d.V1Data, err = ReadV1DataBlock(or, d.V1Header); err != nil {
		return fail("v1 data block", start, err)
	}
	if d.Version == V1 {
		return d, nil
	}

	start = or.n
	if d.V2Header, err = ReadHeader(or); err != nil {
		return fail("v2 header", start, err)
	}
	start = or.n
	if d.V2Data, err = ReadV2DataBlock(or, d.V2Header); err != nil {
		return fail("v2 data block", start, err)
	}
	start = or.n
	if d.V2Footer, err = ReadFooter(or); err != nil {
		return fail("footer", start, err)
	}
	return d, nil
}

// HasMagic reports whether b starts like a TZif file.
func HasMagic(b []byte) bool {
	return len(b) >= len(Magic) && bytes.Equal(b[:len(Magic)], Magic[:])
}
