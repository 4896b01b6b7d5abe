// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package region computes and applies sparse differences between two
// equal-length byte buffers.
//
// A Diff records the maximal index ranges where two buffers differ, together
// with the altered values for those ranges, in index order.
package region

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// MaxBufferLen is the longest buffer a Diff can describe. Range bounds are
// stored as uint16, and an end bound may equal the buffer length.
const MaxBufferLen = math.MaxUint16

var (
	// ErrLengthMismatch is returned when diffing buffers of different lengths.
	ErrLengthMismatch = errors.New("buffer length mismatch")

	// ErrValueCount is returned when a Diff's ranges cover a different number
	// of indices than it holds values for.
	ErrValueCount = errors.New("region value count mismatch")
)

// Range is a half-open index interval [Begin, End).
type Range struct {
	Begin uint16
	End   uint16
}

// Len returns the number of indices covered by r.
func (r Range) Len() int { return int(r.End) - int(r.Begin) }

// Contains returns true if index i is within r.
func (r Range) Contains(i int) bool { return i >= int(r.Begin) && i < int(r.End) }

func (r Range) String() string { return fmt.Sprintf("[%d, %d)", r.Begin, r.End) }

// Diff is a sparse difference between an original buffer and an altered one.
//
// Ranges are strictly increasing, non-empty, and never contiguous. Values
// holds one altered byte per covered index, consumed range by range.
type Diff struct {
	Ranges []Range
	Values []byte
}

// Compute returns the Diff that transforms original into altered.
func Compute(original, altered []byte) (*Diff, error) {
	if len(original) != len(altered) {
		return nil, errors.Wrapf(ErrLengthMismatch, "original has %d bytes, altered has %d",
			len(original), len(altered))
	}
	if len(original) > MaxBufferLen {
		return nil, errors.Errorf("buffer length %d exceeds maximum %d", len(original), MaxBufferLen)
	}

	var d Diff
	for i := range original {
		if original[i] == altered[i] {
			continue
		}

		// Extend the last range if it ends here; otherwise, open a new one.
		if n := len(d.Ranges); n > 0 && int(d.Ranges[n-1].End) == i {
			d.Ranges[n-1].End++
		} else {
			d.Ranges = append(d.Ranges, Range{Begin: uint16(i), End: uint16(i + 1)})
		}
		d.Values = append(d.Values, altered[i])
	}
	return &d, nil
}

// Covered returns the total number of indices covered by d's ranges.
func (d *Diff) Covered() (n int) {
	for _, r := range d.Ranges {
		n += r.Len()
	}
	return
}

// Empty returns true if d describes no changes.
func (d *Diff) Empty() bool { return len(d.Ranges) == 0 }

// Contains returns true if index i is covered by one of d's ranges.
//
// This is a linear scan; frame diffs have few ranges.
func (d *Diff) Contains(i int) bool {
	for _, r := range d.Ranges {
		if r.Contains(i) {
			return true
		}
	}
	return false
}

// Validate checks d's structural invariants against a buffer of length size.
func (d *Diff) Validate(size int) error {
	prevEnd := -1
	for i, r := range d.Ranges {
		switch {
		case r.Begin >= r.End:
			return errors.Errorf("range #%d %s is empty", i, r)
		case int(r.Begin) <= prevEnd:
			return errors.Errorf("range #%d %s overlaps or touches its predecessor", i, r)
		case int(r.End) > size:
			return errors.Errorf("range #%d %s exceeds buffer length %d", i, r, size)
		}
		prevEnd = int(r.End)
	}

	if covered := d.Covered(); covered != len(d.Values) {
		return errors.Wrapf(ErrValueCount, "ranges cover %d indices, have %d values", covered, len(d.Values))
	}
	return nil
}

// Apply returns a copy of original with d's changes applied.
//
// Values are consumed strictly in order, one per covered index. original is
// not modified.
func (d *Diff) Apply(original []byte) ([]byte, error) {
	if covered := d.Covered(); covered != len(d.Values) {
		return nil, errors.Wrapf(ErrValueCount, "ranges cover %d indices, have %d values", covered, len(d.Values))
	}

	altered := make([]byte, len(original))
	copy(altered, original)

	next := 0
	for _, r := range d.Ranges {
		if r.Begin >= r.End || int(r.End) > len(original) {
			return nil, errors.Errorf("range %s is invalid for buffer length %d", r, len(original))
		}
		next += copy(altered[r.Begin:r.End], d.Values[next:])
	}
	return altered, nil
}
