// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package region

import (
	"github.com/pkg/errors"
)

// Flatten returns d's ranges as an alternating [begin0, end0, begin1, ...]
// sequence. This is the array form used when a Diff is emitted.
func (d *Diff) Flatten() []uint16 { return AppendFlat(nil, d.Ranges) }

// AppendFlat appends the flattened form of ranges to dst.
func AppendFlat(dst []uint16, ranges []Range) []uint16 {
	for _, r := range ranges {
		dst = append(dst, r.Begin, r.End)
	}
	return dst
}

// RangesFromFlat rebuilds ranges from their flattened form.
func RangesFromFlat(flat []uint16) ([]Range, error) {
	if len(flat)%2 != 0 {
		return nil, errors.Errorf("flattened ranges have odd length %d", len(flat))
	}

	ranges := make([]Range, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		ranges = append(ranges, Range{Begin: flat[i], End: flat[i+1]})
	}
	return ranges, nil
}

// FromFlat builds a Diff from flattened ranges and their values.
//
// The Diff is checked against its value count, but not against a buffer
// length; use Validate for that.
func FromFlat(flat []uint16, values []byte) (*Diff, error) {
	ranges, err := RangesFromFlat(flat)
	if err != nil {
		return nil, err
	}

	d := Diff{
		Ranges: ranges,
		Values: values,
	}
	if covered := d.Covered(); covered != len(values) {
		return nil, errors.Wrapf(ErrValueCount, "ranges cover %d indices, have %d values", covered, len(values))
	}
	return &d, nil
}
