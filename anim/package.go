// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package anim

import (
	"github.com/danjacques/framepack/region"
	"github.com/danjacques/framepack/rle"

	"github.com/pkg/errors"
)

// Package is a packed animation.
//
// A Package holds len(RegionBoundaries) segments. Segment 0 is the base
// diff, which builds the base frame from an all-zero buffer. Segment i+1 is
// frame i's diff against the base frame.
//
// The boundary tables hold the running length of Regions and DiffBytes after
// each segment, so segment i spans Regions[RegionBoundaries[i-1]:
// RegionBoundaries[i]] (starting at 0 for segment 0), and likewise for
// DiffBytes.
//
// A Package is immutable once built; its slices must not be modified.
type Package struct {
	// FrameLen is the length of every frame, in bytes.
	FrameLen int

	// RegionBoundaries is the running length of Regions after each segment.
	RegionBoundaries []uint16
	// Regions is the concatenation of every segment's flattened ranges.
	Regions []uint16

	// ByteBoundaries is the running length of DiffBytes after each segment.
	ByteBoundaries []uint16
	// DiffBytes is the concatenation of every segment's diff values.
	DiffBytes []byte
}

// New builds a Package from its array form, validating it.
func New(frameLen int, regionBoundaries, regions, byteBoundaries []uint16, diffBytes []byte) (*Package, error) {
	pkg := Package{
		FrameLen:         frameLen,
		RegionBoundaries: regionBoundaries,
		Regions:          regions,
		ByteBoundaries:   byteBoundaries,
		DiffBytes:        diffBytes,
	}
	if err := pkg.Validate(); err != nil {
		return nil, err
	}
	return &pkg, nil
}

// Validate checks that p is internally consistent: every segment must be a
// valid diff over a FrameLen buffer.
func (p *Package) Validate() error {
	if p.FrameLen <= 0 || p.FrameLen > region.MaxBufferLen {
		return errors.Errorf("invalid frame length %d", p.FrameLen)
	}
	if len(p.RegionBoundaries) != len(p.ByteBoundaries) {
		return errors.Errorf("boundary tables differ in length (%d regions, %d bytes)",
			len(p.RegionBoundaries), len(p.ByteBoundaries))
	}
	if len(p.RegionBoundaries) < 2 {
		return errors.Errorf("package has %d segments, need a base and at least one frame", len(p.RegionBoundaries))
	}
	if last := p.RegionBoundaries[len(p.RegionBoundaries)-1]; int(last) != len(p.Regions) {
		return errors.Errorf("region boundary %d does not match %d regions", last, len(p.Regions))
	}
	if last := p.ByteBoundaries[len(p.ByteBoundaries)-1]; int(last) != len(p.DiffBytes) {
		return errors.Errorf("byte boundary %d does not match %d diff bytes", last, len(p.DiffBytes))
	}

	for i := range p.RegionBoundaries {
		d, err := p.Segment(i)
		if err != nil {
			return err
		}
		if err := d.Validate(p.FrameLen); err != nil {
			return errors.Wrapf(err, "segment %d", i)
		}
	}
	return nil
}

// NumFrames returns the number of animation frames in p.
func (p *Package) NumFrames() int { return len(p.RegionBoundaries) - 1 }

// NumRegions returns the number of differing regions across every segment.
func (p *Package) NumRegions() int { return len(p.Regions) / 2 }

// Segment returns the diff stored in segment i.
//
// The returned Diff references p's arrays and must not be modified.
func (p *Package) Segment(i int) (*region.Diff, error) {
	if i < 0 || i >= len(p.RegionBoundaries) {
		return nil, errors.Errorf("segment %d out of range [0, %d)", i, len(p.RegionBoundaries))
	}

	var rBegin, bBegin uint16
	if i > 0 {
		rBegin, bBegin = p.RegionBoundaries[i-1], p.ByteBoundaries[i-1]
	}
	rEnd, bEnd := p.RegionBoundaries[i], p.ByteBoundaries[i]
	if rBegin > rEnd || int(rEnd) > len(p.Regions) || bBegin > bEnd || int(bEnd) > len(p.DiffBytes) {
		return nil, errors.Errorf("segment %d has invalid boundaries", i)
	}

	d, err := region.FromFlat(p.Regions[rBegin:rEnd], p.DiffBytes[bBegin:bEnd])
	if err != nil {
		return nil, errors.Wrapf(err, "segment %d", i)
	}
	return d, nil
}

// Base reconstructs the base frame.
func (p *Package) Base() ([]byte, error) {
	d, err := p.Segment(0)
	if err != nil {
		return nil, err
	}
	return d.Apply(make([]byte, p.FrameLen))
}

// Frame reconstructs animation frame i.
func (p *Package) Frame(i int) ([]byte, error) {
	if i < 0 || i >= p.NumFrames() {
		return nil, errors.Errorf("frame %d out of range [0, %d)", i, p.NumFrames())
	}

	base, err := p.Base()
	if err != nil {
		return nil, errors.Wrap(err, "reconstructing base frame")
	}
	d, err := p.Segment(i + 1)
	if err != nil {
		return nil, err
	}
	return d.Apply(base)
}

// Frames reconstructs every animation frame.
func (p *Package) Frames() ([][]byte, error) {
	base, err := p.Base()
	if err != nil {
		return nil, errors.Wrap(err, "reconstructing base frame")
	}

	frames := make([][]byte, p.NumFrames())
	for i := range frames {
		d, err := p.Segment(i + 1)
		if err != nil {
			return nil, err
		}
		if frames[i], err = d.Apply(base); err != nil {
			return nil, errors.Wrapf(err, "applying frame %d", i)
		}
	}
	return frames, nil
}

// TotalSize returns the number of bytes p occupies in its emitted form.
//
// Diff bytes take one byte each. Boundary table entries are two bytes each,
// and every region takes four bytes (a two-byte begin and end).
func (p *Package) TotalSize() int {
	return len(p.DiffBytes) +
		2*(len(p.RegionBoundaries)+len(p.ByteBoundaries)) +
		4*p.NumRegions()
}

// Stats summarizes the size of a packed animation.
type Stats struct {
	// Frames is the number of animation frames.
	Frames int
	// FrameLen is the length of each frame.
	FrameLen int
	// Regions is the number of differing regions across every segment.
	Regions int
	// DiffBytes is the number of stored diff values.
	DiffBytes int

	// RawSize is the size of every frame stored verbatim.
	RawSize int
	// RLESize is the size of every frame stored run-length encoded.
	RLESize int
	// TotalSize is the packed size, as returned by TotalSize.
	TotalSize int
}

// Stats computes size statistics for p.
func (p *Package) Stats() (Stats, error) {
	frames, err := p.Frames()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{
		Frames:    len(frames),
		FrameLen:  p.FrameLen,
		Regions:   p.NumRegions(),
		DiffBytes: len(p.DiffBytes),
		RawSize:   len(frames) * p.FrameLen,
		TotalSize: p.TotalSize(),
	}
	for _, f := range frames {
		st.RLESize += rle.EncodedLen(f)
	}
	return st, nil
}
