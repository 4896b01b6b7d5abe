// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package anim

import (
	"context"
	"math"
	"runtime"
	"sync"

	"github.com/danjacques/framepack/region"
	"github.com/danjacques/framepack/support/logging"

	"github.com/pkg/errors"
)

var (
	// ErrNoFrames is returned when packing an empty frame list.
	ErrNoFrames = errors.New("no frames to pack")

	// ErrFrameLength is returned when frames differ in length.
	ErrFrameLength = errors.New("frame length mismatch")
)

// Packer builds Packages from frames.
//
// The zero value is ready to use.
type Packer struct {
	// Workers is the number of goroutines used to diff frames. If <= 0,
	// runtime.GOMAXPROCS(0) is used.
	Workers int

	// Logger, if not nil, is the logger to use.
	Logger logging.L

	// computeDiff, if not nil, replaces region.Compute when diffing frames.
	computeDiff func(base, frame []byte) (*region.Diff, error)
}

func (p *Packer) workers(frames int) int {
	n := p.Workers
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	if n > frames {
		n = frames
	}
	return n
}

// Pack packs frames into a Package.
//
// frames must be non-empty, and every frame must have the same length.
// frames is not retained or modified.
func (p *Packer) Pack(c context.Context, frames [][]byte) (*Package, error) {
	logger := logging.Must(p.Logger)

	if len(frames) == 0 {
		return nil, ErrNoFrames
	}
	frameLen := len(frames[0])
	if frameLen == 0 {
		return nil, errors.New("frames are empty")
	}
	for i, f := range frames {
		if len(f) != frameLen {
			return nil, errors.Wrapf(ErrFrameLength, "frame %d has %d bytes, frame 0 has %d", i, len(f), frameLen)
		}
	}

	// Store the first frame as a diff from zero, then rebuild it from that
	// diff. Every frame is diffed against the rebuilt base.
	baseDiff, err := region.Compute(make([]byte, frameLen), frames[0])
	if err != nil {
		return nil, errors.Wrap(err, "computing base diff")
	}
	base, err := baseDiff.Apply(make([]byte, frameLen))
	if err != nil {
		return nil, errors.Wrap(err, "reconstructing base frame")
	}

	diffs, err := p.diffAll(c, base, frames)
	if err != nil {
		return nil, err
	}

	pkg, err := assemble(frameLen, append([]*region.Diff{baseDiff}, diffs...))
	if err != nil {
		return nil, err
	}

	framesPacked.Add(float64(len(frames)))
	regionsPacked.Add(float64(pkg.NumRegions()))
	diffBytesPacked.Add(float64(len(pkg.DiffBytes)))
	lastTotalSize.Set(float64(pkg.TotalSize()))

	logger.Debugf("Packed %d frame(s) of %d bytes: %d region(s), %d diff byte(s), %d total bytes.",
		len(frames), frameLen, pkg.NumRegions(), len(pkg.DiffBytes), pkg.TotalSize())
	return pkg, nil
}

// diffAll diffs every frame against base. Frames are distributed across
// workers; each result is stored at its frame's index.
func (p *Packer) diffAll(c context.Context, base []byte, frames [][]byte) ([]*region.Diff, error) {
	diffs := make([]*region.Diff, len(frames))

	var (
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	setErr := func(err error) { errOnce.Do(func() { firstErr = err }) }

	computeDiff := p.computeDiff
	if computeDiff == nil {
		computeDiff = region.Compute
	}

	c, cancelFunc := context.WithCancel(c)
	defer cancelFunc()

	indexC := make(chan int)
	for w := p.workers(len(frames)); w > 0; w-- {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexC {
				d, err := computeDiff(base, frames[i])
				if err != nil {
					setErr(errors.Wrapf(err, "diffing frame %d", i))
					cancelFunc()
					continue
				}
				diffs[i] = d
			}
		}()
	}

	// Once every frame has been handed to a worker, cancellation no longer
	// matters: the workers finish regardless.
	var stopErr error
feed:
	for i := range frames {
		if stopErr = c.Err(); stopErr != nil {
			break
		}
		select {
		case indexC <- i:
		case <-c.Done():
			stopErr = c.Err()
			break feed
		}
	}
	close(indexC)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if stopErr != nil {
		return nil, stopErr
	}
	return diffs, nil
}

// assemble concatenates diffs, in order, into a Package.
func assemble(frameLen int, diffs []*region.Diff) (*Package, error) {
	pkg := Package{
		FrameLen:         frameLen,
		RegionBoundaries: make([]uint16, 0, len(diffs)),
		ByteBoundaries:   make([]uint16, 0, len(diffs)),
	}

	for i, d := range diffs {
		if covered := d.Covered(); covered != len(d.Values) {
			return nil, errors.Wrapf(region.ErrValueCount, "segment %d covers %d indices with %d values",
				i, covered, len(d.Values))
		}

		pkg.Regions = region.AppendFlat(pkg.Regions, d.Ranges)
		pkg.DiffBytes = append(pkg.DiffBytes, d.Values...)
		if len(pkg.Regions) > math.MaxUint16 || len(pkg.DiffBytes) > math.MaxUint16 {
			return nil, errors.Errorf("segment %d overflows the 16-bit boundary tables", i)
		}

		pkg.RegionBoundaries = append(pkg.RegionBoundaries, uint16(len(pkg.Regions)))
		pkg.ByteBoundaries = append(pkg.ByteBoundaries, uint16(len(pkg.DiffBytes)))
	}
	return &pkg, nil
}
