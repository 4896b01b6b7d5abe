// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package source loads raw animation frames.
package source

import (
	"io"
	"io/ioutil"

	"github.com/danjacques/framepack/support/byteslicereader"

	"github.com/pkg/errors"
)

// ReadFrames reads r to its end and splits it into frames of frameLen bytes.
//
// The data must hold a whole, non-zero number of frames.
func ReadFrames(r io.Reader, frameLen int) ([][]byte, error) {
	if frameLen <= 0 {
		return nil, errors.Errorf("invalid frame length %d", frameLen)
	}

	data, err := ioutil.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "reading frame data")
	}
	if len(data) == 0 || len(data)%frameLen != 0 {
		return nil, errors.Errorf("%d bytes is not a whole number of %d-byte frames", len(data), frameLen)
	}

	br := byteslicereader.R{Buffer: data}
	frames := make([][]byte, 0, len(data)/frameLen)
	for br.Remaining() > 0 {
		f, err := br.Next(frameLen)
		if err != nil {
			return nil, errors.Wrapf(err, "reading frame %d", len(frames))
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// LoadFiles loads one frame from each file in paths, in order.
func LoadFiles(paths ...string) ([][]byte, error) {
	frames := make([][]byte, len(paths))
	for i, path := range paths {
		var err error
		if frames[i], err = ioutil.ReadFile(path); err != nil {
			return nil, errors.Wrapf(err, "loading frame %d", i)
		}
	}
	if err := Check(frames); err != nil {
		return nil, err
	}
	return frames, nil
}

// Check verifies that frames is non-empty and that every frame has the same,
// non-zero length.
func Check(frames [][]byte) error {
	if len(frames) == 0 {
		return errors.New("no frames")
	}
	size := len(frames[0])
	if size == 0 {
		return errors.New("frame 0 is empty")
	}
	for i, f := range frames[1:] {
		if len(f) != size {
			return errors.Errorf("frame %d has %d bytes, expected %d", i+1, len(f), size)
		}
	}
	return nil
}
