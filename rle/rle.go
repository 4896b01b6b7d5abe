// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package rle

import (
	"io"

	"github.com/danjacques/framepack/support/byteslicereader"

	"github.com/pkg/errors"
)

const (
	// Marker introduces a zero run. It is followed by exactly one count byte.
	Marker byte = 0x00

	// MaxRun is the longest zero run a single marker/count pair can hold.
	MaxRun = 0xFF
)

var (
	// ErrMalformed is returned when a stream contains a marker whose count
	// byte is zero, or a run that overflows the expected decoded size.
	ErrMalformed = errors.New("malformed run-length stream")

	// ErrTruncated is returned when a stream ends between a marker and its
	// count byte.
	ErrTruncated = errors.New("truncated run-length stream")
)

// encodeState is the encoder's scan state. It is either emitting literals or
// counting a zero run of a given length.
type encodeState interface {
	isEncodeState()
}

type emittingLiterals struct{}

// countingZeroRun is the length of the current zero run, in [1, MaxRun].
type countingZeroRun int

func (emittingLiterals) isEncodeState() {}
func (countingZeroRun) isEncodeState()  {}

// Encode returns the run-length encoding of buf.
func Encode(buf []byte) []byte { return AppendEncode(nil, buf) }

// AppendEncode appends the run-length encoding of buf to dst and returns the
// extended slice.
func AppendEncode(dst, buf []byte) []byte {
	var st encodeState = emittingLiterals{}
	for _, b := range buf {
		switch s := st.(type) {
		case emittingLiterals:
			if b != 0 {
				dst = append(dst, b)
				continue
			}
			st = countingZeroRun(1)

		case countingZeroRun:
			switch {
			case b != 0:
				dst = append(dst, Marker, byte(s), b)
				st = emittingLiterals{}
			case s == MaxRun:
				dst = append(dst, Marker, MaxRun)
				st = countingZeroRun(1)
			default:
				st = s + 1
			}
		}
	}

	if s, ok := st.(countingZeroRun); ok {
		dst = append(dst, Marker, byte(s))
	}
	return dst
}

// EncodedLen returns the length of buf's encoding without building it.
func EncodedLen(buf []byte) (n int) {
	run := 0
	for _, b := range buf {
		if b != 0 {
			if run > 0 {
				n += 2 * ((run + MaxRun - 1) / MaxRun)
				run = 0
			}
			n++
			continue
		}
		run++
	}
	if run > 0 {
		n += 2 * ((run + MaxRun - 1) / MaxRun)
	}
	return
}

// decodeState is the decoder's scan state.
type decodeState int

const (
	expectingLiteralOrMarker decodeState = iota
	expectingCount
)

// Decode decodes a complete run-length stream.
func Decode(stream []byte) ([]byte, error) {
	r := byteslicereader.R{Buffer: stream}
	return decode(&r, make([]byte, 0, len(stream)), -1)
}

// DecodeFrom decodes exactly size bytes from r, leaving r positioned after
// the last consumed stream byte.
//
// A run that would extend past size is malformed.
func DecodeFrom(r *byteslicereader.R, size int) ([]byte, error) {
	if size < 0 {
		return nil, errors.Errorf("invalid decode size %d", size)
	}
	return decode(r, make([]byte, 0, size), size)
}

// decode appends decoded data to out. If limit is non-negative, decoding stops
// once out holds limit bytes.
func decode(r *byteslicereader.R, out []byte, limit int) ([]byte, error) {
	st := expectingLiteralOrMarker
	for limit < 0 || len(out) < limit || st == expectingCount {
		b, err := r.ReadByte()
		if err == io.EOF {
			break
		}

		switch st {
		case expectingLiteralOrMarker:
			if b == Marker {
				st = expectingCount
				continue
			}
			out = append(out, b)

		case expectingCount:
			if b == 0 {
				return nil, errors.Wrapf(ErrMalformed, "zero run count at offset %d", r.Offset()-1)
			}
			if limit >= 0 && len(out)+int(b) > limit {
				return nil, errors.Wrapf(ErrMalformed, "run of %d at offset %d overflows %d-byte buffer",
					b, r.Offset()-1, limit)
			}
			for i := byte(0); i < b; i++ {
				out = append(out, 0)
			}
			st = expectingLiteralOrMarker
		}
	}

	if st == expectingCount {
		return nil, errors.Wrapf(ErrTruncated, "marker at offset %d has no count", r.Offset()-1)
	}
	if limit >= 0 && len(out) < limit {
		return nil, errors.Wrapf(ErrTruncated, "decoded %d of %d bytes", len(out), limit)
	}
	return out, nil
}
