// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package byteslicereader offers R, a slice-backed reader with zero-copy
// options.
//
// The compressed and packed formats in framepack are always held fully in
// memory, so their decoders walk a byte slice rather than an io.Reader. R
// tracks the walk position and hands out sections of its Buffer without
// copying them.
//
// Holding a slice returned by Next means holding a reference to Buffer. Set
// AlwaysCopy if the caller needs the returned data to be independent.
package byteslicereader

import (
	"encoding/binary"
	"io"
)

// R is a reader over a byte slice.
//
// R can be copied, creating a snapshot of its current state.
type R struct {
	// Buffer is the backing buffer for this reader.
	Buffer []byte

	// AlwaysCopy, if true, causes Next to return copies of the backing data
	// instead of direct references.
	AlwaysCopy bool

	// pos is the R's position within Buffer.
	pos int
}

var _ interface {
	io.Reader
	io.ByteReader
} = (*R)(nil)

func (r *R) remainingSlice() []byte {
	if r.pos >= len(r.Buffer) {
		return nil
	}
	return r.Buffer[r.pos:]
}

// Remaining returns the number of bytes remaining in the reader.
func (r *R) Remaining() int { return len(r.remainingSlice()) }

// Offset returns the reader's current position within Buffer.
func (r *R) Offset() int { return r.pos }

// Read implements io.Reader.
//
// Read copies data into b.
func (r *R) Read(b []byte) (amt int, err error) {
	remaining := r.remainingSlice()
	if len(remaining) == 0 && len(b) > 0 {
		return 0, io.EOF
	}
	amt = copy(b, remaining)
	r.pos += amt
	return
}

// ReadByte implements io.ByteReader.
func (r *R) ReadByte() (b byte, err error) {
	if r.pos >= len(r.Buffer) {
		return 0, io.EOF
	}

	b, r.pos = r.Buffer[r.pos], r.pos+1
	return
}

// ReadUint16 reads a little-endian uint16.
//
// If fewer than two bytes remain, r is not advanced and io.ErrUnexpectedEOF is
// returned.
func (r *R) ReadUint16() (uint16, error) {
	remaining := r.remainingSlice()
	switch len(remaining) {
	case 0:
		return 0, io.EOF
	case 1:
		return 0, io.ErrUnexpectedEOF
	}

	r.pos += 2
	return binary.LittleEndian.Uint16(remaining), nil
}

// Next returns the next n bytes in r, advancing r.
//
// Next returns a slice of the underlying Buffer unless AlwaysCopy is true.
//
// If there are fewer than n bytes in r, Next will return as many bytes as it
// can and io.EOF as an error. Next will never return an error if all requested
// bytes are returned.
func (r *R) Next(n int) (v []byte, err error) {
	v = r.remainingSlice()
	if n <= len(v) {
		v = v[:n]
	} else {
		err = io.EOF
	}

	if r.AlwaysCopy {
		v = append([]byte(nil), v...)
	}

	r.pos += len(v)
	return
}
