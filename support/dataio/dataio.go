// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package dataio holds small io adapters used by the binary image codec.
package dataio

import (
	"io"
)

// Writer can write both individual bytes and byte sequences.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// MakeWriter returns w as a Writer. If w cannot already write single bytes,
// it is wrapped so that WriteByte issues a one-byte Write.
func MakeWriter(w io.Writer) Writer {
	if dw, ok := w.(Writer); ok {
		return dw
	}
	return &byteWriter{w}
}

type byteWriter struct {
	io.Writer
}

func (w *byteWriter) WriteByte(c byte) error {
	d := [1]byte{c}
	switch amt, err := w.Write(d[:]); {
	case err != nil:
		return err
	case amt != 1:
		return io.ErrShortWrite
	default:
		return nil
	}
}

// ReadFull reads from r until buf is full.
//
// Unlike io.ReadFull, an io.EOF returned alongside the final bytes is not an
// error, and a short read returns io.ErrUnexpectedEOF.
func ReadFull(r io.Reader, buf []byte) error {
	for remaining := buf; len(remaining) > 0; {
		amt, err := r.Read(remaining)
		remaining = remaining[amt:]
		if err != nil {
			if err == io.EOF {
				if len(remaining) == 0 {
					return nil
				}
				return io.ErrUnexpectedEOF
			}
			return err
		}
	}
	return nil
}
