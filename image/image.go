// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package image

import (
	"bytes"
	"io"
	"io/ioutil"
	"math"

	"github.com/danjacques/framepack/anim"
	"github.com/danjacques/framepack/rle"
	"github.com/danjacques/framepack/support/byteslicereader"
	"github.com/danjacques/framepack/support/dataio"
	"github.com/danjacques/framepack/support/fmtutil"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// Options configures how an image is written.
type Options struct {
	// Compression is the compression to apply to the payload.
	Compression Compression

	// RLE, if true, run-length encodes the diff bytes.
	RLE bool

	// Manifest is recorded in the image. Its Frames and FrameLen fields are
	// filled in from the Package being written.
	Manifest Manifest
}

// Write writes pkg to w as an image. It returns the number of bytes written.
func Write(w io.Writer, pkg *anim.Package, opts Options) (int64, error) {
	var payload bytes.Buffer
	if err := writePayload(&payload, pkg, opts); err != nil {
		return 0, err
	}
	if uint64(payload.Len()) > math.MaxUint32 {
		return 0, errors.Errorf("payload of %d bytes is too large", payload.Len())
	}

	m := opts.Manifest
	m.Frames, m.FrameLen = pkg.NumFrames(), pkg.FrameLen
	manifest, err := m.marshal()
	if err != nil {
		return 0, err
	}
	if len(manifest) > MaxManifestLen {
		return 0, errors.Errorf("manifest of %d bytes exceeds %d", len(manifest), MaxManifestLen)
	}

	h := Header{
		Magic:       Magic,
		Version:     Version,
		Compression: opts.Compression,
		FrameLen:    uint16(pkg.FrameLen),
		Segments:    uint16(len(pkg.RegionBoundaries)),
		Regions:     uint16(len(pkg.Regions)),
		DiffBytes:   uint16(len(pkg.DiffBytes)),
		ManifestLen: uint32(len(manifest)),
		PayloadLen:  uint32(payload.Len()),
	}
	if opts.RLE {
		h.Flags |= FlagRLE
	}

	cw := countingWriter{Writer: w}
	if err := struc.Pack(&cw, &h); err != nil {
		return cw.n, errors.Wrap(err, "writing header")
	}
	if _, err := cw.Write(manifest); err != nil {
		return cw.n, errors.Wrap(err, "writing manifest")
	}
	if _, err := payload.WriteTo(&cw); err != nil {
		return cw.n, errors.Wrap(err, "writing payload")
	}
	return cw.n, nil
}

func writePayload(buf *bytes.Buffer, pkg *anim.Package, opts Options) error {
	var (
		w       dataio.Writer = buf
		snappyW *snappy.Writer
	)
	switch opts.Compression {
	case CompressionNone:
	case CompressionSnappy:
		snappyW = snappy.NewBufferedWriter(buf)
		w = dataio.MakeWriter(snappyW)
	default:
		return errors.Errorf("unknown compression: %s", opts.Compression)
	}

	for _, table := range [][]uint16{pkg.RegionBoundaries, pkg.ByteBoundaries, pkg.Regions} {
		if err := writeUint16s(w, table); err != nil {
			return err
		}
	}

	diffBytes := pkg.DiffBytes
	if opts.RLE {
		diffBytes = rle.Encode(diffBytes)
	}
	if _, err := w.Write(diffBytes); err != nil {
		return errors.Wrap(err, "writing diff bytes")
	}

	if snappyW != nil {
		if err := snappyW.Close(); err != nil {
			return errors.Wrap(err, "closing snappy writer")
		}
	}
	return nil
}

func writeUint16s(w dataio.Writer, vv []uint16) error {
	for _, v := range vv {
		if err := w.WriteByte(byte(v)); err != nil {
			return err
		}
		if err := w.WriteByte(byte(v >> 8)); err != nil {
			return err
		}
	}
	return nil
}

// Read reads an image from r and rebuilds its Package.
func Read(r io.Reader) (*anim.Package, error) {
	pkg, _, err := ReadWithManifest(r)
	return pkg, err
}

// ReadWithManifest reads an image from r, returning its Package and Manifest.
func ReadWithManifest(r io.Reader) (*anim.Package, *Manifest, error) {
	var h Header
	if err := struc.Unpack(r, &h); err != nil {
		return nil, nil, errors.Wrap(err, "reading header")
	}
	if h.Magic != Magic {
		return nil, nil, errors.Wrapf(ErrBadMagic, "magic is %s", fmtutil.HexSlice(h.Magic[:]))
	}
	if h.Version != Version {
		return nil, nil, errors.Wrapf(ErrVersion, "version %d", h.Version)
	}
	if err := h.checkSizes(); err != nil {
		return nil, nil, err
	}

	manifestData := make([]byte, h.ManifestLen)
	if err := dataio.ReadFull(r, manifestData); err != nil {
		return nil, nil, errors.Wrapf(err, "reading %d-byte manifest", h.ManifestLen)
	}
	m, err := unmarshalManifest(manifestData)
	if err != nil {
		return nil, nil, err
	}

	pkg, err := readPayload(r, &h)
	if err != nil {
		return nil, nil, err
	}
	if m.Frames != pkg.NumFrames() || m.FrameLen != pkg.FrameLen {
		return nil, nil, errors.Errorf("manifest describes %d frame(s) of %d bytes, image holds %d of %d",
			m.Frames, m.FrameLen, pkg.NumFrames(), pkg.FrameLen)
	}
	return pkg, m, nil
}

func readPayload(r io.Reader, h *Header) (*anim.Package, error) {
	stored := make([]byte, h.PayloadLen)
	if err := dataio.ReadFull(r, stored); err != nil {
		return nil, errors.Wrapf(err, "reading %d-byte payload", h.PayloadLen)
	}

	var payload []byte
	switch h.Compression {
	case CompressionNone:
		payload = stored
	case CompressionSnappy:
		var err error
		if payload, err = ioutil.ReadAll(snappy.NewReader(bytes.NewReader(stored))); err != nil {
			return nil, errors.Wrap(err, "decompressing payload")
		}
	default:
		return nil, errors.Errorf("unknown compression: %s", h.Compression)
	}

	return parsePayload(&byteslicereader.R{Buffer: payload, AlwaysCopy: true}, h)
}

func parsePayload(r *byteslicereader.R, h *Header) (*anim.Package, error) {
	regionBoundaries, err := readUint16s(r, int(h.Segments))
	if err != nil {
		return nil, errors.Wrap(err, "reading region boundaries")
	}
	byteBoundaries, err := readUint16s(r, int(h.Segments))
	if err != nil {
		return nil, errors.Wrap(err, "reading byte boundaries")
	}
	regions, err := readUint16s(r, int(h.Regions))
	if err != nil {
		return nil, errors.Wrap(err, "reading regions")
	}

	var diffBytes []byte
	if h.Flags&FlagRLE != 0 {
		diffBytes, err = rle.DecodeFrom(r, int(h.DiffBytes))
	} else {
		diffBytes, err = r.Next(int(h.DiffBytes))
	}
	if err != nil {
		return nil, errors.Wrap(err, "reading diff bytes")
	}
	if len(diffBytes) == 0 {
		diffBytes = nil
	}
	if r.Remaining() != 0 {
		return nil, errors.Errorf("%d trailing payload byte(s)", r.Remaining())
	}

	return anim.New(int(h.FrameLen), regionBoundaries, regions, byteBoundaries, diffBytes)
}

func readUint16s(r *byteslicereader.R, n int) ([]uint16, error) {
	if n == 0 {
		return nil, nil
	}

	vv := make([]uint16, n)
	for i := range vv {
		var err error
		if vv[i], err = r.ReadUint16(); err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
	}
	return vv, nil
}

type countingWriter struct {
	io.Writer
	n int64
}

func (cw *countingWriter) Write(b []byte) (int, error) {
	amt, err := cw.Writer.Write(b)
	cw.n += int64(amt)
	return amt, err
}
