// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package image

import (
	"github.com/golang/snappy"
	"github.com/pkg/errors"
)

// Magic is the four-byte signature at the start of every image.
var Magic = [4]byte{'F', 'P', 'A', 'K'}

// Version is the image format version written by this package.
const Version = 1

var (
	// ErrBadMagic is returned when reading data that is not an image.
	ErrBadMagic = errors.New("not a framepack image")

	// ErrVersion is returned when reading an image of an unsupported version.
	ErrVersion = errors.New("unsupported image version")

	// ErrSectionSize is returned when a header declares a manifest or payload
	// larger than its counts allow.
	ErrSectionSize = errors.New("image section size out of bounds")
)

// Flags is a bit set of payload options.
type Flags uint8

const (
	// FlagRLE indicates that the diff bytes are run-length encoded.
	FlagRLE Flags = 1 << iota
)

// Header is the image header.
//
// The struct layout is the wire layout.
type Header struct {
	Magic       [4]byte
	Version     uint8
	Compression Compression
	Flags       Flags
	Reserved    uint8

	FrameLen  uint16 `struc:",little"`
	Segments  uint16 `struc:",little"`
	Regions   uint16 `struc:",little"`
	DiffBytes uint16 `struc:",little"`

	// ManifestLen is the length of the manifest that follows the header.
	ManifestLen uint32 `struc:",little"`
	// PayloadLen is the stored (possibly compressed) payload length.
	PayloadLen uint32 `struc:",little"`
}

// HeaderSize is the packed size of a Header.
const HeaderSize = 4 + 4 + 2*4 + 4 + 4

// MaxManifestLen is the largest manifest an image may carry.
const MaxManifestLen = 64 * 1024

// Snappy framing format overhead: a stream identifier chunk, then a header
// and checksum per chunk of at most snappyChunkLen uncompressed bytes.
const (
	snappyStreamIDLen    = 10
	snappyChunkHeaderLen = 8
	snappyChunkLen       = 64 * 1024
)

// maxPayloadLen returns the largest stored payload that h's counts can
// describe.
func (h *Header) maxPayloadLen() int {
	diffBytes := int(h.DiffBytes)
	if h.Flags&FlagRLE != 0 {
		// A lone zero byte encodes to two bytes; nothing encodes to more.
		diffBytes *= 2
	}
	n := 2*(2*int(h.Segments)+int(h.Regions)) + diffBytes

	if h.Compression != CompressionSnappy {
		return n
	}
	stored := snappyStreamIDLen
	for ; n > 0; n -= snappyChunkLen {
		chunk := n
		if chunk > snappyChunkLen {
			chunk = snappyChunkLen
		}
		stored += snappyChunkHeaderLen + snappy.MaxEncodedLen(chunk)
	}
	return stored
}

// checkSizes verifies that h's section lengths are within bounds, so they can
// be allocated safely.
func (h *Header) checkSizes() error {
	if h.ManifestLen > MaxManifestLen {
		return errors.Wrapf(ErrSectionSize, "manifest length %d exceeds %d", h.ManifestLen, MaxManifestLen)
	}
	if limit := h.maxPayloadLen(); uint64(h.PayloadLen) > uint64(limit) {
		return errors.Wrapf(ErrSectionSize, "payload length %d exceeds %d", h.PayloadLen, limit)
	}
	return nil
}
