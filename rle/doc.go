// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package rle implements the zero-run-length byte codec.
//
// Non-zero bytes are stored verbatim. A run of zero bytes is stored as the
// Marker byte (0x00) followed by a count byte in [1, 255]. Runs longer than
// MaxRun are split into multiple marker/count pairs:
//
//	300 zero bytes => 0x00 0xFF 0x00 0x2D
//
// The value 0x00 is reserved: it never appears as a literal in an encoded
// stream, and the encoder always folds zero bytes into runs, so every byte
// buffer round-trips through Encode and Decode. A marker followed by a zero
// count is malformed, since the format has no way to express an empty run.
package rle
