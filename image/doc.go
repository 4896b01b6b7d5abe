// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package image defines a binary container for a packed animation, for
// firmware builds that link a blob rather than compile source declarations.
//
// An image is a fixed-size little-endian header, a manifest, and a payload.
// The manifest is a serialized protobuf Struct describing the build (frame
// count, emitted dialects, generator and creation time). The payload holds, in
// order:
//
//   - the region boundary table (Segments uint16 values),
//   - the byte boundary table (Segments uint16 values),
//   - the flattened regions (Regions uint16 values),
//   - the diff bytes (DiffBytes values), run-length encoded if FlagRLE is set.
//
// The payload may be compressed as a whole:
//
//   - SNAPPY uses Google's Snappy framing format.
//   - NONE stores the payload as-is.
//
// Readers bound the manifest by MaxManifestLen and the payload by the largest
// size the header's counts can describe before allocating either.
package image
