// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package anim packs a sequence of equal-length frames into a compact set of
// arrays suitable for embedding in firmware.
//
// The first frame is stored as a region diff against an all-zero buffer; this
// is the base frame. Every frame, including the first, is then stored as a
// region diff against the reconstructed base frame. Frames are never diffed
// against their predecessor, so a frame's stored size depends only on how far
// it is from the base frame.
//
// The diffs are concatenated into two flat arrays (region bounds and diff
// values), with two boundary tables marking where each diff ends.
package anim
