// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package fmtutil contains formatting helpers.
package fmtutil

import (
	"bytes"
	"fmt"
	"strings"
)

// HexSlice is a byte slice that renders as a sequence of hex bytes, instead
// of the default decimal bytes.
//
// Output as: "[4]byte{0x10, 0x20, 0x30, 0x40}"
type HexSlice []byte

func (hs HexSlice) String() string {
	var sb bytes.Buffer
	sb.Grow((6 * len(hs)) + 16) // 16 is more than we need for static content.
	fmt.Fprintf(&sb, "[%d]byte{", len(hs))
	for i, b := range hs {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "0x%02X", b)
	}
	sb.WriteString("}")
	return sb.String()
}

// Wrapped writes n list items to sb, perLine items to a line. Each line is
// prefixed with indent, items are separated by ", ", and every line ends with
// a trailing comma and newline.
//
// item renders the item at index i.
func Wrapped(sb *strings.Builder, n, perLine int, indent string, item func(i int) string) {
	if perLine <= 0 {
		perLine = n
	}
	for i := 0; i < n; i++ {
		switch {
		case i%perLine == 0:
			sb.WriteString(indent)
		default:
			sb.WriteString(" ")
		}
		sb.WriteString(item(i))
		sb.WriteString(",")
		if i%perLine == perLine-1 || i == n-1 {
			sb.WriteString("\n")
		}
	}
}
