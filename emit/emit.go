// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package emit renders a packed animation as source code declarations.
//
// Each Dialect is a pure view over an anim.Package: it declares a frame size
// constant and the four package arrays, in this order, followed by a total
// size comment:
//
//	FRAME_SIZE          frame length, in bytes
//	REGION_BOUNDARIES   running Regions length after each segment
//	REGIONS             flattened [begin, end) region bounds
//	BYTE_BOUNDARIES     running DIFF_BYTES length after each segment
//	DIFF_BYTES          diff values
//
// Array contents are never transformed. ISO C forbids zero-length arrays, so
// the Progmem dialect declares an empty array with a single unused 0 element
// and an "empty" comment; readers take every array's length from FRAME_SIZE
// and the boundary tables, never from the declaration.
package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danjacques/framepack/anim"
	"github.com/danjacques/framepack/support/fmtutil"

	"github.com/pkg/errors"
)

// Declaration names, before Options.Prefix is applied.
const (
	FrameSizeName        = "FRAME_SIZE"
	RegionBoundariesName = "REGION_BOUNDARIES"
	RegionsName          = "REGIONS"
	ByteBoundariesName   = "BYTE_BOUNDARIES"
	DiffBytesName        = "DIFF_BYTES"
)

// DefaultColumns is the number of array elements written per line when
// Options.Columns is zero.
const DefaultColumns = 16

// Options configures emitted declarations.
type Options struct {
	// Prefix is prepended to every declared name.
	Prefix string

	// Columns is the number of array elements per line. If zero,
	// DefaultColumns is used; if negative, arrays are written on one line.
	Columns int

	// Fenced, if true, wraps the declarations in a Markdown code block
	// labeled with the dialect's name.
	Fenced bool
}

func (o *Options) columns() int {
	switch {
	case o == nil || o.Columns == 0:
		return DefaultColumns
	case o.Columns < 0:
		return 0
	default:
		return o.Columns
	}
}

func (o *Options) name(base string) string {
	if o == nil {
		return base
	}
	return o.Prefix + base
}

// Write writes pkg's declarations in dialect d to w.
func Write(w io.Writer, d Dialect, pkg *anim.Package, opts *Options) error {
	f, ok := formatters[d]
	if !ok {
		return errors.Errorf("unknown dialect %d", d)
	}

	var sb strings.Builder
	fenced := opts != nil && opts.Fenced
	if fenced {
		fmt.Fprintf(&sb, "```%s\n", d.fenceLabel())
	}
	f(&sb, pkg, opts)
	fmt.Fprintf(&sb, "// Total size: %d bytes\n", pkg.TotalSize())
	if fenced {
		sb.WriteString("```\n")
	}

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Wrapf(err, "writing %s declarations", d)
	}
	return nil
}

// WriteAll writes pkg's declarations in every dialect in dd, separated by
// blank lines.
func WriteAll(w io.Writer, dd []Dialect, pkg *anim.Package, opts *Options) error {
	for i, d := range dd {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return errors.Wrap(err, "writing separator")
			}
		}
		if err := Write(w, d, pkg, opts); err != nil {
			return err
		}
	}
	return nil
}

type formatter func(sb *strings.Builder, pkg *anim.Package, opts *Options)

var formatters = map[Dialect]formatter{
	Rust:    formatRust,
	Progmem: formatProgmem,
}

func decimal16(vv []uint16) func(int) string {
	return func(i int) string { return strconv.FormatUint(uint64(vv[i]), 10) }
}

func hex8(vv []byte) func(int) string {
	return func(i int) string { return fmt.Sprintf("0x%02x", vv[i]) }
}

// formatRust declares pkg as Rust constant arrays sized to their contents.
func formatRust(sb *strings.Builder, pkg *anim.Package, opts *Options) {
	cols := opts.columns()
	array := func(name, elem string, n int, item func(int) string) {
		fmt.Fprintf(sb, "pub const %s: [%s; %d] = [\n", opts.name(name), elem, n)
		fmtutil.Wrapped(sb, n, cols, "    ", item)
		sb.WriteString("];\n")
	}

	fmt.Fprintf(sb, "pub const %s: usize = %d;\n", opts.name(FrameSizeName), pkg.FrameLen)
	array(RegionBoundariesName, "u16", len(pkg.RegionBoundaries), decimal16(pkg.RegionBoundaries))
	array(RegionsName, "u16", len(pkg.Regions), decimal16(pkg.Regions))
	array(ByteBoundariesName, "u16", len(pkg.ByteBoundaries), decimal16(pkg.ByteBoundaries))
	array(DiffBytesName, "u8", len(pkg.DiffBytes), hex8(pkg.DiffBytes))
}

// formatProgmem declares pkg as C arrays placed in AVR program memory.
func formatProgmem(sb *strings.Builder, pkg *anim.Package, opts *Options) {
	cols := opts.columns()
	array := func(name, elem string, n int, item func(int) string) {
		if n == 0 {
			fmt.Fprintf(sb, "static const %s %s[1] PROGMEM = {0}; // empty\n", elem, opts.name(name))
			return
		}
		fmt.Fprintf(sb, "static const %s %s[%d] PROGMEM = {\n", elem, opts.name(name), n)
		fmtutil.Wrapped(sb, n, cols, "    ", item)
		sb.WriteString("};\n")
	}

	fmt.Fprintf(sb, "#define %s %d\n", opts.name(FrameSizeName), pkg.FrameLen)
	array(RegionBoundariesName, "uint16_t", len(pkg.RegionBoundaries), decimal16(pkg.RegionBoundaries))
	array(RegionsName, "uint16_t", len(pkg.Regions), decimal16(pkg.Regions))
	array(ByteBoundariesName, "uint16_t", len(pkg.ByteBoundaries), decimal16(pkg.ByteBoundaries))
	array(DiffBytesName, "uint8_t", len(pkg.DiffBytes), hex8(pkg.DiffBytes))
}
