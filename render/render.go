// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package render draws monochrome frame buffers as text.
//
// Buffers use the page layout of SSD1306-style OLED controllers: the display
// is divided into pages of eight pixel rows, each page is columns bytes long,
// and bit n of a byte is row n of that page (least significant bit on top).
package render

import (
	"strings"

	"github.com/pkg/errors"
)

// Renderer draws frame buffers.
type Renderer struct {
	// On and Off are the glyphs for lit and dark pixels. If zero, '#' and ' '
	// are used.
	On  rune
	Off rune
}

func (r *Renderer) glyphs() (on, off rune) {
	on, off = '#', ' '
	if r != nil && r.On != 0 {
		on = r.On
	}
	if r != nil && r.Off != 0 {
		off = r.Off
	}
	return
}

// Text renders buf, which is columns bytes wide, as text art. Each output
// line is one pixel row, terminated by a newline.
func (r *Renderer) Text(buf []byte, columns int) (string, error) {
	if columns <= 0 {
		return "", errors.Errorf("invalid column count %d", columns)
	}
	if len(buf)%columns != 0 {
		return "", errors.Errorf("buffer length %d is not a multiple of %d columns", len(buf), columns)
	}

	on, off := r.glyphs()
	pages := len(buf) / columns

	var sb strings.Builder
	for y := 0; y < pages*8; y++ {
		page := buf[(y/8)*columns : (y/8+1)*columns]
		mask := byte(1) << uint(y%8)
		for _, b := range page {
			if b&mask != 0 {
				sb.WriteRune(on)
			} else {
				sb.WriteRune(off)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}
