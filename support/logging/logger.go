// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package logging defines the leveled logger that framepack components accept.
package logging

import (
	"strings"
)

// L is a leveled, printf-style logger.
//
// A *zap.SugaredLogger satisfies L.
type L interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// Nop discards everything logged to it.
var Nop L = nop{}

// Must returns l, or Nop if l is nil.
func Must(l L) L {
	if l == nil {
		return Nop
	}
	return l
}

// Prefix returns an L that logs to l with prefix prepended to every message.
// A nil l is treated as Nop.
func Prefix(l L, prefix string) L {
	l = Must(l)
	if prefix == "" || l == Nop {
		return l
	}
	// The prefix becomes part of the format string.
	return &prefixed{base: l, prefix: strings.ReplaceAll(prefix, "%", "%%")}
}

type nop struct{}

func (nop) Debugf(string, ...interface{}) {}
func (nop) Infof(string, ...interface{})  {}
func (nop) Warnf(string, ...interface{})  {}
func (nop) Errorf(string, ...interface{}) {}

type prefixed struct {
	base   L
	prefix string
}

func (p *prefixed) Debugf(format string, args ...interface{}) { p.base.Debugf(p.prefix+format, args...) }
func (p *prefixed) Infof(format string, args ...interface{})  { p.base.Infof(p.prefix+format, args...) }
func (p *prefixed) Warnf(format string, args ...interface{})  { p.base.Warnf(p.prefix+format, args...) }
func (p *prefixed) Errorf(format string, args ...interface{}) { p.base.Errorf(p.prefix+format, args...) }
