// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package emit

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// Dialect is an output language for emitted declarations.
type Dialect int

const (
	// Rust declares `pub const` arrays, for programs that hold the animation
	// in ordinary memory.
	Rust Dialect = iota
	// Progmem declares `static const` C arrays annotated with PROGMEM, for
	// AVR firmware that reads the animation from flash.
	Progmem
)

var dialectNames = []string{
	Rust:    "rust",
	Progmem: "progmem",
}

// Dialects returns every supported Dialect.
func Dialects() []Dialect { return []Dialect{Rust, Progmem} }

func (d Dialect) String() string {
	if d >= 0 && int(d) < len(dialectNames) {
		return dialectNames[d]
	}
	return "unknown"
}

func (d Dialect) fenceLabel() string {
	if d == Progmem {
		return "c"
	}
	return d.String()
}

// ParseDialect returns the Dialect named v.
func ParseDialect(v string) (Dialect, error) {
	for d, name := range dialectNames {
		if name == v {
			return Dialect(d), nil
		}
	}
	return 0, errors.Errorf("unknown dialect %q (options: %s)", v, strings.Join(dialectNames, ", "))
}

// DialectsFlag is a pflag.Value that collects a list of dialects.
//
// It accepts comma-separated dialect names, and may be repeated. The special
// name "all" selects every dialect.
type DialectsFlag []Dialect

var _ pflag.Value = (*DialectsFlag)(nil)

func (df *DialectsFlag) String() string {
	names := make([]string, len(*df))
	for i, d := range *df {
		names[i] = d.String()
	}
	return strings.Join(names, ",")
}

// Set implements pflag.Value.
func (df *DialectsFlag) Set(v string) error {
	for _, name := range strings.Split(v, ",") {
		name = strings.TrimSpace(name)
		if name == "all" {
			*df = append(*df, Dialects()...)
			continue
		}

		d, err := ParseDialect(name)
		if err != nil {
			return err
		}
		*df = append(*df, d)
	}
	return nil
}

// Type implements pflag.Value.
func (df *DialectsFlag) Type() string { return "emit.Dialect" }

// Value returns the selected dialects, or every dialect if none were set.
func (df DialectsFlag) Value() []Dialect {
	if len(df) == 0 {
		return Dialects()
	}
	return []Dialect(df)
}

// DialectFlagValues returns the list of possible dialect names.
func DialectFlagValues() string { return strings.Join(dialectNames, ", ") + ", all" }
