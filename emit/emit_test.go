// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package emit

import (
	"bytes"
	"context"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/danjacques/framepack/anim"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

// arrayBody matches a declared array name and its braced or bracketed body.
var arrayBody = regexp.MustCompile(`(?s)([A-Z_]+)(?:: \[[a-z0-9]+; \d+\] = \[|\[\d+\] PROGMEM = \{)\n(.*?)\n[\]\}];`)

// parseArrays extracts every array in emitted text as integers.
func parseArrays(text string) map[string][]uint64 {
	arrays := make(map[string][]uint64)
	for _, m := range arrayBody.FindAllStringSubmatch(text, -1) {
		var vv []uint64
		for _, tok := range strings.FieldsFunc(m[2], func(r rune) bool {
			return r == ',' || r == ' ' || r == '\n'
		}) {
			v, err := strconv.ParseUint(tok, 0, 64)
			Expect(err).ToNot(HaveOccurred())
			vv = append(vv, v)
		}
		arrays[m[1]] = vv
	}
	return arrays
}

func widen16(vv []uint16) []uint64 {
	out := make([]uint64, len(vv))
	for i, v := range vv {
		out[i] = uint64(v)
	}
	return out
}

func widen8(vv []byte) []uint64 {
	out := make([]uint64, len(vv))
	for i, v := range vv {
		out[i] = uint64(v)
	}
	return out
}

var _ = Describe("Emitter", func() {
	var pkg *anim.Package

	BeforeEach(func() {
		var err error
		pkg, err = anim.New(4,
			[]uint16{2, 2, 4},
			[]uint16{0, 4, 1, 3},
			[]uint16{4, 4, 6},
			[]byte{1, 1, 1, 1, 0x22, 0xAB})
		Expect(err).ToNot(HaveOccurred())
	})

	It("writes Rust declarations", func() {
		var buf bytes.Buffer
		Expect(Write(&buf, Rust, pkg, &Options{Columns: 4})).To(Succeed())
		Expect(buf.String()).To(Equal(strings.Join([]string{
			"pub const FRAME_SIZE: usize = 4;",
			"pub const REGION_BOUNDARIES: [u16; 3] = [",
			"    2, 2, 4,",
			"];",
			"pub const REGIONS: [u16; 4] = [",
			"    0, 4, 1, 3,",
			"];",
			"pub const BYTE_BOUNDARIES: [u16; 3] = [",
			"    4, 4, 6,",
			"];",
			"pub const DIFF_BYTES: [u8; 6] = [",
			"    0x01, 0x01, 0x01, 0x01,",
			"    0x22, 0xab,",
			"];",
			"// Total size: 26 bytes",
			"",
		}, "\n")))
	})

	It("writes PROGMEM declarations", func() {
		var buf bytes.Buffer
		Expect(Write(&buf, Progmem, pkg, &Options{Prefix: "BONGO_", Columns: 4})).To(Succeed())
		Expect(buf.String()).To(Equal(strings.Join([]string{
			"#define BONGO_FRAME_SIZE 4",
			"static const uint16_t BONGO_REGION_BOUNDARIES[3] PROGMEM = {",
			"    2, 2, 4,",
			"};",
			"static const uint16_t BONGO_REGIONS[4] PROGMEM = {",
			"    0, 4, 1, 3,",
			"};",
			"static const uint16_t BONGO_BYTE_BOUNDARIES[3] PROGMEM = {",
			"    4, 4, 6,",
			"};",
			"static const uint8_t BONGO_DIFF_BYTES[6] PROGMEM = {",
			"    0x01, 0x01, 0x01, 0x01,",
			"    0x22, 0xab,",
			"};",
			"// Total size: 26 bytes",
			"",
		}, "\n")))
	})

	Context("with an animation that never changes", func() {
		var empty *anim.Package

		BeforeEach(func() {
			var err error
			empty, err = anim.New(4, []uint16{0, 0}, nil, []uint16{0, 0}, nil)
			Expect(err).ToNot(HaveOccurred())
		})

		It("writes empty Rust arrays", func() {
			var buf bytes.Buffer
			Expect(Write(&buf, Rust, empty, nil)).To(Succeed())
			Expect(buf.String()).To(Equal(strings.Join([]string{
				"pub const FRAME_SIZE: usize = 4;",
				"pub const REGION_BOUNDARIES: [u16; 2] = [",
				"    0, 0,",
				"];",
				"pub const REGIONS: [u16; 0] = [",
				"];",
				"pub const BYTE_BOUNDARIES: [u16; 2] = [",
				"    0, 0,",
				"];",
				"pub const DIFF_BYTES: [u8; 0] = [",
				"];",
				"// Total size: 8 bytes",
				"",
			}, "\n")))
		})

		It("pads empty PROGMEM arrays to one element", func() {
			var buf bytes.Buffer
			Expect(Write(&buf, Progmem, empty, nil)).To(Succeed())
			Expect(buf.String()).To(Equal(strings.Join([]string{
				"#define FRAME_SIZE 4",
				"static const uint16_t REGION_BOUNDARIES[2] PROGMEM = {",
				"    0, 0,",
				"};",
				"static const uint16_t REGIONS[1] PROGMEM = {0}; // empty",
				"static const uint16_t BYTE_BOUNDARIES[2] PROGMEM = {",
				"    0, 0,",
				"};",
				"static const uint8_t DIFF_BYTES[1] PROGMEM = {0}; // empty",
				"// Total size: 8 bytes",
				"",
			}, "\n")))
			Expect(buf.String()).ToNot(ContainSubstring("[0]"))
		})
	})

	It("writes fenced blocks for every dialect", func() {
		var buf bytes.Buffer
		Expect(WriteAll(&buf, Dialects(), pkg, &Options{Fenced: true})).To(Succeed())

		text := buf.String()
		Expect(text).To(HavePrefix("```rust\n"))
		Expect(text).To(ContainSubstring("```\n\n```c\n"))
		Expect(text).To(HaveSuffix("// Total size: 26 bytes\n```\n"))
	})

	DescribeTable("emits arrays identical to the package",
		func(d Dialect, columns int) {
			rng := rand.New(rand.NewSource(int64(columns)))
			frames := make([][]byte, 12)
			for i := range frames {
				frames[i] = make([]byte, 300)
				for j := range frames[i] {
					if rng.Intn(6) == 0 {
						frames[i][j] = byte(rng.Intn(256))
					}
				}
			}
			pkg, err := (&anim.Packer{}).Pack(context.Background(), frames)
			Expect(err).ToNot(HaveOccurred())

			var buf bytes.Buffer
			Expect(Write(&buf, d, pkg, &Options{Columns: columns})).To(Succeed())

			arrays := parseArrays(buf.String())
			Expect(arrays).To(HaveLen(4))
			Expect(arrays[RegionBoundariesName]).To(Equal(widen16(pkg.RegionBoundaries)))
			Expect(arrays[RegionsName]).To(Equal(widen16(pkg.Regions)))
			Expect(arrays[ByteBoundariesName]).To(Equal(widen16(pkg.ByteBoundaries)))
			Expect(arrays[DiffBytesName]).To(Equal(widen8(pkg.DiffBytes)))
			Expect(buf.String()).To(ContainSubstring("// Total size: %d bytes", pkg.TotalSize()))
		},

		Entry("Rust, default columns", Rust, 0),
		Entry("Rust, 7 columns", Rust, 7),
		Entry("PROGMEM, default columns", Progmem, 0),
		Entry("PROGMEM, one line", Progmem, -1),
	)

	Context("DialectsFlag", func() {
		It("parses comma-separated and repeated values", func() {
			var df DialectsFlag
			Expect(df.Set("progmem")).To(Succeed())
			Expect(df.Set("rust, progmem")).To(Succeed())
			Expect(df.Value()).To(Equal([]Dialect{Progmem, Rust, Progmem}))
			Expect(df.String()).To(Equal("progmem,rust,progmem"))
		})

		It("expands all", func() {
			var df DialectsFlag
			Expect(df.Set("all")).To(Succeed())
			Expect(df.Value()).To(Equal(Dialects()))
		})

		It("defaults to every dialect", func() {
			var df DialectsFlag
			Expect(df.Value()).To(Equal(Dialects()))
		})

		It("rejects unknown dialects", func() {
			var df DialectsFlag
			Expect(df.Set("cobol")).ToNot(Succeed())
		})
	})
})

func TestEmit(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Test emit")
}
