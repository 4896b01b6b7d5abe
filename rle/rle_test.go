// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package rle

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/danjacques/framepack/support/byteslicereader"

	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/ginkgo/extensions/table"
	. "github.com/onsi/gomega"
)

var _ = Describe("Run-length codec", func() {
	DescribeTable("encodes and decodes",
		func(raw, encoded []byte) {
			Expect(Encode(raw)).To(Equal(encoded))
			Expect(EncodedLen(raw)).To(Equal(len(encoded)))

			decoded, err := Decode(encoded)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(HaveLen(len(raw)))
			if len(raw) > 0 {
				Expect(decoded).To(Equal(raw))
			}
		},

		Entry("empty buffer", []byte{}, []byte(nil)),
		Entry("literals only", []byte{1, 2, 3}, []byte{1, 2, 3}),
		Entry("a single zero", []byte{0}, []byte{0, 1}),
		Entry("a zero run between literals",
			[]byte{7, 0, 0, 0, 9},
			[]byte{7, 0, 3, 9}),
		Entry("a trailing zero run",
			[]byte{0xFF, 0, 0},
			[]byte{0xFF, 0, 2}),
		Entry("a run of exactly MaxRun",
			make([]byte, MaxRun),
			[]byte{0, 0xFF}),
		Entry("a run of 300 zeros",
			make([]byte, 300),
			[]byte{0, 0xFF, 0, 45}),
		Entry("a run of 511 zeros followed by a literal",
			append(make([]byte, 511), 0x80),
			[]byte{0, 0xFF, 0, 0xFF, 0, 1, 0x80}),
	)

	DescribeTable("rejects malformed streams",
		func(stream []byte, cause error) {
			_, err := Decode(stream)
			Expect(err).To(HaveOccurred())
			Expect(errors.Cause(err)).To(Equal(cause))
		},

		Entry("marker followed by a zero count", []byte{1, 0, 0, 5}, ErrMalformed),
		Entry("leading zero count", []byte{0, 0}, ErrMalformed),
		Entry("marker at end of stream", []byte{3, 4, 0}, ErrTruncated),
	)

	It("round-trips random sparse buffers", func() {
		rng := rand.New(rand.NewSource(1337))
		for i := 0; i < 200; i++ {
			buf := make([]byte, rng.Intn(2048))
			for j := range buf {
				if rng.Intn(8) == 0 {
					buf[j] = byte(rng.Intn(256))
				}
			}

			decoded, err := Decode(Encode(buf))
			Expect(err).ToNot(HaveOccurred())
			Expect(bytes.Equal(decoded, buf)).To(BeTrue())
		}
	})

	It("appends to an existing slice", func() {
		Expect(AppendEncode([]byte{0xAA}, []byte{0, 0, 5})).To(Equal([]byte{0xAA, 0, 2, 5}))
	})

	Context("DecodeFrom", func() {
		It("stops after the requested size and leaves the reader positioned", func() {
			r := byteslicereader.R{Buffer: []byte{1, 0, 3, 0xEE, 0xFF}}
			decoded, err := DecodeFrom(&r, 4)
			Expect(err).ToNot(HaveOccurred())
			Expect(decoded).To(Equal([]byte{1, 0, 0, 0}))

			b, err := r.ReadByte()
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal(byte(0xEE)))
		})

		It("rejects a run that overflows the requested size", func() {
			r := byteslicereader.R{Buffer: []byte{1, 0, 10}}
			_, err := DecodeFrom(&r, 4)
			Expect(errors.Cause(err)).To(Equal(ErrMalformed))
		})

		It("rejects a stream that ends early", func() {
			r := byteslicereader.R{Buffer: []byte{1, 2}}
			_, err := DecodeFrom(&r, 4)
			Expect(errors.Cause(err)).To(Equal(ErrTruncated))
		})
	})
})

func TestRLE(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Test rle")
}
