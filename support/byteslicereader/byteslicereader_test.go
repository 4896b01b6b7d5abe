// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package byteslicereader

import (
	"io"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("R", func() {
	var r *R

	BeforeEach(func() {
		r = &R{}
	})

	Context("with no data", func() {
		It("returns EOF from every read", func() {
			_, err := r.ReadByte()
			Expect(err).To(Equal(io.EOF))

			_, err = r.ReadUint16()
			Expect(err).To(Equal(io.EOF))

			amt, err := r.Read(make([]byte, 4))
			Expect(amt).To(Equal(0))
			Expect(err).To(Equal(io.EOF))
		})
	})

	Context("with data", func() {
		BeforeEach(func() {
			r.Buffer = []byte{0x01, 0x02, 0x03, 0x04, 0x05}
		})

		It("reads bytes in order and tracks its offset", func() {
			Expect(r.Offset()).To(Equal(0))

			b, err := r.ReadByte()
			Expect(err).ToNot(HaveOccurred())
			Expect(b).To(Equal(byte(0x01)))
			Expect(r.Offset()).To(Equal(1))
			Expect(r.Remaining()).To(Equal(4))
		})

		It("reads little-endian uint16 values", func() {
			v, err := r.ReadUint16()
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint16(0x0201)))

			v, err = r.ReadUint16()
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal(uint16(0x0403)))

			_, err = r.ReadUint16()
			Expect(err).To(Equal(io.ErrUnexpectedEOF))
			Expect(r.Remaining()).To(Equal(1))
		})

		It("returns zero-copy slices from Next", func() {
			v, err := r.Next(2)
			Expect(err).ToNot(HaveOccurred())
			Expect(v).To(Equal([]byte{0x01, 0x02}))

			v[0] = 0xFF
			Expect(r.Buffer[0]).To(Equal(byte(0xFF)))
		})

		It("returns copies from Next when AlwaysCopy is set", func() {
			r.AlwaysCopy = true
			v, err := r.Next(2)
			Expect(err).ToNot(HaveOccurred())

			v[0] = 0xFF
			Expect(r.Buffer[0]).To(Equal(byte(0x01)))
		})

		It("returns a short slice and EOF when Next overruns", func() {
			_, _ = r.Next(3)
			v, err := r.Next(3)
			Expect(v).To(Equal([]byte{0x04, 0x05}))
			Expect(err).To(Equal(io.EOF))
			Expect(r.Remaining()).To(Equal(0))
		})

		It("copies data through Read", func() {
			buf := make([]byte, 3)
			amt, err := r.Read(buf)
			Expect(err).ToNot(HaveOccurred())
			Expect(amt).To(Equal(3))
			Expect(buf).To(Equal([]byte{0x01, 0x02, 0x03}))
		})
	})
})

func TestByteSliceReader(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Test byteslicereader")
}
