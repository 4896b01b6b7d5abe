// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package logging

import (
	"fmt"
	"testing"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// recorder is an L that records each message with its level.
type recorder struct {
	lines []string
}

func (r *recorder) record(level, format string, args ...interface{}) {
	r.lines = append(r.lines, level+" "+fmt.Sprintf(format, args...))
}

func (r *recorder) Debugf(format string, args ...interface{}) { r.record("D", format, args...) }
func (r *recorder) Infof(format string, args ...interface{})  { r.record("I", format, args...) }
func (r *recorder) Warnf(format string, args ...interface{})  { r.record("W", format, args...) }
func (r *recorder) Errorf(format string, args ...interface{}) { r.record("E", format, args...) }

var _ = Describe("Logging", func() {
	It("substitutes Nop for a nil logger", func() {
		Expect(Must(nil)).To(Equal(Nop))

		var r recorder
		Expect(Must(&r)).To(BeIdenticalTo(&r))
	})

	It("prefixes every level", func() {
		var r recorder
		l := Prefix(&r, "pack: ")

		l.Debugf("%d frame(s)", 3)
		l.Infof("done")
		l.Warnf("slow: %s", "yes")
		l.Errorf("failed")
		Expect(r.lines).To(Equal([]string{
			"D pack: 3 frame(s)",
			"I pack: done",
			"W pack: slow: yes",
			"E pack: failed",
		}))
	})

	It("nests prefixes outermost first", func() {
		var r recorder
		Prefix(Prefix(&r, "a: "), "b: ").Infof("x")
		Expect(r.lines).To(Equal([]string{"I a: b: x"}))
	})

	It("logs a prefix containing verbs literally", func() {
		var r recorder
		Prefix(&r, "100% ").Infof("%s", "done")
		Expect(r.lines).To(Equal([]string{"I 100% done"}))
	})

	It("returns its logger when there is nothing to prefix", func() {
		var r recorder
		Expect(Prefix(&r, "")).To(BeIdenticalTo(&r))
		Expect(Prefix(nil, "pack: ")).To(Equal(Nop))
	})
})

func TestLogging(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Test logging")
}
