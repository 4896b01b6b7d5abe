// Copyright 2018 Dan Jacques. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package anim

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	framesPacked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "framepack_frames_packed",
		Help: "Count of frames packed.",
	})

	regionsPacked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "framepack_regions",
		Help: "Count of differing regions stored across all packed animations.",
	})

	diffBytesPacked = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "framepack_diff_bytes",
		Help: "Count of diff value bytes stored across all packed animations.",
	})

	lastTotalSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "framepack_last_total_size_bytes",
		Help: "Emitted size of the most recently packed animation.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		framesPacked,
		regionsPacked,
		diffBytesPacked,
		lastTotalSize,
	)
}
