// Package observability owns the node's Prometheus collectors.
package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	instructionCounter *prometheus.CounterVec
	blockHistogram     prometheus.Histogram
	blockTxCounter     prometheus.Counter
	heightGauge        prometheus.Gauge
	recordsGauge       prometheus.Gauge
)

// Init registers all Prometheus collectors. Until it is called every
// recorder below is a no-op.
func Init() {
	registerOnce.Do(func() {
		instructionCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ouh_instructions_total",
			Help: "Executed instructions by operation and result code name",
		}, []string{"op", "result"})

		blockHistogram = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ouh_block_execution_seconds",
			Help:    "Time spent executing a block",
			Buckets: prometheus.DefBuckets,
		})

		blockTxCounter = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ouh_block_txs_total",
			Help: "Instructions delivered in executed blocks",
		})

		heightGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ouh_committed_height",
			Help: "Height of the last committed block",
		})

		recordsGauge = prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ouh_records",
			Help: "Records held in committed state",
		})

		prometheus.MustRegister(
			instructionCounter,
			blockHistogram,
			blockTxCounter,
			heightGauge,
			recordsGauge,
		)
	})
}

func ObserveInstruction(op, result string) {
	if instructionCounter == nil {
		return
	}
	instructionCounter.WithLabelValues(op, result).Inc()
}

func ObserveBlock(txs int, duration time.Duration) {
	if blockHistogram == nil {
		return
	}
	blockHistogram.Observe(duration.Seconds())
	blockTxCounter.Add(float64(txs))
}

func SetCommitted(height uint64, records int) {
	if heightGauge == nil {
		return
	}
	heightGauge.Set(float64(height))
	recordsGauge.Set(float64(records))
}
