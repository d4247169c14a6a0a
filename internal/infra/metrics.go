package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety.
type Metrics struct {
	// Counters
	tradesExecuted atomic.Uint64
	tradesRejected atomic.Uint64
	quoteFetches   atomic.Uint64
	quoteFailures  atomic.Uint64
	streamTicks    atomic.Uint64

	// Quote latency tracking
	quoteLatencySumNs atomic.Int64
	quoteLatencyCount atomic.Uint64

	// Gauges
	streamConnected atomic.Int32 // 1 = connected, 0 = disconnected
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTradeExecuted records a completed buy or sell.
func (m *Metrics) RecordTradeExecuted() {
	m.tradesExecuted.Add(1)
}

// RecordTradeRejected records a trade refused by validation or the ledger.
func (m *Metrics) RecordTradeRejected() {
	m.tradesRejected.Add(1)
}

// RecordQuoteFetch records a successful quote round trip with its latency.
func (m *Metrics) RecordQuoteFetch(latencyNs int64) {
	m.quoteFetches.Add(1)
	m.quoteLatencySumNs.Add(latencyNs)
	m.quoteLatencyCount.Add(1)
}

// RecordQuoteFailure records a failed quote round trip.
func (m *Metrics) RecordQuoteFailure() {
	m.quoteFailures.Add(1)
}

// RecordStreamTick records one last-trade update from the stream.
func (m *Metrics) RecordStreamTick() {
	m.streamTicks.Add(1)
}

// SetStreamConnected sets the stream connection gauge.
func (m *Metrics) SetStreamConnected(connected bool) {
	if connected {
		m.streamConnected.Store(1)
	} else {
		m.streamConnected.Store(0)
	}
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TradesExecuted  uint64
	TradesRejected  uint64
	QuoteFetches    uint64
	QuoteFailures   uint64
	StreamTicks     uint64
	AvgQuoteNs      int64
	StreamConnected bool
	Timestamp       time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgQuote int64
	count := m.quoteLatencyCount.Load()
	if count > 0 {
		avgQuote = m.quoteLatencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TradesExecuted:  m.tradesExecuted.Load(),
		TradesRejected:  m.tradesRejected.Load(),
		QuoteFetches:    m.quoteFetches.Load(),
		QuoteFailures:   m.quoteFailures.Load(),
		StreamTicks:     m.streamTicks.Load(),
		AvgQuoteNs:      avgQuote,
		StreamConnected: m.streamConnected.Load() == 1,
		Timestamp:       time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.tradesExecuted.Store(0)
	m.tradesRejected.Store(0)
	m.quoteFetches.Store(0)
	m.quoteFailures.Store(0)
	m.streamTicks.Store(0)
	m.quoteLatencySumNs.Store(0)
	m.quoteLatencyCount.Store(0)
	m.streamConnected.Store(0)
}
