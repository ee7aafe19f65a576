package graphgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordWrite is called after each document write.
	// duration is the total time taken, err is nil if successful.
	RecordWrite(duration time.Duration, err error)

	// RecordDelete is called after each document delete.
	RecordDelete(duration time.Duration, err error)

	// RecordEdge is called after each edge insertion.
	RecordEdge(duration time.Duration, err error)

	// RecordQuery is called after each hybrid query execution.
	// predicates is the number of configured predicates.
	RecordQuery(predicates int, duration time.Duration, err error)

	// RecordTraversal is called after each graph traversal.
	RecordTraversal(duration time.Duration, err error)

	// RecordFlush is called after each flush barrier.
	RecordFlush(duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordWrite(time.Duration, error)      {}
func (NoopMetricsCollector) RecordDelete(time.Duration, error)     {}
func (NoopMetricsCollector) RecordEdge(time.Duration, error)       {}
func (NoopMetricsCollector) RecordQuery(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordTraversal(time.Duration, error)  {}
func (NoopMetricsCollector) RecordFlush(time.Duration, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	WriteCount      atomic.Int64
	WriteErrors     atomic.Int64
	WriteTotalNanos atomic.Int64
	DeleteCount     atomic.Int64
	DeleteErrors    atomic.Int64
	EdgeCount       atomic.Int64
	EdgeErrors      atomic.Int64
	QueryCount      atomic.Int64
	QueryErrors     atomic.Int64
	QueryTotalNanos atomic.Int64
	TraversalCount  atomic.Int64
	TraversalErrors atomic.Int64
	FlushCount      atomic.Int64
	FlushErrors     atomic.Int64
}

// RecordWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordWrite(duration time.Duration, err error) {
	b.WriteCount.Add(1)
	b.WriteTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.WriteErrors.Add(1)
	}
}

// RecordDelete implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDelete(duration time.Duration, err error) {
	b.DeleteCount.Add(1)
	if err != nil {
		b.DeleteErrors.Add(1)
	}
}

// RecordEdge implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEdge(duration time.Duration, err error) {
	b.EdgeCount.Add(1)
	if err != nil {
		b.EdgeErrors.Add(1)
	}
}

// RecordQuery implements MetricsCollector.
func (b *BasicMetricsCollector) RecordQuery(predicates int, duration time.Duration, err error) {
	b.QueryCount.Add(1)
	b.QueryTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.QueryErrors.Add(1)
	}
}

// RecordTraversal implements MetricsCollector.
func (b *BasicMetricsCollector) RecordTraversal(duration time.Duration, err error) {
	b.TraversalCount.Add(1)
	if err != nil {
		b.TraversalErrors.Add(1)
	}
}

// RecordFlush implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFlush(duration time.Duration, err error) {
	b.FlushCount.Add(1)
	if err != nil {
		b.FlushErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		WriteCount:      b.WriteCount.Load(),
		WriteErrors:     b.WriteErrors.Load(),
		WriteAvgNanos:   avg(b.WriteTotalNanos.Load(), b.WriteCount.Load()),
		DeleteCount:     b.DeleteCount.Load(),
		DeleteErrors:    b.DeleteErrors.Load(),
		EdgeCount:       b.EdgeCount.Load(),
		EdgeErrors:      b.EdgeErrors.Load(),
		QueryCount:      b.QueryCount.Load(),
		QueryErrors:     b.QueryErrors.Load(),
		QueryAvgNanos:   avg(b.QueryTotalNanos.Load(), b.QueryCount.Load()),
		TraversalCount:  b.TraversalCount.Load(),
		TraversalErrors: b.TraversalErrors.Load(),
		FlushCount:      b.FlushCount.Load(),
		FlushErrors:     b.FlushErrors.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	WriteCount      int64
	WriteErrors     int64
	WriteAvgNanos   int64
	DeleteCount     int64
	DeleteErrors    int64
	EdgeCount       int64
	EdgeErrors      int64
	QueryCount      int64
	QueryErrors     int64
	QueryAvgNanos   int64
	TraversalCount  int64
	TraversalErrors int64
	FlushCount      int64
	FlushErrors     int64
}
