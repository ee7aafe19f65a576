package graphgo

import (
	"log/slog"

	"github.com/hupe1980/graphgo/index/geo"
	"github.com/hupe1980/graphgo/pipeline"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	textFields       []string
	stopWords        []string
	queueSize        int
	geoCellDegrees   float64
}

// Option configures database constructor behavior.
type Option func(*options)

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &graphgo.BasicMetricsCollector{}
//	db, _ := graphgo.New(graphgo.WithMetricsCollector(metrics))
//	// ... use db ...
//	stats := metrics.GetStats()
//	fmt.Printf("Writes: %d, Avg latency: %dns\n", stats.WriteCount, stats.WriteAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := graphgo.NewJSONLogger(slog.LevelInfo)
//	db, _ := graphgo.New(graphgo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithTextFields configures which attribute fields feed the fulltext index.
// Defaults to title, content and body. A document carrying none of the
// configured fields falls back to its string attributes.
func WithTextFields(fields ...string) Option {
	return func(o *options) {
		if len(fields) > 0 {
			o.textFields = fields
		}
	}
}

// WithStopWords configures tokens excluded from fulltext indexing and
// search. Empty by default.
func WithStopWords(words ...string) Option {
	return func(o *options) {
		o.stopWords = words
	}
}

// WithQueueSize configures the capacity of the indexing task queue. Writes
// apply back-pressure once the queue is full.
func WithQueueSize(size int) Option {
	return func(o *options) {
		o.queueSize = size
	}
}

// WithGeoCellDegrees configures the geo index grid cell edge length in
// degrees. Smaller cells tighten radius scans at the cost of more buckets.
func WithGeoCellDegrees(degrees float64) Option {
	return func(o *options) {
		o.geoCellDegrees = degrees
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		textFields:       []string{"title", "content", "body"},
		queueSize:        pipeline.DefaultQueueSize,
		geoCellDegrees:   geo.DefaultCellDegrees,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
