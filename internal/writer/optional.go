package writer

import (
	"github.com/charmbracelet/log"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

// BestEffortSink wraps a secondary destination whose failures must not stop
// a run. Failed writes are logged and counted, never returned.
type BestEffortSink struct {
	inner  Sink
	logger *log.Logger
	failed int
}

func NewBestEffortSink(inner Sink, logger *log.Logger) *BestEffortSink {
	if logger == nil {
		logger = log.Default()
	}
	return &BestEffortSink{inner: inner, logger: logger}
}

func (b *BestEffortSink) Write(rec types.Record) error {
	if err := b.inner.Write(rec); err != nil {
		b.failed++
		b.logger.Warn("optional sink write failed, record kept in csv only", "err", err)
	}
	return nil
}

// Failed returns the number of records the wrapped sink did not accept.
func (b *BestEffortSink) Failed() int {
	return b.failed
}

func (b *BestEffortSink) Close() error {
	if err := b.inner.Close(); err != nil {
		b.logger.Warn("optional sink close failed", "err", err)
	}
	if b.failed > 0 {
		b.logger.Warn("optional sink missed records", "count", b.failed)
	}
	return nil
}
