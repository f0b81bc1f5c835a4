package writer

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

// RetrySink retries a failed write on the wrapped sink. The error of the
// last attempt is returned when every attempt fails.
type RetrySink struct {
	inner    Sink
	attempts int
	delay    time.Duration
	logger   *log.Logger
}

// NewRetrySink wraps inner. attempts < 1 means a single attempt.
func NewRetrySink(inner Sink, attempts int, delay time.Duration, logger *log.Logger) *RetrySink {
	if attempts < 1 {
		attempts = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &RetrySink{inner: inner, attempts: attempts, delay: delay, logger: logger}
}

func (r *RetrySink) Write(rec types.Record) error {
	var err error
	for attempt := 1; attempt <= r.attempts; attempt++ {
		err = r.inner.Write(rec)
		if err == nil {
			return nil
		}

		r.logger.Warn("sink write failed", "attempt", attempt, "of", r.attempts, "err", err)

		if attempt < r.attempts && r.delay > 0 {
			time.Sleep(r.delay)
		}
	}
	return err
}

func (r *RetrySink) Close() error {
	return r.inner.Close()
}
