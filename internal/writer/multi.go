package writer

import (
	"errors"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

type multiSink []Sink

// Multi fans every record out to all sinks in order. Write stops at the
// first failing sink; Close closes all of them.
func Multi(sinks ...Sink) Sink {
	if len(sinks) == 1 {
		return sinks[0]
	}
	return multiSink(sinks)
}

func (m multiSink) Write(rec types.Record) error {
	for _, s := range m {
		if err := s.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

func (m multiSink) Close() error {
	var errs []error
	for _, s := range m {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
