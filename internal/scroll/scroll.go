// Package scroll drives infinite-scroll pages until their content stops growing.
package scroll

import (
	"context"
	"fmt"
	"time"
)

// Surface is the part of a rendered page the detector needs.
type Surface interface {
	ScrollToBottom(ctx context.Context) error
	ScrollHeight(ctx context.Context) (int64, error)
}

// Status reports how a Converge call ended.
type Status int

const (
	Converged Status = iota
	GaveUp
)

func (s Status) String() string {
	switch s {
	case Converged:
		return "converged"
	case GaveUp:
		return "gave up"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// DefaultMaxBounces bounds the loop when Options.MaxBounces is not set.
const DefaultMaxBounces = 50

// Options configures the detector. Settle is waited after every scroll and
// Confirm before re-measuring a height that looked stable.
type Options struct {
	Settle     time.Duration
	Confirm    time.Duration
	MaxBounces int
	// Sleep defaults to a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Result is the outcome of a Converge call.
type Result struct {
	Status  Status
	Bounces int
	Height  int64
}

// Converge scrolls until two consecutive measurements match and a second
// measurement after Confirm still matches, or until MaxBounces scrolls have
// been issued.
func Converge(ctx context.Context, surface Surface, opts Options) (Result, error) {
	sleep := opts.Sleep
	if sleep == nil {
		sleep = Sleep
	}
	maxBounces := opts.MaxBounces
	if maxBounces <= 0 {
		maxBounces = DefaultMaxBounces
	}

	last, err := surface.ScrollHeight(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("measure page height: %w", err)
	}

	for bounce := 1; bounce <= maxBounces; bounce++ {
		if err := surface.ScrollToBottom(ctx); err != nil {
			return Result{Bounces: bounce - 1, Height: last}, fmt.Errorf("scroll page: %w", err)
		}
		if err := sleep(ctx, opts.Settle); err != nil {
			return Result{Bounces: bounce, Height: last}, err
		}

		height, err := surface.ScrollHeight(ctx)
		if err != nil {
			return Result{Bounces: bounce, Height: last}, fmt.Errorf("measure page height: %w", err)
		}

		if height == last {
			// a late batch can still arrive after a stall
			if err := sleep(ctx, opts.Confirm); err != nil {
				return Result{Bounces: bounce, Height: height}, err
			}
			confirmed, err := surface.ScrollHeight(ctx)
			if err != nil {
				return Result{Bounces: bounce, Height: height}, fmt.Errorf("measure page height: %w", err)
			}
			if confirmed == height {
				return Result{Status: Converged, Bounces: bounce, Height: confirmed}, nil
			}
			height = confirmed
		}
		last = height
	}

	return Result{Status: GaveUp, Bounces: maxBounces, Height: last}, nil
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
