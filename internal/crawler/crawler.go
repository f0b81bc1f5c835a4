package crawler

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/config"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/progress"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/scroll"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/targets"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/writer"
)

// Page is the rendering capability the crawler drives.
type Page interface {
	scroll.Surface
	Navigate(ctx context.Context, url string) error
	WaitVisible(ctx context.Context, selector string, timeout time.Duration) error
	HTML(ctx context.Context) (string, error)
}

// Flow selects what a run scrapes.
type Flow string

const (
	FlowMenu        Flow = "menu"
	FlowRestaurants Flow = "restaurants"
	FlowReviews     Flow = "reviews"
)

// Stats summarises a run.
type Stats struct {
	Targets   int
	Cards     int
	Written   int
	Discarded int
}

// Crawler runs one flow over a sequence of targets. It owns the page and
// the sink for the duration of Run and releases both when Run returns.
type Crawler struct {
	config   config.Configuration
	site     targets.Site
	page     Page
	logger   *log.Logger
	progress *progress.Tracker
	sleep    func(ctx context.Context, d time.Duration) error
	rand     *rand.Rand
	state    State
	stats    Stats
}

// Option customises a Crawler.
type Option func(*Crawler)

func WithLogger(logger *log.Logger) Option {
	return func(c *Crawler) { c.logger = logger }
}

func WithProgress(p *progress.Tracker) Option {
	return func(c *Crawler) { c.progress = p }
}

// WithSleep replaces every timed wait of the run.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Crawler) { c.sleep = sleep }
}

// WithRand sets the source used for the delay between review pages.
func WithRand(r *rand.Rand) Option {
	return func(c *Crawler) { c.rand = r }
}

// New creates a Crawler. cfg must already be finalized.
func New(cfg config.Configuration, page Page, opts ...Option) *Crawler {
	c := &Crawler{
		config: cfg,
		site:   targets.Site{BaseURL: cfg.BaseURL, City: cfg.City, Locality: cfg.Locality},
		page:   page,
		logger: log.Default(),
		sleep:  scroll.Sleep,
		rand:   rand.New(rand.NewSource(time.Now().UnixNano())),
		state:  Idle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.progress == nil {
		c.progress = progress.New(io.Discard)
	}
	return c
}

// State returns where the crawler currently is in its lifecycle.
func (c *Crawler) State() State {
	return c.state
}

func (c *Crawler) setState(s State) {
	if c.state == s {
		return
	}
	c.logger.Debug("state", "from", c.state, "to", s)
	c.state = s
}

// Run executes flow and appends every accepted record to sink. The sink
// and the page are closed on every return path.
func (c *Crawler) Run(ctx context.Context, flow Flow, sink writer.Sink) (stats Stats, err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close sink: %w", cerr)
		}
		if closer, ok := c.page.(io.Closer); ok {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close browser: %w", cerr)
			}
		}
		c.progress.Done()
		c.setState(Terminated)
		stats = c.stats
	}()

	c.logger.Info("starting run", "flow", flow, "city", c.config.City)

	switch flow {
	case FlowMenu:
		err = c.runMenu(ctx, sink)
	case FlowRestaurants:
		err = c.runRestaurants(ctx, sink)
	case FlowReviews:
		err = c.runReviews(ctx, sink)
	default:
		err = fmt.Errorf("unknown flow %q", flow)
	}
	if err != nil {
		return c.stats, err
	}

	c.setState(Done)
	c.logger.Info("run finished", "flow", flow, "targets", c.stats.Targets,
		"written", c.stats.Written, "discarded", c.stats.Discarded)
	return c.stats, nil
}

// isFatal reports whether err means the run cannot continue, as opposed
// to a failure confined to the current target.
func (c *Crawler) isFatal(ctx context.Context, err error) bool {
	if err == nil {
		return false
	}
	if ctx.Err() != nil {
		return true
	}
	if a, ok := c.page.(interface{ Alive() bool }); ok && !a.Alive() {
		return true
	}
	return false
}

// jitter returns a random delay within the configured review range.
func (c *Crawler) jitter() time.Duration {
	lo, hi := c.config.Reviews.JitterMin, c.config.Reviews.JitterMax
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(c.rand.Int63n(int64(hi-lo)+1))
}
