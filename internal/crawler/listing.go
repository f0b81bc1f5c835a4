package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/config"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/extract"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/queue"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/record"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/scroll"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/targets"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/writer"
)

// listing describes a scroll-to-load page of cards.
type listing struct {
	marker  string
	settle  time.Duration
	confirm time.Duration
	locator extract.Locator
	specs   []extract.FieldSpec
	build   func(fields map[string]string) (types.Record, bool)
}

func (c *Crawler) runMenu(ctx context.Context, sink writer.Sink) error {
	if len(c.config.Menu.Restaurants) == 0 {
		return fmt.Errorf("%w: menu.restaurants is empty", config.ErrInvalid)
	}

	urls := make([]string, 0, len(c.config.Menu.Restaurants))
	for _, name := range c.config.Menu.Restaurants {
		urls = append(urls, c.site.Menu(targets.Slug(name)))
	}

	assembler := record.NewAssembler()
	sel := c.config.Menu.Selectors
	return c.runListing(ctx, urls, listing{
		marker:  sel.CardMarker,
		confirm: c.config.Menu.Confirm,
		locator: sel.Locator(),
		specs:   sel.Specs(),
		build: func(fields map[string]string) (types.Record, bool) {
			return assembler.Menu(fields)
		},
	}, sink)
}

func (c *Crawler) runRestaurants(ctx context.Context, sink writer.Sink) error {
	assembler := record.NewAssembler()
	sel := c.config.Restaurants.Selectors
	return c.runListing(ctx, []string{c.site.Listing()}, listing{
		marker:  c.config.Restaurants.Marker,
		settle:  c.config.Restaurants.Settle,
		confirm: c.config.Restaurants.Confirm,
		locator: sel.Locator(),
		specs:   sel.Specs(),
		build: func(fields map[string]string) (types.Record, bool) {
			r, ok := assembler.Restaurant(fields)
			if ok {
				c.logger.Debug("restaurant", "name", r.Name, "rating", r.Rating, "cuisine", r.Cuisine,
					"cost_for_one", r.CostForOne, "delivery_time", r.DeliveryTime)
			}
			return r, ok
		},
	}, sink)
}

func (c *Crawler) runListing(ctx context.Context, urls []string, job listing, sink writer.Sink) error {
	q := queue.New(urls...)
	c.progress.SetTotal(q.Len())

	for {
		target, ok := q.Next()
		if !ok {
			return nil
		}
		c.stats.Targets++

		c.progress.Start(target)
		err := c.scrapeListing(ctx, target, job, sink)
		c.progress.Finish(target)
		if err != nil {
			return err
		}
		c.setState(NextTarget)
	}
}

// scrapeListing runs one target through navigate, wait, converge, extract
// and append. Failures confined to the target are logged and swallowed.
func (c *Crawler) scrapeListing(ctx context.Context, target string, job listing, sink writer.Sink) error {
	c.setState(Navigating)
	if err := c.page.Navigate(ctx, target); err != nil {
		if c.isFatal(ctx, err) {
			return err
		}
		c.logger.Warn("navigation failed, skipping target", "url", target, "err", err)
		return nil
	}
	if err := c.sleep(ctx, job.settle); err != nil {
		return err
	}

	c.setState(AwaitingInitialContent)
	if err := c.page.WaitVisible(ctx, job.marker, c.config.WaitTimeout); err != nil {
		if c.isFatal(ctx, err) {
			return err
		}
		c.logger.Warn("initial content never appeared", "url", target, "marker", job.marker, "err", err)
		return nil
	}

	c.setState(Converging)
	res, err := scroll.Converge(ctx, c.page, scroll.Options{
		Settle:     c.config.Scroll.Settle,
		Confirm:    job.confirm,
		MaxBounces: c.config.Scroll.MaxBounces,
		Sleep:      c.sleep,
	})
	if err != nil {
		if c.isFatal(ctx, err) {
			return err
		}
		c.logger.Warn("scrolling failed, skipping target", "url", target, "err", err)
		return nil
	}
	if res.Status == scroll.GaveUp {
		c.logger.Warn("page kept growing, extracting what loaded", "url", target, "bounces", res.Bounces, "height", res.Height)
	} else {
		c.logger.Debug("page settled", "url", target, "bounces", res.Bounces, "height", res.Height)
	}

	c.setState(Extracting)
	html, err := c.page.HTML(ctx)
	if err != nil {
		if c.isFatal(ctx, err) {
			return err
		}
		c.logger.Warn("could not read page, skipping target", "url", target, "err", err)
		return nil
	}
	doc, err := extract.Parse(html)
	if err != nil {
		c.logger.Warn("could not parse page, skipping target", "url", target, "err", err)
		return nil
	}

	cards := job.locator.Locate(doc)
	c.stats.Cards += len(cards)
	c.logger.Info("cards found", "url", target, "count", len(cards))

	records := make([]types.Record, 0, len(cards))
	for i, card := range cards {
		rec, ok := c.assemble(job, card, i)
		if !ok {
			c.stats.Discarded++
			continue
		}
		records = append(records, rec)
	}

	c.setState(Appending)
	for _, rec := range records {
		if err := sink.Write(rec); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
		c.stats.Written++
	}
	c.logger.Info("records appended", "url", target, "count", len(records))
	return nil
}

// assemble builds one record; a panic while reading a card drops only
// that card.
func (c *Crawler) assemble(job listing, card *goquery.Selection, index int) (rec types.Record, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Warn("skipping card", "index", index, "panic", r)
			rec, ok = nil, false
		}
	}()
	return job.build(extract.Fields(card, job.specs))
}
