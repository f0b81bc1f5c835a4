package crawler

import (
	"context"
	"errors"
	"fmt"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/extract"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/queue"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/record"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/targets"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/writer"
)

func (c *Crawler) runReviews(ctx context.Context, sink writer.Sink) error {
	slugs, err := targets.ReadRestaurantSlugs(c.config.Reviews.InputFile)
	if err != nil {
		return err
	}
	slugs = targets.Window(slugs, c.config.Reviews.Start, c.config.Reviews.Limit)
	c.logger.Info("restaurants to review", "count", len(slugs), "input", c.config.Reviews.InputFile)

	q := queue.New(slugs...)
	c.progress.SetTotal(q.Len())

	for {
		slug, ok := q.Next()
		if !ok {
			return nil
		}
		c.stats.Targets++

		c.progress.Start(slug)
		err := c.scrapeRestaurantReviews(ctx, slug, sink)
		c.progress.Finish(slug)
		if err != nil {
			return err
		}
		c.setState(NextTarget)
	}
}

func (c *Crawler) scrapeRestaurantReviews(ctx context.Context, slug string, sink writer.Sink) error {
	for page := 1; page <= c.config.Reviews.MaxPages; page++ {
		c.progress.Status(slug, fmt.Sprintf("page %d", page))

		stop, err := c.scrapeReviewPage(ctx, c.site.Reviews(slug, page), sink)
		if err != nil {
			return err
		}
		if stop {
			c.logger.Info("no more reviews", "restaurant", slug, "page", page)
			return nil
		}
	}
	return nil
}

// scrapeReviewPage appends the reviews of one page. stop is true when the
// page carries no reviews, which ends paging for the restaurant.
func (c *Crawler) scrapeReviewPage(ctx context.Context, url string, sink writer.Sink) (stop bool, err error) {
	c.setState(Navigating)
	if err := c.page.Navigate(ctx, url); err != nil {
		if c.isFatal(ctx, err) {
			return false, err
		}
		c.logger.Warn("navigation failed, skipping page", "url", url, "err", err)
		return false, nil
	}
	if err := c.sleep(ctx, c.config.Reviews.Settle); err != nil {
		return false, err
	}

	c.setState(Extracting)
	html, err := c.page.HTML(ctx)
	if err != nil {
		if c.isFatal(ctx, err) {
			return false, err
		}
		c.logger.Warn("could not read page, skipping page", "url", url, "err", err)
		return false, nil
	}
	doc, err := extract.Parse(html)
	if err != nil {
		c.logger.Warn("could not parse page, skipping page", "url", url, "err", err)
		return false, nil
	}

	payload, ok := extract.Reviews(doc)
	if !ok {
		c.logger.Warn("reviews data not found", "url", url)
		return true, nil
	}
	if len(payload.Reviews) == 0 {
		c.logger.Info("reviews data is empty", "url", url)
		return true, nil
	}
	c.stats.Cards += len(payload.Reviews)

	if err := c.sleep(ctx, c.jitter()); err != nil {
		return false, err
	}

	c.setState(Appending)
	written := 0
	for i, raw := range payload.Reviews {
		rev, err := record.Review(payload.Name, raw)
		if err != nil {
			c.stats.Discarded++
			if errors.Is(err, record.ErrInvalidRating) {
				c.logger.Warn("skipping review", "url", url, "index", i, "err", err)
			} else {
				c.logger.Debug("skipping review", "url", url, "index", i, "err", err)
			}
			continue
		}
		if err := sink.Write(rev); err != nil {
			return false, fmt.Errorf("append review: %w", err)
		}
		written++
		c.stats.Written++
	}

	c.logger.Info("reviews appended", "url", url, "count", written)
	return false, nil
}
