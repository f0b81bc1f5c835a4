package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/browser"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/config"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/crawler"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/progress"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/writer"
)

// Globals are the flags shared by every command
type Globals struct {
	ConfigFile string `name:"config" help:"Path to configuration file" default:"config.yaml"`
	City       string `help:"City to scrape, overrides the config file" short:"c"`
	Locality   string `help:"Locality used in restaurant URLs, defaults to the city"`
	OutputDir  string `help:"Directory for output files" short:"o"`
	Headed     bool   `help:"Show the browser window"`
	SQLite     string `name:"sqlite" help:"Also store records in this SQLite database"`
	Debug      bool   `help:"Enable debug logging" default:"false"`
}

type MenuCmd struct {
	Restaurants []string `arg:"" optional:"" help:"Restaurant names, overrides menu.restaurants"`
}

func (m *MenuCmd) Run(g *Globals) error {
	return run(g, crawler.FlowMenu, func(cfg *config.Configuration) {
		if len(m.Restaurants) > 0 {
			cfg.Menu.Restaurants = m.Restaurants
		}
	})
}

type RestaurantsCmd struct{}

func (r *RestaurantsCmd) Run(g *Globals) error {
	return run(g, crawler.FlowRestaurants, nil)
}

type ReviewsCmd struct {
	Input    string `help:"Restaurant listing CSV to read names from"`
	Start    int    `help:"Index of the first restaurant to process" default:"-1"`
	Limit    int    `help:"Number of restaurants to process, 0 for all" default:"-1"`
	MaxPages int    `help:"Review pages to visit per restaurant" default:"-1"`
}

func (r *ReviewsCmd) Run(g *Globals) error {
	return run(g, crawler.FlowReviews, func(cfg *config.Configuration) {
		if r.Input != "" {
			cfg.Reviews.InputFile = r.Input
		}
		if r.Start >= 0 {
			cfg.Reviews.Start = r.Start
		}
		if r.Limit >= 0 {
			cfg.Reviews.Limit = r.Limit
		}
		if r.MaxPages >= 0 {
			cfg.Reviews.MaxPages = r.MaxPages
		}
	})
}

// CLI flags structure
type CLI struct {
	Globals

	Menu        MenuCmd        `cmd:"" help:"Scrape the menu of each configured restaurant"`
	Restaurants RestaurantsCmd `cmd:"" help:"Scrape the restaurant listing of a city"`
	Reviews     ReviewsCmd     `cmd:"" help:"Scrape reviews for restaurants from a listing CSV"`
}

func main() {
	var cli CLI

	// Parse command line flags using kong
	ctx := kong.Parse(&cli,
		kong.Name("zomato"),
		kong.Description("Scrapes restaurant menus, listings and reviews into CSV files."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(&cli.Globals); err != nil {
		log.Error("scraping failed", "err", err)
		os.Exit(1)
	}
}

func newLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "zomato",
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

func run(g *Globals, flow crawler.Flow, override func(*config.Configuration)) error {
	logger := newLogger(g.Debug)
	log.SetDefault(logger)

	cfg, err := config.Load(g.ConfigFile)
	if err != nil {
		return err
	}
	applyGlobals(cfg, g)
	if override != nil {
		override(cfg)
	}
	derivedInput := cfg.Reviews.InputFile == ""
	if err := cfg.Finalize(); err != nil {
		return err
	}

	fw, err := writer.New(cfg.OutputDir)
	if err != nil {
		return err
	}

	var (
		name   string
		schema types.Schema
		open   func(string, types.Schema) (*writer.CSVSink, error)
	)
	switch flow {
	case crawler.FlowMenu:
		name, schema, open = cfg.Menu.OutputFile, types.MenuSchema, fw.Create
	case crawler.FlowRestaurants:
		name, schema, open = cfg.Restaurants.OutputFile, types.RestaurantSchema, fw.Create
	case crawler.FlowReviews:
		name, schema, open = cfg.Reviews.OutputFile, types.ReviewSchema, fw.Append
		cfg.Reviews.InputFile = reviewsInput(fw, cfg.Reviews.InputFile, derivedInput)
	default:
		return fmt.Errorf("unknown flow %q", flow)
	}

	csvSink, err := open(name, schema)
	if err != nil {
		return err
	}
	sink := writer.Sink(csvSink)
	if cfg.Storage.SQLitePath != "" {
		db, err := writer.NewSQLite(fw.Path(cfg.Storage.SQLitePath), schema)
		if err != nil {
			csvSink.Close()
			return err
		}
		// only the database is retried, a repeated CSV write would duplicate rows;
		// the CSV stays authoritative when the database keeps failing
		mirror := writer.NewRetrySink(db, cfg.Retry.Attempts, cfg.Retry.Delay, logger)
		sink = writer.Multi(csvSink, writer.NewBestEffortSink(mirror, logger))
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session, err := browser.New(sigCtx, browser.Options{
		Headless:  cfg.Headless,
		UserAgent: cfg.UserAgent,
	})
	if err != nil {
		sink.Close()
		return err
	}

	c := crawler.New(*cfg, session,
		crawler.WithLogger(logger),
		crawler.WithProgress(progress.New(os.Stdout)),
	)
	stats, err := c.Run(sigCtx, flow, sink)
	if err != nil {
		return err
	}

	logger.Info("scraping completed", "output", csvSink.Path(),
		"records", stats.Written, "discarded", stats.Discarded)
	return nil
}

// reviewsInput places a derived listing file next to the other outputs. A
// path given explicitly is used as is.
func reviewsInput(fw *writer.FileWriter, input string, derived bool) string {
	if derived {
		return fw.Path(input)
	}
	return input
}

func applyGlobals(cfg *config.Configuration, g *Globals) {
	if g.City != "" {
		cfg.City = g.City
	}
	if g.Locality != "" {
		cfg.Locality = g.Locality
	}
	if g.OutputDir != "" {
		cfg.OutputDir = g.OutputDir
	}
	if g.Headed {
		cfg.Headless = false
	}
	if g.SQLite != "" {
		cfg.Storage.SQLitePath = g.SQLite
	}
}
