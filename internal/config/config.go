package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/extract"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/writer"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Configuration holds all the settings for a scraping run
type Configuration struct {
	BaseURL     string        `yaml:"base_url"`
	City        string        `yaml:"city"`
	Locality    string        `yaml:"locality"`
	OutputDir   string        `yaml:"output_dir"`
	Headless    bool          `yaml:"headless"`
	UserAgent   string        `yaml:"user_agent"`
	WaitTimeout time.Duration `yaml:"wait_timeout"`

	Scroll      ScrollConfig      `yaml:"scroll"`
	Menu        MenuConfig        `yaml:"menu"`
	Restaurants RestaurantsConfig `yaml:"restaurants"`
	Reviews     ReviewsConfig     `yaml:"reviews"`
	Storage     StorageConfig     `yaml:"storage"`
	Retry       RetryConfig       `yaml:"retry"`
}

// ScrollConfig bounds the infinite-scroll loop.
type ScrollConfig struct {
	Settle     time.Duration `yaml:"settle"`
	MaxBounces int           `yaml:"max_bounces"`
}

type MenuConfig struct {
	Restaurants []string              `yaml:"restaurants"`
	OutputFile  string                `yaml:"output_file"`
	Confirm     time.Duration         `yaml:"confirm"`
	Selectors   extract.MenuSelectors `yaml:"selectors"`
}

type RestaurantsConfig struct {
	OutputFile string                      `yaml:"output_file"`
	Settle     time.Duration               `yaml:"settle"`
	Confirm    time.Duration               `yaml:"confirm"`
	Marker     string                      `yaml:"marker"`
	Selectors  extract.RestaurantSelectors `yaml:"selectors"`
}

type ReviewsConfig struct {
	InputFile  string        `yaml:"input_file"`
	OutputFile string        `yaml:"output_file"`
	Start      int           `yaml:"start"`
	Limit      int           `yaml:"limit"`
	MaxPages   int           `yaml:"max_pages"`
	Settle     time.Duration `yaml:"settle"`
	JitterMin  time.Duration `yaml:"jitter_min"`
	JitterMax  time.Duration `yaml:"jitter_max"`
}

// StorageConfig enables an optional SQLite copy of every record.
type StorageConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts"`
	Delay    time.Duration `yaml:"delay"`
}

// Default returns the settings the scraper was tuned with.
func Default() Configuration {
	return Configuration{
		BaseURL:     "https://www.zomato.com",
		OutputDir:   ".",
		Headless:    true,
		WaitTimeout: 20 * time.Second,
		Scroll: ScrollConfig{
			Settle: 2 * time.Second,
		},
		Menu: MenuConfig{
			OutputFile: "zomato_full_menu.csv",
			Confirm:    3 * time.Second,
			Selectors:  extract.DefaultMenuSelectors(),
		},
		Restaurants: RestaurantsConfig{
			Settle:    5 * time.Second,
			Confirm:   5 * time.Second,
			Marker:    "h4",
			Selectors: extract.DefaultRestaurantSelectors(),
		},
		Reviews: ReviewsConfig{
			Limit:     2,
			MaxPages:  30,
			Settle:    5 * time.Second,
			JitterMin: 5 * time.Second,
			JitterMax: 10 * time.Second,
		},
		Retry: RetryConfig{
			Attempts: 3,
			Delay:    500 * time.Millisecond,
		},
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
// A .env file in the working directory and ZOMATO_* variables are applied
// after the file.
func Load(path string) (*Configuration, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	// .env is optional, but a broken one is reported
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Configuration) applyEnv() error {
	if v := os.Getenv("ZOMATO_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv("ZOMATO_CITY"); v != "" {
		c.City = v
	}
	if v := os.Getenv("ZOMATO_LOCALITY"); v != "" {
		c.Locality = v
	}
	if v := os.Getenv("ZOMATO_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("ZOMATO_HEADLESS"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: ZOMATO_HEADLESS=%q", ErrInvalid, v)
		}
		c.Headless = b
	}
	return nil
}

// Finalize fills values derived from the city and validates the result.
// It must be called after all overrides have been applied.
func (c *Configuration) Finalize() error {
	if c.City == "" {
		return fmt.Errorf("%w: city is required", ErrInvalid)
	}
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base_url is required", ErrInvalid)
	}
	if c.Locality == "" {
		c.Locality = c.City
	}
	if c.Restaurants.OutputFile == "" {
		c.Restaurants.OutputFile = writer.FileName("zomato_restaurant_names", c.City)
	}
	if c.Reviews.InputFile == "" {
		c.Reviews.InputFile = c.Restaurants.OutputFile
	}
	if c.Reviews.OutputFile == "" {
		c.Reviews.OutputFile = writer.FileName("zomato_reviews", c.City)
	}

	if c.WaitTimeout <= 0 {
		return fmt.Errorf("%w: wait_timeout must be positive", ErrInvalid)
	}
	if c.Reviews.JitterMax < c.Reviews.JitterMin || c.Reviews.JitterMin < 0 {
		return fmt.Errorf("%w: reviews jitter range [%s, %s]", ErrInvalid, c.Reviews.JitterMin, c.Reviews.JitterMax)
	}
	if c.Reviews.Start < 0 || c.Reviews.Limit < 0 || c.Reviews.MaxPages < 0 {
		return fmt.Errorf("%w: reviews start, limit and max_pages cannot be negative", ErrInvalid)
	}
	if c.Scroll.MaxBounces < 0 {
		return fmt.Errorf("%w: scroll.max_bounces cannot be negative", ErrInvalid)
	}
	return nil
}
