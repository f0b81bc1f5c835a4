// Package targets builds the page URLs a run visits.
package targets

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
)

// Site knows the URL layout of the restaurant site for one city.
type Site struct {
	BaseURL  string
	City     string
	Locality string
}

func (s Site) base() string {
	return strings.TrimRight(s.BaseURL, "/")
}

func (s Site) restaurantPath(slug string) string {
	locality := s.Locality
	if locality == "" {
		locality = s.City
	}
	return fmt.Sprintf("%s/%s/%s-%s-locality-%s",
		s.base(), url.PathEscape(s.City), url.PathEscape(slug), url.PathEscape(s.City), url.PathEscape(locality))
}

// Listing is the city's restaurant listing page.
func (s Site) Listing() string {
	return fmt.Sprintf("%s/%s/restaurants", s.base(), url.PathEscape(s.City))
}

// Menu is a restaurant's online ordering page.
func (s Site) Menu(slug string) string {
	return s.restaurantPath(slug) + "/order"
}

// Reviews is one page of a restaurant's reviews, newest first.
func (s Site) Reviews(slug string, page int) string {
	return fmt.Sprintf("%s/reviews?page=%d&sort=dd&filter=reviews-dd", s.restaurantPath(slug), page)
}

// Slug turns a restaurant name into its URL path segment.
func Slug(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "-")
}

// ReadRestaurantSlugs reads a restaurant listing CSV, skips its header and
// returns the slug of every non-empty Name column in file order.
func ReadRestaurantSlugs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open restaurant list: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var slugs []string
	header := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return slugs, fmt.Errorf("failed to read %s: %w", path, err)
		}
		if header {
			header = false
			continue
		}
		if len(row) < 2 {
			continue
		}
		if slug := Slug(row[1]); slug != "" {
			slugs = append(slugs, slug)
		}
	}
	return slugs, nil
}

// Window returns at most limit items starting at start. A zero limit means
// everything from start.
func Window(items []string, start, limit int) []string {
	if start >= len(items) {
		return nil
	}
	end := len(items)
	if limit > 0 && start+limit < end {
		end = start + limit
	}
	return items[start:end]
}
