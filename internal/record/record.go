// Package record turns extracted card fields into typed rows.
package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/extract"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

var (
	// ErrDiscard marks a card or review whose primary field is empty.
	ErrDiscard = errors.New("record: primary field is empty")
	// ErrInvalidRating marks a review whose rating is not an integer.
	ErrInvalidRating = errors.New("record: rating is not an integer")
)

// UnknownRestaurant is used when the structured data carries no name.
const UnknownRestaurant = "Unknown"

// Assembler hands out sequential ids for one output file. Ids start at 1
// and are only consumed by accepted records.
type Assembler struct {
	next int
}

func NewAssembler() *Assembler {
	return &Assembler{next: 1}
}

func (a *Assembler) nextID() int {
	if a.next == 0 {
		a.next = 1
	}
	id := a.next
	a.next++
	return id
}

// Menu builds a menu item, or returns false when the dish name is empty.
func (a *Assembler) Menu(fields map[string]string) (types.MenuItem, bool) {
	name := strings.TrimSpace(fields[extract.FieldName])
	if name == "" {
		return types.MenuItem{}, false
	}
	return types.MenuItem{
		ID:          a.nextID(),
		Name:        name,
		Price:       fields[extract.FieldPrice],
		Description: fields[extract.FieldDescription],
		ImageURL:    fields[extract.FieldImage],
		DishType:    fields[extract.FieldDishType],
	}, true
}

// Restaurant builds a listing row, or returns false when the name is empty.
// The rating stays textual since listings show values like "4.1" or "NEW".
func (a *Assembler) Restaurant(fields map[string]string) (types.Restaurant, bool) {
	name := strings.TrimSpace(fields[extract.FieldName])
	if name == "" {
		return types.Restaurant{}, false
	}
	return types.Restaurant{
		ID:           a.nextID(),
		Name:         name,
		Rating:       fields[extract.FieldRating],
		Cuisine:      fields[extract.FieldCuisine],
		CostForOne:   fields[extract.FieldCostForOne],
		DeliveryTime: fields[extract.FieldDeliveryTime],
	}, true
}

// Review builds a review row. Author and description are both required and
// the rating must parse as an integer.
func Review(restaurant string, raw extract.RawReview) (types.Review, error) {
	author := strings.TrimSpace(string(raw.Author))
	description := strings.TrimSpace(string(raw.Description))
	if author == "" || description == "" {
		return types.Review{}, ErrDiscard
	}

	rating, err := parseRating(raw.ReviewRating.RatingValue)
	if err != nil {
		return types.Review{}, err
	}

	if strings.TrimSpace(restaurant) == "" {
		restaurant = UnknownRestaurant
	}
	return types.Review{
		Restaurant:  restaurant,
		Author:      author,
		Rating:      rating,
		Description: description,
	}, nil
}

// parseRating accepts a JSON number or a quoted number holding a whole
// value, so 4, "4", 4.0 and "4.0" all read as 4. Fractional values such as
// 4.5 are rejected rather than rounded.
func parseRating(raw json.RawMessage) (int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, fmt.Errorf("%w: missing", ErrInvalidRating)
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, fmt.Errorf("%w: %s", ErrInvalidRating, raw)
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidRating, text)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("%w: %q is out of range", ErrInvalidRating, text)
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%w: %q is fractional", ErrInvalidRating, text)
	}
	return int(f), nil
}
