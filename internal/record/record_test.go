package record

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/extract"
	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

func TestMenuIDsSkipDiscardedCards(t *testing.T) {
	a := NewAssembler()
	cards := []map[string]string{
		{extract.FieldName: "Paneer Tikka", extract.FieldPrice: "₹250"},
		{extract.FieldName: "   ", extract.FieldPrice: "₹100"},
		{extract.FieldPrice: "₹90"},
		{extract.FieldName: "Dal Makhani"},
		{extract.FieldName: "Jeera Rice"},
	}

	var ids []int
	for _, fields := range cards {
		if item, ok := a.Menu(fields); ok {
			ids = append(ids, item.ID)
		}
	}
	assert.Equal(t, []int{1, 2, 3}, ids)
}

func TestMenuKeepsPartialFields(t *testing.T) {
	item, ok := NewAssembler().Menu(map[string]string{
		extract.FieldName:        "Dal Makhani",
		extract.FieldDescription: "Served with rice, naan",
	})
	require.True(t, ok)
	assert.Equal(t, types.MenuItem{ID: 1, Name: "Dal Makhani", Description: "Served with rice, naan"}, item)
}

func TestRestaurant(t *testing.T) {
	a := NewAssembler()

	_, ok := a.Restaurant(map[string]string{extract.FieldRating: "4.5"})
	assert.False(t, ok)

	r, ok := a.Restaurant(map[string]string{
		extract.FieldName:   "Bikanervala",
		extract.FieldRating: "NEW",
	})
	require.True(t, ok)
	assert.Equal(t, 1, r.ID)
	assert.Equal(t, "NEW", r.Rating)
}

func TestZeroValueAssembler(t *testing.T) {
	var a Assembler
	item, ok := a.Menu(map[string]string{extract.FieldName: "Lassi"})
	require.True(t, ok)
	assert.Equal(t, 1, item.ID)
}

func rawReview(author, description, rating string) extract.RawReview {
	var r extract.RawReview
	r.Author = extract.Text(author)
	r.Description = extract.Text(description)
	r.ReviewRating.RatingValue = json.RawMessage(rating)
	return r
}

func TestReview(t *testing.T) {
	tests := []struct {
		name       string
		restaurant string
		raw        extract.RawReview
		want       types.Review
		wantErr    error
	}{
		{
			name:       "numeric rating",
			restaurant: "Bikanervala",
			raw:        rawReview("Asha", "Great, fresh", "5"),
			want:       types.Review{Restaurant: "Bikanervala", Author: "Asha", Rating: 5, Description: "Great, fresh"},
		},
		{
			name:       "quoted rating",
			restaurant: "Bikanervala",
			raw:        rawReview("Ravi", "ok", `"3"`),
			want:       types.Review{Restaurant: "Bikanervala", Author: "Ravi", Rating: 3, Description: "ok"},
		},
		{
			name:       "whole decimal rating",
			restaurant: "Bikanervala",
			raw:        rawReview("Meera", "tasty", "4.0"),
			want:       types.Review{Restaurant: "Bikanervala", Author: "Meera", Rating: 4, Description: "tasty"},
		},
		{
			name:       "quoted whole decimal rating",
			restaurant: "Bikanervala",
			raw:        rawReview("Meera", "tasty", `"5.0"`),
			want:       types.Review{Restaurant: "Bikanervala", Author: "Meera", Rating: 5, Description: "tasty"},
		},
		{
			name: "unknown restaurant",
			raw:  rawReview("Ravi", "ok", "4"),
			want: types.Review{Restaurant: UnknownRestaurant, Author: "Ravi", Rating: 4, Description: "ok"},
		},
		{
			name:    "missing author",
			raw:     rawReview("", "ok", "4"),
			wantErr: ErrDiscard,
		},
		{
			name:    "missing description",
			raw:     rawReview("Ravi", " ", "4"),
			wantErr: ErrDiscard,
		},
		{
			name:    "fractional rating",
			raw:     rawReview("Ravi", "ok", "4.5"),
			wantErr: ErrInvalidRating,
		},
		{
			name:    "text rating",
			raw:     rawReview("Ravi", "ok", `"great"`),
			wantErr: ErrInvalidRating,
		},
		{
			name:    "quoted fractional rating",
			raw:     rawReview("Ravi", "ok", `"3.5"`),
			wantErr: ErrInvalidRating,
		},
		{
			name:    "null rating",
			raw:     rawReview("Ravi", "ok", "null"),
			wantErr: ErrInvalidRating,
		},
		{
			name:    "missing rating",
			raw:     rawReview("Ravi", "ok", ""),
			wantErr: ErrInvalidRating,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Review(tt.restaurant, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
