package writer

import (
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCSVEscapingRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "menu.csv")
	sink, err := NewCSV(path, types.MenuSchema, Truncate)
	require.NoError(t, err)

	values := []string{
		"Served with rice, naan",
		`The "house" special`,
		`both, "quoted"`,
		"plain",
	}
	for i, v := range values {
		require.NoError(t, sink.Write(types.MenuItem{ID: i + 1, Name: v, Description: v}))
	}
	require.NoError(t, sink.Close())

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, len(values)+1)
	assert.Equal(t, types.MenuSchema.Header, rows[0])
	for i, v := range values {
		assert.Equal(t, v, rows[i+1][1])
		assert.Equal(t, v, rows[i+1][3])
	}

	content := readFile(t, path)
	assert.Contains(t, content, `1,"Served with rice, naan",,"Served with rice, naan",,`+"\n")
	assert.Contains(t, content, "4,plain,,plain,,\n")
}

func TestCSVTruncateRewritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "restaurants.csv")
	for run := 0; run < 2; run++ {
		sink, err := NewCSV(path, types.RestaurantSchema, Truncate)
		require.NoError(t, err)
		require.NoError(t, sink.Write(types.Restaurant{ID: 1, Name: "Bikanervala"}))
		require.NoError(t, sink.Close())
	}

	assert.Equal(t, "ID,Name,Rating,Cuisine,CostForOne,DeliveryTime\n1,Bikanervala,,,,\n", readFile(t, path))
}

func TestCSVAppendWritesHeaderOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	for run := 0; run < 2; run++ {
		sink, err := NewCSV(path, types.ReviewSchema, Append)
		require.NoError(t, err)
		require.NoError(t, sink.Write(types.Review{Restaurant: "Bikanervala", Author: "Asha", Rating: 5, Description: "Great, fresh"}))
		require.NoError(t, sink.Close())
	}

	content := readFile(t, path)
	assert.Equal(t, 1, strings.Count(content, "Restaurant,Author,Rating,Review"))
	assert.Equal(t,
		"Restaurant,Author,Rating,Review\n"+
			"Bikanervala,Asha,5,\"Great, fresh\"\n"+
			"Bikanervala,Asha,5,\"Great, fresh\"\n",
		content)
}

func TestCSVAppendToEmptyFileWritesHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reviews.csv")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	sink, err := NewCSV(path, types.ReviewSchema, Append)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	assert.Equal(t, "Restaurant,Author,Rating,Review\n", readFile(t, path))
}

type badRecord struct{}

func (badRecord) Fields() []string { return []string{"only one"} }

func TestCSVRejectsWrongWidth(t *testing.T) {
	sink, err := NewCSV(filepath.Join(t.TempDir(), "x.csv"), types.ReviewSchema, Truncate)
	require.NoError(t, err)
	defer sink.Close()

	assert.Error(t, sink.Write(badRecord{}))
}

func TestFileWriter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	w, err := New(dir)
	require.NoError(t, err)

	assert.DirExists(t, dir)
	assert.Equal(t, filepath.Join(dir, "a.csv"), w.Path("a.csv"))
	assert.Equal(t, "/abs/a.csv", w.Path("/abs/a.csv"))

	sink, err := w.Create(FileName("zomato_restaurant_names", "new delhi"), types.RestaurantSchema)
	require.NoError(t, err)
	require.NoError(t, sink.Close())
	assert.FileExists(t, filepath.Join(dir, "zomato_restaurant_names_new_delhi.csv"))
	assert.Equal(t, filepath.Join(dir, "zomato_restaurant_names_new_delhi.csv"), sink.Path())
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "zomato_reviews_ncr.csv", FileName("zomato_reviews", "ncr"))
	assert.Equal(t, "zomato_reviews_a_b_c.csv", FileName("zomato_reviews", "a/b c"))
	assert.Equal(t, "zomato_reviews_unknown.csv", FileName("zomato_reviews", "  "))
}

type flakySink struct {
	failures int
	writes   int
	closed   bool
}

func (f *flakySink) Write(types.Record) error {
	f.writes++
	if f.writes <= f.failures {
		return errors.New("disk busy")
	}
	return nil
}

func (f *flakySink) Close() error {
	f.closed = true
	return nil
}

func TestRetrySink(t *testing.T) {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)

	t.Run("recovers", func(t *testing.T) {
		inner := &flakySink{failures: 2}
		sink := NewRetrySink(inner, 3, 0, logger)
		assert.NoError(t, sink.Write(types.Review{}))
		assert.Equal(t, 3, inner.writes)
	})

	t.Run("gives up", func(t *testing.T) {
		inner := &flakySink{failures: 5}
		sink := NewRetrySink(inner, 2, 0, logger)
		assert.EqualError(t, sink.Write(types.Review{}), "disk busy")
		assert.Equal(t, 2, inner.writes)
	})

	t.Run("at least one attempt", func(t *testing.T) {
		inner := &flakySink{}
		sink := NewRetrySink(inner, 0, 0, logger)
		assert.NoError(t, sink.Write(types.Review{}))
		assert.Equal(t, 1, inner.writes)
		assert.NoError(t, sink.Close())
		assert.True(t, inner.closed)
	})
}

func TestBestEffortSink(t *testing.T) {
	logger := log.New(os.Stderr)
	logger.SetLevel(log.FatalLevel)

	primary, mirror := &flakySink{}, &flakySink{failures: 2}
	sink := Multi(primary, NewBestEffortSink(mirror, logger))

	for i := 0; i < 3; i++ {
		require.NoError(t, sink.Write(types.Review{}))
	}
	assert.Equal(t, 3, primary.writes)
	assert.Equal(t, 3, mirror.writes)

	best := NewBestEffortSink(&flakySink{failures: 1}, logger)
	require.NoError(t, best.Write(types.Review{}))
	assert.Equal(t, 1, best.Failed())

	require.NoError(t, sink.Close())
	assert.True(t, primary.closed && mirror.closed)
}

func TestMulti(t *testing.T) {
	a, b := &flakySink{}, &flakySink{}
	sink := Multi(a, b)
	require.NoError(t, sink.Write(types.Review{}))
	require.NoError(t, sink.Close())
	assert.Equal(t, 1, a.writes)
	assert.Equal(t, 1, b.writes)
	assert.True(t, a.closed && b.closed)

	single := &flakySink{}
	assert.Same(t, Sink(single), Multi(single))
}

func TestSQLiteSink(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scrape.db")
	sink, err := NewSQLite(path, types.MenuSchema)
	require.NoError(t, err)
	require.NoError(t, sink.Write(types.MenuItem{ID: 1, Name: "Dal Makhani", Description: "Served with rice, naan", DishType: "Veg"}))
	require.NoError(t, sink.Close())

	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	defer db.Close()

	var id, name, description, dishType string
	err = db.QueryRow("SELECT id, name, description, dish_type FROM menu").Scan(&id, &name, &description, &dishType)
	require.NoError(t, err)
	assert.Equal(t, "1", id)
	assert.Equal(t, "Dal Makhani", name)
	assert.Equal(t, "Served with rice, naan", description)
	assert.Equal(t, "Veg", dishType)
}

func TestColumnName(t *testing.T) {
	assert.Equal(t, "id", columnName("ID"))
	assert.Equal(t, "image_url", columnName("ImageURL"))
	assert.Equal(t, "cost_for_one", columnName("CostForOne"))
	assert.Equal(t, "reviews", columnName("reviews"))
}
