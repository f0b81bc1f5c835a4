package types

import "strconv"

// Schema describes one output table: its name and column order.
type Schema struct {
	Name   string
	Header []string
}

var (
	MenuSchema       = Schema{Name: "menu", Header: []string{"ID", "Name", "Price", "Description", "ImageURL", "DishType"}}
	RestaurantSchema = Schema{Name: "restaurants", Header: []string{"ID", "Name", "Rating", "Cuisine", "CostForOne", "DeliveryTime"}}
	ReviewSchema     = Schema{Name: "reviews", Header: []string{"Restaurant", "Author", "Rating", "Review"}}
)

// Record is a single extracted row. Fields returns the values in the
// column order of the record's Schema.
type Record interface {
	Fields() []string
}

// MenuItem represents one dish card on a restaurant's order page
type MenuItem struct {
	ID          int
	Name        string
	Price       string
	Description string
	ImageURL    string
	DishType    string
}

func (m MenuItem) Fields() []string {
	return []string{strconv.Itoa(m.ID), m.Name, m.Price, m.Description, m.ImageURL, m.DishType}
}

// Restaurant represents one card on a city's restaurant listing
type Restaurant struct {
	ID           int
	Name         string
	Rating       string
	Cuisine      string
	CostForOne   string
	DeliveryTime string
}

func (r Restaurant) Fields() []string {
	return []string{strconv.Itoa(r.ID), r.Name, r.Rating, r.Cuisine, r.CostForOne, r.DeliveryTime}
}

// Review represents one review taken from a restaurant's structured data
type Review struct {
	Restaurant  string
	Author      string
	Rating      int
	Description string
}

func (r Review) Fields() []string {
	return []string{r.Restaurant, r.Author, strconv.Itoa(r.Rating), r.Description}
}

// Dish type values
const (
	DishVeg    = "Veg"
	DishNonVeg = "Non-Veg"
)
