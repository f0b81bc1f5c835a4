package extract

// Field names shared by the listing schemas.
const (
	FieldName         = "name"
	FieldPrice        = "price"
	FieldDescription  = "description"
	FieldImage        = "image"
	FieldDishType     = "dish_type"
	FieldRating       = "rating"
	FieldCuisine      = "cuisine"
	FieldCostForOne   = "cost_for_one"
	FieldDeliveryTime = "delivery_time"
)

// MenuSelectors holds the CSS selectors used on a restaurant order page.
type MenuSelectors struct {
	Card        string `yaml:"card"`
	CardMarker  string `yaml:"card_marker"`
	Name        string `yaml:"name"`
	Price       string `yaml:"price"`
	Description string `yaml:"description"`
	Image       string `yaml:"image"`
	DishType    string `yaml:"dish_type"`
}

// DefaultMenuSelectors returns selectors matching the order page markup.
func DefaultMenuSelectors() MenuSelectors {
	return MenuSelectors{
		Card:        "div",
		CardMarker:  "h4",
		Name:        "h4",
		Price:       "span",
		Description: "p",
		Image:       "img",
		DishType:    `div[class*="sc-bUyWVT"] svg use`,
	}
}

func (s MenuSelectors) Locator() Locator {
	return Locator{Selector: s.Card, Require: s.CardMarker}
}

func (s MenuSelectors) Specs() []FieldSpec {
	return []FieldSpec{
		{Name: FieldName, Selector: s.Name},
		{Name: FieldPrice, Selector: s.Price},
		{Name: FieldDescription, Selector: s.Description},
		{Name: FieldImage, Selector: s.Image, Attrs: []string{"src"}},
		{Name: FieldDishType, Selector: s.DishType, Attrs: []string{"href", "xlink:href"}, Transform: DishType},
	}
}

// RestaurantSelectors holds the CSS selectors used on a city listing page.
type RestaurantSelectors struct {
	Card         string `yaml:"card"`
	Name         string `yaml:"name"`
	Rating       string `yaml:"rating"`
	Cuisine      string `yaml:"cuisine"`
	CostForOne   string `yaml:"cost_for_one"`
	DeliveryTime string `yaml:"delivery_time"`
}

// DefaultRestaurantSelectors returns selectors matching the listing markup.
func DefaultRestaurantSelectors() RestaurantSelectors {
	return RestaurantSelectors{
		Card:         "#root div.sc-1mo3ldo-0.sc-jGkVzM.BXbKf .jumbo-tracker",
		Name:         "h4.sc-1hp8d8a-0.sc-iqtXtF",
		Rating:       "div.sc-1q7bklc-1.cILgox",
		Cuisine:      "p.sc-jtEaiv.iXNvdz",
		CostForOne:   "p.sc-jtEaiv.fIHvpg",
		DeliveryTime: "div.min-basic-info-right p",
	}
}

func (s RestaurantSelectors) Locator() Locator {
	return Locator{Selector: s.Card}
}

func (s RestaurantSelectors) Specs() []FieldSpec {
	return []FieldSpec{
		{Name: FieldName, Selector: s.Name},
		{Name: FieldRating, Selector: s.Rating},
		{Name: FieldCuisine, Selector: s.Cuisine},
		{Name: FieldCostForOne, Selector: s.CostForOne},
		{Name: FieldDeliveryTime, Selector: s.DeliveryTime},
	}
}
