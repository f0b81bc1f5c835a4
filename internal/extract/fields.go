package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/chiragsardana/zomato-scraper-for-research/internal/types"
)

// FieldSpec describes how to read one field from inside a card.
// An empty Attrs reads the text of the first match; otherwise the first
// attribute present on the first match is used.
type FieldSpec struct {
	Name      string
	Selector  string
	Attrs     []string
	Transform func(string) string
}

// Extract looks up a single field scoped to card. A missing node or
// attribute yields "", false and never affects other fields.
func Extract(card *goquery.Selection, spec FieldSpec) (string, bool) {
	if card == nil || spec.Selector == "" {
		return "", false
	}
	node := card.Find(spec.Selector).First()
	if node.Length() == 0 {
		return "", false
	}

	var value string
	if len(spec.Attrs) == 0 {
		value = normalizeText(node.Text())
	} else {
		found := false
		for _, attr := range spec.Attrs {
			if v, ok := node.Attr(attr); ok {
				value, found = strings.TrimSpace(v), true
				break
			}
		}
		if !found {
			return "", false
		}
	}

	if spec.Transform != nil {
		value = spec.Transform(value)
	}
	return value, true
}

// Fields extracts every spec and returns a map keyed by spec name.
// Missing fields are present with an empty value.
func Fields(card *goquery.Selection, specs []FieldSpec) map[string]string {
	out := make(map[string]string, len(specs))
	for _, spec := range specs {
		v, _ := Extract(card, spec)
		out[spec.Name] = v
	}
	return out
}

// DishType classifies the icon reference of a dish.
func DishType(ref string) string {
	ref = strings.ToLower(ref)
	switch {
	case strings.Contains(ref, "non-veg"):
		return types.DishNonVeg
	case strings.Contains(ref, "veg"):
		return types.DishVeg
	default:
		return ""
	}
}

func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
