package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Locator finds the repeating containers on a rendered page.
// Require, when set, keeps only nodes with a direct child matching it.
type Locator struct {
	Selector string
	Require  string
}

// Locate returns cards in document order.
func (l Locator) Locate(doc *goquery.Document) []*goquery.Selection {
	if doc == nil || l.Selector == "" {
		return nil
	}

	var cards []*goquery.Selection
	doc.Find(l.Selector).Each(func(_ int, s *goquery.Selection) {
		if l.Require != "" && s.ChildrenFiltered(l.Require).Length() == 0 {
			return
		}
		cards = append(cards, s)
	})
	return cards
}

// Parse builds a document from an HTML snapshot.
func Parse(html string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse page html: %w", err)
	}
	return doc, nil
}
