package extract

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const structuredDataSelector = `script[type="application/ld+json"]`

// RawReview is one entry of the "reviews" array in a restaurant's JSON-LD.
type RawReview struct {
	Author       Text `json:"author"`
	Description  Text `json:"description"`
	ReviewRating struct {
		RatingValue json.RawMessage `json:"ratingValue"`
	} `json:"reviewRating"`
}

// ReviewPayload is the structured data block that carries reviews.
type ReviewPayload struct {
	Name    string
	Reviews []RawReview
}

// Reviews finds the first JSON-LD block mentioning "reviews" and decodes it.
// ok is false when no such block exists, it cannot be decoded, or it has no
// reviews collection; callers stop paging in that case.
func Reviews(doc *goquery.Document) (payload ReviewPayload, ok bool) {
	if doc == nil {
		return payload, false
	}

	var raw string
	doc.Find(structuredDataSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		content := strings.TrimSpace(s.Text())
		if strings.Contains(content, `"reviews"`) {
			raw = content
			return false
		}
		return true
	})
	if raw == "" {
		return payload, false
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &obj); err != nil {
		return payload, false
	}
	reviews, has := obj["reviews"]
	if !has {
		return payload, false
	}
	if err := json.Unmarshal(reviews, &payload.Reviews); err != nil {
		return payload, false
	}
	if name, has := obj["name"]; has {
		var t Text
		if err := json.Unmarshal(name, &t); err == nil {
			payload.Name = string(t)
		}
	}
	return payload, true
}

// Text decodes either a JSON string or an object carrying a "name" field,
// which is how schema.org authors appear in the wild.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	var named struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &named); err != nil {
		*t = ""
		return nil
	}
	*t = Text(strings.TrimSpace(named.Name))
	return nil
}
