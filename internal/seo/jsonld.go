package seo

import (
	"encoding/json"
	"html/template"

	"keycraftcaps.com/keycraft-web/internal/catalog"
	"keycraftcaps.com/keycraft-web/internal/format"
)

// JSON marshals v for a <script type="application/ld+json"> block. It returns
// an empty string on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// Product returns a product schema with a USD offer and, when reviews exist,
// an aggregate rating.
func Product(p catalog.Product, url string, reviews []catalog.Review) map[string]any {
	m := map[string]any{
		"@context":    "https://schema.org",
		"@type":       "Product",
		"name":        p.Name,
		"description": format.PlainText(p.Description),
		"sku":         p.ID,
		"offers": map[string]any{
			"@type":         "Offer",
			"price":         p.Price,
			"priceCurrency": "USD",
			"availability":  "https://schema.org/PreOrder",
		},
	}
	if url != "" {
		m["url"] = url
	}
	if p.Image != "" {
		m["image"] = p.Image
	}
	if agg := AggregateRating(reviews); agg != nil {
		m["aggregateRating"] = agg
	}
	return m
}

// AggregateRating summarises reviews, or returns nil when there are none.
func AggregateRating(reviews []catalog.Review) map[string]any {
	if len(reviews) == 0 {
		return nil
	}
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	avg := float64(total) / float64(len(reviews))
	return map[string]any{
		"@type":       "AggregateRating",
		"ratingValue": float64(int(avg*10+0.5)) / 10,
		"reviewCount": len(reviews),
		"bestRating":  format.MaxRating,
	}
}
