// Package book holds the catalog entity shared by the store, the suggestion
// client and the controller.
package book

import (
	"net/url"
	"strings"
	"unicode"
)

const (
	// CoverBaseURL is the placeholder image service used for every generated cover.
	CoverBaseURL = "https://picsum.photos/seed/"
	// coverSize is appended to the seed; covers are portrait 400x600.
	coverSize = "/400/600"
	// PurchaseSearchURL is the search page used when a book has no purchase link.
	PurchaseSearchURL = "https://www.amazon.com/s?k="
)


// Book is a single catalog entry. Books are treated as immutable values once created.
type Book struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	CoverURL    string  `json:"coverUrl"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	PurchaseURL string  `json:"purchaseUrl,omitempty"`
}

// CoverURLFor builds the deterministic placeholder cover for a seed.
// All whitespace is stripped from the seed, so "Neon Dreams" and "NeonDreams"
// map to the same image. The rest is path-escaped so titles like "AC/DC"
// stay one path segment.
func CoverURLFor(seed string) string {
	return CoverBaseURL + url.PathEscape(stripSpace(seed)) + coverSize
}

func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// PurchaseTarget returns the explicit purchase link when present, otherwise a
// search URL built from title and author.
func (b Book) PurchaseTarget() string {
	if strings.TrimSpace(b.PurchaseURL) != "" {
		return b.PurchaseURL
	}
	return PurchaseSearchURL + queryEscape(b.Title+" "+b.Author)
}

// ShareText is the plain-text payload copied when no native share target exists.
func (b Book) ShareText() string {
	return b.Title + " by " + b.Author + "\n" + b.PurchaseTarget()
}

// queryEscape matches encodeURIComponent, which escapes spaces as %20 rather than '+'.
func queryEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// Clone returns a copy of books so callers can never alias a shared slice.
func Clone(books []Book) []Book {
	if books == nil {
		return []Book{}
	}
	out := make([]Book, len(books))
	copy(out, books)
	return out
}
