package suggest

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/lepinkainen/lumina/internal/book"
)

var (
	// ErrNotConfigured is returned when no generator is available (e.g. no API key).
	ErrNotConfigured = errors.New("suggestion generator not configured")
	// ErrEmptyResponse is returned when the generation call produced no text.
	ErrEmptyResponse = errors.New("no data received from generator")
	// ErrMalformedJSON is returned when the response text is not valid JSON of the expected types.
	ErrMalformedJSON = errors.New("malformed response JSON")
	// ErrMissingBooks is returned when the response has no books array.
	ErrMissingBooks = errors.New("response has no books array")
	// ErrMissingField is returned when an entry lacks a required field.
	ErrMissingField = errors.New("book entry missing required field")
)

// Result is the outcome of one suggestion request. Exactly one of Books
// (possibly empty) or Err is meaningful: Err == nil means success.
type Result struct {
	Books []book.Book
	Err   error
}

// OK reports whether the result carries generated books.
func (r Result) OK() bool {
	return r.Err == nil
}

type rawBook struct {
	ID          *string  `json:"id"`
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Description *string  `json:"description"`
	CoverURL    *string  `json:"coverUrl"`
	Genre       *string  `json:"genre"`
	Rating      *float64 `json:"rating"`
}

type rawResponse struct {
	Books *[]rawBook `json:"books"`
}

// Validate parses a raw generation response and maps it into books.
//
// Every entry must carry id, title, author, description, genre and rating.
// The cover hint is discarded and replaced with the title-seeded placeholder,
// so a missing coverUrl is repaired rather than rejected. Blank or repeated
// IDs are replaced so IDs stay unique within the returned list.
func Validate(raw string) Result {
	if strings.TrimSpace(raw) == "" {
		return Result{Err: ErrEmptyResponse}
	}

	var resp rawResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return Result{Err: fmt.Errorf("%w: %v", ErrMalformedJSON, err)}
	}
	if resp.Books == nil {
		return Result{Err: ErrMissingBooks}
	}

	entries := *resp.Books
	books := make([]book.Book, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		if field := entry.missingField(); field != "" {
			return Result{Err: fmt.Errorf("%w: entry %d has no %s", ErrMissingField, i, field)}
		}

		id := strings.TrimSpace(*entry.ID)
		if id == "" || seen[id] {
			id = fmt.Sprintf("suggestion-%d", i+1)
		}
		seen[id] = true

		books = append(books, book.Book{
			ID:          id,
			Title:       *entry.Title,
			Author:      *entry.Author,
			Description: *entry.Description,
			CoverURL:    book.CoverURLFor(*entry.Title),
			Genre:       *entry.Genre,
			Rating:      *entry.Rating,
		})
	}

	return Result{Books: books}
}

func (b rawBook) missingField() string {
	switch {
	case b.ID == nil:
		return "id"
	case b.Title == nil:
		return "title"
	case b.Author == nil:
		return "author"
	case b.Description == nil:
		return "description"
	case b.Genre == nil:
		return "genre"
	case b.Rating == nil:
		return "rating"
	}
	return ""
}
