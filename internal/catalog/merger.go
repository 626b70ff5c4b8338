// Package catalog builds the default view: the user's custom books followed
// by the curated library.
package catalog

import (
	"github.com/lepinkainen/lumina/internal/book"
)

// CustomBookSource supplies the persisted custom books, most recent first.
type CustomBookSource interface {
	LoadCustomBooks() []book.Book
}

// Merger combines custom books with a fixed curated list.
type Merger struct {
	source  CustomBookSource
	curated []book.Book
}

// Option is a functional option for configuring the Merger.
type Option func(*Merger)

// WithCurated replaces the built-in curated list.
func WithCurated(books []book.Book) Option {
	return func(m *Merger) {
		m.curated = book.Clone(books)
	}
}

// NewMerger creates a Merger over source using the built-in curated library.
func NewMerger(source CustomBookSource, opts ...Option) *Merger {
	m := &Merger{
		source:  source,
		curated: book.Curated(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BuildDefaultView returns every custom book before every curated book,
// keeping each list's own order. Duplicates across the lists are kept.
func (m *Merger) BuildDefaultView() []book.Book {
	custom := m.source.LoadCustomBooks()
	view := make([]book.Book, 0, len(custom)+len(m.curated))
	view = append(view, custom...)
	view = append(view, m.curated...)
	return view
}

// Curated returns a copy of the curated list this Merger appends.
func (m *Merger) Curated() []book.Book {
	return book.Clone(m.curated)
}
