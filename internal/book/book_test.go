package book

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoverURLFor(t *testing.T) {
	tests := []struct {
		name string
		seed string
		want string
	}{
		{name: "plain", seed: "space", want: "https://picsum.photos/seed/space/400/600"},
		{name: "spaces stripped", seed: "Neon Dreams", want: "https://picsum.photos/seed/NeonDreams/400/600"},
		{name: "tabs and newlines stripped", seed: " The\tSilent\nEcho ", want: "https://picsum.photos/seed/TheSilentEcho/400/600"},
		{name: "empty seed", seed: "", want: "https://picsum.photos/seed//400/600"},
		{name: "unicode spaces stripped", seed: "Neon\u00a0Dreams\u2003", want: "https://picsum.photos/seed/NeonDreams/400/600"},
		{name: "slash escaped", seed: "AC/DC", want: "https://picsum.photos/seed/AC%2FDC/400/600"},
		{name: "query and fragment escaped", seed: "Why? #1", want: "https://picsum.photos/seed/Why%3F%231/400/600"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoverURLFor(tt.seed))
		})
	}
}

func TestPurchaseTarget(t *testing.T) {
	withLink := Book{Title: "Atomic Habits", Author: "James Clear", PurchaseURL: "https://a.co/d/933dK6L"}
	assert.Equal(t, "https://a.co/d/933dK6L", withLink.PurchaseTarget())

	blankLink := Book{Title: "Neon Dreams", Author: "Sarah K. Lee", PurchaseURL: "   "}
	assert.Equal(t, "https://www.amazon.com/s?k=Neon%20Dreams%20Sarah%20K.%20Lee", blankLink.PurchaseTarget())
}

func TestShareText(t *testing.T) {
	b := Book{Title: "Atomic Habits", Author: "James Clear", PurchaseURL: "https://a.co/d/933dK6L"}
	assert.Equal(t, "Atomic Habits by James Clear\nhttps://a.co/d/933dK6L", b.ShareText())
}

func TestCuratedReturnsCopy(t *testing.T) {
	first := Curated()
	require.Len(t, first, 1)
	assert.Equal(t, "curated-001", first[0].ID)

	first[0].Title = "mutated"
	assert.Equal(t, "Atomic Habits", Curated()[0].Title)
}

func TestFallbackPair(t *testing.T) {
	books := Fallback()
	require.Len(t, books, 2)

	assert.Equal(t, "1", books[0].ID)
	assert.Equal(t, "The Silent Echo", books[0].Title)
	assert.Equal(t, "Julian Thorne", books[0].Author)
	assert.Equal(t, "Mystery", books[0].Genre)
	assert.Equal(t, 4.5, books[0].Rating)
	assert.Equal(t, "https://picsum.photos/seed/echo/400/600", books[0].CoverURL)

	assert.Equal(t, "2", books[1].ID)
	assert.Equal(t, "Neon Dreams", books[1].Title)
	assert.Equal(t, "Sarah K. Lee", books[1].Author)
	assert.Equal(t, "Sci-Fi", books[1].Genre)
	assert.Equal(t, 4.8, books[1].Rating)
}

func TestBookJSONOmitsBlankPurchaseURL(t *testing.T) {
	data, err := json.Marshal(Book{ID: "x", Title: "T"})
	require.NoError(t, err)
	assert.NotContains(t, string(data), "purchaseUrl")
	assert.Contains(t, string(data), `"coverUrl":""`)
}

func TestReadSetToggle(t *testing.T) {
	s := NewReadSet("b", "a", "a")
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	assert.False(t, s.Toggle("a"))
	assert.False(t, s.Has("a"))
	assert.True(t, s.Toggle("a"))
	assert.True(t, s.Has("a"))

	c := s.Clone()
	c.Toggle("b")
	assert.True(t, s.Has("b"))
}

func TestCloneNil(t *testing.T) {
	out := Clone(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}
