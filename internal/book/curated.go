package book

// curated is the permanent library shipped with the binary. It is never
// mutated at runtime; use Curated to get a copy.
var curated = []Book{
	{
		ID:          "curated-001",
		Title:       "Atomic Habits",
		Author:      "James Clear",
		Description: "No matter your goals, Atomic Habits offers a proven framework for improving--every day. James Clear reveals practical strategies that will teach you exactly how to form good habits, break bad ones, and master the tiny behaviors that lead to remarkable results.",
		Genre:       "Self-Help",
		Rating:      5.0,
		CoverURL:    "https://m.media-amazon.com/images/I/51NotqZAjPL._SL1000_.jpg",
		PurchaseURL: "https://a.co/d/933dK6L",
	},
}

// fallback is returned by the suggestion client whenever generation fails.
var fallback = []Book{
	{
		ID:          "1",
		Title:       "The Silent Echo",
		Author:      "Julian Thorne",
		Description: "A mystery unfolding in the quiet valleys of the Alps.",
		CoverURL:    CoverURLFor("echo"),
		Genre:       "Mystery",
		Rating:      4.5,
	},
	{
		ID:          "2",
		Title:       "Neon Dreams",
		Author:      "Sarah K. Lee",
		Description: "Cyberpunk adventures in a world ruled by AI.",
		CoverURL:    CoverURLFor("neon"),
		Genre:       "Sci-Fi",
		Rating:      4.8,
	},
}

// Curated returns a copy of the built-in library in its fixed order.
func Curated() []Book {
	return Clone(curated)
}

// Fallback returns a copy of the two-book substitute result set.
func Fallback() []Book {
	return Clone(fallback)
}
