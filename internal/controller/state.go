package controller

// LoadingState is the lifecycle state of the visible catalog.
type LoadingState int

const (
	// Idle shows the default view: custom books then the curated library.
	Idle LoadingState = iota
	// Loading means a search is in flight.
	Loading
	// Success shows the result of the latest search.
	Success
	// Error means the latest operation failed; Retry recovers.
	Error
)

func (s LoadingState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Category is a quick-search shortcut.
type Category string

const (
	CategoryTech       Category = "Tech"
	CategoryMystery    Category = "Mystery"
	CategoryPsychology Category = "Psychology"
	CategorySciFi      Category = "Sci-Fi"
)

// RetryQuery is searched when the user retries from the error state.
const RetryQuery = "Best sellers"

// Categories lists the shortcuts in display order.
var Categories = []Category{CategoryTech, CategoryMystery, CategoryPsychology, CategorySciFi}

var categoryQueries = map[Category]string{
	CategoryTech:       "Trending Tech Books",
	CategoryMystery:    "Classic Mystery Novels",
	CategoryPsychology: "Modern Psychology",
	CategorySciFi:      "Cyberpunk Fiction",
}

// Query returns the search text behind a category, or "" if unknown.
func (c Category) Query() string {
	return categoryQueries[c]
}

// EmptyMessage is the placeholder shown when the visible list is empty in a
// given state. It is "" for states that never show one.
func EmptyMessage(state LoadingState) string {
	switch state {
	case Idle:
		return "Your collection is empty."
	case Success:
		return "No books found. Try a different search!"
	default:
		return ""
	}
}
