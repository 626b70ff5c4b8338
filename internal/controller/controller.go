// Package controller orchestrates the catalog: the visible list, its loading
// state, read markers, custom books and the outbound purchase/share actions.
package controller

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/config"
	lerrors "github.com/lepinkainen/lumina/internal/errors"
	"github.com/lepinkainen/lumina/internal/navigate"
	"github.com/lepinkainen/lumina/internal/store"
)

const (
	// adminPassword unlocks the add-book workflow for the session. It is a
	// placeholder gate, not access control.
	adminPassword = "admin"

	// DefaultPurchaseDelay lets the UI acknowledge a purchase before the
	// browser takes focus.
	DefaultPurchaseDelay = config.DefaultPurchaseDelay
)

var (
	// ErrAdminRejected is returned by GrantAdmin for a wrong password.
	ErrAdminRejected = errors.New("admin password rejected")
	// ErrAdminLocked is returned by AddBook before GrantAdmin succeeded.
	ErrAdminLocked = errors.New("admin access required to add books")
	// ErrUnknownCategory is returned by SearchCategory for an unmapped category.
	ErrUnknownCategory = errors.New("unknown category")
)

// Suggester produces books for a search query.
type Suggester interface {
	FetchSuggestions(ctx context.Context, query string) ([]book.Book, error)
}

// ViewBuilder produces the default (non-search) view.
type ViewBuilder interface {
	BuildDefaultView() []book.Book
}

// Snapshot is a point-in-time copy of the controller state for rendering.
type Snapshot struct {
	State LoadingState
	Query string
	Books []book.Book
	Admin bool
	Err   error
}

// EmptyMessage returns the placeholder for an empty list, or "".
func (s Snapshot) EmptyMessage() string {
	if len(s.Books) > 0 {
		return ""
	}
	return EmptyMessage(s.State)
}

// Controller owns the visible catalog. All methods are safe for concurrent
// use; the lock is never held across a suggestion request or the purchase delay.
type Controller struct {
	store     store.PersistentStore
	views     ViewBuilder
	suggester Suggester

	opener        navigate.Opener
	nativeSharer  navigate.Sharer
	clipboard     navigate.Sharer
	purchaseDelay time.Duration
	newID         func() string

	mu      sync.Mutex
	state   LoadingState
	query   string
	books   []book.Book
	custom  []book.Book
	read    book.ReadSet
	admin   bool
	seq     uint64
	lastErr error
}

// Option is a functional option for configuring the Controller.
type Option func(*Controller)

// WithOpener sets where purchase links are opened.
func WithOpener(o navigate.Opener) Option {
	return func(c *Controller) {
		c.opener = o
	}
}

// WithNativeSharer sets a preferred share target tried before the clipboard.
func WithNativeSharer(s navigate.Sharer) Option {
	return func(c *Controller) {
		c.nativeSharer = s
	}
}

// WithClipboardSharer replaces the clipboard share target.
func WithClipboardSharer(s navigate.Sharer) Option {
	return func(c *Controller) {
		c.clipboard = s
	}
}

// WithPurchaseDelay sets the pause before a purchase link is opened.
func WithPurchaseDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d >= 0 {
			c.purchaseDelay = d
		}
	}
}

// WithIDGenerator replaces the custom book ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

func newCustomID() string {
	return "custom-" + uuid.NewString()
}

// New loads persisted state and starts Idle on the default view.
func New(ps store.PersistentStore, views ViewBuilder, suggester Suggester, opts ...Option) *Controller {
	c := &Controller{
		store:         ps,
		views:         views,
		suggester:     suggester,
		opener:        navigate.SystemOpener{},
		clipboard:     navigate.ClipboardSharer{},
		purchaseDelay: DefaultPurchaseDelay,
		newID:         newCustomID,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.custom = ps.LoadCustomBooks()
	c.read = ps.LoadReadIDs()
	c.books = views.BuildDefaultView()
	c.state = Idle

	slog.Debug("Controller ready", "custom_books", len(c.custom), "read", len(c.read), "visible", len(c.books))
	return c
}

// Search replaces the visible list with suggestions for query. A blank query
// is ignored. If another search or a reset happens while this one is in
// flight, its result is dropped.
func (c *Controller) Search(ctx context.Context, query string) error {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil
	}

	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.state = Loading
	c.query = q
	c.lastErr = nil
	c.mu.Unlock()

	slog.Info("Searching", "query", q)
	books, err := c.suggester.FetchSuggestions(ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.seq {
		slog.Debug("Dropping stale search result", "query", q, "seq", seq, "latest", c.seq)
		return nil
	}

	if err != nil {
		c.books = []book.Book{}
		return c.fail("search", err)
	}

	c.state = Success
	c.books = book.Clone(books)
	slog.Info("Search finished", "query", q, "count", len(c.books))
	return nil
}

// SearchCategory searches the fixed query behind a category.
func (c *Controller) SearchCategory(ctx context.Context, category Category) error {
	q := category.Query()
	if q == "" {
		return ErrUnknownCategory
	}
	return c.Search(ctx, q)
}

// Retry searches the generic best-seller query, typically from Error.
func (c *Controller) Retry(ctx context.Context) error {
	return c.Search(ctx, RetryQuery)
}

// Reset returns to Idle on a freshly built default view.
func (c *Controller) Reset() {
	books := c.views.BuildDefaultView()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.state = Idle
	c.query = ""
	c.lastErr = nil
	c.books = books
}

// Draft is user input for a new custom book. Blank fields get defaults.
type Draft struct {
	Title       string
	Author      string
	Genre       string
	Description string
	CoverTheme  string
	PurchaseURL string
	Rating      float64
}

func (d Draft) build(id string) book.Book {
	seed := d.CoverTheme
	if strings.TrimSpace(seed) == "" {
		seed = d.Title
	}

	return book.Book{
		ID:          id,
		Title:       orDefault(d.Title, "Untitled Book"),
		Author:      orDefault(d.Author, "Unknown Author"),
		Genre:       orDefault(d.Genre, "General"),
		Description: orDefault(d.Description, "No description provided."),
		CoverURL:    book.CoverURLFor(seed),
		Rating:      d.Rating,
		PurchaseURL: strings.TrimSpace(d.PurchaseURL),
	}
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// AddBook creates a custom book, persists it ahead of the existing custom
// books and prepends it to whatever list is visible. A successful add clears
// an earlier Error so the new book is shown.
func (c *Controller) AddBook(d Draft) (book.Book, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.admin {
		return book.Book{}, ErrAdminLocked
	}

	b := d.build(c.newID())
	custom := make([]book.Book, 0, len(c.custom)+1)
	custom = append(custom, b)
	custom = append(custom, c.custom...)

	if err := c.store.SaveCustomBooks(custom); err != nil {
		return book.Book{}, c.fail("add book", err)
	}

	c.custom = custom
	c.books = append([]book.Book{b}, c.books...)
	if c.state == Error {
		// the list is showable again
		c.lastErr = nil
		c.state = Idle
		if c.query != "" {
			c.state = Success
		}
	}
	slog.Info("Book added", "id", b.ID, "title", b.Title)
	return b, nil
}

// ToggleRead flips the read marker for id, persists the whole set and
// returns the new membership.
func (c *Controller) ToggleRead(id string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.read.Clone()
	read := next.Toggle(id)
	if err := c.store.SaveReadIDs(next); err != nil {
		return c.read.Has(id), c.fail("toggle read", err)
	}

	c.read = next
	slog.Debug("Read marker toggled", "id", id, "read", read)
	return read, nil
}

// IsRead reports whether id is marked read.
func (c *Controller) IsRead(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read.Has(id)
}

// ReadIDs returns the read markers sorted.
func (c *Controller) ReadIDs() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.read.IDs()
}

// Purchase opens the book's purchase target after the acknowledgment delay
// and returns the URL. Canceling ctx during the delay abandons the navigation.
func (c *Controller) Purchase(ctx context.Context, b book.Book) (string, error) {
	target := b.PurchaseTarget()

	if c.purchaseDelay > 0 {
		timer := time.NewTimer(c.purchaseDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return target, ctx.Err()
		case <-timer.C:
		}
	}

	if err := c.opener.Open(ctx, target); err != nil {
		return target, lerrors.NewControllerError("purchase", err)
	}
	slog.Info("Purchase link opened", "id", b.ID, "url", target)
	return target, nil
}

// Share hands the book to the native share target when one is configured,
// otherwise copies its share text to the clipboard.
func (c *Controller) Share(ctx context.Context, b book.Book) (navigate.ShareResult, error) {
	if c.nativeSharer != nil {
		result, err := c.nativeSharer.Share(ctx, b)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, navigate.ErrShareUnavailable) {
			slog.Warn("Native share failed, falling back to clipboard", "id", b.ID, "error", err)
		}
	}

	result, err := c.clipboard.Share(ctx, b)
	if err != nil {
		return navigate.ShareResult{Text: b.ShareText()}, lerrors.NewControllerError("share", err)
	}
	return result, nil
}

// GrantAdmin unlocks the add-book workflow for the rest of the session.
func (c *Controller) GrantAdmin(password string) error {
	if password != adminPassword {
		slog.Warn("Admin access rejected")
		return ErrAdminRejected
	}

	c.mu.Lock()
	c.admin = true
	c.mu.Unlock()
	return nil
}

// IsAdmin reports whether the add-book workflow is unlocked.
func (c *Controller) IsAdmin() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.admin
}

// Snapshot copies the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		State: c.state,
		Query: c.query,
		Books: book.Clone(c.books),
		Admin: c.admin,
		Err:   c.lastErr,
	}
}

// FindBook looks id up in the visible list.
func (c *Controller) FindBook(id string) (book.Book, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, b := range c.books {
		if b.ID == id {
			return b, true
		}
	}
	return book.Book{}, false
}

// fail moves to Error and wraps err. Callers hold c.mu.
func (c *Controller) fail(op string, err error) error {
	ctrlErr := lerrors.NewControllerError(op, err)
	c.state = Error
	c.lastErr = ctrlErr
	slog.Error("Catalog operation failed", "op", op, "error", err)
	return ctrlErr
}
