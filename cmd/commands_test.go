package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/catalog"
	"github.com/lepinkainen/lumina/internal/controller"
	"github.com/lepinkainen/lumina/internal/navigate"
	"github.com/lepinkainen/lumina/internal/store"
	"github.com/lepinkainen/lumina/internal/suggest"
	"github.com/lepinkainen/lumina/internal/tui"
)

type stubSharer struct {
	err error
}

func (s stubSharer) Share(_ context.Context, b book.Book) (navigate.ShareResult, error) {
	if s.err != nil {
		return navigate.ShareResult{}, s.err
	}
	return navigate.ShareResult{Method: navigate.ShareClipboard, Text: b.ShareText()}, nil
}

// useMemoryApp makes every command share one in-memory app built with opts.
func useMemoryApp(t *testing.T, opts ...controller.Option) *app {
	t.Helper()

	ps := store.NewMemoryStore()
	client := suggest.NewClient(nil)
	a := &app{
		ctrl:   controller.New(ps, catalog.NewMerger(ps), client, opts...),
		client: client,
	}

	orig := openApp
	openApp = func(context.Context) (*app, error) { return a, nil }
	t.Cleanup(func() { openApp = orig })
	return a
}

func TestListCommand(t *testing.T) {
	_, out := setupCmd(t)

	assert.NoError(t, runCLI(t, "list"))

	assert.Contains(t, out.String(), "[ ] Atomic Habits by James Clear (Self-Help, 5.0) [curated-001]")
	assert.Equal(t, len(book.Curated()), strings.Count(out.String(), "\n"))
}

func TestReadCommandPersistsAcrossRuns(t *testing.T) {
	_, out := setupCmd(t)

	assert.NoError(t, runCLI(t, "read", "curated-001"))
	assert.Equal(t, "curated-001 marked as read\n", out.String())

	out.Reset()
	assert.NoError(t, runCLI(t, "list"))
	assert.Contains(t, out.String(), "[x] Atomic Habits")

	out.Reset()
	assert.NoError(t, runCLI(t, "read", "curated-001"))
	assert.Equal(t, "curated-001 marked as unread\n", out.String())
}

func TestReadCommandRejectsUnknownID(t *testing.T) {
	setupCmd(t)
	a := useMemoryApp(t)

	err := runCLI(t, "read", "curated-01")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"curated-01" not found`)
	assert.Equal(t, 0, len(a.ctrl.ReadIDs()))
}

func TestAddCommand(t *testing.T) {
	_, out := setupCmd(t)

	assert.NoError(t, runCLI(t, "add", "--password", "admin",
		"-t", "Dune", "-a", "Frank Herbert", "-g", "Sci-Fi", "--rating", "4.8"))
	assert.Contains(t, out.String(), `Added "Dune" [custom-`)

	out.Reset()
	assert.NoError(t, runCLI(t, "list"))
	first, _, _ := strings.Cut(out.String(), "\n")
	assert.Contains(t, first, "Dune by Frank Herbert (Sci-Fi, 4.8) [custom-")
}

func TestAddCommandRejectsWrongPassword(t *testing.T) {
	_, out := setupCmd(t)

	err := runCLI(t, "add", "--password", "hunter2", "-t", "Dune")
	assert.IsError(t, err, controller.ErrAdminRejected)

	assert.NoError(t, runCLI(t, "list"))
	assert.NotContains(t, out.String(), "Dune")
}

func TestAddCommandRejectsRatingOutOfRange(t *testing.T) {
	setupCmd(t)

	err := runCLI(t, "add", "--password", "admin", "-t", "Dune", "--rating", "7")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "between 0 and 5")
}

func TestShowCommand(t *testing.T) {
	_, out := setupCmd(t)

	assert.NoError(t, runCLI(t, "show", "curated-001"))

	assert.Contains(t, out.String(), "Atomic Habits\nby James Clear\n")
	assert.Contains(t, out.String(), "not read yet")
	assert.Contains(t, out.String(), "Buy:   https://a.co/d/933dK6L")
}

func TestShowCommandUnknownID(t *testing.T) {
	setupCmd(t)

	err := runCLI(t, "show", "missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), `"missing" not found`)
}

func TestBuyCommandPrint(t *testing.T) {
	_, out := setupCmd(t)
	useMemoryApp(t, controller.WithOpener(navigate.WriterOpener{W: out}), controller.WithPurchaseDelay(0))

	assert.NoError(t, runCLI(t, "buy", "--print", "curated-001"))
	assert.Equal(t, "https://a.co/d/933dK6L\n", out.String())
}

func TestShareCommand(t *testing.T) {
	_, out := setupCmd(t)
	useMemoryApp(t, controller.WithClipboardSharer(stubSharer{}))

	assert.NoError(t, runCLI(t, "share", "curated-001"))
	assert.Equal(t, "Copied to clipboard:\nAtomic Habits by James Clear\nhttps://a.co/d/933dK6L\n", out.String())
}

func TestShareCommandPrintsTextWhenNoTarget(t *testing.T) {
	_, out := setupCmd(t)
	useMemoryApp(t, controller.WithClipboardSharer(stubSharer{err: navigate.ErrShareUnavailable}))

	assert.NoError(t, runCLI(t, "share", "curated-001"))
	assert.Equal(t, "Atomic Habits by James Clear\nhttps://a.co/d/933dK6L\n", out.String())
}

func TestExportCommand(t *testing.T) {
	env, out := setupCmd(t)
	a := useMemoryApp(t)
	_, err := a.ctrl.ToggleRead("curated-001")
	assert.NoError(t, err)

	assert.NoError(t, runCLI(t, "export", "-o", env.Path("vault"), "--json"))

	assert.Contains(t, out.String(), "Exported")
	assert.True(t, env.FileExists("vault/Atomic Habits.md"))
	env.AssertFileContains("vault/Atomic Habits.md", "lumina/read")

	var exported []book.Book
	assert.NoError(t, json.Unmarshal([]byte(env.ReadFileString("vault/books.json")), &exported))
	assert.Equal(t, len(book.Curated()), len(exported))
}

func TestInitCommand(t *testing.T) {
	env, out := setupCmd(t)
	path := env.Path("config.yaml")

	assert.NoError(t, runCLI(t, "init", "--path", path))
	assert.Equal(t, "Wrote "+path+"\n", out.String())
	env.AssertFileContains("config.yaml", "purchasedelay: 300ms")

	err := runCLI(t, "init", "--path", path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestBrowseCommandHandsControllerToBrowser(t *testing.T) {
	setupCmd(t)
	a := useMemoryApp(t)

	var got tui.Catalog
	orig := browse
	browse = func(_ context.Context, c tui.Catalog) error {
		got = c
		return nil
	}
	t.Cleanup(func() { browse = orig })

	assert.NoError(t, runCLI(t))
	assert.True(t, got == tui.Catalog(a.ctrl))
}

func TestWithAppReportsOpenFailure(t *testing.T) {
	setupCmd(t)

	boom := errors.New("disk on fire")
	orig := openApp
	openApp = func(context.Context) (*app, error) { return nil, boom }
	t.Cleanup(func() { openApp = orig })

	err := runCLI(t, "list")
	assert.IsError(t, err, boom)
	assert.Contains(t, err.Error(), "failed to open catalog")
}
