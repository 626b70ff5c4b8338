package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/catalog"
	"github.com/lepinkainen/lumina/internal/config"
	"github.com/lepinkainen/lumina/internal/controller"
	"github.com/lepinkainen/lumina/internal/navigate"
	"github.com/lepinkainen/lumina/internal/store"
	"github.com/lepinkainen/lumina/internal/suggest"
)

var (
	stdout io.Writer = os.Stdout

	openApp      = newApp
	newGenerator = suggest.NewGenAIGenerator
)

// app is everything a command needs, wired from the global config.
type app struct {
	ctrl    *controller.Controller
	client  *suggest.Client
	closers []io.Closer
}

func newApp(ctx context.Context) (*app, error) {
	var (
		ps      store.PersistentStore
		closers []io.Closer
	)
	if config.Ephemeral {
		slog.Debug("Using in-memory store")
		ps = store.NewMemoryStore()
	} else {
		st, backend, err := store.OpenSQLite(config.StoreFile)
		if err != nil {
			return nil, err
		}
		ps = st
		closers = append(closers, backend)
	}

	var generator suggest.Generator
	if config.GeminiAPIKey == "" {
		slog.Warn("No Gemini API key configured, searches will return fallback books")
	} else {
		gen, err := newGenerator(ctx, config.GeminiAPIKey)
		if err != nil {
			slog.Warn("Generation client unavailable, searches will return fallback books", "error", err)
		} else {
			generator = gen
		}
	}
	client := suggest.NewClient(generator, suggest.WithModel(config.Model))

	opener, err := navigate.NewOpener(ctx, config.BrowserEngine, stdout)
	if err != nil {
		return nil, errors.Join(err, closeAll(closers))
	}
	if c, ok := opener.(io.Closer); ok {
		closers = append(closers, c)
	}

	ctrl := controller.New(ps, catalog.NewMerger(ps), client,
		controller.WithOpener(opener),
		controller.WithPurchaseDelay(config.PurchaseDelay),
	)

	return &app{ctrl: ctrl, client: client, closers: closers}, nil
}

func (a *app) Close() error {
	return closeAll(a.closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// withApp opens the app for one command and always closes it.
func withApp(fn func(ctx context.Context, a *app) error) (err error) {
	ctx := context.Background()

	a, err := openApp(ctx)
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			err = errors.Join(err, closeErr)
		}
	}()

	return fn(ctx, a)
}

// findBook resolves id against the collection.
func (a *app) findBook(id string) (book.Book, error) {
	b, ok := a.ctrl.FindBook(id)
	if !ok {
		return book.Book{}, fmt.Errorf("book %q not found in your collection (see 'lumina list')", id)
	}
	return b, nil
}
