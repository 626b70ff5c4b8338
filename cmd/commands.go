package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/lepinkainen/lumina/internal/book"
	"github.com/lepinkainen/lumina/internal/config"
	"github.com/lepinkainen/lumina/internal/controller"
	"github.com/lepinkainen/lumina/internal/covers"
	"github.com/lepinkainen/lumina/internal/fileutil"
	"github.com/lepinkainen/lumina/internal/navigate"
	"github.com/lepinkainen/lumina/internal/obsidian"
	"github.com/lepinkainen/lumina/internal/tui"
)

var browse = tui.Browse

// BrowseCmd represents the interactive browser
type BrowseCmd struct{}

func (b *BrowseCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		return browse(ctx, a.ctrl)
	})
}

// ListCmd represents the list command
type ListCmd struct{}

func (l *ListCmd) Run() error {
	return withApp(func(_ context.Context, a *app) error {
		snap := a.ctrl.Snapshot()
		if len(snap.Books) == 0 {
			_, _ = fmt.Fprintln(stdout, snap.EmptyMessage())
			return nil
		}
		printBooks(stdout, snap.Books, a.ctrl.IsRead)
		return nil
	})
}

// categoryNames maps the --category values to controller categories.
var categoryNames = map[string]controller.Category{
	"tech":       controller.CategoryTech,
	"mystery":    controller.CategoryMystery,
	"psychology": controller.CategoryPsychology,
	"sci-fi":     controller.CategorySciFi,
}

// SearchCmd represents the search command
type SearchCmd struct {
	Query    []string `arg:"" optional:"" help:"Free-text query (title, author, topic or mood)"`
	Category string   `short:"c" help:"Quick category instead of a query: tech, mystery, psychology or sci-fi"`
	Strict   bool     `help:"Fail instead of showing fallback books when generation fails"`
}

func (s *SearchCmd) query() (string, error) {
	if s.Category != "" {
		category, ok := categoryNames[strings.ToLower(s.Category)]
		if !ok {
			return "", fmt.Errorf("%w: %s", controller.ErrUnknownCategory, s.Category)
		}
		return category.Query(), nil
	}
	q := strings.TrimSpace(strings.Join(s.Query, " "))
	if q == "" {
		return "", errors.New("a query or --category is required")
	}
	return q, nil
}

func (s *SearchCmd) Run() error {
	query, err := s.query()
	if err != nil {
		return err
	}

	return withApp(func(ctx context.Context, a *app) error {
		if s.Strict {
			result := a.client.Fetch(ctx, query)
			if !result.OK() {
				return fmt.Errorf("no suggestions for %q: %w", query, result.Err)
			}
			printBooks(stdout, result.Books, a.ctrl.IsRead)
			return nil
		}

		if err := a.ctrl.Search(ctx, query); err != nil {
			return err
		}
		snap := a.ctrl.Snapshot()
		if len(snap.Books) == 0 {
			_, _ = fmt.Fprintln(stdout, snap.EmptyMessage())
			return nil
		}
		printBooks(stdout, snap.Books, a.ctrl.IsRead)
		return nil
	})
}

// ShowCmd represents the show command
type ShowCmd struct {
	ID string `arg:"" help:"Book ID"`
}

func (s *ShowCmd) Run() error {
	return withApp(func(_ context.Context, a *app) error {
		b, err := a.findBook(s.ID)
		if err != nil {
			return err
		}
		printBook(stdout, b, a.ctrl.IsRead(b.ID))
		return nil
	})
}

// AddCmd represents the add command
type AddCmd struct {
	Password    string  `env:"LUMINA_ADMIN_PASSWORD" required:"" help:"Admin password"`
	Title       string  `short:"t" help:"Title"`
	Author      string  `short:"a" help:"Author"`
	Genre       string  `short:"g" help:"Genre"`
	Description string  `short:"d" help:"Short description"`
	CoverTheme  string  `help:"Keyword for the placeholder cover (defaults to the title)"`
	PurchaseURL string  `help:"Purchase link (defaults to a store search)"`
	Rating      float64 `default:"4.5" help:"Rating from 0 to 5"`
}

func (c *AddCmd) Run() error {
	if c.Rating < 0 || c.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5, got %.1f", c.Rating)
	}

	return withApp(func(_ context.Context, a *app) error {
		if err := a.ctrl.GrantAdmin(c.Password); err != nil {
			return err
		}

		b, err := a.ctrl.AddBook(controller.Draft{
			Title:       c.Title,
			Author:      c.Author,
			Genre:       c.Genre,
			Description: c.Description,
			CoverTheme:  c.CoverTheme,
			PurchaseURL: c.PurchaseURL,
			Rating:      c.Rating,
		})
		if err != nil {
			return err
		}

		_, _ = fmt.Fprintf(stdout, "Added %q [%s]\n", b.Title, b.ID)
		return nil
	})
}

// ReadCmd represents the read command
type ReadCmd struct {
	ID string `arg:"" help:"Book ID"`
}

func (r *ReadCmd) Run() error {
	return withApp(func(_ context.Context, a *app) error {
		b, err := a.findBook(r.ID)
		if err != nil {
			return err
		}

		read, err := a.ctrl.ToggleRead(b.ID)
		if err != nil {
			return err
		}

		state := "unread"
		if read {
			state = "read"
		}
		_, _ = fmt.Fprintf(stdout, "%s marked as %s\n", r.ID, state)
		return nil
	})
}

// BuyCmd represents the buy command
type BuyCmd struct {
	ID    string `arg:"" help:"Book ID"`
	Print bool   `help:"Print the purchase URL instead of opening it"`
}

func (b *BuyCmd) Run() error {
	if b.Print {
		config.BrowserEngine = navigate.EnginePrint
		config.PurchaseDelay = 0
	}

	return withApp(func(ctx context.Context, a *app) error {
		target, err := a.findBook(b.ID)
		if err != nil {
			return err
		}
		_, err = a.ctrl.Purchase(ctx, target)
		return err
	})
}

// ShareCmd represents the share command
type ShareCmd struct {
	ID string `arg:"" help:"Book ID"`
}

func (s *ShareCmd) Run() error {
	return withApp(func(ctx context.Context, a *app) error {
		b, err := a.findBook(s.ID)
		if err != nil {
			return err
		}

		result, err := a.ctrl.Share(ctx, b)
		if err != nil {
			// Nothing to share to: print the text so it can be copied by hand.
			_, _ = fmt.Fprintln(stdout, result.Text)
			return nil
		}
		_, _ = fmt.Fprintf(stdout, "Copied to clipboard:\n%s\n", result.Text)
		return nil
	})
}

// CoversCmd represents the covers command
type CoversCmd struct {
	Dir       string `short:"o" help:"Output directory (defaults to covers.dir in config)"`
	MaxWidth  int    `help:"Maximum cover width in pixels (defaults to covers.maxwidth in config)"`
	Overwrite bool   `help:"Re-download covers that already exist"`
}

func (c *CoversCmd) Run() error {
	dir := c.Dir
	if dir == "" {
		dir = config.CoverDir
	}
	width := c.MaxWidth
	if width == 0 {
		width = config.CoverMaxWidth
	}

	return withApp(func(ctx context.Context, a *app) error {
		d := covers.NewDownloader(dir, covers.WithMaxWidth(width), covers.WithOverwrite(c.Overwrite))
		results, err := d.DownloadAll(ctx, a.ctrl.Snapshot().Books)

		downloaded := 0
		for _, r := range results {
			if r.Downloaded {
				downloaded++
			}
		}
		_, _ = fmt.Fprintf(stdout, "%d covers in %s (%d downloaded)\n", len(results), dir, downloaded)
		return err
	})
}

// ExportCmd represents the export command
type ExportCmd struct {
	Dir       string `short:"o" help:"Output directory (defaults to export.dir in config)"`
	Overwrite bool   `help:"Rewrite existing notes instead of refreshing their frontmatter"`
	Covers    bool   `help:"Download covers into an attachments directory and link them locally"`
	JSON      bool   `help:"Also write books.json with the exported books"`
}

func (e *ExportCmd) Run() error {
	dir := e.Dir
	if dir == "" {
		dir = config.ExportDir
	}

	return withApp(func(ctx context.Context, a *app) error {
		books := a.ctrl.Snapshot().Books
		read := a.ctrl.ReadIDs()

		coverPaths := map[string]string{}
		if e.Covers {
			attachments := filepath.Join(dir, "attachments")
			d := covers.NewDownloader(attachments, covers.WithMaxWidth(config.CoverMaxWidth))
			results, err := d.DownloadAll(ctx, books)
			if err != nil {
				slog.Warn("Some covers could not be downloaded", "error", err)
			}
			for _, r := range results {
				coverPaths[r.BookID] = filepath.ToSlash(filepath.Join("attachments", filepath.Base(r.LocalPath)))
			}
		}

		summary, err := obsidian.ExportBooks(books, book.NewReadSet(read...), obsidian.ExportOptions{
			Dir:        dir,
			Overwrite:  e.Overwrite,
			CoverPaths: coverPaths,
		})
		if err != nil {
			return err
		}

		if e.JSON {
			if _, err := fileutil.WriteJSONFile(books, filepath.Join(dir, "books.json"), true); err != nil {
				return err
			}
		}

		_, _ = fmt.Fprintf(stdout, "Exported %d books to %s (%d new, %d updated, %d unchanged)\n",
			len(books), dir, summary.Written, summary.Updated, summary.Unchanged)
		return nil
	})
}

// InitCmd represents the init command
type InitCmd struct {
	Path string `default:"config.yaml" help:"Where to write the config file"`
}

func (i *InitCmd) Run() error {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("GeminiAPIKey", "")

	if err := v.SafeWriteConfigAs(i.Path); err != nil {
		var exists viper.ConfigFileAlreadyExistsError
		if errors.As(err, &exists) {
			return fmt.Errorf("config file %s already exists", i.Path)
		}
		return fmt.Errorf("failed to write config file: %w", err)
	}

	_, _ = fmt.Fprintf(stdout, "Wrote %s\n", i.Path)
	return nil
}
