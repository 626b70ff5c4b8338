package cmd

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"

	"github.com/lepinkainen/lumina/internal/config"
)

// CLI represents the complete command structure for the lumina application
type CLI struct {
	// Global flags
	StoreFile string `help:"Path to the SQLite store (defaults to store.file in config)"`
	Ephemeral bool   `help:"Keep custom books and read markers in memory for this run only"`
	Model     string `help:"Generation model for suggestions (defaults to gemini.model in config)"`
	Browser   string `help:"How purchase links are opened: system, chrome or print"`
	Debug     bool   `help:"Enable debug logging"`

	Browse BrowseCmd `cmd:"" default:"1" help:"Browse the catalog interactively (default)"`
	List   ListCmd   `cmd:"" help:"List your collection: custom books, then the curated library"`
	Search SearchCmd `cmd:"" help:"Get book suggestions for a query or category"`
	Show   ShowCmd   `cmd:"" help:"Show the details of a book in your collection"`
	Add    AddCmd    `cmd:"" help:"Add a custom book (requires the admin password)"`
	Read   ReadCmd   `cmd:"" help:"Toggle the read marker of a book"`
	Buy    BuyCmd    `cmd:"" help:"Open the purchase page of a book"`
	Share  ShareCmd  `cmd:"" help:"Copy a book's title, author and link to the clipboard"`
	Covers CoversCmd `cmd:"" help:"Download and resize the covers of your collection"`
	Export ExportCmd `cmd:"" help:"Export your collection as markdown notes"`
	Init   InitCmd   `cmd:"" help:"Write a default config file"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging(slog.LevelInfo)
	initConfig()

	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("lumina"),
		kong.Description("Discover, track and buy books from the terminal."),
		kong.UsageOnError(),
	)

	if cli.Debug {
		initLogging(slog.LevelDebug)
	}
	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

// envFiles are loaded in order; a variable set by an earlier file or by the
// real environment is never overridden.
var envFiles = []string{".env.local", ".env"}

func loadEnvFiles() {
	for _, name := range envFiles {
		if err := godotenv.Load(name); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				slog.Warn("Failed to load env file", "file", name, "error", err)
			}
			continue
		}
		slog.Debug("Loaded env file", "file", name)
	}
}

func initConfig() {
	loadEnvFiles()
	viper.AutomaticEnv()
	// GEMINI_API_KEY wins over the generic API_KEY
	if err := viper.BindEnv("GeminiAPIKey", "GEMINI_API_KEY", "API_KEY"); err != nil {
		slog.Error("Failed to bind environment variable", "error", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults (run 'lumina init' to write one)")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetStoreFile(cli.StoreFile)
	if cli.Ephemeral {
		config.SetEphemeral(true)
	}
	if cli.Model != "" {
		config.Model = cli.Model
	}
	if cli.Browser != "" {
		config.BrowserEngine = cli.Browser
	}
}

func initLogging(level slog.Level) {
	// Logs go to stderr so command output stays pipeable
	handler := humanlog.NewHandler(os.Stderr, &humanlog.Options{
		Level: level,
	})

	slog.SetDefault(slog.New(handler))
}
