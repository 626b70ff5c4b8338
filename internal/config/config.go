package config

import (
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultModel is the generation model used for suggestions.
	DefaultModel = "gemini-2.5-flash"
	// DefaultStoreFile is the SQLite file holding custom books and read markers.
	DefaultStoreFile = "./lumina.db"
	// DefaultPurchaseDelay lets the UI acknowledge a purchase before the browser opens.
	DefaultPurchaseDelay = 300 * time.Millisecond
)

// Global configuration variables
var (
	// GeminiAPIKey is the API key for the content-generation service
	GeminiAPIKey string
	// Model is the generation model name
	Model string
	// StoreFile is the path of the local SQLite store
	StoreFile string
	// Ephemeral keeps all state in memory for the current process only
	Ephemeral bool
	// BrowserEngine selects how purchase links are opened: "system", "chrome" or "print"
	BrowserEngine string
	// PurchaseDelay is the pause before a purchase link is opened
	PurchaseDelay time.Duration
	// CoverDir is where downloaded covers are written
	CoverDir string
	// CoverMaxWidth bounds the width of resized covers
	CoverMaxWidth int
	// ExportDir is where markdown notes are written
	ExportDir string
)

// SetDefaults registers the default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("gemini.model", DefaultModel)
	v.SetDefault("store.file", DefaultStoreFile)
	v.SetDefault("store.ephemeral", false)
	v.SetDefault("browser.engine", "system")
	v.SetDefault("browser.purchasedelay", DefaultPurchaseDelay.String())
	v.SetDefault("covers.dir", "./covers/")
	v.SetDefault("covers.maxwidth", 400)
	v.SetDefault("export.dir", "./markdown/")
}

// InitConfig initializes the global configuration
func InitConfig() {
	SetDefaults(viper.GetViper())

	GeminiAPIKey = viper.GetString("GeminiAPIKey")
	Model = viper.GetString("gemini.model")
	StoreFile = viper.GetString("store.file")
	Ephemeral = viper.GetBool("store.ephemeral")
	BrowserEngine = viper.GetString("browser.engine")
	PurchaseDelay = parseDelay(viper.GetString("browser.purchasedelay"))
	CoverDir = viper.GetString("covers.dir")
	CoverMaxWidth = viper.GetInt("covers.maxwidth")
	ExportDir = viper.GetString("export.dir")
}

// SetStoreFile overrides the store path from a CLI flag.
func SetStoreFile(path string) {
	if path != "" {
		StoreFile = path
	}
}

// SetEphemeral sets the Ephemeral flag
func SetEphemeral(ephemeral bool) {
	Ephemeral = ephemeral
}

func parseDelay(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return DefaultPurchaseDelay
	}
	return d
}
