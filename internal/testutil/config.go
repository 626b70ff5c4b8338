package testutil

import (
	"testing"
	"time"

	"github.com/lepinkainen/lumina/internal/config"
	"github.com/spf13/viper"
)

// ConfigState holds the state of the config package variables.
type ConfigState struct {
	GeminiAPIKey  string
	Model         string
	StoreFile     string
	Ephemeral     bool
	BrowserEngine string
	PurchaseDelay time.Duration
	CoverDir      string
	CoverMaxWidth int
	ExportDir     string
}

// SaveConfigState captures the current state of config package variables.
func SaveConfigState() ConfigState {
	return ConfigState{
		GeminiAPIKey:  config.GeminiAPIKey,
		Model:         config.Model,
		StoreFile:     config.StoreFile,
		Ephemeral:     config.Ephemeral,
		BrowserEngine: config.BrowserEngine,
		PurchaseDelay: config.PurchaseDelay,
		CoverDir:      config.CoverDir,
		CoverMaxWidth: config.CoverMaxWidth,
		ExportDir:     config.ExportDir,
	}
}

// RestoreConfigState restores the config package variables to a saved state.
func RestoreConfigState(state ConfigState) {
	config.GeminiAPIKey = state.GeminiAPIKey
	config.Model = state.Model
	config.StoreFile = state.StoreFile
	config.Ephemeral = state.Ephemeral
	config.BrowserEngine = state.BrowserEngine
	config.PurchaseDelay = state.PurchaseDelay
	config.CoverDir = state.CoverDir
	config.CoverMaxWidth = state.CoverMaxWidth
	config.ExportDir = state.ExportDir
}

// SetTestConfig points every configured path into env, disables the API key
// and the purchase delay, and restores the previous state when the test ends.
func SetTestConfig(t *testing.T, env *TestEnv) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	config.InitConfig()
	config.GeminiAPIKey = ""
	config.StoreFile = env.Path("lumina.db")
	config.PurchaseDelay = 0
	config.CoverDir = env.Path("covers")
	config.ExportDir = env.Path("markdown")

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}
