// Package navigate opens URLs outside the process and shares books.
package navigate

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"runtime"
	"strings"
)

// Engine names accepted by NewOpener.
const (
	EngineSystem = "system"
	EngineChrome = "chrome"
	EnginePrint  = "print"
)

// Opener opens a URL in a new browsing context.
type Opener interface {
	Open(ctx context.Context, url string) error
}

// NewOpener returns the Opener for a configured engine name. Chrome openers
// own a browser process and must be closed by the caller.
func NewOpener(ctx context.Context, engine string, out io.Writer) (Opener, error) {
	switch strings.ToLower(strings.TrimSpace(engine)) {
	case "", EngineSystem:
		return SystemOpener{}, nil
	case EngineChrome:
		return NewChromeOpener(ctx), nil
	case EnginePrint:
		return WriterOpener{W: out}, nil
	default:
		return nil, fmt.Errorf("unknown browser engine %q (want %s, %s or %s)", engine, EngineSystem, EngineChrome, EnginePrint)
	}
}

// startCommand launches a detached process and does not wait for it.
var startCommand = func(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// SystemOpener hands the URL to the desktop's default handler.
type SystemOpener struct{}

// Open launches the platform open command for url.
func (SystemOpener) Open(_ context.Context, url string) error {
	name, args := openCommand(runtime.GOOS, url)
	slog.Debug("Opening URL", "url", url, "command", name)
	if err := startCommand(name, args...); err != nil {
		return fmt.Errorf("failed to open %s: %w", url, err)
	}
	return nil
}

func openCommand(goos, url string) (string, []string) {
	switch goos {
	case "darwin":
		return "open", []string{url}
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}
	default:
		return "xdg-open", []string{url}
	}
}

// WriterOpener prints the URL instead of opening it.
type WriterOpener struct {
	W io.Writer
}

// Open writes url followed by a newline.
func (o WriterOpener) Open(_ context.Context, url string) error {
	if o.W == nil {
		return nil
	}
	_, err := fmt.Fprintln(o.W, url)
	return err
}
