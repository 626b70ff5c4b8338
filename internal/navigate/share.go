package navigate

import (
	"context"
	"errors"
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/lepinkainen/lumina/internal/book"
)

// ErrShareUnavailable is returned by a Sharer that has no target on this system.
var ErrShareUnavailable = errors.New("share target unavailable")

// ShareMethod records how a book was shared.
type ShareMethod string

const (
	ShareNative    ShareMethod = "native"
	ShareClipboard ShareMethod = "clipboard"
)

// ShareResult describes a completed share.
type ShareResult struct {
	Method ShareMethod
	Text   string
}

// Sharer hands a book to some share target.
type Sharer interface {
	Share(ctx context.Context, b book.Book) (ShareResult, error)
}

var (
	clipboardWriteAll  = clipboard.WriteAll
	clipboardSupported = func() bool { return !clipboard.Unsupported }
)

// ClipboardSharer copies the share text of a book to the system clipboard.
type ClipboardSharer struct{}

// Share copies "<title> by <author>\n<url>" to the clipboard.
func (ClipboardSharer) Share(_ context.Context, b book.Book) (ShareResult, error) {
	if !clipboardSupported() {
		return ShareResult{}, ErrShareUnavailable
	}

	text := b.ShareText()
	if err := clipboardWriteAll(text); err != nil {
		return ShareResult{}, fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return ShareResult{Method: ShareClipboard, Text: text}, nil
}
