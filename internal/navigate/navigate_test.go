package navigate

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lepinkainen/lumina/internal/book"
)

func TestOpenCommand(t *testing.T) {
	url := "https://www.amazon.com/s?k=Dune"

	name, args := openCommand("linux", url)
	assert.Equal(t, "xdg-open", name)
	assert.Equal(t, []string{url}, args)

	name, args = openCommand("darwin", url)
	assert.Equal(t, "open", name)
	assert.Equal(t, []string{url}, args)

	name, args = openCommand("windows", url)
	assert.Equal(t, "rundll32", name)
	assert.Equal(t, []string{"url.dll,FileProtocolHandler", url}, args)
}

func TestSystemOpener_Open(t *testing.T) {
	orig := startCommand
	t.Cleanup(func() { startCommand = orig })

	var gotArgs []string
	startCommand = func(name string, args ...string) error {
		gotArgs = args
		return nil
	}

	require.NoError(t, SystemOpener{}.Open(context.Background(), "https://example.com/book"))
	assert.Contains(t, gotArgs, "https://example.com/book")

	startCommand = func(string, ...string) error { return errors.New("not found") }
	err := SystemOpener{}.Open(context.Background(), "https://example.com/book")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open https://example.com/book")
}

func TestWriterOpener(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriterOpener{W: &buf}.Open(context.Background(), "https://example.com"))
	assert.Equal(t, "https://example.com\n", buf.String())

	require.NoError(t, WriterOpener{}.Open(context.Background(), "https://example.com"))
}

func TestNewOpener(t *testing.T) {
	ctx := context.Background()

	o, err := NewOpener(ctx, "", nil)
	require.NoError(t, err)
	assert.IsType(t, SystemOpener{}, o)

	o, err = NewOpener(ctx, "Chrome", nil)
	require.NoError(t, err)
	assert.IsType(t, &ChromeOpener{}, o)

	o, err = NewOpener(ctx, "print", nil)
	require.NoError(t, err)
	assert.IsType(t, WriterOpener{}, o)

	_, err = NewOpener(ctx, "lynx", nil)
	require.Error(t, err)
}

func stubChromedp(t *testing.T) *[]int {
	t.Helper()

	origAlloc, origCtx, origRun := chromedpExecAllocator, chromedpContext, chromedpRunner
	t.Cleanup(func() {
		chromedpExecAllocator, chromedpContext, chromedpRunner = origAlloc, origCtx, origRun
	})

	allocations := 0
	chromedpExecAllocator = func(parent context.Context, _ ...chromedp.ExecAllocatorOption) (context.Context, context.CancelFunc) {
		allocations++
		return context.WithCancel(parent)
	}
	chromedpContext = func(parent context.Context, _ ...chromedp.ContextOption) (context.Context, context.CancelFunc) {
		return context.WithCancel(parent)
	}

	runs := []int{}
	chromedpRunner = func(_ context.Context, actions ...chromedp.Action) error {
		runs = append(runs, len(actions))
		return nil
	}

	t.Cleanup(func() { assert.LessOrEqual(t, allocations, 1) })
	return &runs
}

func TestChromeOpener_ReusesBrowser(t *testing.T) {
	runs := stubChromedp(t)

	o := NewChromeOpener(context.Background(), WithHeadless(true))
	require.NoError(t, o.Open(context.Background(), "https://example.com/a"))
	require.NoError(t, o.Open(context.Background(), "https://example.com/b"))

	// one empty run to start the browser, then navigate and focus per tab
	assert.Equal(t, []int{0, 2, 2}, *runs)
	assert.Len(t, o.cancels, 4)

	require.NoError(t, o.Close())
	assert.Empty(t, o.cancels)
	assert.Nil(t, o.browserCtx)
}

func TestChromeOpener_StartFailure(t *testing.T) {
	stubChromedp(t)
	chromedpRunner = func(context.Context, ...chromedp.Action) error {
		return errors.New("no chrome binary")
	}

	o := NewChromeOpener(context.Background())
	err := o.Open(context.Background(), "https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start browser")
	assert.Nil(t, o.browserCtx)
}

func TestChromeOpener_CanceledContext(t *testing.T) {
	runs := stubChromedp(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := NewChromeOpener(context.Background())
	require.ErrorIs(t, o.Open(ctx, "https://example.com"), context.Canceled)
	assert.Empty(t, *runs)
}

func TestChromeOpener_AllocatorOptions(t *testing.T) {
	o := NewChromeOpener(context.Background())
	assert.Len(t, o.allocatorOptions(), 6)
}

func TestClipboardSharer(t *testing.T) {
	origWrite, origSupported := clipboardWriteAll, clipboardSupported
	t.Cleanup(func() { clipboardWriteAll, clipboardSupported = origWrite, origSupported })

	var copied string
	clipboardWriteAll = func(text string) error {
		copied = text
		return nil
	}
	clipboardSupported = func() bool { return true }

	b := book.Book{Title: "Neon Dreams", Author: "Sarah K. Lee"}
	result, err := ClipboardSharer{}.Share(context.Background(), b)
	require.NoError(t, err)
	assert.Equal(t, ShareClipboard, result.Method)
	assert.Equal(t, "Neon Dreams by Sarah K. Lee\nhttps://www.amazon.com/s?k=Neon%20Dreams%20Sarah%20K.%20Lee", copied)
	assert.Equal(t, copied, result.Text)

	clipboardWriteAll = func(string) error { return errors.New("xclip exited 1") }
	_, err = ClipboardSharer{}.Share(context.Background(), b)
	require.Error(t, err)

	clipboardSupported = func() bool { return false }
	_, err = ClipboardSharer{}.Share(context.Background(), b)
	require.ErrorIs(t, err, ErrShareUnavailable)
}
