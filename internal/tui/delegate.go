package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/lumina/internal/book"
)

type bookItem struct {
	book.Book
	read bool
}

func (i bookItem) FilterValue() string {
	return i.Book.Title + " " + i.Author
}

type itemStyles struct {
	normal      lipgloss.Style
	selected    lipgloss.Style
	titleStyle  lipgloss.Style
	readStyle   lipgloss.Style
	authorStyle lipgloss.Style
	metaStyle   lipgloss.Style
	descStyle   lipgloss.Style
}

func newItemStyles() itemStyles {
	card := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("59")).
		PaddingLeft(1).
		MarginBottom(1).
		Foreground(lipgloss.Color("251"))

	// the selected card gets an amber spine
	highlighted := card.Copy().
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(lipgloss.Color("172")).
		Foreground(lipgloss.Color("230"))

	return itemStyles{
		normal:   card,
		selected: highlighted,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("223")),
		readStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("71")),
		authorStyle: lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("145")),
		metaStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("136")),
		descStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("248")),
	}
}

type bookDelegate struct {
	styles itemStyles
}

func newDelegate() bookDelegate {
	return bookDelegate{styles: newItemStyles()}
}

func (d bookDelegate) Height() int                         { return 5 }
func (d bookDelegate) Spacing() int                        { return 0 }
func (d bookDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d bookDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	entry, ok := item.(bookItem)
	if !ok {
		return
	}

	mark := "[ ]"
	if entry.read {
		mark = d.styles.readStyle.Render("[x]")
	}

	titleLine := mark + " " + d.styles.titleStyle.Render(truncate(entry.Book.Title, m.Width()-8))
	authorLine := d.styles.authorStyle.Render("by " + entry.Author)
	metaLine := d.styles.metaStyle.Render(formatMeta(entry.Book))
	descLine := d.styles.descStyle.Render(truncate(entry.Book.Description, m.Width()-4))

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(lipgloss.JoinVertical(lipgloss.Left, titleLine, authorLine, metaLine, descLine)))
}

func formatMeta(b book.Book) string {
	parts := []string{}
	if b.Genre != "" {
		parts = append(parts, b.Genre)
	}
	parts = append(parts, fmt.Sprintf("%.1f/5", b.Rating))
	return strings.Join(parts, " | ")
}

func truncate(value string, width int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if width <= 0 || len(runes) <= width {
		return value
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}

func clamp(defaultValue, available, minimum int) int {
	size := defaultValue
	if available > 0 && available < defaultValue {
		size = available
	}
	if size < minimum {
		size = minimum
	}
	return size
}
