package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/lumina/internal/controller"
)

// defaultRating pre-fills the rating field of a new book.
const defaultRating = "4.5"

const (
	fieldTitle = iota
	fieldAuthor
	fieldGenre
	fieldDescription
	fieldCoverTheme
	fieldPurchaseURL
	fieldRating
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle:       "Title",
	fieldAuthor:      "Author",
	fieldGenre:       "Genre",
	fieldDescription: "Description",
	fieldCoverTheme:  "Cover theme",
	fieldPurchaseURL: "Purchase URL",
	fieldRating:      "Rating",
}

// addForm collects a controller.Draft one field at a time.
type addForm struct {
	inputs [fieldCount]textinput.Model
	focus  int
}

func newAddForm() addForm {
	var f addForm
	for i := range f.inputs {
		input := textinput.New()
		input.Prompt = ""
		input.CharLimit = 256
		input.Width = 48
		f.inputs[i] = input
	}
	f.inputs[fieldCoverTheme].Placeholder = "e.g. mountain, space, romance"
	f.inputs[fieldPurchaseURL].Placeholder = "optional"
	f.inputs[fieldRating].SetValue(defaultRating)
	return f
}

// open resets the form and focuses the first field.
func (f *addForm) open() tea.Cmd {
	*f = newAddForm()
	return f.inputs[fieldTitle].Focus()
}

func (f *addForm) move(delta int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.inputs[f.focus].Focus()
}

func (f *addForm) last() bool {
	return f.focus == fieldCount-1
}

func (f *addForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f *addForm) draft() (controller.Draft, error) {
	rating := 0.0
	if raw := strings.TrimSpace(f.inputs[fieldRating].Value()); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 5 {
			return controller.Draft{}, fmt.Errorf("rating must be a number between 0 and 5")
		}
		rating = parsed
	}

	return controller.Draft{
		Title:       f.inputs[fieldTitle].Value(),
		Author:      f.inputs[fieldAuthor].Value(),
		Genre:       f.inputs[fieldGenre].Value(),
		Description: f.inputs[fieldDescription].Value(),
		CoverTheme:  f.inputs[fieldCoverTheme].Value(),
		PurchaseURL: f.inputs[fieldPurchaseURL].Value(),
		Rating:      rating,
	}, nil
}

func (f *addForm) view() string {
	rows := make([]string, 0, fieldCount+1)
	rows = append(rows, headerStyle.Render("Add a book"))
	for i, input := range f.inputs {
		label := labelStyle.Render(fmt.Sprintf("%-13s", fieldLabels[i]))
		if i == f.focus {
			label = focusedLabelStyle.Render(fmt.Sprintf("%-13s", fieldLabels[i]))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Left, label, input.View()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
