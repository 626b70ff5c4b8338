package obsidian

import (
	"fmt"
	"strings"

	"github.com/lepinkainen/lumina/internal/book"
)

const (
	readTag   = "lumina/read"
	unreadTag = "lumina/unread"
)

// BookNote builds a new note for b. coverPath, when set, replaces the remote
// cover in the body with a local attachment.
func BookNote(b book.Book, read bool, coverPath string) *Note {
	fm := NewFrontmatter()
	ApplyBook(fm, b, read, coverPath)
	return &Note{Frontmatter: fm, Body: bookBody(b, coverPath)}
}

// ApplyBook writes the fields lumina manages into fm. Unmanaged fields and
// user tags are left alone.
func ApplyBook(fm *Frontmatter, b book.Book, read bool, coverPath string) {
	fm.Set("title", b.Title)
	fm.Set("author", b.Author)
	fm.Set("genre", b.Genre)
	fm.Set("rating", b.Rating)
	fm.Set("lumina_id", b.ID)
	fm.Set("read", read)
	fm.Set("purchase_url", b.PurchaseTarget())

	cover := b.CoverURL
	if coverPath != "" {
		cover = coverPath
	}
	if cover != "" {
		fm.Set("cover", cover)
	}

	tags := NewTagSet(fm.GetStringArray("tags")...)
	tags.Add("book")
	if b.Genre != "" {
		tags.Add("genre/" + b.Genre)
	}
	if read {
		tags.Remove(unreadTag)
		tags.Add(readTag)
	} else {
		tags.Remove(readTag)
		tags.Add(unreadTag)
	}
	fm.Set("tags", tags.Sorted())
}

func bookBody(b book.Book, coverPath string) string {
	var sb strings.Builder

	cover := b.CoverURL
	if coverPath != "" {
		cover = coverPath
	}
	if cover != "" {
		fmt.Fprintf(&sb, "![](%s)\n\n", cover)
	}

	fmt.Fprintf(&sb, "# %s\n\n", b.Title)
	fmt.Fprintf(&sb, "by %s\n\n", b.Author)
	if b.Description != "" {
		fmt.Fprintf(&sb, "> %s\n\n", b.Description)
	}
	fmt.Fprintf(&sb, "[Buy](%s)\n", b.PurchaseTarget())
	return sb.String()
}
