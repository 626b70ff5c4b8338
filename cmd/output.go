package cmd

import (
	"fmt"
	"io"

	"github.com/lepinkainen/lumina/internal/book"
)

func printBooks(w io.Writer, books []book.Book, isRead func(string) bool) {
	for _, b := range books {
		mark := "[ ]"
		if isRead(b.ID) {
			mark = "[x]"
		}
		_, _ = fmt.Fprintf(w, "%s %s by %s (%s, %.1f) [%s]\n", mark, b.Title, b.Author, b.Genre, b.Rating, b.ID)
	}
}

func printBook(w io.Writer, b book.Book, read bool) {
	status := "not read yet"
	if read {
		status = "read"
	}
	_, _ = fmt.Fprintf(w, "%s\nby %s\n%s | %.1f/5 | %s\n\n%s\n\nID:    %s\nCover: %s\nBuy:   %s\n",
		b.Title, b.Author, b.Genre, b.Rating, status, b.Description, b.ID, b.CoverURL, b.PurchaseTarget())
}
