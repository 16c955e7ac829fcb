package model

import (
	"strings"
	"time"
)

// Book is a catalog entry as stored in the book table.
type Book struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Author      *string   `json:"author"`
	PublishedAt *Date     `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Validate is the pre-write check run by the repository.
func (b *Book) Validate() []string {
	var v violations
	checkTitle(&v, b.Title)
	if b.Author != nil {
		checkAuthor(&v, *b.Author)
	}
	return v
}

// BookFields is the JSON payload shared by create and update. Every field
// remembers whether the client supplied it.
type BookFields struct {
	Title       Optional[string] `json:"title"`
	Author      Optional[string] `json:"author"`
	PublishedAt Optional[string] `json:"publishedAt"`
}

func (f BookFields) validate(create bool) []string {
	var v violations
	checkOptional(&v, f.Title, create, checkTitle)
	checkOptional(&v, f.Author, false, checkAuthor)
	checkOptional(&v, f.PublishedAt, false, checkPublishedAt)
	return v
}

// Merge returns b with every supplied field overwritten. Omitted fields keep
// their current value; a null author or publication date clears it. The
// fields must have passed validation.
func (f BookFields) Merge(b Book) Book {
	if f.Title.Present() {
		b.Title = strings.TrimSpace(f.Title.Value)
	}
	if f.Author.Set {
		b.Author = nonBlank(f.Author)
	}
	if f.PublishedAt.Set {
		b.PublishedAt = nil
		if raw := nonBlank(f.PublishedAt); raw != nil {
			if d, err := ParseDate(*raw); err == nil {
				b.PublishedAt = &d
			}
		}
	}
	return b
}

// CreateBookRequest is the body of a book creation. Title is mandatory.
type CreateBookRequest struct {
	BookFields
}

func (r CreateBookRequest) Validate() []string {
	return r.validate(true)
}

// NewBook builds the entity to insert.
func (r CreateBookRequest) NewBook() Book {
	return r.Merge(Book{})
}

// UpdateBookRequest is the body of a partial book update.
type UpdateBookRequest struct {
	BookFields
}

func (r UpdateBookRequest) Validate() []string {
	return r.validate(false)
}

// SearchQuery holds the unified search filters. Title takes precedence over
// author when both are given.
type SearchQuery struct {
	Title  string
	Author string
}

// BookStats is the payload of the stats endpoints.
type BookStats struct {
	TotalBooks int64  `json:"totalBooks"`
	Message    string `json:"message"`
}

func nonBlank(f Optional[string]) *string {
	if !f.Present() {
		return nil
	}
	s := strings.TrimSpace(f.Value)
	if s == "" {
		return nil
	}
	return &s
}
