package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/repository"
)

const (
	MsgSearchTermRequired   = "El término de búsqueda es requerido"
	MsgSearchAuthorRequired = "El autor es requerido para la búsqueda"
)

// BookService handles book business logic shared by every API version.
type BookService struct {
	store BookStore
}

// NewBookService creates a new BookService.
func NewBookService(store BookStore) *BookService {
	return &BookService{store: store}
}

// List returns every book, newest first.
func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	books, err := s.store.List(ctx)
	if err != nil {
		return nil, internal("obteniendo libros", err)
	}
	return books, nil
}

// Get returns the book with the given ID.
func (s *BookService) Get(ctx context.Context, id int64) (*model.Book, error) {
	book, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, apperr.NotFound(bookEntity)
		}
		return nil, internal("obteniendo libro", err)
	}
	return book, nil
}

// Create validates req and stores the new book.
func (s *BookService) Create(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, validationError(v)
	}

	book := req.NewBook()
	if err := s.store.Create(ctx, &book); err != nil {
		return nil, internal("creando libro", err)
	}
	return &book, nil
}

// Update applies a partial update. The merge with the stored row happens
// before the write; omitted fields keep their current value.
func (s *BookService) Update(ctx context.Context, id int64, req model.UpdateBookRequest) (*model.Book, error) {
	if v := req.Validate(); len(v) > 0 {
		return nil, validationError(v)
	}

	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := req.Merge(*current)
	if err := s.store.Update(ctx, &merged); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return nil, apperr.NotFound(bookEntity)
		}
		return nil, internal("actualizando libro", err)
	}
	return &merged, nil
}

// Delete removes a book. Deleting a missing book always fails with NotFound.
func (s *BookService) Delete(ctx context.Context, id int64) error {
	ok, err := s.store.Exists(ctx, id)
	if err != nil {
		return internal("eliminando libro", err)
	}
	if !ok {
		return apperr.NotFound(bookEntity)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrBookNotFound) {
			return apperr.NotFound(bookEntity)
		}
		return internal("eliminando libro", err)
	}
	return nil
}

// SearchByTitle matches a case-insensitive substring of the title.
func (s *BookService) SearchByTitle(ctx context.Context, term string) ([]model.Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.InvalidArgument(MsgSearchTermRequired)
	}

	books, err := s.store.SearchByTitle(ctx, term)
	if err != nil {
		return nil, internal("buscando libros", err)
	}
	return books, nil
}

// SearchByAuthor matches a case-insensitive substring of the author.
func (s *BookService) SearchByAuthor(ctx context.Context, term string) ([]model.Book, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperr.InvalidArgument(MsgSearchAuthorRequired)
	}

	books, err := s.store.SearchByAuthor(ctx, term)
	if err != nil {
		return nil, internal("buscando libros por autor", err)
	}
	return books, nil
}

// Search is the unified search. With no criteria it lists every book; title
// takes precedence over author; criteria made only of blanks match nothing.
func (s *BookService) Search(ctx context.Context, q model.SearchQuery) ([]model.Book, error) {
	title := strings.TrimSpace(q.Title)
	author := strings.TrimSpace(q.Author)

	switch {
	case q.Title == "" && q.Author == "":
		return s.List(ctx)
	case title != "":
		return s.SearchByTitle(ctx, title)
	case author != "":
		return s.SearchByAuthor(ctx, author)
	default:
		return []model.Book{}, nil
	}
}

// Stats returns the catalog size.
func (s *BookService) Stats(ctx context.Context) (*model.BookStats, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return nil, internal("obteniendo estadísticas", err)
	}
	return &model.BookStats{
		TotalBooks: n,
		Message:    fmt.Sprintf("Total de libros en la biblioteca: %d", n),
	}, nil
}
