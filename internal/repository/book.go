package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
)

var ErrBookNotFound = errors.New("book not found")

const bookColumns = "id, title, author, published_at, created_at, updated_at"

// BookRepository handles book persistence operations. Every method issues a
// single statement.
type BookRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewBookRepository creates a new BookRepository.
func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db, now: utcNow}
}

// List returns every book, newest first.
func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM ` + "`book`" + ` ORDER BY created_at DESC, id DESC`
	return r.query(ctx, "list books", query)
}

// GetByID retrieves a book by its ID.
func (r *BookRepository) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM ` + "`book`" + ` WHERE id = ?`

	book, err := scanBook(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookNotFound
		}
		return nil, fmt.Errorf("get book %d: %w", id, err)
	}

	return book, nil
}

// Create inserts a book and sets its generated ID and timestamps.
func (r *BookRepository) Create(ctx context.Context, book *model.Book) error {
	if v := book.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	now := r.now()
	query := "INSERT INTO `book` (title, author, published_at, created_at, updated_at) VALUES (?, ?, ?, ?, ?)"

	result, err := r.db.ExecContext(ctx, query,
		book.Title, nullString(book.Author), nullDate(book.PublishedAt), now, now,
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}

	book.ID = id
	book.CreatedAt = now
	book.UpdatedAt = now
	return nil
}

// Update writes the full row of an already merged book. Concurrent updates are
// last-write-wins.
func (r *BookRepository) Update(ctx context.Context, book *model.Book) error {
	if v := book.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	now := r.now()
	query := "UPDATE `book` SET title = ?, author = ?, published_at = ?, updated_at = ? WHERE id = ?"

	result, err := r.db.ExecContext(ctx, query,
		book.Title, nullString(book.Author), nullDate(book.PublishedAt), now, book.ID,
	)
	if err != nil {
		return fmt.Errorf("update book %d: %w", book.ID, err)
	}

	// The DSN sets clientFoundRows, so zero means no row matched.
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ErrBookNotFound
	}

	book.UpdatedAt = now
	return nil
}

// Delete removes a book permanently.
func (r *BookRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM `book` WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete book %d: %w", id, err)
	}
	if n == 0 {
		return ErrBookNotFound
	}

	return nil
}

// SearchByTitle returns books whose title contains term, ignoring case.
func (r *BookRepository) SearchByTitle(ctx context.Context, term string) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM ` + "`book`" +
		` WHERE LOWER(title) LIKE LOWER(?) ORDER BY created_at DESC, id DESC`
	return r.query(ctx, "search books by title", query, likePattern(term))
}

// SearchByAuthor returns books whose author contains term, ignoring case.
func (r *BookRepository) SearchByAuthor(ctx context.Context, term string) ([]model.Book, error) {
	query := `SELECT ` + bookColumns + ` FROM ` + "`book`" +
		` WHERE LOWER(author) LIKE LOWER(?) ORDER BY created_at DESC, id DESC`
	return r.query(ctx, "search books by author", query, likePattern(term))
}

// Count returns the number of stored books.
func (r *BookRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM `book`").Scan(&n); err != nil {
		return 0, fmt.Errorf("count books: %w", err)
	}
	return n, nil
}

// Exists reports whether a book with the given ID is stored.
func (r *BookRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var ok bool
	query := "SELECT EXISTS(SELECT 1 FROM `book` WHERE id = ?)"
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&ok); err != nil {
		return false, fmt.Errorf("check book %d: %w", id, err)
	}
	return ok, nil
}

func (r *BookRepository) query(ctx context.Context, op, query string, args ...any) ([]model.Book, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	books := []model.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		books = append(books, *book)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return books, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*model.Book, error) {
	var (
		book      model.Book
		author    sql.NullString
		published sql.NullTime
	)
	if err := row.Scan(&book.ID, &book.Title, &author, &published, &book.CreatedAt, &book.UpdatedAt); err != nil {
		return nil, err
	}

	book.Author = stringPtr(author)
	if published.Valid {
		d := model.NewDate(published.Time)
		book.PublishedAt = &d
	}
	return &book, nil
}

func nullDate(d *model.Date) sql.NullTime {
	if d == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: d.Time, Valid: true}
}

func utcNow() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
