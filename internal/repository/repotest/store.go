// Package repotest provides in-memory stores that behave like the MySQL
// repositories: same sentinels, same pre-write validation, same ordering.
package repotest

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/librarycatalog/library-api/internal/apperr"
	"github.com/librarycatalog/library-api/internal/model"
	"github.com/librarycatalog/library-api/internal/repository"
)

// Clock returns successive whole seconds so ordering by creation time is
// deterministic.
type Clock struct {
	mu  sync.Mutex
	cur time.Time
}

func NewClock() *Clock {
	return &Clock{cur: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Second)
	return c.cur
}

// BookStore is an in-memory BookRepository.
type BookStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]model.Book
	clock  *Clock
}

func NewBookStore() *BookStore {
	return &BookStore{rows: map[int64]model.Book{}, clock: NewClock()}
}

func (s *BookStore) List(_ context.Context) ([]model.Book, error) {
	return s.filter(func(model.Book) bool { return true }), nil
}

func (s *BookStore) GetByID(_ context.Context, id int64) (*model.Book, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrBookNotFound
	}
	return &b, nil
}

func (s *BookStore) Create(_ context.Context, book *model.Book) error {
	if v := book.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.clock.Now()
	book.ID = s.nextID
	book.CreatedAt = now
	book.UpdatedAt = now
	s.rows[book.ID] = *book
	return nil
}

func (s *BookStore) Update(_ context.Context, book *model.Book) error {
	if v := book.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.rows[book.ID]
	if !ok {
		return repository.ErrBookNotFound
	}
	book.CreatedAt = cur.CreatedAt
	book.UpdatedAt = s.clock.Now()
	s.rows[book.ID] = *book
	return nil
}

func (s *BookStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return repository.ErrBookNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *BookStore) SearchByTitle(_ context.Context, term string) ([]model.Book, error) {
	return s.filter(func(b model.Book) bool { return containsFold(b.Title, term) }), nil
}

func (s *BookStore) SearchByAuthor(_ context.Context, term string) ([]model.Book, error) {
	return s.filter(func(b model.Book) bool { return b.Author != nil && containsFold(*b.Author, term) }), nil
}

func (s *BookStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

func (s *BookStore) Exists(_ context.Context, id int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.rows[id]
	return ok, nil
}

func (s *BookStore) filter(keep func(model.Book) bool) []model.Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.Book{}
	for _, b := range s.rows {
		if keep(b) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b model.Book) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return out
}

// UserStore is an in-memory UserRepository with a unique email index.
type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	rows   map[int64]model.User
	clock  *Clock
}

func NewUserStore() *UserStore {
	return &UserStore{rows: map[int64]model.User{}, clock: NewClock()}
}

func (s *UserStore) List(_ context.Context) ([]model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []model.User{}
	for _, u := range s.rows {
		out = append(out, u)
	}
	slices.SortFunc(out, func(a, b model.User) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return int(b.ID - a.ID)
	})
	return out, nil
}

func (s *UserStore) GetByID(_ context.Context, id int64) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if u, ok := s.byEmail(model.NormalizeEmail(email)); ok {
		return &u, nil
	}
	return nil, repository.ErrUserNotFound
}

func (s *UserStore) Create(_ context.Context, user *model.User) error {
	if v := user.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail(user.Email); taken {
		return repository.ErrDuplicateEmail
	}

	s.nextID++
	now := s.clock.Now()
	user.ID = s.nextID
	user.CreatedAt = now
	user.UpdatedAt = now
	s.rows[user.ID] = *user
	return nil
}

func (s *UserStore) Update(_ context.Context, user *model.User) error {
	if v := user.Validate(); len(v) > 0 {
		return apperr.Validation(model.ValidationFailedMsg, v...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.rows[user.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if other, taken := s.byEmail(user.Email); taken && other.ID != user.ID {
		return repository.ErrDuplicateEmail
	}

	user.CreatedAt = cur.CreatedAt
	user.LastLoginAt = cur.LastLoginAt
	user.UpdatedAt = s.clock.Now()
	s.rows[user.ID] = *user
	return nil
}

func (s *UserStore) UpdateLastLogin(_ context.Context, id int64) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.rows[id]
	if !ok {
		return time.Time{}, repository.ErrUserNotFound
	}
	now := s.clock.Now()
	u.LastLoginAt = &now
	s.rows[id] = u
	return now, nil
}

func (s *UserStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(s.rows, id)
	return nil
}

func (s *UserStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

func (s *UserStore) ExistsByEmail(_ context.Context, email string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byEmail(model.NormalizeEmail(email))
	return ok, nil
}

// byEmail must be called with s.mu held.
func (s *UserStore) byEmail(email string) (model.User, bool) {
	for _, u := range s.rows {
		if u.Email == email {
			return u, true
		}
	}
	return model.User{}, false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
