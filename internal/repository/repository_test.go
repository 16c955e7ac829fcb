package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func TestIsDuplicateEntryError(t *testing.T) {
	assert.False(t, isDuplicateEntryError(nil))
	assert.False(t, isDuplicateEntryError(ErrUserNotFound))
	assert.False(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1452, Message: "foreign key"}))
	assert.True(t, isDuplicateEntryError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}))

	wrapped := errors.Join(errors.New("insert"), &mysql.MySQLError{Number: 1062})
	assert.True(t, isDuplicateEntryError(wrapped))
}

func TestLikePattern(t *testing.T) {
	assert.Equal(t, "%Quij%", likePattern("Quij"))
	assert.Equal(t, `%100\%%`, likePattern("100%"))
	assert.Equal(t, `%a\_b%`, likePattern("a_b"))
	assert.Equal(t, `%c:\\dir%`, likePattern(`c:\dir`))
}

func newMock(t *testing.T) (sqlmock.Sqlmock, *BookRepository, *UserRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	books := NewBookRepository(db)
	books.now = fixedClock
	users := NewUserRepository(db)
	users.now = fixedClock
	return mock, books, users
}
