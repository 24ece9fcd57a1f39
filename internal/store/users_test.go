package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"account-service/internal/models"
)

func newStoreWithMock(t *testing.T) (*UserStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.MonitorPingsOption(true),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserStore(db), mock
}

const (
	insertQuery = `^INSERT INTO users \(first_name,last_name,username,password,email,created_on\) VALUES \(\$1,\$2,\$3,\$4,\$5,\$6\)$`
	selectOne   = `^SELECT first_name, last_name, username, password, email, created_on FROM users WHERE username = \$1$`
	selectAll   = `^SELECT first_name, last_name, username, password, email, created_on FROM users$`
)

var columns = []string{"first_name", "last_name", "username", "password", "email", "created_on"}

func newUser() models.NewUser {
	return models.NewUser{
		FirstName: "A",
		LastName:  "B",
		Username:  "alice",
		Password:  "$2a$10$hash",
		Email:     "a@x.com",
		CreatedOn: "2024-01-01",
	}
}

func TestCreate_Success(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(insertQuery).
		WithArgs("A", "B", "alice", "$2a$10$hash", "a@x.com", "2024-01-01").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), newUser()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_UniqueViolation(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(insertQuery).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := s.Create(context.Background(), newUser())
	require.ErrorIs(t, err, ErrUsernameTaken)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectExec(insertQuery).WillReturnError(errors.New("db down"))

	err := s.Create(context.Background(), newUser())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUsernameTaken)
	assert.Contains(t, err.Error(), "insert user: db down")
}

func TestGetByUsername_Success(t *testing.T) {
	s, mock := newStoreWithMock(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectOne).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(columns).AddRow("A", "B", "alice", "hash", "a@x.com", created))

	got, err := s.GetByUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, models.User{
		FirstName: "A",
		LastName:  "B",
		Username:  "alice",
		Password:  "hash",
		Email:     "a@x.com",
		CreatedOn: created,
	}, got)
}

func TestGetByUsername_NotFound(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectOne).WithArgs("ghost").WillReturnError(sql.ErrNoRows)

	_, err := s.GetByUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGetByUsername_DBError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectOne).WithArgs("alice").WillReturnError(errors.New("boom"))

	_, err := s.GetByUsername(context.Background(), "alice")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	s, mock := newStoreWithMock(t)
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(selectAll).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("A", "B", "alice", "h1", "a@x.com", created).
			AddRow("C", "D", "bob", "h2", "b@x.com", created))

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "h2", users[1].Password)
}

func TestList_Empty(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectAll).WillReturnRows(sqlmock.NewRows(columns))

	users, err := s.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)
}

func TestList_ScanError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectAll).
		WillReturnRows(sqlmock.NewRows(columns).AddRow("A", "B", "alice", "h1", "a@x.com", "not-a-time"))

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan user")
}

func TestList_QueryError(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectQuery(selectAll).WillReturnError(errors.New("boom"))

	_, err := s.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query users")
}

func TestPing(t *testing.T) {
	s, mock := newStoreWithMock(t)

	mock.ExpectPing()
	require.NoError(t, s.Ping(context.Background()))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	require.Error(t, s.Ping(context.Background()))
}
