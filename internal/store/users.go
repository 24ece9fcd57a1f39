package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgconn"

	"account-service/internal/models"
)

const (
	usersTable = "users"

	uniqueViolation = "23505"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already taken")
)

var userColumns = []string{"first_name", "last_name", "username", "password", "email", "created_on"}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user models.NewUser) error {
	query, args, err := psql.Insert(usersTable).
		Columns(userColumns...).
		Values(user.FirstName, user.LastName, user.Username, user.Password, user.Email, user.CreatedOn).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert user: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("insert user: %w", ErrUsernameTaken)
		}
		return fmt.Errorf("insert user: %w", err)
	}

	return nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (models.User, error) {
	query, args, err := psql.Select(userColumns...).
		From(usersTable).
		Where(sq.Eq{"username": username}).
		ToSql()
	if err != nil {
		return models.User{}, fmt.Errorf("build select user: %w", err)
	}

	var user models.User
	err = s.db.QueryRowContext(ctx, query, args...).
		Scan(&user.FirstName, &user.LastName, &user.Username, &user.Password, &user.Email, &user.CreatedOn)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, fmt.Errorf("query user by username: %w", err)
	}

	return user, nil
}

func (s *UserStore) List(ctx context.Context) ([]models.User, error) {
	query, args, err := psql.Select(userColumns...).From(usersTable).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select users: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.FirstName, &u.LastName, &u.Username, &u.Password, &u.Email, &u.CreatedOn); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return users, nil
}

func (s *UserStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
