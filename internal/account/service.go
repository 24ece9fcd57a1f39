// Package account implements registration, login and account lookup on top of
// the users store, together with the HTTP handlers and bearer-token
// middleware that expose them.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"account-service/internal/models"
	"account-service/internal/password"
	"account-service/internal/store"
	"account-service/internal/token"
)

type Store interface {
	Create(ctx context.Context, user models.NewUser) error
	GetByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
}

type TokenIssuer interface {
	Issue(claims token.Claims) (string, error)
}

type Service struct {
	store    Store
	hasher   password.Hasher
	tokens   TokenIssuer
	validate *validator.Validate

	issueOnCreate bool
	// decoy is verified against when the username is unknown so both login
	// failures cost one hash comparison.
	decoy string
}

func NewService(st Store, hasher password.Hasher, tokens TokenIssuer) (*Service, error) {
	decoy, err := hasher.Hash("decoy-credential")
	if err != nil {
		return nil, fmt.Errorf("hash decoy credential: %w", err)
	}

	return &Service{
		store:         st,
		hasher:        hasher,
		tokens:        tokens,
		validate:      validator.New(),
		issueOnCreate: true,
		decoy:         decoy,
	}, nil
}

// WithTokenOnCreate controls whether CreateAccount answers with a token. The
// deprecated plaintext mode turns it off.
func (s *Service) WithTokenOnCreate(enabled bool) *Service {
	s.issueOnCreate = enabled
	return s
}

func (s *Service) CreateAccount(ctx context.Context, input CreateAccountInput) (CreateAccountResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return CreateAccountResult{}, errors.Join(ErrInvalidInput, err)
	}

	credential, err := s.hasher.Hash(input.Password)
	if err != nil {
		return CreateAccountResult{}, wrapInternal(err, "hash password")
	}

	err = s.store.Create(ctx, models.NewUser{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Password:  credential,
		Email:     input.Email,
		CreatedOn: input.Timestamp,
	})
	if err != nil {
		return CreateAccountResult{}, wrapStorage(err, "create account")
	}

	result := CreateAccountResult{Message: AccountCreatedMessage}
	if !s.issueOnCreate {
		return result, nil
	}

	result.Token, err = s.tokens.Issue(token.Claims{Username: input.Username})
	if err != nil {
		return CreateAccountResult{}, wrapInternal(err, "issue token")
	}

	return result, nil
}

func (s *Service) Login(ctx context.Context, input LoginInput) (LoginResult, error) {
	if err := s.validate.Struct(input); err != nil {
		return LoginResult{}, errors.Join(ErrInvalidInput, err)
	}

	user, err := s.store.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.hasher.Verify(input.Password, s.decoy)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, wrapStorage(err, "login")
	}

	if !s.hasher.Verify(input.Password, user.Password) {
		return LoginResult{}, ErrInvalidCredentials
	}

	signed, err := s.tokens.Issue(token.Claims{Username: user.Username})
	if err != nil {
		return LoginResult{}, wrapInternal(err, "issue token")
	}

	return LoginResult{Token: signed}, nil
}

// ListUsers returns every row as stored, password credentials included.
func (s *Service) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, wrapStorage(err, "list users")
	}
	return users, nil
}

func (s *Service) GetUser(ctx context.Context, username string) (models.User, error) {
	user, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.User{}, ErrNotFound
		}
		return models.User{}, wrapStorage(err, "get user")
	}
	return user, nil
}
