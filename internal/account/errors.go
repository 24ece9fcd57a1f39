package account

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("not found")
	ErrStorage            = errors.New("storage failure")
	ErrInternal           = errors.New("internal error")
)

func wrapStorage(err error, op string) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

func wrapInternal(err error, op string) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
