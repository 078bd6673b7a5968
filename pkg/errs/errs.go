package errs

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRental    = errors.New("rental for this book is already active")
	ErrNoActiveRentals    = errors.New("user has no rented books")
	ErrRentalExpired      = errors.New("rental has expired")
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrLoginTaken         = errors.New("login already taken")
	ErrInvalidCredentials = errors.New("invalid login or password")
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrForbidden          = errors.New("forbidden")

	// ErrStorage is matched by every StorageError.
	ErrStorage = errors.New("storage error")
)

type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// Storage wraps err as a StorageError unless it already carries a domain
// kind, which is returned untouched.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		ErrDuplicateRental, ErrNoActiveRentals, ErrRentalExpired, ErrNotFound,
		ErrInvalidInput, ErrLoginTaken, ErrInvalidCredentials, ErrForbidden, ErrStorage,
	} {
		if errors.Is(err, kind) {
			return err
		}
	}
	return &StorageError{Op: op, Err: err}
}

// Invalid reports a validation failure that happened before any write.
func Invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func NotFound(what string) error {
	return fmt.Errorf("%s %w", what, ErrNotFound)
}
