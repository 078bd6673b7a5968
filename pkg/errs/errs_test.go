package errs

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageWrapsDriverErrors(t *testing.T) {
	driverErr := errors.New("connection reset")
	err := Storage("create rent", driverErr)

	assert.ErrorIs(t, err, ErrStorage)
	assert.ErrorIs(t, err, driverErr)
	assert.Equal(t, "create rent: connection reset", err.Error())
}

func TestStorageKeepsDomainKinds(t *testing.T) {
	err := Storage("create rent", ErrDuplicateRental)
	assert.Equal(t, ErrDuplicateRental, err)
	assert.NotErrorIs(t, err, ErrStorage)

	wrapped := NotFound("book")
	assert.Equal(t, wrapped, Storage("find book", wrapped))
	assert.Equal(t, "book not found", wrapped.Error())

	assert.Nil(t, Storage("noop", nil))
}

func TestInvalid(t *testing.T) {
	err := Invalid("unknown rent term %q", "year")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, `invalid input: unknown rent term "year"`, err.Error())
}
