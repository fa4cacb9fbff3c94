package errs

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewErrorFormatsDetails(t *testing.T) {
	err := NewError(ErrNameTaken, "Alice")

	require.NotNil(t, err)
	assert.Equal(t, ErrNameTaken, err.Code)
	assert.Equal(t, "A user with the name Alice already exists.", err.Message)
	assert.Equal(t, http.StatusOK, err.Status)
}

func TestNewErrorReservedName(t *testing.T) {
	err := NewError(ErrNameReserved, "System")

	assert.Equal(t, "The name System is invalid.", err.Message)
}

func TestNewErrorUnknownCodeFallsBack(t *testing.T) {
	err := NewError(424242)

	assert.Equal(t, ErrUnknown, err.Code)
	assert.Equal(t, http.StatusInternalServerError, err.Status)
}

func TestNewErrorReturnsCopy(t *testing.T) {
	first := NewError(ErrNameTaken, "Alice")
	second := NewError(ErrNameTaken, "Bob")

	assert.Contains(t, first.Message, "Alice")
	assert.Contains(t, second.Message, "Bob")
	assert.Equal(t, "A user with the name %s already exists.", errorMap[ErrNameTaken].Message)
}

func TestIs(t *testing.T) {
	wrapped := fmt.Errorf("rename: %w", NewError(ErrNameReserved, "System"))

	assert.True(t, Is(wrapped, ErrNameReserved))
	assert.False(t, Is(wrapped, ErrNameTaken))
	assert.False(t, Is(errors.New("plain"), ErrNameTaken))
	assert.False(t, Is(nil, ErrNameTaken))
}
