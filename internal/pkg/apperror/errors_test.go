package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithCause_KeepsIdentity(t *testing.T) {
	cause := errors.New("sql: no rows")
	err := fmt.Errorf("application service: %w", ErrApplicationNotFound.WithCause(cause))

	assert.True(t, errors.Is(err, ErrApplicationNotFound))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrJobNotFound))
}

func TestHTTPStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusConflict, HTTPStatusOf(ErrInvalidTransition))
	assert.Equal(t, http.StatusBadRequest, HTTPStatusOf(ErrFeedbackRequired))
	assert.Equal(t, http.StatusForbidden, HTTPStatusOf(fmt.Errorf("x: %w", ErrForbidden)))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatusOf(errors.New("boom")))
}
