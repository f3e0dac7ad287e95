package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_Status(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind Kind
		want int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindConflict, http.StatusBadRequest},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindNotFound, http.StatusNotFound},
		{KindTooManyRequests, http.StatusTooManyRequests},
		{KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.kind.Status())
		})
	}
}

func TestFrom(t *testing.T) {
	t.Parallel()

	t.Run("typed error is returned as is", func(t *testing.T) {
		t.Parallel()
		orig := NotFound("Favorite not found", nil)
		wrapped := fmt.Errorf("handler: %w", orig)

		got := From(wrapped)

		assert.Same(t, orig, got)
	})

	t.Run("unknown error becomes internal with generic message", func(t *testing.T) {
		t.Parallel()
		cause := errors.New("connection reset by peer")

		got := From(cause)

		assert.Equal(t, KindInternal, got.Kind)
		assert.Equal(t, MsgServerError, got.Message)
		assert.ErrorIs(t, got, cause)
	})
}

func TestError_Error(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Country already in favorites", Conflict("Country already in favorites", nil).Error())
	assert.Equal(t, "Server Error: boom", Internal(errors.New("boom")).Error())
}
