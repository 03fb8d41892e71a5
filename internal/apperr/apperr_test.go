package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("campo invalido"), http.StatusBadRequest},
		{"unauthorized", Unauthorized("sem sessao"), http.StatusUnauthorized},
		{"forbidden", Forbidden("sem acesso"), http.StatusForbidden},
		{"not found", NotFound("nao existe"), http.StatusNotFound},
		{"invalid state", InvalidState("estado errado"), http.StatusConflict},
		{"conflict", Conflict("duplicado"), http.StatusConflict},
		{"insufficient balance", InsufficientBalance("sem saldo"), http.StatusUnprocessableEntity},
		{"internal", Internal(errors.New("boom"), "falhou"), http.StatusInternalServerError},
		{"untyped", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Status(tt.err))
		})
	}
}

func TestKindOf_WrappedError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("anuncio nao encontrado"))

	assert.Equal(t, KindNotFound, KindOf(err))
	assert.True(t, Is(err, KindNotFound))
	assert.False(t, Is(err, KindConflict))
}

func TestInternal_PreservesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal(cause, "failed to query")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindInternal, KindOf(err))
}
