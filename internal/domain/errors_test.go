package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError_EsErrInvalidInput(t *testing.T) {
	err := fmt.Errorf("fila 3: %w", NewValidationError("Name", "obligatorio"))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "fila 3: Name: obligatorio", err.Error())
}

func TestWrapRepository_NoEnvuelveErroresDeDominio(t *testing.T) {
	assert.Same(t, ErrDuplicate, WrapRepository("create", ErrDuplicate))
	assert.Nil(t, WrapRepository("create", nil))

	base := errors.New("conexión rechazada")
	wrapped := WrapRepository("list positions", base)
	assert.True(t, IsRepositoryError(wrapped))
	assert.ErrorIs(t, wrapped, base)

	// No se envuelve dos veces.
	assert.Same(t, wrapped, WrapRepository("otra", wrapped))
}

func TestReferenceError_EsErrNotFound(t *testing.T) {
	err := &ReferenceError{Entity: "position", Key: "p-1", Reason: "no existe"}
	assert.ErrorIs(t, err, ErrNotFound)
	assert.False(t, IsRepositoryError(err))
}
