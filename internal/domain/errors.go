package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
)

// ValidationError error recuperable a nivel de fila o registro: campo obligatorio ausente,
// fecha ilegible, requisito duplicado. Se salta el registro y se continúa el lote.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is permite errors.Is(err, domain.ErrInvalidInput).
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferenceError una clave foránea (cargo, tipo de certificado) no resuelve y no se puede crear.
type ReferenceError struct {
	Entity string
	Key    string
	Reason string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("referencia %s %q: %s", e.Entity, e.Key, e.Reason)
}

// Is permite errors.Is(err, domain.ErrNotFound).
func (e *ReferenceError) Is(target error) bool { return target == ErrNotFound }

// RepositoryError el almacenamiento no está disponible. Es fatal para la operación en curso.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repositorio %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

// WrapRepository envuelve err como RepositoryError salvo que ya sea un error de dominio
// conocido (no encontrado, duplicado, validación).
func WrapRepository(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrDuplicate) || errors.Is(err, ErrInvalidInput) {
		return err
	}
	var repoErr *RepositoryError
	if errors.As(err, &repoErr) {
		return err
	}
	return &RepositoryError{Op: op, Err: err}
}

// IsRepositoryError indica si err es un fallo de almacenamiento (no recuperable a nivel de fila).
func IsRepositoryError(err error) bool {
	var repoErr *RepositoryError
	return errors.As(err, &repoErr)
}

// InvariantViolation describe un empleado que no cumple los invariantes de cargos.
// Nunca se devuelve como error al llamador: el normalizador lo repara y lo registra como aviso.
type InvariantViolation struct {
	EmployeeID string
	Detail     string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariante de cargos violado en empleado %s: %s", e.EmployeeID, e.Detail)
}
