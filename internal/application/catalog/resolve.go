package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
)

// resolveOrCreate busca por clave natural y crea si no existe. Un duplicado al crear
// significa que otra escritura ganó la carrera: se vuelve a leer y se continúa.
func resolveOrCreate[T any](
	ctx context.Context,
	find func(context.Context) (*T, error),
	create func(context.Context) (*T, error),
) (*T, bool, error) {
	found, err := find(ctx)
	if err != nil {
		return nil, false, err
	}
	if found != nil {
		return found, false, nil
	}

	created, err := create(ctx)
	if err == nil {
		return created, true, nil
	}
	if !errors.Is(err, domain.ErrDuplicate) {
		return nil, false, err
	}

	found, err = find(ctx)
	if err != nil {
		return nil, false, err
	}
	if found == nil {
		return nil, false, fmt.Errorf("duplicado sin registro visible: %w", domain.ErrDuplicate)
	}
	return found, false, nil
}
