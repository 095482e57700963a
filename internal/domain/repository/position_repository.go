package repository

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// PositionRepository define el puerto de persistencia para Position (DIP).
// FindByTitle compara sin distinguir mayúsculas; Create devuelve domain.ErrDuplicate si el título ya existe.
type PositionRepository interface {
	Create(ctx context.Context, position *entity.Position) error
	GetByID(ctx context.Context, id string) (*entity.Position, error)
	FindByTitle(ctx context.Context, title string) (*entity.Position, error)
	Update(ctx context.Context, position *entity.Position) error
	List(ctx context.Context) ([]*entity.Position, error)
	ListActive(ctx context.Context) ([]*entity.Position, error)
}
