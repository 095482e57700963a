package repository

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// EmployeeRepository puerto de persistencia para empleados. Devuelve la forma almacenada
// (RawEmployee): los cargos pueden venir en formatos heredados y se normalizan en dominio.
type EmployeeRepository interface {
	Create(ctx context.Context, emp *entity.RawEmployee) error
	GetByID(ctx context.Context, id string) (*entity.RawEmployee, error)
	FindByName(ctx context.Context, name string) (*entity.RawEmployee, error)
	Update(ctx context.Context, emp *entity.RawEmployee) error
	List(ctx context.Context) ([]*entity.RawEmployee, error)
	ListActive(ctx context.Context) ([]*entity.RawEmployee, error)
}
