package postgres

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ repository.PositionRepository = (*PositionRepo)(nil)

const positionColumns = `id, title, department, active, created_at, updated_at`

// PositionRepo implementación de PositionRepository sobre PostgreSQL. Usa la tx del contexto si existe.
type PositionRepo struct {
	db Querier
}

// NewPositionRepository construye el adaptador de cargos. Pasar el pool.
func NewPositionRepository(db Querier) *PositionRepo {
	return &PositionRepo{db: db}
}

// Create inserta el cargo. ON CONFLICT DO NOTHING evita abortar la transacción en curso
// cuando otro proceso creó el mismo título; se informa como ErrDuplicate.
func (r *PositionRepo) Create(ctx context.Context, p *entity.Position) error {
	query := `
		INSERT INTO positions (` + positionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		p.ID, p.Title, p.Department, p.Active, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return translatePgError("insert position", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

// GetByID obtiene un cargo por id. (nil, nil) si no existe.
func (r *PositionRepo) GetByID(ctx context.Context, id string) (*entity.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE id = $1`
	return getOne("get position", querierFromContext(ctx, r.db).QueryRow(ctx, query, id), scanPosition)
}

// FindByTitle busca por título sin distinguir mayúsculas.
func (r *PositionRepo) FindByTitle(ctx context.Context, title string) (*entity.Position, error) {
	query := `SELECT ` + positionColumns + ` FROM positions WHERE lower(title) = lower($1)`
	return getOne("find position", querierFromContext(ctx, r.db).QueryRow(ctx, query, title), scanPosition)
}

// Update reescribe título, departamento y estado.
func (r *PositionRepo) Update(ctx context.Context, p *entity.Position) error {
	query := `
		UPDATE positions SET title = $2, department = $3, active = $4, updated_at = $5
		WHERE id = $1`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query, p.ID, p.Title, p.Department, p.Active, p.UpdatedAt)
	if err != nil {
		return translatePgError("update position", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List todos los cargos en orden de creación.
func (r *PositionRepo) List(ctx context.Context) ([]*entity.Position, error) {
	return r.list(ctx, `SELECT `+positionColumns+` FROM positions ORDER BY created_at, id`)
}

// ListActive cargos activos en orden de creación.
func (r *PositionRepo) ListActive(ctx context.Context) ([]*entity.Position, error) {
	return r.list(ctx, `SELECT `+positionColumns+` FROM positions WHERE active ORDER BY created_at, id`)
}

func (r *PositionRepo) list(ctx context.Context, query string) ([]*entity.Position, error) {
	rows, err := querierFromContext(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, translatePgError("list positions", err)
	}
	out, err := collect(rows, scanPosition)
	if err != nil {
		return nil, translatePgError("scan positions", err)
	}
	return out, nil
}

func scanPosition(row rowScanner) (*entity.Position, error) {
	var p entity.Position
	if err := row.Scan(&p.ID, &p.Title, &p.Department, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
