package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ repository.EmployeeRepository = (*EmployeeRepo)(nil)

// primary_position admite NULL; se lee como JSON null.
const employeeColumns = `id, name, email, positions, COALESCE(primary_position, 'null'::jsonb), active, created_at, updated_at`

// EmployeeRepo implementación de EmployeeRepository sobre PostgreSQL. positions y
// primary_position se guardan en JSONB para conservar las formas heredadas
// (ids, objetos embebidos, números) hasta que el normalizador las repare.
type EmployeeRepo struct {
	db Querier
}

// NewEmployeeRepository construye el adaptador.
func NewEmployeeRepository(db Querier) *EmployeeRepo {
	return &EmployeeRepo{db: db}
}

func (r *EmployeeRepo) Create(ctx context.Context, e *entity.RawEmployee) error {
	positions, primary, err := encodeAssignment(e)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO employees (id, name, email, positions, primary_position, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		e.ID, e.Name, e.Email, positions, primary, e.Active, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return translatePgError("insert employee", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*entity.RawEmployee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`
	return getOne("get employee", querierFromContext(ctx, r.db).QueryRow(ctx, query, id), scanEmployee)
}

// FindByName busca por nombre sin distinguir mayúsculas.
func (r *EmployeeRepo) FindByName(ctx context.Context, name string) (*entity.RawEmployee, error) {
	query := `SELECT ` + employeeColumns + ` FROM employees WHERE lower(name) = lower($1)`
	return getOne("find employee", querierFromContext(ctx, r.db).QueryRow(ctx, query, name), scanEmployee)
}

func (r *EmployeeRepo) Update(ctx context.Context, e *entity.RawEmployee) error {
	positions, primary, err := encodeAssignment(e)
	if err != nil {
		return err
	}
	query := `
		UPDATE employees
		SET name = $2, email = $3, positions = $4, primary_position = $5, active = $6, updated_at = $7
		WHERE id = $1`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		e.ID, e.Name, e.Email, positions, primary, e.Active, e.UpdatedAt,
	)
	if err != nil {
		return translatePgError("update employee", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepo) List(ctx context.Context) ([]*entity.RawEmployee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees ORDER BY created_at, id`)
}

func (r *EmployeeRepo) ListActive(ctx context.Context) ([]*entity.RawEmployee, error) {
	return r.list(ctx, `SELECT `+employeeColumns+` FROM employees WHERE active ORDER BY created_at, id`)
}

func (r *EmployeeRepo) list(ctx context.Context, query string) ([]*entity.RawEmployee, error) {
	rows, err := querierFromContext(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, translatePgError("list employees", err)
	}
	out, err := collect(rows, scanEmployee)
	if err != nil {
		return nil, translatePgError("scan employees", err)
	}
	return out, nil
}

func scanEmployee(row rowScanner) (*entity.RawEmployee, error) {
	var (
		e                    entity.RawEmployee
		positions, primaryJS []byte
	)
	if err := row.Scan(&e.ID, &e.Name, &e.Email, &positions, &primaryJS, &e.Active, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(positions, &e.Positions); err != nil {
		return nil, fmt.Errorf("decode positions de %s: %w", e.ID, err)
	}
	if err := decodeJSON(primaryJS, &e.PrimaryPosition); err != nil {
		return nil, fmt.Errorf("decode primary_position de %s: %w", e.ID, err)
	}
	return &e, nil
}

// encodeAssignment serializa los cargos a JSONB. primary nil se guarda como NULL.
func encodeAssignment(e *entity.RawEmployee) (positions, primary []byte, err error) {
	values := e.Positions
	if values == nil {
		values = []any{}
	}
	if positions, err = json.Marshal(values); err != nil {
		return nil, nil, fmt.Errorf("encode positions: %w", err)
	}
	if e.PrimaryPosition != nil {
		if primary, err = json.Marshal(e.PrimaryPosition); err != nil {
			return nil, nil, fmt.Errorf("encode primary_position: %w", err)
		}
	}
	return positions, primary, nil
}
