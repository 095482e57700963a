package postgres

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ repository.RequirementRepository = (*RequirementRepo)(nil)

const requirementColumns = `id, position_id, certificate_type_name, validity_period_months, is_required, active, created_at, updated_at`

// RequirementRepo implementación de RequirementRepository sobre PostgreSQL. El índice parcial
// position_requirements_active_key garantiza un único requisito activo por (cargo, tipo).
type RequirementRepo struct {
	db Querier
}

// NewRequirementRepository construye el adaptador.
func NewRequirementRepository(db Querier) *RequirementRepo {
	return &RequirementRepo{db: db}
}

func (r *RequirementRepo) Create(ctx context.Context, req *entity.PositionRequirement) error {
	query := `
		INSERT INTO position_requirements (` + requirementColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT DO NOTHING`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		req.ID, req.PositionID, req.CertificateTypeName, req.ValidityPeriodMonths,
		req.IsRequired, req.Active, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		return translatePgError("insert requirement", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *RequirementRepo) GetByID(ctx context.Context, id string) (*entity.PositionRequirement, error) {
	query := `SELECT ` + requirementColumns + ` FROM position_requirements WHERE id = $1`
	return getOne("get requirement", querierFromContext(ctx, r.db).QueryRow(ctx, query, id), scanRequirement)
}

// FindActive requisito activo del cargo para el tipo (sin distinguir mayúsculas).
func (r *RequirementRepo) FindActive(ctx context.Context, positionID, certificateTypeName string) (*entity.PositionRequirement, error) {
	query := `
		SELECT ` + requirementColumns + ` FROM position_requirements
		WHERE position_id = $1 AND lower(certificate_type_name) = lower($2) AND active`
	row := querierFromContext(ctx, r.db).QueryRow(ctx, query, positionID, certificateTypeName)
	return getOne("find requirement", row, scanRequirement)
}

func (r *RequirementRepo) Update(ctx context.Context, req *entity.PositionRequirement) error {
	query := `
		UPDATE position_requirements
		SET certificate_type_name = $2, validity_period_months = $3, is_required = $4, active = $5, updated_at = $6
		WHERE id = $1`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		req.ID, req.CertificateTypeName, req.ValidityPeriodMonths, req.IsRequired, req.Active, req.UpdatedAt,
	)
	if err != nil {
		return translatePgError("update requirement", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *RequirementRepo) ListActive(ctx context.Context) ([]*entity.PositionRequirement, error) {
	return r.list(ctx, `SELECT `+requirementColumns+` FROM position_requirements WHERE active ORDER BY created_at, id`)
}

// ListByPosition todos los requisitos del cargo, activos o no.
func (r *RequirementRepo) ListByPosition(ctx context.Context, positionID string) ([]*entity.PositionRequirement, error) {
	return r.list(ctx, `SELECT `+requirementColumns+` FROM position_requirements WHERE position_id = $1 ORDER BY created_at, id`, positionID)
}

func (r *RequirementRepo) list(ctx context.Context, query string, args ...any) ([]*entity.PositionRequirement, error) {
	rows, err := querierFromContext(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError("list requirements", err)
	}
	out, err := collect(rows, scanRequirement)
	if err != nil {
		return nil, translatePgError("scan requirements", err)
	}
	return out, nil
}

func scanRequirement(row rowScanner) (*entity.PositionRequirement, error) {
	var req entity.PositionRequirement
	if err := row.Scan(
		&req.ID, &req.PositionID, &req.CertificateTypeName, &req.ValidityPeriodMonths,
		&req.IsRequired, &req.Active, &req.CreatedAt, &req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &req, nil
}
