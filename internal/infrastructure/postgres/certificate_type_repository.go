package postgres

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ repository.CertificateTypeRepository = (*CertificateTypeRepo)(nil)

const certificateTypeColumns = `id, name, validity_period_months, active, created_at, updated_at`

// CertificateTypeRepo implementación de CertificateTypeRepository sobre PostgreSQL.
type CertificateTypeRepo struct {
	db Querier
}

// NewCertificateTypeRepository construye el adaptador.
func NewCertificateTypeRepository(db Querier) *CertificateTypeRepo {
	return &CertificateTypeRepo{db: db}
}

func (r *CertificateTypeRepo) Create(ctx context.Context, t *entity.CertificateType) error {
	query := `
		INSERT INTO certificate_types (` + certificateTypeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT DO NOTHING`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		t.ID, t.Name, t.ValidityPeriodMonths, t.Active, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return translatePgError("insert certificate type", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDuplicate
	}
	return nil
}

func (r *CertificateTypeRepo) GetByID(ctx context.Context, id string) (*entity.CertificateType, error) {
	query := `SELECT ` + certificateTypeColumns + ` FROM certificate_types WHERE id = $1`
	return getOne("get certificate type", querierFromContext(ctx, r.db).QueryRow(ctx, query, id), scanCertificateType)
}

// FindByName busca por nombre sin distinguir mayúsculas.
func (r *CertificateTypeRepo) FindByName(ctx context.Context, name string) (*entity.CertificateType, error) {
	query := `SELECT ` + certificateTypeColumns + ` FROM certificate_types WHERE lower(name) = lower($1)`
	return getOne("find certificate type", querierFromContext(ctx, r.db).QueryRow(ctx, query, name), scanCertificateType)
}

func (r *CertificateTypeRepo) Update(ctx context.Context, t *entity.CertificateType) error {
	query := `
		UPDATE certificate_types SET name = $2, validity_period_months = $3, active = $4, updated_at = $5
		WHERE id = $1`
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, query, t.ID, t.Name, t.ValidityPeriodMonths, t.Active, t.UpdatedAt)
	if err != nil {
		return translatePgError("update certificate type", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CertificateTypeRepo) ListActive(ctx context.Context) ([]*entity.CertificateType, error) {
	query := `SELECT ` + certificateTypeColumns + ` FROM certificate_types WHERE active ORDER BY created_at, id`
	rows, err := querierFromContext(ctx, r.db).Query(ctx, query)
	if err != nil {
		return nil, translatePgError("list certificate types", err)
	}
	out, err := collect(rows, scanCertificateType)
	if err != nil {
		return nil, translatePgError("scan certificate types", err)
	}
	return out, nil
}

func scanCertificateType(row rowScanner) (*entity.CertificateType, error) {
	var t entity.CertificateType
	if err := row.Scan(&t.ID, &t.Name, &t.ValidityPeriodMonths, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
