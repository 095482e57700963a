package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ repository.CertificateRepository = (*CertificateRepo)(nil)

const certificateColumns = `id, staff_member_name, position_id, certificate_type_name, issue_date, expiration_date, status, supersedes_id, COALESCE(legacy_fields, '{}'::jsonb), created_at`

// CertificateRepo implementación de CertificateRepository sobre PostgreSQL (solo inserción).
type CertificateRepo struct {
	db Querier
}

// NewCertificateRepository construye el adaptador.
func NewCertificateRepository(db Querier) *CertificateRepo {
	return &CertificateRepo{db: db}
}

func (r *CertificateRepo) Create(ctx context.Context, c *entity.Certificate) error {
	var legacy []byte
	if len(c.LegacyFields) > 0 {
		var err error
		if legacy, err = json.Marshal(c.LegacyFields); err != nil {
			return fmt.Errorf("encode legacy_fields: %w", err)
		}
	}
	query := `
		INSERT INTO certificates (id, staff_member_name, position_id, certificate_type_name, issue_date,
			expiration_date, status, supersedes_id, legacy_fields, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := querierFromContext(ctx, r.db).Exec(ctx, query,
		c.ID, c.StaffMemberName, c.PositionID, c.CertificateTypeName, c.IssueDate,
		c.ExpirationDate, string(c.Status), c.SupersedesID, legacy, c.CreatedAt,
	)
	return translatePgError("insert certificate", err)
}

func (r *CertificateRepo) GetByID(ctx context.Context, id string) (*entity.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	return getOne("get certificate", querierFromContext(ctx, r.db).QueryRow(ctx, query, id), scanCertificate)
}

func (r *CertificateRepo) List(ctx context.Context) ([]*entity.Certificate, error) {
	return r.list(ctx, `SELECT `+certificateColumns+` FROM certificates ORDER BY created_at, id`)
}

// ListByStaffMember certificados vinculados por nombre exacto.
func (r *CertificateRepo) ListByStaffMember(ctx context.Context, staffMemberName string) ([]*entity.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE staff_member_name = $1 ORDER BY created_at, id`
	return r.list(ctx, query, staffMemberName)
}

// ListExpiringBefore certificados con vencimiento <= cutoff, del más antiguo al más reciente.
func (r *CertificateRepo) ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*entity.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE expiration_date <= $1 ORDER BY expiration_date, id`
	return r.list(ctx, query, cutoff)
}

// UpdateStatus reescribe la caché de estado.
func (r *CertificateRepo) UpdateStatus(ctx context.Context, id string, status entity.CertificateStatus) error {
	tag, err := querierFromContext(ctx, r.db).Exec(ctx, `UPDATE certificates SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		return translatePgError("update certificate status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *CertificateRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Certificate, error) {
	rows, err := querierFromContext(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, translatePgError("list certificates", err)
	}
	out, err := collect(rows, scanCertificate)
	if err != nil {
		return nil, translatePgError("scan certificates", err)
	}
	return out, nil
}

func scanCertificate(row rowScanner) (*entity.Certificate, error) {
	var (
		c      entity.Certificate
		status string
		legacy []byte
	)
	if err := row.Scan(
		&c.ID, &c.StaffMemberName, &c.PositionID, &c.CertificateTypeName, &c.IssueDate,
		&c.ExpirationDate, &status, &c.SupersedesID, &legacy, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	c.Status = entity.CertificateStatus(status)
	var fields map[string]string
	if err := json.Unmarshal(legacy, &fields); err != nil {
		return nil, fmt.Errorf("decode legacy_fields de %s: %w", c.ID, err)
	}
	if len(fields) > 0 {
		c.LegacyFields = fields
	}
	return &c, nil
}
