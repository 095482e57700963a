package postgres

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
)

var _ repository.SnapshotRepository = (*SnapshotRepo)(nil)

// SnapshotRepo historial de tasas de cumplimiento. rate es NUMERIC y se lee como
// decimal.Decimal gracias al codec registrado en NewPool.
type SnapshotRepo struct {
	db Querier
}

// NewSnapshotRepository construye el adaptador.
func NewSnapshotRepository(db Querier) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

func (r *SnapshotRepo) Create(ctx context.Context, s *entity.ComplianceSnapshot) error {
	query := `
		INSERT INTO compliance_snapshots (id, taken_at, total_instances, compliant_instances, rate)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := querierFromContext(ctx, r.db).Exec(ctx, query, s.ID, s.TakenAt, s.TotalInstances, s.CompliantInstances, s.Rate)
	return translatePgError("insert snapshot", err)
}

// ListRecent últimos limit registros, del más reciente al más antiguo. limit <= 0 devuelve todos.
func (r *SnapshotRepo) ListRecent(ctx context.Context, limit int) ([]*entity.ComplianceSnapshot, error) {
	var lim any // LIMIT NULL equivale a sin límite
	if limit > 0 {
		lim = limit
	}
	query := `
		SELECT id, taken_at, total_instances, compliant_instances, rate
		FROM compliance_snapshots ORDER BY taken_at DESC LIMIT $1`
	rows, err := querierFromContext(ctx, r.db).Query(ctx, query, lim)
	if err != nil {
		return nil, translatePgError("list snapshots", err)
	}
	out, err := collect(rows, func(row rowScanner) (*entity.ComplianceSnapshot, error) {
		var s entity.ComplianceSnapshot
		if err := row.Scan(&s.ID, &s.TakenAt, &s.TotalInstances, &s.CompliantInstances, &s.Rate); err != nil {
			return nil, err
		}
		return &s, nil
	})
	if err != nil {
		return nil, translatePgError("scan snapshots", err)
	}
	return out, nil
}
