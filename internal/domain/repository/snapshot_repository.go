package repository

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// SnapshotRepository historial de tasas de cumplimiento.
type SnapshotRepository interface {
	Create(ctx context.Context, snap *entity.ComplianceSnapshot) error
	ListRecent(ctx context.Context, limit int) ([]*entity.ComplianceSnapshot, error)
}
