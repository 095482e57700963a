package repository

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// RequirementRepository puerto de persistencia para PositionRequirement.
// Debe garantizar a lo sumo un requisito activo por (PositionID, CertificateTypeName);
// una violación se informa como domain.ErrDuplicate.
type RequirementRepository interface {
	Create(ctx context.Context, req *entity.PositionRequirement) error
	GetByID(ctx context.Context, id string) (*entity.PositionRequirement, error)
	FindActive(ctx context.Context, positionID, certificateTypeName string) (*entity.PositionRequirement, error)
	Update(ctx context.Context, req *entity.PositionRequirement) error
	ListActive(ctx context.Context) ([]*entity.PositionRequirement, error)
	ListByPosition(ctx context.Context, positionID string) ([]*entity.PositionRequirement, error)
}
