package repository

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// CertificateTypeRepository puerto de persistencia para CertificateType.
type CertificateTypeRepository interface {
	Create(ctx context.Context, certType *entity.CertificateType) error
	GetByID(ctx context.Context, id string) (*entity.CertificateType, error)
	FindByName(ctx context.Context, name string) (*entity.CertificateType, error)
	Update(ctx context.Context, certType *entity.CertificateType) error
	ListActive(ctx context.Context) ([]*entity.CertificateType, error)
}
