package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// CertificateRepository puerto de persistencia para certificados (historial de solo inserción).
// UpdateStatus solo reescribe la caché de estado.
type CertificateRepository interface {
	Create(ctx context.Context, cert *entity.Certificate) error
	GetByID(ctx context.Context, id string) (*entity.Certificate, error)
	List(ctx context.Context) ([]*entity.Certificate, error)
	ListByStaffMember(ctx context.Context, staffMemberName string) ([]*entity.Certificate, error)
	ListExpiringBefore(ctx context.Context, cutoff time.Time) ([]*entity.Certificate, error)
	UpdateStatus(ctx context.Context, id string, status entity.CertificateStatus) error
}
