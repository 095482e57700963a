// Package certification emite y renueva certificados y mantiene la caché de estado.
package certification

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/certificate"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// IssueInput datos para emitir un certificado. ExpirationDate nil se calcula con la vigencia del tipo.
type IssueInput struct {
	StaffMemberName string
	PositionID      string
	CertificateType *entity.CertificateType
	IssueDate       time.Time
	ExpirationDate  *time.Time
	SupersedesID    string
}

// Service casos de uso sobre certificados.
type Service struct {
	certs repository.CertificateRepository
	types repository.CertificateTypeRepository
	tx    repository.TransactionManager
	clock clock.Clock
	log   *logger.Logger
}

// NewService construye el caso de uso.
func NewService(
	certs repository.CertificateRepository,
	types repository.CertificateTypeRepository,
	tx repository.TransactionManager,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{certs: certs, types: types, tx: tx, clock: clk, log: log.Component("certification")}
}

// Issue crea un certificado. El estado se deriva de la fecha de vencimiento y la hora actual,
// nunca se copia de la entrada.
func (s *Service) Issue(ctx context.Context, in IssueInput) (*entity.Certificate, error) {
	name := strings.TrimSpace(in.StaffMemberName)
	if name == "" {
		return nil, domain.NewValidationError("staffMemberName", "obligatorio")
	}
	if in.CertificateType == nil {
		return nil, domain.NewValidationError("certificateType", "obligatorio")
	}
	if in.IssueDate.IsZero() {
		return nil, domain.NewValidationError("issueDate", "obligatoria")
	}

	expiration := certificate.ExpirationFrom(in.IssueDate, in.CertificateType.Validity())
	if in.ExpirationDate != nil {
		expiration = *in.ExpirationDate
	}
	if !expiration.After(in.IssueDate) {
		return nil, domain.NewValidationError("expirationDate", "debe ser posterior a la fecha de emisión")
	}

	now := s.clock.Now()
	cert := &entity.Certificate{
		ID:                  uuid.New().String(),
		StaffMemberName:     name,
		PositionID:          in.PositionID,
		CertificateTypeName: in.CertificateType.Name,
		IssueDate:           in.IssueDate,
		ExpirationDate:      expiration,
		Status:              certificate.DeriveStatus(expiration, now),
		SupersedesID:        in.SupersedesID,
		CreatedAt:           now,
	}
	if err := s.certs.Create(ctx, cert); err != nil {
		return nil, domain.WrapRepository("create certificate", err)
	}
	return cert, nil
}

// Renew crea un certificado nuevo que sustituye al indicado. El original no se modifica.
func (s *Service) Renew(ctx context.Context, req dto.RenewRequest) (*entity.Certificate, error) {
	issue, err := certificate.ParseDate(req.IssueDate)
	if err != nil {
		return nil, domain.NewValidationError("issueDate", err.Error())
	}
	var expiration *time.Time
	if strings.TrimSpace(req.ExpirationDate) != "" {
		exp, err := certificate.ParseDate(req.ExpirationDate)
		if err != nil {
			return nil, domain.NewValidationError("expirationDate", err.Error())
		}
		expiration = &exp
	}

	var renewed *entity.Certificate
	err = s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		prev, err := s.certs.GetByID(ctx, req.CertificateID)
		if err != nil {
			return domain.WrapRepository("get certificate", err)
		}
		if prev == nil {
			return fmt.Errorf("certificado %s: %w", req.CertificateID, domain.ErrNotFound)
		}

		typeName := certificate.TypeName(prev)
		certType, err := s.types.FindByName(ctx, typeName)
		if err != nil {
			return domain.WrapRepository("find certificate type", err)
		}
		if certType == nil {
			// Tipo heredado sin registro en el catálogo: vigencia por defecto.
			certType = &entity.CertificateType{Name: typeName}
		}

		renewed, err = s.Issue(ctx, IssueInput{
			StaffMemberName: prev.StaffMemberName,
			PositionID:      prev.PositionID,
			CertificateType: certType,
			IssueDate:       issue,
			ExpirationDate:  expiration,
			SupersedesID:    prev.ID,
		})
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info().
		Str("certificate_id", renewed.ID).
		Str("supersedes_id", renewed.SupersedesID).
		Time("expiration_date", renewed.ExpirationDate).
		Msg("certificado renovado")
	return renewed, nil
}

// RefreshStatuses recalcula la caché de estado de todos los certificados y persiste las diferencias.
func (s *Service) RefreshStatuses(ctx context.Context) (*dto.RefreshSummary, error) {
	certs, err := s.certs.List(ctx)
	if err != nil {
		return nil, domain.WrapRepository("list certificates", err)
	}
	now := s.clock.Now()
	summary := &dto.RefreshSummary{Total: len(certs)}
	for _, c := range certs {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		if !certificate.Refresh(c, now) {
			continue
		}
		if err := s.certs.UpdateStatus(ctx, c.ID, c.Status); err != nil {
			return summary, domain.WrapRepository("update certificate status", err)
		}
		summary.Updated++
	}
	s.log.Info().Int("total", summary.Total).Int("updated", summary.Updated).Msg("estados recalculados")
	return summary, nil
}

// ToDTO convierte un certificado para salida JSON.
func ToDTO(c *entity.Certificate) dto.CertificateDTO {
	return dto.CertificateDTO{
		ID:                  c.ID,
		StaffMemberName:     c.StaffMemberName,
		PositionID:          c.PositionID,
		CertificateTypeName: certificate.TypeName(c),
		IssueDate:           c.IssueDate,
		ExpirationDate:      c.ExpirationDate,
		Status:              string(c.Status),
		SupersedesID:        c.SupersedesID,
	}
}
