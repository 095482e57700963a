// Package catalog gestiona el catálogo de cargos, tipos de certificado y requisitos por cargo.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/naturalkey"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// Defaults valores usados al crear registros bajo demanda.
type Defaults struct {
	Department     string
	ValidityMonths int
}

// Service casos de uso del catálogo.
type Service struct {
	positions    repository.PositionRepository
	types        repository.CertificateTypeRepository
	requirements repository.RequirementRepository
	clock        clock.Clock
	log          *logger.Logger
	defaults     Defaults
}

// NewService construye el caso de uso.
func NewService(
	positions repository.PositionRepository,
	types repository.CertificateTypeRepository,
	requirements repository.RequirementRepository,
	clk clock.Clock,
	log *logger.Logger,
	defaults Defaults,
) *Service {
	if defaults.Department == "" {
		defaults.Department = "General"
	}
	if defaults.ValidityMonths <= 0 {
		defaults.ValidityMonths = entity.DefaultValidityMonths
	}
	return &Service{
		positions:    positions,
		types:        types,
		requirements: requirements,
		clock:        clk,
		log:          log.Component("catalog"),
		defaults:     defaults,
	}
}

// EnsurePosition resuelve el cargo por título (sin distinguir mayúsculas) o lo crea.
// Un cargo inactivo se devuelve tal cual: reactivarlo es decisión del llamador.
func (s *Service) EnsurePosition(ctx context.Context, title, department string) (*entity.Position, bool, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false, &domain.ReferenceError{Entity: "position", Key: title, Reason: "título vacío"}
	}
	department = strings.TrimSpace(department)
	if department == "" {
		department = s.defaults.Department
	}

	p, created, err := resolveOrCreate(ctx,
		func(ctx context.Context) (*entity.Position, error) {
			return s.positions.FindByTitle(ctx, title)
		},
		func(ctx context.Context) (*entity.Position, error) {
			now := s.clock.Now()
			p := &entity.Position{
				ID:         uuid.New().String(),
				Title:      title,
				Department: department,
				Active:     true,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			return p, s.positions.Create(ctx, p)
		},
	)
	if err != nil {
		return nil, false, domain.WrapRepository("ensure position", err)
	}
	if created {
		s.log.Info().Str("position_id", p.ID).Str("title", p.Title).Msg("cargo creado")
	}
	return p, created, nil
}

// EnsureCertificateType resuelve el tipo por nombre o lo crea con validityMonths (o el valor por defecto).
func (s *Service) EnsureCertificateType(ctx context.Context, name string, validityMonths int) (*entity.CertificateType, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, false, &domain.ReferenceError{Entity: "certificate_type", Key: name, Reason: "nombre vacío"}
	}
	if validityMonths <= 0 {
		validityMonths = s.defaults.ValidityMonths
	}

	t, created, err := resolveOrCreate(ctx,
		func(ctx context.Context) (*entity.CertificateType, error) {
			return s.types.FindByName(ctx, name)
		},
		func(ctx context.Context) (*entity.CertificateType, error) {
			now := s.clock.Now()
			t := &entity.CertificateType{
				ID:                   uuid.New().String(),
				Name:                 name,
				ValidityPeriodMonths: validityMonths,
				Active:               true,
				CreatedAt:            now,
				UpdatedAt:            now,
			}
			return t, s.types.Create(ctx, t)
		},
	)
	if err != nil {
		return nil, false, domain.WrapRepository("ensure certificate type", err)
	}
	if created {
		s.log.Info().Str("certificate_type", t.Name).Int("validity_months", t.ValidityPeriodMonths).Msg("tipo de certificado creado")
	}
	return t, created, nil
}

// SimilarPositions títulos existentes parecidos a title (posibles duplicados por error tipográfico).
func (s *Service) SimilarPositions(ctx context.Context, title string) ([]string, error) {
	list, err := s.positions.List(ctx)
	if err != nil {
		return nil, domain.WrapRepository("list positions", err)
	}
	titles := make([]string, 0, len(list))
	for _, p := range list {
		titles = append(titles, p.Title)
	}
	return naturalkey.Similar(title, titles), nil
}

// SimilarCertificateTypes nombres de tipos activos parecidos a name.
func (s *Service) SimilarCertificateTypes(ctx context.Context, name string) ([]string, error) {
	list, err := s.types.ListActive(ctx)
	if err != nil {
		return nil, domain.WrapRepository("list certificate types", err)
	}
	names := make([]string, 0, len(list))
	for _, t := range list {
		names = append(names, t.Name)
	}
	return naturalkey.Similar(name, names), nil
}

// SetPositionActive activa o desactiva un cargo. Los cargos nunca se borran.
func (s *Service) SetPositionActive(ctx context.Context, id string, active bool) (*entity.Position, error) {
	p, err := s.positions.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapRepository("get position", err)
	}
	if p == nil {
		return nil, fmt.Errorf("cargo %s: %w", id, domain.ErrNotFound)
	}
	if p.Active == active {
		return p, nil
	}
	p.Active = active
	p.UpdatedAt = s.clock.Now()
	if err := s.positions.Update(ctx, p); err != nil {
		return nil, domain.WrapRepository("update position", err)
	}
	return p, nil
}

// SetCertificateTypeActive activa o desactiva un tipo de certificado.
func (s *Service) SetCertificateTypeActive(ctx context.Context, id string, active bool) (*entity.CertificateType, error) {
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapRepository("get certificate type", err)
	}
	if t == nil {
		return nil, fmt.Errorf("tipo de certificado %s: %w", id, domain.ErrNotFound)
	}
	t.Active = active
	t.UpdatedAt = s.clock.Now()
	if err := s.types.Update(ctx, t); err != nil {
		return nil, domain.WrapRepository("update certificate type", err)
	}
	return t, nil
}

// AddRequirement registra un requisito activo para un cargo. Un requisito activo
// repetido para el mismo (cargo, tipo) es un ValidationError.
func (s *Service) AddRequirement(ctx context.Context, positionID, certificateTypeName string, validityMonths int, isRequired bool) (*entity.PositionRequirement, error) {
	certificateTypeName = strings.TrimSpace(certificateTypeName)
	if certificateTypeName == "" {
		return nil, domain.NewValidationError("certificateTypeName", "obligatorio")
	}
	p, err := s.positions.GetByID(ctx, positionID)
	if err != nil {
		return nil, domain.WrapRepository("get position", err)
	}
	if p == nil || !p.Active {
		return nil, &domain.ReferenceError{Entity: "position", Key: positionID, Reason: "no existe o está inactivo"}
	}

	certType, _, err := s.EnsureCertificateType(ctx, certificateTypeName, validityMonths)
	if err != nil {
		return nil, err
	}
	if validityMonths <= 0 {
		validityMonths = certType.Validity()
	}

	now := s.clock.Now()
	req := &entity.PositionRequirement{
		ID:                   uuid.New().String(),
		PositionID:           p.ID,
		CertificateTypeName:  certType.Name,
		ValidityPeriodMonths: validityMonths,
		IsRequired:           isRequired,
		Active:               true,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.requirements.Create(ctx, req); err != nil {
		if !errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.WrapRepository("create requirement", err)
		}
		return nil, domain.NewValidationError("requirement",
			fmt.Sprintf("ya existe un requisito activo de %q para el cargo %q", certType.Name, p.Title))
	}
	return req, nil
}

// DeactivateRequirement desactiva un requisito (queda en el historial).
func (s *Service) DeactivateRequirement(ctx context.Context, id string) error {
	req, err := s.requirements.GetByID(ctx, id)
	if err != nil {
		return domain.WrapRepository("get requirement", err)
	}
	if req == nil {
		return fmt.Errorf("requisito %s: %w", id, domain.ErrNotFound)
	}
	if !req.Active {
		return nil
	}
	req.Active = false
	req.UpdatedAt = s.clock.Now()
	return domain.WrapRepository("update requirement", s.requirements.Update(ctx, req))
}

// Positions lista los cargos activos.
func (s *Service) Positions(ctx context.Context) ([]*entity.Position, error) {
	list, err := s.positions.ListActive(ctx)
	return list, domain.WrapRepository("list positions", err)
}
