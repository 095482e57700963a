// Package compliance expone la consulta de cumplimiento (un empleado o toda la organización)
// y el historial de tasas.
package compliance

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/domain/compliance"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// NeedsAttentionLimit cargos incluidos en el ranking de la respuesta.
const NeedsAttentionLimit = 5

// Service consulta de cumplimiento.
type Service struct {
	employees    repository.EmployeeRepository
	positions    repository.PositionRepository
	requirements repository.RequirementRepository
	certs        repository.CertificateRepository
	snapshots    repository.SnapshotRepository
	tx           repository.TransactionManager
	clock        clock.Clock
	log          *logger.Logger
}

// NewService construye el caso de uso.
func NewService(
	employees repository.EmployeeRepository,
	positions repository.PositionRepository,
	requirements repository.RequirementRepository,
	certs repository.CertificateRepository,
	snapshots repository.SnapshotRepository,
	tx repository.TransactionManager,
	clk clock.Clock,
	log *logger.Logger,
) *Service {
	return &Service{
		employees:    employees,
		positions:    positions,
		requirements: requirements,
		certs:        certs,
		snapshots:    snapshots,
		tx:           tx,
		clock:        clk,
		log:          log.Component("compliance"),
	}
}

// Evaluate lee todo lo necesario y calcula el cumplimiento. scope es un id de empleado o "all".
// Un id desconocido devuelve domain.ErrNotFound; la falta de requisitos o certificados no es error.
func (s *Service) Evaluate(ctx context.Context, scope string) (*compliance.Result, error) {
	scope = strings.TrimSpace(scope)
	if scope == "" {
		scope = dto.ComplianceScopeAll
	}

	var in compliance.Input
	var certs []*entity.Certificate
	err := s.tx.WithinReadOnly(ctx, func(ctx context.Context) error {
		positions, err := s.positions.List(ctx)
		if err != nil {
			return domain.WrapRepository("list positions", err)
		}
		requirements, err := s.requirements.ListActive(ctx)
		if err != nil {
			return domain.WrapRepository("list requirements", err)
		}

		var raws []*entity.RawEmployee
		if scope == dto.ComplianceScopeAll {
			if raws, err = s.employees.ListActive(ctx); err != nil {
				return domain.WrapRepository("list employees", err)
			}
			if certs, err = s.certs.List(ctx); err != nil {
				return domain.WrapRepository("list certificates", err)
			}
		} else {
			raw, err := s.employees.GetByID(ctx, scope)
			if err != nil {
				return domain.WrapRepository("get employee", err)
			}
			if raw == nil {
				return fmt.Errorf("empleado %s: %w", scope, domain.ErrNotFound)
			}
			raws = []*entity.RawEmployee{raw}
			if certs, err = s.certs.ListByStaffMember(ctx, raw.Name); err != nil {
				return domain.WrapRepository("list certificates", err)
			}
		}

		employees, err := s.normalize(ctx, raws, positions)
		if err != nil {
			return err
		}
		in = compliance.Input{Employees: employees, Positions: positions, Requirements: requirements}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return compliance.Aggregate(in, compliance.NewNameLinker(certs), s.clock.Now()), nil
}

// normalize aplica la regla de cargos en lectura, sin cargo por defecto ni escritura.
func (s *Service) normalize(ctx context.Context, raws []*entity.RawEmployee, positions []*entity.Position) ([]*entity.Employee, error) {
	cat := assignment.NewStaticCatalog(positions, "").WithoutFallback()
	out := make([]*entity.Employee, 0, len(raws))
	for _, raw := range raws {
		emp, report, err := assignment.Normalize(ctx, raw, cat)
		if err != nil {
			return nil, err
		}
		if report.Changed() {
			s.log.Debug().Str("employee_id", raw.ID).Msg("empleado con cargos sin normalizar; ejecutar fix-positions")
		}
		out = append(out, emp)
	}
	return out, nil
}

// Query devuelve el cumplimiento en formato de respuesta.
func (s *Service) Query(ctx context.Context, scope string) (*dto.ComplianceResponse, error) {
	res, err := s.Evaluate(ctx, scope)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(scope) == "" {
		scope = dto.ComplianceScopeAll
	}
	return ToResponse(scope, res), nil
}

// Record calcula la tasa de la organización y la guarda en el historial.
func (s *Service) Record(ctx context.Context) (*entity.ComplianceSnapshot, error) {
	res, err := s.Evaluate(ctx, dto.ComplianceScopeAll)
	if err != nil {
		return nil, err
	}
	snap := &entity.ComplianceSnapshot{
		ID:                 uuid.New().String(),
		TakenAt:            res.ComputedAt,
		TotalInstances:     res.TotalInstances,
		CompliantInstances: res.CompliantInstances,
		Rate:               res.Rate,
	}
	if err := s.snapshots.Create(ctx, snap); err != nil {
		return nil, domain.WrapRepository("create snapshot", err)
	}
	s.log.Info().Str("rate", snap.Rate.String()).Int("total", snap.TotalInstances).Msg("instantánea de cumplimiento registrada")
	return snap, nil
}

// History últimas instantáneas, de la más reciente a la más antigua.
func (s *Service) History(ctx context.Context, limit int) ([]*entity.ComplianceSnapshot, error) {
	list, err := s.snapshots.ListRecent(ctx, limit)
	if err != nil {
		return nil, domain.WrapRepository("list snapshots", err)
	}
	return list, nil
}

// ToResponse convierte el resultado del dominio en la respuesta de la consulta.
func ToResponse(scope string, res *compliance.Result) *dto.ComplianceResponse {
	out := &dto.ComplianceResponse{
		Scope:              scope,
		ComputedAt:         res.ComputedAt,
		Requirements:       make([]dto.RequirementComplianceDTO, 0, len(res.Records)),
		TotalInstances:     res.TotalInstances,
		CompliantInstances: res.CompliantInstances,
		Rate:               res.Rate,
		RatePercent:        compliance.Percent(res.Rate),
	}
	for _, rec := range res.Records {
		item := dto.RequirementComplianceDTO{
			EmployeeID:          rec.EmployeeID,
			EmployeeName:        rec.EmployeeName,
			PositionID:          rec.PositionID,
			PositionTitle:       rec.PositionTitle,
			CertificateTypeName: rec.CertificateTypeName,
			IsCompliant:         rec.IsCompliant,
			DaysUntilExpiration: rec.DaysUntilExpiration,
		}
		if c := rec.MatchedCertificate; c != nil {
			item.MatchedCertificate = &dto.CertificateSummary{
				ID:             c.ID,
				IssueDate:      c.IssueDate,
				ExpirationDate: c.ExpirationDate,
				Status:         string(rec.MatchedStatus),
			}
		}
		out.Requirements = append(out.Requirements, item)
	}
	if scope == dto.ComplianceScopeAll {
		for _, p := range res.Positions {
			out.Positions = append(out.Positions, toPositionDTO(p))
		}
		for _, p := range res.NeedsAttention(NeedsAttentionLimit) {
			out.NeedsAttention = append(out.NeedsAttention, toPositionDTO(p))
		}
	}
	return out
}

func toPositionDTO(p compliance.PositionSummary) dto.PositionComplianceDTO {
	return dto.PositionComplianceDTO{
		PositionID:         p.PositionID,
		Title:              p.Title,
		Department:         p.Department,
		Employees:          p.Employees,
		Requirements:       p.Requirements,
		TotalInstances:     p.TotalInstances,
		CompliantInstances: p.CompliantInstances,
		Rate:               p.Rate,
		RatePercent:        compliance.Percent(p.Rate),
		Scored:             p.Scored,
	}
}
