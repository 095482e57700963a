// Package assignment aplica la regla de cargos del dominio sobre el repositorio:
// job de reparación por lotes y mutaciones de empleados que preservan los invariantes.
package assignment

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// Service casos de uso de asignación de cargos.
type Service struct {
	employees     repository.EmployeeRepository
	positions     repository.PositionRepository
	tx            repository.TransactionManager
	clock         clock.Clock
	log           *logger.Logger
	fallbackTitle string
}

// NewService construye el caso de uso. fallbackTitle es el título del cargo por defecto
// (vacío: el cargo activo más antiguo).
func NewService(
	employees repository.EmployeeRepository,
	positions repository.PositionRepository,
	tx repository.TransactionManager,
	clk clock.Clock,
	log *logger.Logger,
	fallbackTitle string,
) *Service {
	return &Service{
		employees:     employees,
		positions:     positions,
		tx:            tx,
		clock:         clk,
		log:           log.Component("assignment"),
		fallbackTitle: fallbackTitle,
	}
}

func (s *Service) catalog() assignment.Catalog {
	return &repoCatalog{positions: s.positions, fallbackTitle: s.fallbackTitle}
}

// Catalog construye un catálogo en memoria con los cargos actuales (para lecturas masivas).
func (s *Service) Catalog(ctx context.Context) (*assignment.StaticCatalog, error) {
	list, err := s.positions.List(ctx)
	if err != nil {
		return nil, domain.WrapRepository("list positions", err)
	}
	return assignment.NewStaticCatalog(list, s.fallbackTitle), nil
}

// FixAll normaliza todos los empleados y persiste los que cambian. Un registro que falla
// no detiene el lote; solo un fallo de almacenamiento lo hace (con el resumen parcial).
func (s *Service) FixAll(ctx context.Context, dryRun bool) (*dto.FixSummary, error) {
	summary := &dto.FixSummary{DryRun: dryRun, Errors: []dto.RecordError{}}

	raws, err := s.employees.List(ctx)
	if err != nil {
		return summary, domain.WrapRepository("list employees", err)
	}
	cat, err := s.Catalog(ctx)
	if err != nil {
		return summary, err
	}

	summary.Total = len(raws)
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		emp, report, err := s.normalizeSafe(ctx, raw, cat)
		if err == nil && report.Changed() && !dryRun {
			err = s.save(ctx, emp)
		}
		if err != nil {
			if domain.IsRepositoryError(err) {
				return summary, err
			}
			summary.Skipped++
			summary.Errors = append(summary.Errors, dto.RecordError{ID: raw.ID, Reason: err.Error()})
			s.log.Warn().Err(err).Str("employee_id", raw.ID).Msg("empleado omitido en la reparación")
			continue
		}
		if !report.Changed() {
			summary.Unchanged++
			continue
		}
		summary.Fixed++
		summary.Changes = append(summary.Changes, toChange(emp, report))
		s.logReport(emp, report)
	}

	s.log.Info().
		Int("total", summary.Total).
		Int("fixed", summary.Fixed).
		Int("skipped", summary.Skipped).
		Bool("dry_run", dryRun).
		Msg("reparación de cargos finalizada")
	return summary, nil
}

// normalizeSafe convierte un pánico por un registro malformado en error del registro.
func (s *Service) normalizeSafe(ctx context.Context, raw *entity.RawEmployee, cat assignment.Catalog) (emp *entity.Employee, report assignment.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("registro malformado: %v", r)
		}
	}()
	return assignment.Normalize(ctx, raw, cat)
}

// ToDTO convierte un empleado para salida JSON.
func ToDTO(emp *entity.Employee) dto.EmployeeDTO {
	positions := emp.Positions
	if positions == nil {
		positions = []string{}
	}
	return dto.EmployeeDTO{
		ID:              emp.ID,
		Name:            emp.Name,
		Email:           emp.Email,
		Positions:       positions,
		PrimaryPosition: emp.PrimaryPosition,
		Active:          emp.Active,
	}
}

// Get devuelve el empleado normalizado (sin persistir la normalización).
func (s *Service) Get(ctx context.Context, id string) (*entity.Employee, error) {
	raw, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return nil, domain.WrapRepository("get employee", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("empleado %s: %w", id, domain.ErrNotFound)
	}
	emp, report, err := assignment.Normalize(ctx, raw, s.catalog())
	if err != nil {
		return nil, err
	}
	s.logWarnings(emp, report)
	return emp, nil
}

// CreateEmployee crea un empleado activo con los cargos indicados (el primero es el principal).
// Devuelve domain.ErrDuplicate si ya existe un empleado con ese nombre.
func (s *Service) CreateEmployee(ctx context.Context, name, email string, positionIDs ...string) (*entity.Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.NewValidationError("name", "obligatorio")
	}
	positions := make([]any, 0, len(positionIDs))
	for _, id := range positionIDs {
		positions = append(positions, id)
	}
	var primary any
	if len(positionIDs) > 0 {
		primary = positionIDs[0]
	}
	now := s.clock.Now()
	raw := &entity.RawEmployee{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           strings.TrimSpace(email),
		Positions:       positions,
		PrimaryPosition: primary,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	emp, report, err := assignment.Normalize(ctx, raw, s.catalog())
	if err != nil {
		return nil, err
	}
	s.logWarnings(emp, report)
	if err := s.employees.Create(ctx, emp.Raw()); err != nil {
		return nil, domain.WrapRepository("create employee", err)
	}
	return emp, nil
}

// AssignPosition añade un cargo al empleado. makePrimary lo marca como principal.
func (s *Service) AssignPosition(ctx context.Context, employeeID, positionID string, makePrimary bool) (*entity.Employee, error) {
	if err := s.requireActivePosition(ctx, positionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, employeeID, func(emp *entity.Employee) error {
		if !emp.HasPosition(positionID) {
			emp.Positions = append(emp.Positions, positionID)
		}
		if makePrimary || emp.PrimaryPosition == "" {
			emp.PrimaryPosition = positionID
		}
		return nil
	})
}

// Enroll activa al empleado y le añade el cargo en una sola mutación. Si no tenía cargo
// principal válido, el nuevo pasa a serlo.
func (s *Service) Enroll(ctx context.Context, employeeID, positionID string) (*entity.Employee, error) {
	if err := s.requireActivePosition(ctx, positionID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, employeeID, func(emp *entity.Employee) error {
		emp.Active = true
		if !emp.HasPosition(positionID) {
			emp.Positions = append(emp.Positions, positionID)
		}
		if emp.PrimaryPosition == "" {
			emp.PrimaryPosition = positionID
		}
		return nil
	})
}

// RemovePosition quita un cargo; si era el principal, pasa a serlo el primero restante.
func (s *Service) RemovePosition(ctx context.Context, employeeID, positionID string) (*entity.Employee, error) {
	return s.mutate(ctx, employeeID, func(emp *entity.Employee) error {
		kept := emp.Positions[:0]
		for _, id := range emp.Positions {
			if id != positionID {
				kept = append(kept, id)
			}
		}
		emp.Positions = kept
		if emp.PrimaryPosition == positionID {
			emp.PrimaryPosition = ""
		}
		return nil
	})
}

// SetPrimaryPosition cambia el cargo principal. Debe ser uno de los cargos asignados.
func (s *Service) SetPrimaryPosition(ctx context.Context, employeeID, positionID string) (*entity.Employee, error) {
	return s.mutate(ctx, employeeID, func(emp *entity.Employee) error {
		if !emp.HasPosition(positionID) {
			return domain.NewValidationError("primaryPosition", fmt.Sprintf("el cargo %s no está asignado", positionID))
		}
		emp.PrimaryPosition = positionID
		return nil
	})
}

// SetActive activa o desactiva al empleado. Inactivo lo excluye del cumplimiento sin borrar datos.
func (s *Service) SetActive(ctx context.Context, employeeID string, active bool) (*entity.Employee, error) {
	return s.mutate(ctx, employeeID, func(emp *entity.Employee) error {
		emp.Active = active
		return nil
	})
}

// mutate carga, normaliza, aplica fn, vuelve a normalizar y persiste en una sola unidad de trabajo.
func (s *Service) mutate(ctx context.Context, employeeID string, fn func(*entity.Employee) error) (*entity.Employee, error) {
	var result *entity.Employee
	err := s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		raw, err := s.employees.GetByID(ctx, employeeID)
		if err != nil {
			return domain.WrapRepository("get employee", err)
		}
		if raw == nil {
			return fmt.Errorf("empleado %s: %w", employeeID, domain.ErrNotFound)
		}

		// El cargo por defecto solo se aplica después de fn: antes ocuparía el hueco
		// que la mutación va a llenar.
		emp, _, err := assignment.Normalize(ctx, raw, &repoCatalog{positions: s.positions, noFallback: true})
		if err != nil {
			return err
		}
		if err := fn(emp); err != nil {
			return err
		}
		final, after, err := assignment.Normalize(ctx, emp.Raw(), s.catalog())
		if err != nil {
			return err
		}
		s.logWarnings(final, after)

		if final.Active != raw.Active || !sameAssignment(final, raw) {
			final.UpdatedAt = s.clock.Now()
			if err := s.employees.Update(ctx, final.Raw()); err != nil {
				return domain.WrapRepository("update employee", err)
			}
		}
		result = final
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) save(ctx context.Context, emp *entity.Employee) error {
	return s.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
		emp.UpdatedAt = s.clock.Now()
		if err := s.employees.Update(ctx, emp.Raw()); err != nil {
			return domain.WrapRepository("update employee", err)
		}
		return nil
	})
}

func (s *Service) requireActivePosition(ctx context.Context, positionID string) error {
	p, err := s.positions.GetByID(ctx, positionID)
	if err != nil {
		return domain.WrapRepository("get position", err)
	}
	if p == nil || !p.Active {
		return &domain.ReferenceError{Entity: "position", Key: positionID, Reason: "no existe o está inactivo"}
	}
	return nil
}

// sameAssignment indica si los cargos almacenados ya tienen exactamente la forma normalizada.
func sameAssignment(emp *entity.Employee, raw *entity.RawEmployee) bool {
	if len(emp.Positions) != len(raw.Positions) {
		return false
	}
	for i, id := range emp.Positions {
		if s, ok := raw.Positions[i].(string); !ok || s != id {
			return false
		}
	}
	primary, _ := raw.PrimaryPosition.(string)
	return primary == emp.PrimaryPosition
}

func (s *Service) logReport(emp *entity.Employee, report assignment.Report) {
	for _, r := range report.PositionsRemoved {
		s.log.Warn().Str("employee_id", emp.ID).Str("value", r.Value).Str("reason", r.Reason).Msg("referencia a cargo eliminada")
	}
	for _, id := range report.PositionsAdded {
		s.log.Info().Str("employee_id", emp.ID).Str("position_id", id).Msg("cargo por defecto asignado")
	}
	s.logWarnings(emp, report)
}

func (s *Service) logWarnings(emp *entity.Employee, report assignment.Report) {
	for _, w := range report.Warnings {
		s.log.Warn().Str("employee_id", emp.ID).Msg(w)
	}
}

func toChange(emp *entity.Employee, report assignment.Report) dto.EmployeeChange {
	removed := make([]string, 0, len(report.PositionsRemoved))
	for _, r := range report.PositionsRemoved {
		removed = append(removed, r.Value+" ("+r.Reason+")")
	}
	return dto.EmployeeChange{
		EmployeeID:       emp.ID,
		Name:             emp.Name,
		PositionsRemoved: removed,
		PositionsAdded:   report.PositionsAdded,
		PrimaryChanged:   report.PrimaryChanged,
		Warnings:         report.Warnings,
	}
}
