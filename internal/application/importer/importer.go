// Package importer implementa la carga masiva de certificados desde filas tabulares.
// Cada fila se procesa en su propia unidad de trabajo; una fila inválida nunca aborta el lote.
package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/application/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/application/catalog"
	"github.com/jhoicas/Certificaciones-api/internal/application/certification"
	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/certificate"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// Importer orquesta la resolución de cargos, empleados y tipos y la emisión de certificados.
type Importer struct {
	catalog   *catalog.Service
	assign    *assignment.Service
	certs     *certification.Service
	employees repository.EmployeeRepository
	tx        repository.TransactionManager
	clock     clock.Clock
	log       *logger.Logger
}

// New construye el importador.
func New(
	catalogSvc *catalog.Service,
	assignSvc *assignment.Service,
	certSvc *certification.Service,
	employees repository.EmployeeRepository,
	tx repository.TransactionManager,
	clk clock.Clock,
	log *logger.Logger,
) *Importer {
	return &Importer{
		catalog:   catalogSvc,
		assign:    assignSvc,
		certs:     certSvc,
		employees: employees,
		tx:        tx,
		clock:     clk,
		log:       log.Component("importer"),
	}
}

// rowResult lo que una fila aportó al lote; solo se contabiliza si la unidad de trabajo confirma.
type rowResult struct {
	outcomes      []string
	warnings      []string
	certificateID string
}

func (r *rowResult) add(outcome string) { r.outcomes = append(r.outcomes, outcome) }

// Import procesa las filas en orden. Devuelve siempre el resultado acumulado; el error solo
// es distinto de nil cuando el lote se interrumpe (cancelación o fallo de almacenamiento),
// en cuyo caso las filas ya procesadas quedan confirmadas.
func (im *Importer) Import(ctx context.Context, rows []dto.ImportRow) (*dto.ImportResult, error) {
	res := &dto.ImportResult{Stats: dto.ImportStats{Total: len(rows), Errors: []dto.RowError{}}}

	for i, raw := range rows {
		n := i + 1
		if err := ctx.Err(); err != nil {
			return im.interrupt(res, n, err)
		}

		var out rowResult
		err := im.tx.WithinReadWrite(ctx, func(ctx context.Context) error {
			out = rowResult{}
			return im.processRow(ctx, newRow(raw), &out)
		})
		if err != nil {
			if domain.IsRepositoryError(err) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return im.interrupt(res, n, err)
			}
			res.Stats.Errors = append(res.Stats.Errors, dto.RowError{Row: n, Reason: err.Error()})
			res.Outcomes = append(res.Outcomes, dto.RowOutcome{Row: n, Outcomes: []string{dto.OutcomeError}, Reason: err.Error()})
			im.log.Warn().Int("row", n).Err(err).Msg("fila omitida")
			continue
		}

		for _, o := range out.outcomes {
			switch o {
			case dto.OutcomeCreatedPosition:
				res.Stats.NewPositions++
			case dto.OutcomeCreatedEmployee:
				res.Stats.NewEmployees++
			case dto.OutcomeCreatedCertType:
				res.Stats.NewCertTypes++
			}
		}
		res.Stats.ProcessedCount++
		res.Outcomes = append(res.Outcomes, dto.RowOutcome{Row: n, Outcomes: out.outcomes, CertificateID: out.certificateID})
		for _, w := range out.warnings {
			res.Warnings = append(res.Warnings, fmt.Sprintf("fila %d: %s", n, w))
		}
	}

	res.Message = fmt.Sprintf("Importación completada: %d de %d filas procesadas", res.Stats.ProcessedCount, res.Stats.Total)
	im.log.Info().
		Int("total", res.Stats.Total).
		Int("processed", res.Stats.ProcessedCount).
		Int("errors", len(res.Stats.Errors)).
		Msg("importación finalizada")
	return res, nil
}

func (im *Importer) interrupt(res *dto.ImportResult, n int, err error) (*dto.ImportResult, error) {
	res.Interrupted = true
	res.Message = fmt.Sprintf("Importación interrumpida en la fila %d: %d de %d filas procesadas", n, res.Stats.ProcessedCount, res.Stats.Total)
	im.log.Error().Err(err).Int("row", n).Int("processed", res.Stats.ProcessedCount).Msg("importación interrumpida")
	return res, err
}

func (im *Importer) processRow(ctx context.Context, r row, out *rowResult) error {
	name := r.get(dto.ColumnName)
	title := r.get(dto.ColumnPositionTitle)
	typeName := r.get(dto.ColumnType)
	switch {
	case name == "":
		return domain.NewValidationError(dto.ColumnName, "obligatorio")
	case title == "":
		return domain.NewValidationError(dto.ColumnPositionTitle, "obligatorio")
	case typeName == "":
		return domain.NewValidationError(dto.ColumnType, "obligatorio")
	}

	issueDate := certificate.Today(im.clock.Now())
	if s := r.get(dto.ColumnBookingDate); s != "" {
		d, err := certificate.ParseDate(s)
		if err != nil {
			return domain.NewValidationError(dto.ColumnBookingDate, err.Error())
		}
		issueDate = d
	}
	var expiry *time.Time
	if s := r.get(dto.ColumnExpiryDate); s != "" {
		d, err := certificate.ParseDate(s)
		if err != nil {
			return domain.NewValidationError(dto.ColumnExpiryDate, err.Error())
		}
		expiry = &d
	}

	if expiry != nil && !expiry.After(issueDate) {
		return domain.NewValidationError(dto.ColumnExpiryDate, "debe ser posterior a la fecha de emisión")
	}

	position, err := im.resolvePosition(ctx, title, r.get(dto.ColumnDepartment), out)
	if err != nil {
		return err
	}
	if err := im.resolveEmployee(ctx, name, r.get(dto.ColumnCompany), position, out); err != nil {
		return err
	}
	certType, err := im.resolveCertificateType(ctx, typeName, out)
	if err != nil {
		return err
	}

	cert, err := im.certs.Issue(ctx, certification.IssueInput{
		StaffMemberName: name,
		PositionID:      position.ID,
		CertificateType: certType,
		IssueDate:       issueDate,
		ExpirationDate:  expiry,
	})
	if err != nil {
		return err
	}
	out.certificateID = cert.ID
	out.add(dto.OutcomeProcessed)
	return nil
}

func (im *Importer) resolvePosition(ctx context.Context, title, department string, out *rowResult) (*entity.Position, error) {
	position, created, err := im.catalog.EnsurePosition(ctx, title, department)
	if err != nil {
		return nil, err
	}
	if created {
		out.add(dto.OutcomeCreatedPosition)
		similar, err := im.catalog.SimilarPositions(ctx, position.Title)
		if err != nil {
			return nil, err
		}
		if len(similar) > 0 {
			out.warnings = append(out.warnings, fmt.Sprintf("cargo nuevo %q parecido a %q", position.Title, similar))
		}
	}
	if !position.Active {
		if position, err = im.catalog.SetPositionActive(ctx, position.ID, true); err != nil {
			return nil, err
		}
		out.warnings = append(out.warnings, fmt.Sprintf("cargo %q reactivado", position.Title))
	}
	return position, nil
}

func (im *Importer) resolveEmployee(ctx context.Context, name, email string, position *entity.Position, out *rowResult) error {
	raw, err := im.employees.FindByName(ctx, name)
	if err != nil {
		return domain.WrapRepository("find employee", err)
	}
	if raw == nil {
		_, err := im.assign.CreateEmployee(ctx, name, email, position.ID)
		if err == nil {
			out.add(dto.OutcomeCreatedEmployee)
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicate) {
			return err
		}
		// Otra importación lo creó entre la búsqueda y la inserción.
		if raw, err = im.employees.FindByName(ctx, name); err != nil {
			return domain.WrapRepository("find employee", err)
		}
		if raw == nil {
			return &domain.ReferenceError{Entity: "employee", Key: name, Reason: "duplicado sin registro visible"}
		}
	}

	if _, err := im.assign.Enroll(ctx, raw.ID, position.ID); err != nil {
		return err
	}
	if !raw.Active {
		out.warnings = append(out.warnings, fmt.Sprintf("empleado %q reactivado", raw.Name))
	}
	return nil
}

func (im *Importer) resolveCertificateType(ctx context.Context, name string, out *rowResult) (*entity.CertificateType, error) {
	certType, created, err := im.catalog.EnsureCertificateType(ctx, name, 0)
	if err != nil {
		return nil, err
	}
	if created {
		out.add(dto.OutcomeCreatedCertType)
		similar, err := im.catalog.SimilarCertificateTypes(ctx, certType.Name)
		if err != nil {
			return nil, err
		}
		if len(similar) > 0 {
			out.warnings = append(out.warnings, fmt.Sprintf("tipo de certificado nuevo %q parecido a %q", certType.Name, similar))
		}
	}
	return certType, nil
}
