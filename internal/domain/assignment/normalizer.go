// Package assignment contiene la regla de normalización de cargos de un empleado.
// Se usa como pasada de reparación ("fix") y como regla que toda mutación debe cumplir.
package assignment

import (
	"context"
	"fmt"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/reference"
)

// Catalog consulta los cargos existentes. Los errores devueltos son fallos de almacenamiento.
type Catalog interface {
	// PositionExists indica si el id corresponde a un cargo existente y activo.
	PositionExists(ctx context.Context, id string) (bool, error)
	// FallbackPosition cargo por defecto para empleados sin cargos válidos.
	FallbackPosition(ctx context.Context) (string, bool, error)
}

// Motivos de eliminación de una referencia a cargo.
const (
	ReasonUnresolvable = "unresolvable"
	ReasonDuplicate    = "duplicate"
	ReasonUnknown      = "unknown_position"
)

// Removal referencia eliminada de Positions.
type Removal struct {
	Value  string `json:"value"`
	Reason string `json:"reason"`
}

// Report informe de cambios de una normalización (auditoría y job idempotente de reparación).
type Report struct {
	PositionsRemoved []Removal `json:"positions_removed"`
	PositionsAdded   []string  `json:"positions_added"`
	PrimaryChanged   bool      `json:"primary_changed"`
	// Coerced elementos que eran objetos u otros tipos y se reescribieron como id plano.
	Coerced  int      `json:"coerced"`
	Warnings []string `json:"warnings,omitempty"`
}

// Changed indica si la normalización modificó algo que debe persistirse.
func (r Report) Changed() bool {
	return len(r.PositionsRemoved) > 0 || len(r.PositionsAdded) > 0 || r.PrimaryChanged || r.Coerced > 0
}

// Normalize produce un Employee que cumple los invariantes de cargos a partir de su forma
// almacenada. Nunca falla por datos malformados; solo devuelve error si el catálogo falla.
func Normalize(ctx context.Context, raw *entity.RawEmployee, catalog Catalog) (*entity.Employee, Report, error) {
	var report Report

	// 1-3. Coerción a id, deduplicación conservando orden y filtro de cargos inexistentes.
	seen := make(map[string]bool, len(raw.Positions))
	positions := make([]string, 0, len(raw.Positions))
	for _, elem := range raw.Positions {
		ref := reference.Normalize(elem)
		id, ok := ref.ID()
		if !ok {
			report.PositionsRemoved = append(report.PositionsRemoved, Removal{Value: describe(elem), Reason: ReasonUnresolvable})
			continue
		}
		if s, isString := elem.(string); !isString || s != id {
			report.Coerced++
		}
		if seen[id] {
			report.PositionsRemoved = append(report.PositionsRemoved, Removal{Value: id, Reason: ReasonDuplicate})
			continue
		}
		seen[id] = true
		exists, err := catalog.PositionExists(ctx, id)
		if err != nil {
			return nil, report, err
		}
		if !exists {
			report.PositionsRemoved = append(report.PositionsRemoved, Removal{Value: id, Reason: ReasonUnknown})
			continue
		}
		positions = append(positions, id)
	}

	// 4. Cargo por defecto si quedó vacío.
	if len(positions) == 0 {
		fallback, ok, err := catalog.FallbackPosition(ctx)
		if err != nil {
			return nil, report, err
		}
		if ok {
			positions = append(positions, fallback)
			report.PositionsAdded = append(report.PositionsAdded, fallback)
		} else {
			report.Warnings = append(report.Warnings, "empleado sin cargos y no existe cargo por defecto")
		}
	}

	// 5. Cargo principal.
	var previousPrimary string
	if raw.PrimaryPosition != nil {
		ref := reference.Normalize(raw.PrimaryPosition)
		previousPrimary, _ = ref.ID()
		if s, isString := raw.PrimaryPosition.(string); previousPrimary != "" && (!isString || s != previousPrimary) {
			report.Coerced++
		}
	}
	primary := previousPrimary
	if !contains(positions, primary) {
		primary = ""
		if len(positions) > 0 {
			primary = positions[0]
		}
	}
	report.PrimaryChanged = primary != previousPrimary

	emp := &entity.Employee{
		ID:              raw.ID,
		Name:            raw.Name,
		Email:           raw.Email,
		Positions:       positions,
		PrimaryPosition: primary,
		Active:          raw.Active,
		CreatedAt:       raw.CreatedAt,
		UpdatedAt:       raw.UpdatedAt,
	}

	// Lógicamente imposible tras los pasos anteriores: se repara en lugar de fallar.
	if violation := Verify(emp); violation != nil {
		report.Warnings = append(report.Warnings, violation.Error())
		heal(emp)
	}

	return emp, report, nil
}

// Verify comprueba los invariantes estructurales (sin duplicados y principal ∈ cargos).
func Verify(emp *entity.Employee) *domain.InvariantViolation {
	seen := make(map[string]bool, len(emp.Positions))
	for _, id := range emp.Positions {
		if id == "" {
			return &domain.InvariantViolation{EmployeeID: emp.ID, Detail: "id de cargo vacío"}
		}
		if seen[id] {
			return &domain.InvariantViolation{EmployeeID: emp.ID, Detail: "cargo duplicado " + id}
		}
		seen[id] = true
	}
	if len(emp.Positions) == 0 {
		if emp.PrimaryPosition != "" {
			return &domain.InvariantViolation{EmployeeID: emp.ID, Detail: "cargo principal sin cargos asignados"}
		}
		return nil
	}
	if !seen[emp.PrimaryPosition] {
		return &domain.InvariantViolation{EmployeeID: emp.ID, Detail: "cargo principal fuera de la lista de cargos"}
	}
	return nil
}

func heal(emp *entity.Employee) {
	seen := make(map[string]bool, len(emp.Positions))
	clean := emp.Positions[:0]
	for _, id := range emp.Positions {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		clean = append(clean, id)
	}
	emp.Positions = clean
	if !seen[emp.PrimaryPosition] {
		emp.PrimaryPosition = ""
		if len(clean) > 0 {
			emp.PrimaryPosition = clean[0]
		}
	}
}

func contains(list []string, id string) bool {
	if id == "" {
		return false
	}
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}

func describe(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprintf("%v", v)
}
