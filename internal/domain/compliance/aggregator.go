// Package compliance cruza empleados, cargos, requisitos y certificados para calcular
// el cumplimiento por requisito, por cargo y de toda la organización.
package compliance

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Certificaciones-api/internal/domain/certificate"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/naturalkey"
)

// RatePlaces decimales con los que se expresan las tasas (fracción 0..1).
const RatePlaces = 4

// Input lectura completa del repositorio sobre la que se calcula el cumplimiento.
// Los empleados deben llegar normalizados.
type Input struct {
	Employees    []*entity.Employee
	Positions    []*entity.Position
	Requirements []*entity.PositionRequirement
}

// RequirementRecord cumplimiento de un requisito para un empleado en uno de sus cargos.
type RequirementRecord struct {
	EmployeeID          string
	EmployeeName        string
	PositionID          string
	PositionTitle       string
	RequirementID       string
	CertificateTypeName string
	IsCompliant         bool
	MatchedCertificate  *entity.Certificate
	MatchedStatus       entity.CertificateStatus
	DaysUntilExpiration *int
}

// PositionSummary cumplimiento agregado de un cargo.
// Scored=false cuando el cargo no tiene empleados o no tiene requisitos.
type PositionSummary struct {
	PositionID         string
	Title              string
	Department         string
	Employees          int
	Requirements       int
	TotalInstances     int
	CompliantInstances int
	Rate               decimal.Decimal
	Scored             bool
}

// EmployeeSummary cumplimiento agregado de un empleado sobre todos sus cargos.
type EmployeeSummary struct {
	EmployeeID         string
	Name               string
	TotalInstances     int
	CompliantInstances int
	Rate               decimal.Decimal
}

// Result resultado del cálculo.
type Result struct {
	ComputedAt         time.Time
	Records            []RequirementRecord
	Positions          []PositionSummary
	Employees          []EmployeeSummary
	TotalInstances     int
	CompliantInstances int
	Rate               decimal.Decimal
}

// Rate compliant/total redondeado a RatePlaces; 0 si no hay instancias.
func Rate(compliant, total int) decimal.Decimal {
	if total <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(compliant)).
		DivRound(decimal.NewFromInt(int64(total)), RatePlaces)
}

// Percent expresa una tasa como porcentaje con dos decimales.
func Percent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(100)).Round(2)
}

// Aggregate calcula el cumplimiento. Nunca falla: la falta de requisitos o certificados
// se refleja como "sin datos" o "no cumple".
func Aggregate(in Input, linker CertificateLinker, now time.Time) *Result {
	res := &Result{ComputedAt: now}

	positions := make(map[string]*entity.Position, len(in.Positions))
	for _, p := range in.Positions {
		if p != nil && p.Active {
			positions[p.ID] = p
		}
	}

	requirements := make(map[string][]*entity.PositionRequirement)
	for _, r := range in.Requirements {
		if r == nil || !r.Active || !r.IsRequired {
			continue
		}
		if _, ok := positions[r.PositionID]; !ok {
			continue
		}
		requirements[r.PositionID] = append(requirements[r.PositionID], r)
	}
	for id := range requirements {
		reqs := requirements[id]
		sort.SliceStable(reqs, func(i, j int) bool {
			return naturalkey.Fold(reqs[i].CertificateTypeName) < naturalkey.Fold(reqs[j].CertificateTypeName)
		})
	}

	summaries := make(map[string]*PositionSummary, len(positions))
	for id, p := range positions {
		summaries[id] = &PositionSummary{
			PositionID:   id,
			Title:        p.Title,
			Department:   p.Department,
			Requirements: len(requirements[id]),
		}
	}

	for _, emp := range in.Employees {
		if emp == nil || !emp.Active {
			continue
		}
		certs := linker.CertificatesFor(emp)
		empSummary := EmployeeSummary{EmployeeID: emp.ID, Name: emp.Name}

		for _, positionID := range emp.Positions {
			p, ok := positions[positionID]
			if !ok {
				continue
			}
			ps := summaries[positionID]
			ps.Employees++

			for _, req := range requirements[positionID] {
				rec := evaluate(emp, p, req, certs, now)
				res.Records = append(res.Records, rec)

				ps.TotalInstances++
				empSummary.TotalInstances++
				if rec.IsCompliant {
					ps.CompliantInstances++
					empSummary.CompliantInstances++
				}
			}
		}

		empSummary.Rate = Rate(empSummary.CompliantInstances, empSummary.TotalInstances)
		res.Employees = append(res.Employees, empSummary)
		res.TotalInstances += empSummary.TotalInstances
		res.CompliantInstances += empSummary.CompliantInstances
	}

	for _, ps := range summaries {
		ps.Rate = Rate(ps.CompliantInstances, ps.TotalInstances)
		ps.Scored = ps.Employees > 0 && ps.Requirements > 0
		res.Positions = append(res.Positions, *ps)
	}
	sort.Slice(res.Positions, func(i, j int) bool {
		a, b := res.Positions[i], res.Positions[j]
		if fa, fb := naturalkey.Fold(a.Title), naturalkey.Fold(b.Title); fa != fb {
			return fa < fb
		}
		return a.PositionID < b.PositionID
	})

	res.Rate = Rate(res.CompliantInstances, res.TotalInstances)
	return res
}

func evaluate(emp *entity.Employee, p *entity.Position, req *entity.PositionRequirement, certs []*entity.Certificate, now time.Time) RequirementRecord {
	rec := RequirementRecord{
		EmployeeID:          emp.ID,
		EmployeeName:        emp.Name,
		PositionID:          p.ID,
		PositionTitle:       p.Title,
		RequirementID:       req.ID,
		CertificateTypeName: req.CertificateTypeName,
	}

	match := SelectLatest(certs, req.CertificateTypeName)
	if match == nil {
		return rec
	}
	status := certificate.DeriveStatus(match.ExpirationDate, now)
	days := certificate.DaysUntil(match.ExpirationDate, now)
	rec.MatchedCertificate = match
	rec.MatchedStatus = status
	rec.DaysUntilExpiration = &days
	rec.IsCompliant = status != entity.StatusExpired
	return rec
}

// SelectLatest entre los certificados del tipo indicado elige el de vencimiento más tardío,
// aunque esté vencido. Empates: emisión más reciente y luego id mayor, para no depender del orden.
func SelectLatest(certs []*entity.Certificate, typeName string) *entity.Certificate {
	want := naturalkey.Fold(typeName)
	var best *entity.Certificate
	for _, c := range certs {
		if c == nil || naturalkey.Fold(certificate.TypeName(c)) != want {
			continue
		}
		if best == nil || supersedes(c, best) {
			best = c
		}
	}
	return best
}

func supersedes(c, best *entity.Certificate) bool {
	if !c.ExpirationDate.Equal(best.ExpirationDate) {
		return c.ExpirationDate.After(best.ExpirationDate)
	}
	if !c.IssueDate.Equal(best.IssueDate) {
		return c.IssueDate.After(best.IssueDate)
	}
	return strings.Compare(c.ID, best.ID) > 0
}

// NeedsAttention cargos puntuados ordenados de menor a mayor tasa. Los cargos sin
// empleados o sin requisitos no participan. limit <= 0 devuelve todos.
func (r *Result) NeedsAttention(limit int) []PositionSummary {
	var out []PositionSummary
	for _, p := range r.Positions {
		if p.Scored && p.CompliantInstances < p.TotalInstances {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Rate.Equal(out[j].Rate) {
			return out[i].Rate.LessThan(out[j].Rate)
		}
		return out[i].TotalInstances > out[j].TotalInstances
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecordsFor registros de un empleado.
func (r *Result) RecordsFor(employeeID string) []RequirementRecord {
	var out []RequirementRecord
	for _, rec := range r.Records {
		if rec.EmployeeID == employeeID {
			out = append(out, rec)
		}
	}
	return out
}
