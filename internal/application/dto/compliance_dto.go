package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ComplianceScopeAll consulta de cumplimiento de toda la organización.
const ComplianceScopeAll = "all"

// ComplianceResponse resultado de una consulta de cumplimiento (un empleado o "all").
type ComplianceResponse struct {
	Scope              string                     `json:"scope"`
	ComputedAt         time.Time                  `json:"computed_at"`
	Requirements       []RequirementComplianceDTO `json:"requirements"`
	Positions          []PositionComplianceDTO    `json:"positions,omitempty"`
	NeedsAttention     []PositionComplianceDTO    `json:"needs_attention,omitempty"`
	TotalInstances     int                        `json:"total_instances"`
	CompliantInstances int                        `json:"compliant_instances"`
	Rate               decimal.Decimal            `json:"rate"`         // fracción 0..1
	RatePercent        decimal.Decimal            `json:"rate_percent"` // rate * 100
}

// RequirementComplianceDTO cumplimiento de un requisito para un empleado y cargo.
type RequirementComplianceDTO struct {
	EmployeeID          string              `json:"employee_id"`
	EmployeeName        string              `json:"employee_name"`
	PositionID          string              `json:"position_id"`
	PositionTitle       string              `json:"position_title"`
	CertificateTypeName string              `json:"certificate_type_name"`
	IsCompliant         bool                `json:"is_compliant"`
	MatchedCertificate  *CertificateSummary `json:"matched_certificate"`
	DaysUntilExpiration *int                `json:"days_until_expiration"`
}

// CertificateSummary datos del certificado elegido para un requisito.
type CertificateSummary struct {
	ID             string    `json:"id"`
	IssueDate      time.Time `json:"issue_date"`
	ExpirationDate time.Time `json:"expiration_date"`
	Status         string    `json:"status"`
}

// PositionComplianceDTO tasa de cumplimiento de un cargo.
type PositionComplianceDTO struct {
	PositionID         string          `json:"position_id"`
	Title              string          `json:"title"`
	Department         string          `json:"department"`
	Employees          int             `json:"employees"`
	Requirements       int             `json:"requirements"`
	TotalInstances     int             `json:"total_instances"`
	CompliantInstances int             `json:"compliant_instances"`
	Rate               decimal.Decimal `json:"rate"`
	RatePercent        decimal.Decimal `json:"rate_percent"`
	Scored             bool            `json:"scored"`
}
