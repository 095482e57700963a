package entity

import "time"

// PositionRequirement regla que exige (u opcionalmente recomienda) un tipo de certificado para un cargo.
// A lo sumo un requisito activo por (PositionID, CertificateTypeName); lo garantiza el repositorio.
type PositionRequirement struct {
	ID                   string
	PositionID           string
	CertificateTypeName  string
	ValidityPeriodMonths int
	IsRequired           bool
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
