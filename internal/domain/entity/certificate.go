package entity

import "time"

// CertificateStatus estado de ciclo de vida derivado de la fecha de vencimiento.
type CertificateStatus string

// Estados de certificado.
const (
	StatusActive       CertificateStatus = "Active"
	StatusExpiringSoon CertificateStatus = "ExpiringSoon"
	StatusExpired      CertificateStatus = "Expired"
)

// Certificate evidencia de que un empleado completó una formación.
// Se vincula al empleado por nombre (StaffMemberName), no por id.
// Status es una caché recalculada en cada escritura; nunca es fuente de verdad.
// Los certificados son inmutables: una renovación crea uno nuevo con SupersedesID.
type Certificate struct {
	ID                  string
	StaffMemberName     string
	PositionID          string
	CertificateTypeName string
	IssueDate           time.Time
	ExpirationDate      time.Time
	Status              CertificateStatus
	SupersedesID        string
	// LegacyFields nombres históricos del campo "tipo de certificado" (alias → valor).
	LegacyFields map[string]string
	CreatedAt    time.Time
}
