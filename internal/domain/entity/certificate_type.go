package entity

import "time"

// DefaultValidityMonths vigencia por defecto de un tipo de certificado creado sin dato explícito.
const DefaultValidityMonths = 12

// CertificateType define la vigencia por defecto de un certificado cuando no trae fecha de vencimiento.
type CertificateType struct {
	ID                   string
	Name                 string // clave natural (única, sin distinguir mayúsculas)
	ValidityPeriodMonths int
	Active               bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Validity devuelve la vigencia en meses, con DefaultValidityMonths si no es positiva.
func (t *CertificateType) Validity() int {
	if t == nil || t.ValidityPeriodMonths <= 0 {
		return DefaultValidityMonths
	}
	return t.ValidityPeriodMonths
}
