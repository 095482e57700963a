// Package certificate contiene las reglas puras sobre certificados: estado de ciclo de vida
// y resolución de los nombres históricos del campo tipo de certificado.
package certificate

import (
	"math"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// ExpiringSoonWindow ventana en la que un certificado vigente pasa a "por vencer".
const ExpiringSoonWindow = 30 * 24 * time.Hour

// DeriveStatus calcula el estado a partir del vencimiento y de "now" (siempre explícito).
// Expired si exp <= now; ExpiringSoon si now < exp <= now+30d; Active en otro caso.
// Los empates favorecen el estado más conservador.
func DeriveStatus(expirationDate, now time.Time) entity.CertificateStatus {
	if !expirationDate.After(now) {
		return entity.StatusExpired
	}
	if !expirationDate.After(now.Add(ExpiringSoonWindow)) {
		return entity.StatusExpiringSoon
	}
	return entity.StatusActive
}

// DaysUntil días que faltan para el vencimiento, redondeando hacia arriba.
// Es negativo (o cero) cuando el certificado ya venció.
func DaysUntil(expirationDate, now time.Time) int {
	d := expirationDate.Sub(now)
	return int(math.Ceil(d.Hours() / 24))
}

// ExpirationFrom fecha de vencimiento por defecto: emisión + vigencia en meses.
func ExpirationFrom(issueDate time.Time, validityMonths int) time.Time {
	if validityMonths <= 0 {
		validityMonths = entity.DefaultValidityMonths
	}
	return issueDate.AddDate(0, validityMonths, 0)
}

// Refresh recalcula la caché de estado del certificado y devuelve si cambió.
func Refresh(c *entity.Certificate, now time.Time) bool {
	status := DeriveStatus(c.ExpirationDate, now)
	if c.Status == status {
		return false
	}
	c.Status = status
	return true
}
