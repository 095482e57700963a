package notification

import (
	"context"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

// Reminder registro apto para recordatorio de un certificado por vencer o vencido.
type Reminder struct {
	CertificateID       string                   `json:"certificateId"`
	StaffMemberName     string                   `json:"staffMemberName"`
	CertificateTypeName string                   `json:"certificateTypeName"`
	ExpirationDate      time.Time                `json:"expirationDate"`
	Status              entity.CertificateStatus `json:"status"`
	DaysUntilExpiration int                      `json:"daysUntilExpiration"`
}

// Notifier colaborador externo que entrega los recordatorios (correo, chat...).
// La entrega es responsabilidad del adaptador.
type Notifier interface {
	Notify(ctx context.Context, reminders []Reminder) error
}
