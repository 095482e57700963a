// Package notify contiene adaptadores del colaborador de notificaciones.
package notify

import (
	"context"

	"github.com/jhoicas/Certificaciones-api/internal/application/notification"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

var _ notification.Notifier = (*LogNotifier)(nil)

// LogNotifier emite cada recordatorio como evento estructurado. La entrega real (correo)
// queda en manos de quien consuma los logs.
type LogNotifier struct {
	log *logger.Logger
}

// NewLogNotifier construye el adaptador.
func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.Component("reminders")}
}

// Notify implementa notification.Notifier.
func (n *LogNotifier) Notify(ctx context.Context, reminders []notification.Reminder) error {
	for _, r := range reminders {
		if err := ctx.Err(); err != nil {
			return err
		}
		n.log.Warn().
			Str("certificate_id", r.CertificateID).
			Str("staff_member_name", r.StaffMemberName).
			Str("certificate_type", r.CertificateTypeName).
			Time("expiration_date", r.ExpirationDate).
			Str("status", string(r.Status)).
			Int("days_until_expiration", r.DaysUntilExpiration).
			Msg("certificado requiere renovación")
	}
	return nil
}
