// Package notification selecciona los certificados aptos para recordatorio y los entrega al Notifier.
package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/certificate"
	"github.com/jhoicas/Certificaciones-api/internal/domain/compliance"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// Service casos de uso de recordatorios.
type Service struct {
	certs    repository.CertificateRepository
	notifier Notifier
	clock    clock.Clock
	log      *logger.Logger
}

// NewService construye el caso de uso.
func NewService(certs repository.CertificateRepository, notifier Notifier, clk clock.Clock, log *logger.Logger) *Service {
	return &Service{certs: certs, notifier: notifier, clock: clk, log: log.Component("notification")}
}

// Eligible certificados que vencen dentro de windowDays (o ya vencidos) y que no han sido
// sustituidos por otro del mismo titular y tipo con vencimiento posterior.
func (s *Service) Eligible(ctx context.Context, windowDays int) ([]Reminder, int, error) {
	if windowDays <= 0 {
		return nil, 0, domain.NewValidationError("windowDays", "debe ser positivo")
	}
	now := s.clock.Now()
	cutoff := now.Add(time.Duration(windowDays) * 24 * time.Hour)

	candidates, err := s.certs.ListExpiringBefore(ctx, cutoff)
	if err != nil {
		return nil, 0, domain.WrapRepository("list expiring certificates", err)
	}

	history := make(map[string][]*entity.Certificate)
	var reminders []Reminder
	superseded := 0
	for _, c := range candidates {
		certs, ok := history[c.StaffMemberName]
		if !ok {
			if certs, err = s.certs.ListByStaffMember(ctx, c.StaffMemberName); err != nil {
				return nil, 0, domain.WrapRepository("list certificates", err)
			}
			history[c.StaffMemberName] = certs
		}
		typeName := certificate.TypeName(c)
		if latest := compliance.SelectLatest(certs, typeName); latest != nil && latest.ID != c.ID {
			superseded++
			continue
		}
		reminders = append(reminders, Reminder{
			CertificateID:       c.ID,
			StaffMemberName:     c.StaffMemberName,
			CertificateTypeName: typeName,
			ExpirationDate:      c.ExpirationDate,
			Status:              certificate.DeriveStatus(c.ExpirationDate, now),
			DaysUntilExpiration: certificate.DaysUntil(c.ExpirationDate, now),
		})
	}
	return reminders, superseded, nil
}

// Send entrega los recordatorios aptos al Notifier.
func (s *Service) Send(ctx context.Context, windowDays int) (*dto.ReminderSummary, error) {
	reminders, superseded, err := s.Eligible(ctx, windowDays)
	if err != nil {
		return nil, err
	}
	summary := &dto.ReminderSummary{WindowDays: windowDays, Eligible: len(reminders), Superseded: superseded}
	if len(reminders) == 0 {
		return summary, nil
	}
	if err := s.notifier.Notify(ctx, reminders); err != nil {
		return summary, fmt.Errorf("notificar recordatorios: %w", err)
	}
	s.log.Info().Int("eligible", summary.Eligible).Int("superseded", superseded).Msg("recordatorios entregados")
	return summary, nil
}
