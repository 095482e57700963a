package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

var now = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

type recorder struct {
	got []Reminder
	err error
}

func (r *recorder) Notify(_ context.Context, reminders []Reminder) error {
	r.got = append(r.got, reminders...)
	return r.err
}

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for _, c := range []*entity.Certificate{
		// Por vencer, sin sustituto.
		{ID: "soon", StaffMemberName: "John Smith", CertificateTypeName: "First Aid", ExpirationDate: now.AddDate(0, 0, 10)},
		// Vencido pero sustituido por una renovación vigente.
		{ID: "old", StaffMemberName: "Ana Ruiz", CertificateTypeName: "First Aid", ExpirationDate: now.AddDate(0, 0, -5)},
		{ID: "new", StaffMemberName: "Ana Ruiz", CertificateTypeName: "First Aid", ExpirationDate: now.AddDate(1, 0, 0), SupersedesID: "old"},
		// Vencido sin renovación.
		{ID: "gone", StaffMemberName: "Luis Gil", LegacyFields: map[string]string{"certType": "Hot Work"}, ExpirationDate: now.AddDate(0, 0, -1)},
		// Fuera de la ventana.
		{ID: "far", StaffMemberName: "John Smith", CertificateTypeName: "Hot Work", ExpirationDate: now.AddDate(0, 3, 0)},
	} {
		require.NoError(t, store.Certificates().Create(ctx, c))
	}
	return store
}

func TestSend_SoloElUltimoCertificadoDeCadaTipo(t *testing.T) {
	rec := &recorder{}
	svc := NewService(seed(t).Certificates(), rec, clock.Fixed(now), logger.Nop())

	summary, err := svc.Send(context.Background(), 30)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Eligible)
	assert.Equal(t, 1, summary.Superseded)

	require.Len(t, rec.got, 2)
	assert.Equal(t, "gone", rec.got[0].CertificateID)
	assert.Equal(t, "Hot Work", rec.got[0].CertificateTypeName)
	assert.Equal(t, entity.StatusExpired, rec.got[0].Status)
	assert.Equal(t, "soon", rec.got[1].CertificateID)
	assert.Equal(t, entity.StatusExpiringSoon, rec.got[1].Status)
	assert.Equal(t, 10, rec.got[1].DaysUntilExpiration)
}

func TestSend_VentanaInvalida(t *testing.T) {
	svc := NewService(memory.NewStore().Certificates(), &recorder{}, clock.Fixed(now), logger.Nop())
	_, err := svc.Send(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSend_ErrorDelNotifier(t *testing.T) {
	rec := &recorder{err: errors.New("smtp caído")}
	svc := NewService(seed(t).Certificates(), rec, clock.Fixed(now), logger.Nop())
	summary, err := svc.Send(context.Background(), 30)
	assert.Error(t, err)
	assert.Equal(t, 2, summary.Eligible)
}
