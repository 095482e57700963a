package certification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

var now = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func newService(store *memory.Store, at time.Time) *Service {
	return NewService(store.Certificates(), store.CertificateTypes(), store, clock.Fixed(at), logger.Nop())
}

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func TestIssue_VencimientoPorVigenciaDelTipo(t *testing.T) {
	svc := newService(memory.NewStore(), now)
	cert, err := svc.Issue(context.Background(), IssueInput{
		StaffMemberName: "John Smith",
		PositionID:      "p1",
		CertificateType: &entity.CertificateType{Name: "First Aid", ValidityPeriodMonths: 12},
		IssueDate:       day(2025, 1, 15),
	})
	require.NoError(t, err)
	assert.Equal(t, day(2026, 1, 15), cert.ExpirationDate)
	assert.Equal(t, entity.StatusActive, cert.Status)
}

func TestIssue_VencimientoAnteriorEsValidationError(t *testing.T) {
	svc := newService(memory.NewStore(), now)
	exp := day(2024, 1, 1)
	_, err := svc.Issue(context.Background(), IssueInput{
		StaffMemberName: "John Smith",
		CertificateType: &entity.CertificateType{Name: "First Aid"},
		IssueDate:       day(2025, 1, 15),
		ExpirationDate:  &exp,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRenew_CreaVersionNuevaSinTocarLaAnterior(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.CertificateTypes().Create(ctx, &entity.CertificateType{ID: "t1", Name: "First Aid", ValidityPeriodMonths: 24, Active: true}))
	prev := &entity.Certificate{
		ID: "old", StaffMemberName: "John Smith", PositionID: "p1",
		LegacyFields:   map[string]string{"trainingType": "first aid"},
		IssueDate:      day(2023, 1, 1),
		ExpirationDate: day(2024, 1, 1),
		Status:         entity.StatusExpired,
	}
	require.NoError(t, store.Certificates().Create(ctx, prev))

	svc := newService(store, now)
	renewed, err := svc.Renew(ctx, dto.RenewRequest{CertificateID: "old", IssueDate: "20/05/2025"})
	require.NoError(t, err)
	assert.Equal(t, "old", renewed.SupersedesID)
	assert.Equal(t, "First Aid", renewed.CertificateTypeName)
	assert.Equal(t, day(2027, 5, 20), renewed.ExpirationDate)

	old, err := store.Certificates().GetByID(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, day(2024, 1, 1), old.ExpirationDate)

	all, err := store.Certificates().List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRenew_Errores(t *testing.T) {
	svc := newService(memory.NewStore(), now)
	_, err := svc.Renew(context.Background(), dto.RenewRequest{CertificateID: "x", IssueDate: "31/02/2025"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Renew(context.Background(), dto.RenewRequest{CertificateID: "x", IssueDate: "01/02/2025"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRefreshStatuses(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Certificates().Create(ctx, &entity.Certificate{ID: "a", ExpirationDate: day(2025, 6, 20), Status: entity.StatusActive}))
	require.NoError(t, store.Certificates().Create(ctx, &entity.Certificate{ID: "b", ExpirationDate: day(2030, 1, 1), Status: entity.StatusActive}))
	require.NoError(t, store.Certificates().Create(ctx, &entity.Certificate{ID: "c", ExpirationDate: day(2025, 1, 1), Status: entity.StatusActive}))

	summary, err := newService(store, now).RefreshStatuses(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Updated)

	a, _ := store.Certificates().GetByID(ctx, "a")
	c, _ := store.Certificates().GetByID(ctx, "c")
	assert.Equal(t, entity.StatusExpiringSoon, a.Status)
	assert.Equal(t, entity.StatusExpired, c.Status)
}
