package assignment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

var now = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type fixture struct {
	store *memory.Store
	svc   *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	for i, title := range []string{"Welder", "Rigger", "Driver"} {
		require.NoError(t, store.Positions().Create(ctx, &entity.Position{
			ID: title, Title: title, Active: true, CreatedAt: now.AddDate(0, 0, i),
		}))
	}
	require.NoError(t, store.Positions().Create(ctx, &entity.Position{ID: "Retired", Title: "Retired", Active: false}))

	svc := NewService(store.Employees(), store.Positions(), store, clock.Fixed(now), logger.Nop(), "")
	return &fixture{store: store, svc: svc}
}

func (f *fixture) seed(t *testing.T, raws ...*entity.RawEmployee) {
	t.Helper()
	for _, raw := range raws {
		require.NoError(t, f.store.Employees().Create(context.Background(), raw))
	}
}

func TestFixAll_ReparaYEsIdempotente(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t,
		&entity.RawEmployee{ID: "e1", Name: "John Smith", Active: true,
			Positions: []any{"Welder", bson.M{"_id": "Welder"}, "Retired"}, PrimaryPosition: "Retired"},
		&entity.RawEmployee{ID: "e2", Name: "Ana Ruiz", Active: true,
			Positions: []any{}, PrimaryPosition: nil},
		&entity.RawEmployee{ID: "e3", Name: "Ok", Active: true,
			Positions: []any{"Rigger"}, PrimaryPosition: "Rigger"},
	)

	summary, err := f.svc.FixAll(ctx, false)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, 2, summary.Fixed)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Zero(t, summary.Skipped)
	require.Len(t, summary.Changes, 2)

	e1, err := f.store.Employees().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []any{"Welder"}, e1.Positions)
	assert.Equal(t, "Welder", e1.PrimaryPosition)

	e2, err := f.store.Employees().GetByID(ctx, "e2")
	require.NoError(t, err)
	assert.Equal(t, []any{"Welder"}, e2.Positions, "cargo activo más antiguo como defecto")

	again, err := f.svc.FixAll(ctx, false)
	require.NoError(t, err)
	assert.Zero(t, again.Fixed)
	assert.Equal(t, 3, again.Unchanged)
}

func TestFixAll_DryRunNoEscribe(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, &entity.RawEmployee{ID: "e1", Name: "John", Active: true, Positions: []any{"Welder", "Welder"}})

	summary, err := f.svc.FixAll(ctx, true)
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Fixed)

	raw, err := f.store.Employees().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []any{"Welder", "Welder"}, raw.Positions)
}

func TestFixAll_FalloDeAlmacenamientoDetieneElLote(t *testing.T) {
	f := newFixture(t)
	f.seed(t, &entity.RawEmployee{ID: "e1", Name: "John", Active: true, Positions: []any{"Welder", "Welder"}})
	f.store.InjectFailure("employees.update", errors.New("conexión perdida"))

	summary, err := f.svc.FixAll(context.Background(), false)
	assert.True(t, domain.IsRepositoryError(err))
	assert.Zero(t, summary.Fixed)
}

func TestAssignPosition(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp, err := f.svc.CreateEmployee(ctx, "John Smith", "john@acme.test")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welder"}, emp.Positions, "sin cargos recibe el cargo por defecto")

	emp, err = f.svc.AssignPosition(ctx, emp.ID, "Rigger", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Welder", "Rigger"}, emp.Positions)
	assert.Equal(t, "Welder", emp.PrimaryPosition)

	emp, err = f.svc.AssignPosition(ctx, emp.ID, "Driver", true)
	require.NoError(t, err)
	assert.Equal(t, "Driver", emp.PrimaryPosition)

	_, err = f.svc.AssignPosition(ctx, emp.ID, "Retired", false)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemovePosition_ReasignaElPrincipal(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp, err := f.svc.CreateEmployee(ctx, "John Smith", "", "Rigger", "Driver")
	require.NoError(t, err)
	require.Equal(t, "Rigger", emp.PrimaryPosition)

	emp, err = f.svc.RemovePosition(ctx, emp.ID, "Rigger")
	require.NoError(t, err)
	assert.Equal(t, []string{"Driver"}, emp.Positions)
	assert.Equal(t, "Driver", emp.PrimaryPosition)
}

func TestSetPrimaryPosition_NoAsignadoEsValidationError(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp, err := f.svc.CreateEmployee(ctx, "John Smith", "", "Rigger")
	require.NoError(t, err)

	_, err = f.svc.SetPrimaryPosition(ctx, emp.ID, "Driver")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.svc.SetPrimaryPosition(ctx, "desconocido", "Driver")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetActive(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp, err := f.svc.CreateEmployee(ctx, "John Smith", "", "Rigger")
	require.NoError(t, err)

	emp, err = f.svc.SetActive(ctx, emp.ID, false)
	require.NoError(t, err)
	assert.False(t, emp.Active)
	assert.Equal(t, []string{"Rigger"}, emp.Positions, "desactivar no borra datos")

	stored, err := f.store.Employees().GetByID(ctx, emp.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestCreateEmployee_NombreDuplicado(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.CreateEmployee(ctx, "John Smith", "")
	require.NoError(t, err)
	_, err = f.svc.CreateEmployee(ctx, "JOHN SMITH", "")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestAssignPosition_SinCargosValidosNoAgregaElCargoPorDefecto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, &entity.RawEmployee{ID: "e1", Name: "John Smith", Active: true,
		Positions: []any{"ghost"}, PrimaryPosition: "ghost"})

	emp, err := f.svc.AssignPosition(ctx, "e1", "Driver", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Driver"}, emp.Positions)
	assert.Equal(t, "Driver", emp.PrimaryPosition)
}

func TestRemovePosition_UltimoCargoRecibeElCargoPorDefecto(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	emp, err := f.svc.CreateEmployee(ctx, "John Smith", "", "Driver")
	require.NoError(t, err)

	emp, err = f.svc.RemovePosition(ctx, emp.ID, "Driver")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welder"}, emp.Positions)
	assert.Equal(t, "Welder", emp.PrimaryPosition)
}

func TestEnroll_ReactivaYAgregaElCargo(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, &entity.RawEmployee{ID: "e1", Name: "John Smith", Active: false})

	emp, err := f.svc.Enroll(ctx, "e1", "Rigger")
	require.NoError(t, err)
	assert.True(t, emp.Active)
	assert.Equal(t, []string{"Rigger"}, emp.Positions)
	assert.Equal(t, "Rigger", emp.PrimaryPosition)
}

func TestGet_NormalizaSinPersistir(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seed(t, &entity.RawEmployee{ID: "e1", Name: "John Smith", Active: true,
		Positions: []any{"Rigger", "Retired"}, PrimaryPosition: "Retired"})

	emp, err := f.svc.Get(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []string{"Rigger"}, emp.Positions)
	assert.Equal(t, "Rigger", emp.PrimaryPosition)

	stored, err := f.store.Employees().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Len(t, stored.Positions, 2)

	_, err = f.svc.Get(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
