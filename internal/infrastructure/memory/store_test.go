package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

func TestPositionRepo_TituloSinDistinguirMayusculas(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Positions()

	require.NoError(t, repo.Create(ctx, &entity.Position{ID: "p1", Title: "Welder", Active: true}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.Position{ID: "p2", Title: " WELDER "}), domain.ErrDuplicate)

	found, err := repo.FindByTitle(ctx, "welder")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "p1", found.ID)

	missing, err := repo.FindByTitle(ctx, "Rigger")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRequirementRepo_UnSoloRequisitoActivoPorPar(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Requirements()

	require.NoError(t, repo.Create(ctx, &entity.PositionRequirement{ID: "r1", PositionID: "p1", CertificateTypeName: "First Aid", Active: true}))
	assert.ErrorIs(t, repo.Create(ctx, &entity.PositionRequirement{ID: "r2", PositionID: "p1", CertificateTypeName: "first aid", Active: true}), domain.ErrDuplicate)

	// Un requisito inactivo no bloquea.
	require.NoError(t, repo.Create(ctx, &entity.PositionRequirement{ID: "r3", PositionID: "p1", CertificateTypeName: "First Aid", Active: false}))

	r3, err := repo.GetByID(ctx, "r3")
	require.NoError(t, err)
	r3.Active = true
	assert.ErrorIs(t, repo.Update(ctx, r3), domain.ErrDuplicate)
}

func TestEmployeeRepo_CopiasIndependientes(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Employees()

	emp := &entity.RawEmployee{ID: "e1", Name: "John Smith", Positions: []any{"p1"}, Active: true}
	require.NoError(t, repo.Create(ctx, emp))
	emp.Positions[0] = "mutado"

	got, err := repo.FindByName(ctx, "JOHN SMITH")
	require.NoError(t, err)
	assert.Equal(t, []any{"p1"}, got.Positions)
}

func TestCertificateRepo_ListExpiringBefore(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Certificates()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entity.Certificate{ID: "c2", ExpirationDate: base.AddDate(0, 0, 20)}))
	require.NoError(t, repo.Create(ctx, &entity.Certificate{ID: "c1", ExpirationDate: base.AddDate(0, 0, 10)}))
	require.NoError(t, repo.Create(ctx, &entity.Certificate{ID: "c3", ExpirationDate: base.AddDate(0, 0, 90)}))

	list, err := repo.ListExpiringBefore(ctx, base.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c1", list[0].ID)
	assert.Equal(t, "c2", list[1].ID)
}

func TestStore_InjectFailure(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	store.InjectFailure("positions.list", errors.New("disco lleno"))

	_, err := store.Positions().ListActive(ctx)
	assert.True(t, domain.IsRepositoryError(err))

	store.InjectFailure("positions.list", nil)
	_, err = store.Positions().ListActive(ctx)
	assert.NoError(t, err)
}
