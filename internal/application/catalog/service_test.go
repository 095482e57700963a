package catalog

import (
	"context"
	"errors"
	"strings"
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

var now = time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)

func newService(store *memory.Store) *Service {
	return NewService(store.Positions(), store.CertificateTypes(), store.Requirements(),
		clock.Fixed(now), logger.Nop(), Defaults{})
}

func TestEnsurePosition_CreaUnaSolaVez(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)

	p, created, err := svc.EnsurePosition(ctx, "Welder", "")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "General", p.Department)
	assert.True(t, p.Active)

	again, created, err := svc.EnsurePosition(ctx, "  WELDER", "Taller")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, p.ID, again.ID)

	list, err := store.Positions().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEnsurePosition_TituloVacioEsReferenceError(t *testing.T) {
	_, _, err := newService(memory.NewStore()).EnsurePosition(context.Background(), "  ", "")
	var refErr *domain.ReferenceError
	assert.ErrorAs(t, err, &refErr)
}

// racingPositions simula que otra importación crea el cargo entre la búsqueda y la inserción.
type racingPositions struct {
	*memory.PositionRepo
	raced bool
}

func (r *racingPositions) FindByTitle(ctx context.Context, title string) (*entity.Position, error) {
	if !r.raced {
		r.raced = true
		if err := r.PositionRepo.Create(ctx, &entity.Position{ID: "ganador", Title: title, Active: true}); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return r.PositionRepo.FindByTitle(ctx, title)
}

func TestEnsurePosition_DuplicadoEnCarreraSeLeeYContinua(t *testing.T) {
	store := memory.NewStore()
	positions := &racingPositions{PositionRepo: store.Positions()}
	svc := NewService(positions, store.CertificateTypes(), store.Requirements(), clock.Fixed(now), logger.Nop(), Defaults{})

	p, created, err := svc.EnsurePosition(context.Background(), "Welder", "")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "ganador", p.ID)
}

func TestEnsureCertificateType_VigenciaPorDefecto(t *testing.T) {
	svc := newService(memory.NewStore())
	ct, created, err := svc.EnsureCertificateType(context.Background(), "First Aid", 0)
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, 12, ct.ValidityPeriodMonths)
}

func TestEnsure_FalloDeAlmacenamientoEsRepositoryError(t *testing.T) {
	store := memory.NewStore()
	store.InjectFailure("positions.find", errors.New("timeout"))
	_, _, err := newService(store).EnsurePosition(context.Background(), "Welder", "")
	assert.True(t, domain.IsRepositoryError(err))
}

func TestAddRequirement_DuplicadoActivoEsValidationError(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.NewStore())
	p, _, err := svc.EnsurePosition(ctx, "Welder", "")
	require.NoError(t, err)

	req, err := svc.AddRequirement(ctx, p.ID, "First Aid", 24, true)
	require.NoError(t, err)
	assert.Equal(t, 24, req.ValidityPeriodMonths)

	_, err = svc.AddRequirement(ctx, p.ID, "first aid", 0, true)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, svc.DeactivateRequirement(ctx, req.ID))
	_, err = svc.AddRequirement(ctx, p.ID, "First Aid", 0, false)
	assert.NoError(t, err)
}

func TestAddRequirement_CargoInexistente(t *testing.T) {
	_, err := newService(memory.NewStore()).AddRequirement(context.Background(), "nope", "First Aid", 0, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSetPositionActive(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.NewStore())
	p, _, err := svc.EnsurePosition(ctx, "Welder", "")
	require.NoError(t, err)

	off, err := svc.SetPositionActive(ctx, p.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)

	list, err := svc.Positions(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.SetPositionActive(ctx, "nope", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

const seedYAML = `
certificate_types:
  - name: First Aid
    validity_months: 12
  - name: Working at Heights
    validity_months: 24
positions:
  - title: Welder
    department: Taller
    requirements:
      - type: First Aid
      - type: Hot Work
        validity_months: 6
      - type: Welding Ticket
        required: false
  - title: Weldr
    requirements:
      - type: First Aid
`

func TestSeed_Idempotente(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)

	file, err := ParseSeed(strings.NewReader(seedYAML))
	require.NoError(t, err)

	res, err := svc.Seed(ctx, file)
	require.NoError(t, err)
	assert.Equal(t, 2, res.NewPositions)
	assert.Equal(t, 2, res.NewCertTypes)
	assert.Equal(t, 4, res.NewRequirements)
	assert.Empty(t, res.Errors)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "Weldr")

	types, err := store.CertificateTypes().ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, types, 4, "los tipos de los requisitos se crean bajo demanda")

	reqs, err := store.Requirements().ListActive(ctx)
	require.NoError(t, err)
	optional := 0
	for _, r := range reqs {
		if !r.IsRequired {
			optional++
		}
	}
	assert.Equal(t, 1, optional)

	again, err := svc.Seed(ctx, file)
	require.NoError(t, err)
	assert.Zero(t, again.NewPositions)
	assert.Zero(t, again.NewCertTypes)
	assert.Zero(t, again.NewRequirements)
	assert.Equal(t, 4, again.ExistingRequirements)
}

func TestParseSeed_ClaveDesconocida(t *testing.T) {
	_, err := ParseSeed(strings.NewReader("positions:\n  - titel: Welder\n"))
	assert.Error(t, err)
}

func TestSimilarPositions_AvisaDeCasiDuplicados(t *testing.T) {
	ctx := context.Background()
	svc := newService(memory.NewStore())
	for _, title := range []string{"Welder", "Supervisor"} {
		_, _, err := svc.EnsurePosition(ctx, title, "")
		require.NoError(t, err)
	}

	similar, err := svc.SimilarPositions(ctx, "Welders")
	require.NoError(t, err)
	assert.Equal(t, []string{"Welder"}, similar)

	similar, err = svc.SimilarPositions(ctx, "WELDER")
	require.NoError(t, err)
	assert.Empty(t, similar)
}

func TestSetCertificateTypeActive(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	svc := newService(store)
	ct, _, err := svc.EnsureCertificateType(ctx, "First Aid", 24)
	require.NoError(t, err)

	off, err := svc.SetCertificateTypeActive(ctx, ct.ID, false)
	require.NoError(t, err)
	assert.False(t, off.Active)

	active, err := store.CertificateTypes().ListActive(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	out := CertificateTypeToDTO(off)
	assert.Equal(t, 24, out.ValidityMonths)
	assert.False(t, out.Active)

	_, err = svc.SetCertificateTypeActive(ctx, "nope", true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
