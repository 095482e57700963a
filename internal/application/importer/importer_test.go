package importer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Certificaciones-api/internal/application/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/application/catalog"
	"github.com/jhoicas/Certificaciones-api/internal/application/certification"
	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

var now = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func newImporter(store *memory.Store, certs repository.CertificateRepository) *Importer {
	clk := clock.Fixed(now)
	log := logger.Nop()
	if certs == nil {
		certs = store.Certificates()
	}
	cat := catalog.NewService(store.Positions(), store.CertificateTypes(), store.Requirements(), clk, log, catalog.Defaults{})
	assign := assignment.NewService(store.Employees(), store.Positions(), store, clk, log, "")
	cert := certification.NewService(certs, store.CertificateTypes(), store, clk, log)
	return New(cat, assign, cert, store.Employees(), store, clk, log)
}

func count(t *testing.T, store *memory.Store) (positions, employees, types, certs int) {
	t.Helper()
	ctx := context.Background()
	p, err := store.Positions().List(ctx)
	require.NoError(t, err)
	e, err := store.Employees().List(ctx)
	require.NoError(t, err)
	ty, err := store.CertificateTypes().ListActive(ctx)
	require.NoError(t, err)
	c, err := store.Certificates().List(ctx)
	require.NoError(t, err)
	return len(p), len(e), len(ty), len(c)
}

func TestImport_EscenarioPrimerosAuxilios(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.CertificateTypes().Create(ctx, &entity.CertificateType{
		ID: "fa", Name: "First Aid", ValidityPeriodMonths: 12, Active: true,
	}))

	res, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "15/01/2025"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.ProcessedCount)
	assert.Equal(t, 1, res.Stats.NewPositions)
	assert.Equal(t, 1, res.Stats.NewEmployees)
	assert.Zero(t, res.Stats.NewCertTypes)
	require.Len(t, res.Outcomes, 1)
	assert.Equal(t, []string{dto.OutcomeCreatedPosition, dto.OutcomeCreatedEmployee, dto.OutcomeProcessed}, res.Outcomes[0].Outcomes)

	cert, err := store.Certificates().GetByID(ctx, res.Outcomes[0].CertificateID)
	require.NoError(t, err)
	require.NotNil(t, cert)
	assert.Equal(t, day(2025, 1, 15), cert.IssueDate)
	assert.Equal(t, day(2026, 1, 15), cert.ExpirationDate)
	assert.Equal(t, entity.StatusActive, cert.Status)
	assert.Equal(t, "First Aid", cert.CertificateTypeName)

	welder, err := store.Positions().FindByTitle(ctx, "welder")
	require.NoError(t, err)
	assert.Equal(t, "General", welder.Department)

	emp, err := store.Employees().FindByName(ctx, "John Smith")
	require.NoError(t, err)
	assert.Equal(t, []any{welder.ID}, emp.Positions)
	assert.Equal(t, welder.ID, emp.PrimaryPosition)
	assert.True(t, emp.Active)
}

func TestImport_ReimportarNoDuplicaCatalogoPeroSiCertificados(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	imp := newImporter(store, nil)
	rows := []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "15/01/2025"},
		{"Name": "john smith", "Position Title": "RIGGER", "Department": "Izaje", "Type": "Working at Heights", "Booking Date": "2025-02-01", "Expiry Date": "01/02/2027"},
		{"Name": "Ana Ruiz", "Position Title": "Welder", "Type": "first aid", "Company": "ana@acme.test"},
	}

	first, err := imp.Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, first.Stats.ProcessedCount)
	assert.Equal(t, 2, first.Stats.NewPositions)
	assert.Equal(t, 2, first.Stats.NewEmployees)
	assert.Equal(t, 2, first.Stats.NewCertTypes)
	assert.Empty(t, first.Stats.Errors)

	p1, e1, t1, c1 := count(t, store)
	assert.Equal(t, []int{2, 2, 2, 3}, []int{p1, e1, t1, c1})

	second, err := imp.Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 3, second.Stats.ProcessedCount)
	assert.Zero(t, second.Stats.NewPositions)
	assert.Zero(t, second.Stats.NewEmployees)
	assert.Zero(t, second.Stats.NewCertTypes)

	p2, e2, t2, c2 := count(t, store)
	assert.Equal(t, []int{p1, e1, t1}, []int{p2, e2, t2})
	// Los certificados son historial de solo inserción: la reimportación los duplica.
	assert.Equal(t, 6, c2)

	john, err := store.Employees().FindByName(ctx, "John Smith")
	require.NoError(t, err)
	assert.Len(t, john.Positions, 2)
	welder, err := store.Positions().FindByTitle(ctx, "Welder")
	require.NoError(t, err)
	assert.Equal(t, welder.ID, john.PrimaryPosition, "el primer cargo sigue siendo el principal")
}

func TestImport_ErroresPorFilaNoAbortanElLote(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	res, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Position Title": "Welder", "Type": "First Aid"},
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "31/02/2025"},
		{"Name": "John Smith", "Type": "First Aid"},
		{"Name": "John Smith", "Position Title": "Welder"},
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "10/01/2025", "Expiry Date": "01/01/2025"},
		{"NAME": "John Smith", "position title": "Welder", "type": "First Aid"},
	})
	require.NoError(t, err)
	assert.False(t, res.Interrupted)
	assert.Equal(t, 6, res.Stats.Total)
	assert.Equal(t, 1, res.Stats.ProcessedCount)
	require.Len(t, res.Stats.Errors, 5)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, []int{
		res.Stats.Errors[0].Row, res.Stats.Errors[1].Row, res.Stats.Errors[2].Row,
		res.Stats.Errors[3].Row, res.Stats.Errors[4].Row,
	})
	assert.Contains(t, res.Stats.Errors[0].Reason, "Name")
	assert.Contains(t, res.Stats.Errors[1].Reason, "Booking Date")
	assert.Contains(t, res.Message, "1 de 6")

	// Sin fecha de emisión se usa la fecha de hoy.
	cert, err := store.Certificates().GetByID(ctx, res.Outcomes[5].CertificateID)
	require.NoError(t, err)
	assert.Equal(t, day(2025, 3, 1), cert.IssueDate)
}

func TestImport_ReactivaEmpleadoYAgregaCargo(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Positions().Create(ctx, &entity.Position{ID: "driver", Title: "Driver", Active: true, CreatedAt: now}))
	require.NoError(t, store.Employees().Create(ctx, &entity.RawEmployee{
		ID: "e1", Name: "John Smith", Positions: []any{"driver"}, PrimaryPosition: "driver", Active: false,
	}))

	res, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "1/1/2025"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Stats.NewEmployees)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "reactivado")

	emp, err := store.Employees().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, emp.Active)
	require.Len(t, emp.Positions, 2)
	assert.Equal(t, "driver", emp.PrimaryPosition)
}

func TestImport_AvisaDeNombresParecidos(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	res, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid"},
		{"Name": "Ana Ruiz", "Position Title": "Weldr", "Type": "First Aid"},
	})
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "fila 2")
	assert.Contains(t, res.Warnings[0], "Welder")
}

// flakyCertificates falla con error de almacenamiento a partir de la llamada failAt.
type flakyCertificates struct {
	repository.CertificateRepository
	calls  int
	failAt int
}

func (f *flakyCertificates) Create(ctx context.Context, c *entity.Certificate) error {
	f.calls++
	if f.calls >= f.failAt {
		return domain.WrapRepository("create certificate", errors.New("conexión rechazada"))
	}
	return f.CertificateRepository.Create(ctx, c)
}

func TestImport_FalloDeAlmacenamientoDetieneEnElLimiteDeFila(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	certs := &flakyCertificates{CertificateRepository: store.Certificates(), failAt: 2}

	res, err := newImporter(store, certs).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid"},
		{"Name": "Ana Ruiz", "Position Title": "Welder", "Type": "First Aid"},
		{"Name": "Luis Gil", "Position Title": "Welder", "Type": "First Aid"},
	})
	require.Error(t, err)
	assert.True(t, domain.IsRepositoryError(err))
	assert.True(t, res.Interrupted)
	assert.Equal(t, 1, res.Stats.ProcessedCount)
	assert.Contains(t, res.Message, "fila 2")

	list, err := store.Certificates().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestImport_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := newImporter(memory.NewStore(), nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid"},
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.True(t, res.Interrupted)
	assert.Zero(t, res.Stats.ProcessedCount)
}

func TestImport_EmpleadoConCargosInvalidosRecibeElCargoImportado(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Positions().Create(ctx, &entity.Position{
		ID: "admin", Title: "Admin", Active: true, CreatedAt: now.AddDate(-1, 0, 0),
	}))
	require.NoError(t, store.Employees().Create(ctx, &entity.RawEmployee{
		ID: "e1", Name: "John Smith", Positions: []any{"ghost"}, PrimaryPosition: "ghost", Active: true,
	}))

	res, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "15/01/2025"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.ProcessedCount)

	welder, err := store.Positions().FindByTitle(ctx, "Welder")
	require.NoError(t, err)
	emp, err := store.Employees().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, []any{welder.ID}, emp.Positions)
	assert.Equal(t, welder.ID, emp.PrimaryPosition)
}

func TestImport_EmpleadoInactivoSinCargosNoRecibeCargoPorDefecto(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Positions().Create(ctx, &entity.Position{
		ID: "admin", Title: "Admin", Active: true, CreatedAt: now.AddDate(-1, 0, 0),
	}))
	require.NoError(t, store.Employees().Create(ctx, &entity.RawEmployee{
		ID: "e1", Name: "John Smith", Active: false,
	}))

	_, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid", "Booking Date": "15/01/2025"},
	})
	require.NoError(t, err)

	welder, err := store.Positions().FindByTitle(ctx, "Welder")
	require.NoError(t, err)
	emp, err := store.Employees().GetByID(ctx, "e1")
	require.NoError(t, err)
	assert.True(t, emp.Active)
	assert.Equal(t, []any{welder.ID}, emp.Positions)
	assert.Equal(t, welder.ID, emp.PrimaryPosition)
}

func TestImport_VencimientoAnteriorALaEmisionNoCreaNada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	res, err := newImporter(store, nil).Import(ctx, []dto.ImportRow{
		{"Name": "John Smith", "Position Title": "Welder", "Type": "First Aid",
			"Booking Date": "15/01/2025", "Expiry Date": "01/01/2025"},
	})
	require.NoError(t, err)
	assert.Zero(t, res.Stats.ProcessedCount)
	require.Len(t, res.Stats.Errors, 1)
	assert.Equal(t, 1, res.Stats.Errors[0].Row)
	assert.Contains(t, res.Stats.Errors[0].Reason, dto.ColumnExpiryDate)

	positions, employees, types, certs := count(t, store)
	assert.Zero(t, positions)
	assert.Zero(t, employees)
	assert.Zero(t, types)
	assert.Zero(t, certs)
}
