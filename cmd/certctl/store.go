package main

import (
	"context"
	"fmt"

	"github.com/jhoicas/Certificaciones-api/internal/application/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/application/catalog"
	"github.com/jhoicas/Certificaciones-api/internal/application/certification"
	"github.com/jhoicas/Certificaciones-api/internal/application/compliance"
	"github.com/jhoicas/Certificaciones-api/internal/application/importer"
	"github.com/jhoicas/Certificaciones-api/internal/application/notification"
	"github.com/jhoicas/Certificaciones-api/internal/domain/repository"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/memory"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/mongo"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/notify"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Certificaciones-api/pkg/clock"
	"github.com/jhoicas/Certificaciones-api/pkg/config"
)

// stores repositorios del driver elegido con STORE_DRIVER.
type stores struct {
	positions    repository.PositionRepository
	types        repository.CertificateTypeRepository
	requirements repository.RequirementRepository
	employees    repository.EmployeeRepository
	certificates repository.CertificateRepository
	snapshots    repository.SnapshotRepository
	tx           repository.TransactionManager
	close        func()
}

func (a *app) openStores(ctx context.Context) (*stores, error) {
	switch a.cfg.Store.Driver {
	case config.StoreDriverPostgres:
		pool, err := postgres.NewPool(ctx, a.cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		return &stores{
			positions:    postgres.NewPositionRepository(pool),
			types:        postgres.NewCertificateTypeRepository(pool),
			requirements: postgres.NewRequirementRepository(pool),
			employees:    postgres.NewEmployeeRepository(pool),
			certificates: postgres.NewCertificateRepository(pool),
			snapshots:    postgres.NewSnapshotRepository(pool),
			tx:           postgres.NewTransactionManager(pool),
			close:        pool.Close,
		}, nil

	case config.StoreDriverMongo:
		st, err := mongo.Connect(ctx, a.cfg.Mongo)
		if err != nil {
			return nil, err
		}
		return &stores{
			positions:    st.Positions(),
			types:        st.CertificateTypes(),
			requirements: st.Requirements(),
			employees:    st.Employees(),
			certificates: st.Certificates(),
			snapshots:    st.Snapshots(),
			tx:           st,
			close:        func() { _ = st.Disconnect(context.Background()) },
		}, nil

	case config.StoreDriverMemory:
		a.log.Warn().Msg("STORE_DRIVER=memory: almacén vacío; los datos no se conservan al terminar el proceso")
		st := memory.NewStore()
		return &stores{
			positions:    st.Positions(),
			types:        st.CertificateTypes(),
			requirements: st.Requirements(),
			employees:    st.Employees(),
			certificates: st.Certificates(),
			snapshots:    st.Snapshots(),
			tx:           st,
			close:        func() {},
		}, nil
	}
	return nil, fmt.Errorf("STORE_DRIVER no soportado %q", a.cfg.Store.Driver)
}

// services casos de uso construidos sobre los repositorios.
type services struct {
	catalog       *catalog.Service
	assignment    *assignment.Service
	certification *certification.Service
	importer      *importer.Importer
	compliance    *compliance.Service
	notification  *notification.Service
}

func (a *app) newServices(st *stores) *services {
	clk := clock.Real()
	catalogSvc := catalog.NewService(st.positions, st.types, st.requirements, clk, a.log, catalog.Defaults{
		Department:     a.cfg.Import.DefaultDepartment,
		ValidityMonths: a.cfg.Import.DefaultValidityMonths,
	})
	assignSvc := assignment.NewService(st.employees, st.positions, st.tx, clk, a.log, a.cfg.Assignment.FallbackPosition)
	certSvc := certification.NewService(st.certificates, st.types, st.tx, clk, a.log)
	return &services{
		catalog:       catalogSvc,
		assignment:    assignSvc,
		certification: certSvc,
		importer:      importer.New(catalogSvc, assignSvc, certSvc, st.employees, st.tx, clk, a.log),
		compliance:    compliance.NewService(st.employees, st.positions, st.requirements, st.certificates, st.snapshots, st.tx, clk, a.log),
		notification:  notification.NewService(st.certificates, notify.NewLogNotifier(a.log), clk, a.log),
	}
}

// withServices abre el almacén, construye los casos de uso y ejecuta fn.
func (a *app) withServices(ctx context.Context, fn func(*services) error) error {
	st, err := a.openStores(ctx)
	if err != nil {
		return err
	}
	defer st.close()
	return fn(a.newServices(st))
}
