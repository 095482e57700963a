package main

import (
	"github.com/spf13/cobra"

	"github.com/jhoicas/Certificaciones-api/pkg/config"
	"github.com/jhoicas/Certificaciones-api/pkg/logger"
)

// app estado compartido por los subcomandos, inicializado en PersistentPreRunE.
type app struct {
	cfg *config.Config
	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	cmd := &cobra.Command{
		Use:           "certctl",
		Short:         "Cumplimiento de certificaciones por cargo",
		Long:          `Cumplimiento de certificaciones por cargo.

El almacén se elige con STORE_DRIVER (postgres, mongo o memory). Con memory cada
invocación empieza vacía y nada se conserva al terminar: sirve para pruebas y demos
de un solo comando, no para encadenar import, compliance o history.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Out: cmd.ErrOrStderr()})
			a.log.Debug().Str("app", cfg.App.Name).Str("store", cfg.Store.Driver).Msg("configuración cargada")
			return nil
		},
	}
	cmd.AddCommand(
		newMigrateCmd(a),
		newSeedCmd(a),
		newImportCmd(a),
		newComplianceCmd(a),
		newHistoryCmd(a),
		newReportCmd(a),
		newFixPositionsCmd(a),
		newRefreshStatusCmd(a),
		newRemindersCmd(a),
		newRenewCmd(a),
		newEmployeeCmd(a),
		newCatalogCmd(a),
	)
	return cmd
}
