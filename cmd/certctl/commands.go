package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Certificaciones-api/internal/application/catalog"
	"github.com/jhoicas/Certificaciones-api/internal/application/certification"
	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/mongo"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Certificaciones-api/internal/infrastructure/spreadsheet"
	"github.com/jhoicas/Certificaciones-api/pkg/config"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|version]",
		Short:     "Aplica el esquema (PostgreSQL) o crea los índices (MongoDB)",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{postgres.MigrateUp, postgres.MigrateDown, postgres.MigrateVersion},
		RunE: func(cmd *cobra.Command, args []string) error {
			action := postgres.MigrateUp
			if len(args) == 1 {
				action = args[0]
			}
			switch a.cfg.Store.Driver {
			case config.StoreDriverPostgres:
				return postgres.Migrate(a.cfg.DB.ConnectionString(), action, a.log)
			case config.StoreDriverMongo:
				st, err := mongo.Connect(cmd.Context(), a.cfg.Mongo)
				if err != nil {
					return err
				}
				defer st.Disconnect(cmd.Context())
				if err := st.EnsureIndexes(cmd.Context()); err != nil {
					return err
				}
				a.log.Info().Msg("índices de MongoDB creados")
				return nil
			default:
				a.log.Info().Str("store", a.cfg.Store.Driver).Msg("nada que migrar")
				return nil
			}
		},
	}
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <catalog.yaml>",
		Short: "Carga cargos, tipos de certificado y requisitos desde YAML (idempotente)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			file, err := catalog.ParseSeed(f)
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(s *services) error {
				res, err := s.catalog.Seed(cmd.Context(), file)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archivo.xlsx|csv|json>",
		Short: "Carga masiva de certificados desde una hoja de cálculo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := spreadsheet.ReadFile(args[0])
			if err != nil {
				return err
			}
			return a.withServices(cmd.Context(), func(s *services) error {
				res, importErr := s.importer.Import(cmd.Context(), rows)
				if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
				return importErr
			})
		},
	}
}

func newComplianceCmd(a *app) *cobra.Command {
	var record bool
	cmd := &cobra.Command{
		Use:   "compliance [employee-id|all]",
		Short: "Cumplimiento de un empleado o de toda la organización",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := dto.ComplianceScopeAll
			if len(args) == 1 {
				scope = args[0]
			}
			return a.withServices(cmd.Context(), func(s *services) error {
				res, err := s.compliance.Query(cmd.Context(), scope)
				if err != nil {
					return err
				}
				if record && scope == dto.ComplianceScopeAll {
					if _, err := s.compliance.Record(cmd.Context()); err != nil {
						return err
					}
				}
				return writeJSON(cmd.OutOrStdout(), res)
			})
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "Guarda la tasa de la organización en el historial")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Historial de tasas de cumplimiento registradas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				list, err := s.compliance.History(cmd.Context(), limit)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), list)
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 10, "Número de registros (0 = todos)")
	return cmd
}

func newReportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Genera el informe de cumplimiento en PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				doc, err := s.compliance.Report(cmd.Context(), pdf.NewComplianceReportGenerator(a.cfg.App.Name))
				if err != nil {
					return err
				}
				if err := os.WriteFile(out, doc, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", out, err)
				}
				a.log.Info().Str("file", out).Msg("informe escrito")
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "cumplimiento.pdf", "Archivo de salida")
	return cmd
}

func newFixPositionsCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "fix-positions",
		Short: "Repara cargos inválidos o duplicados de todos los empleados",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				summary, err := s.assignment.FixAll(cmd.Context(), dryRun)
				if summary != nil {
					if werr := writeJSON(cmd.OutOrStdout(), summary); werr != nil {
						return werr
					}
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Informa los cambios sin escribirlos")
	return cmd
}

func newRefreshStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh-status",
		Short: "Recalcula el estado en caché de todos los certificados",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				summary, err := s.certification.RefreshStatuses(cmd.Context())
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
}

func newRemindersCmd(a *app) *cobra.Command {
	var windowDays int
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Notifica los certificados vencidos o por vencer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("window-days") {
				windowDays = a.cfg.Reminder.WindowDays
			}
			return a.withServices(cmd.Context(), func(s *services) error {
				summary, err := s.notification.Send(cmd.Context(), windowDays)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), summary)
			})
		},
	}
	cmd.Flags().IntVar(&windowDays, "window-days", 30, "Ventana de vencimiento en días (por defecto REMINDER_WINDOW_DAYS)")
	return cmd
}

func newRenewCmd(a *app) *cobra.Command {
	var req dto.RenewRequest
	cmd := &cobra.Command{
		Use:   "renew <certificate-id>",
		Short: "Renueva un certificado: crea uno nuevo que sustituye al anterior",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.CertificateID = args[0]
			return a.withServices(cmd.Context(), func(s *services) error {
				c, err := s.certification.Renew(cmd.Context(), req)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), certification.ToDTO(c))
			})
		},
	}
	cmd.Flags().StringVar(&req.IssueDate, "issue", "", "Fecha de emisión DD/MM/YYYY")
	cmd.Flags().StringVar(&req.ExpirationDate, "expiry", "", "Fecha de vencimiento DD/MM/YYYY (por defecto según la vigencia del tipo)")
	_ = cmd.MarkFlagRequired("issue")
	return cmd
}
