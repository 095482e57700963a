package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jhoicas/Certificaciones-api/internal/application/assignment"
	"github.com/jhoicas/Certificaciones-api/internal/application/catalog"
	"github.com/jhoicas/Certificaciones-api/internal/application/dto"
	"github.com/jhoicas/Certificaciones-api/internal/domain/entity"
)

func newEmployeeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "employee",
		Short: "Consulta y modifica los cargos de un empleado",
	}

	// employeeAction ejecuta una mutación y muestra el empleado resultante.
	employeeAction := func(use, short string, nargs int, run func(ctx context.Context, s *services, args []string) (*entity.Employee, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use,
			Short: short,
			Args:  cobra.ExactArgs(nargs),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withServices(cmd.Context(), func(s *services) error {
					emp, err := run(cmd.Context(), s, args)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), assignment.ToDTO(emp))
				})
			},
		}
	}

	var email string
	var positions []string
	create := employeeAction("create <nombre>", "Crea un empleado (el primer cargo es el principal)", 1,
		func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
			return s.assignment.CreateEmployee(ctx, args[0], email, positions...)
		})
	create.Flags().StringVar(&email, "email", "", "Correo del empleado")
	create.Flags().StringSliceVar(&positions, "position", nil, "Id de cargo (repetible)")

	var primary bool
	assign := employeeAction("assign <employee-id> <position-id>", "Asigna un cargo", 2,
		func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
			return s.assignment.AssignPosition(ctx, args[0], args[1], primary)
		})
	assign.Flags().BoolVar(&primary, "primary", false, "Marca el cargo como principal")

	cmd.AddCommand(
		employeeAction("show <employee-id>", "Muestra el empleado con sus cargos normalizados", 1,
			func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
				return s.assignment.Get(ctx, args[0])
			}),
		create,
		assign,
		employeeAction("unassign <employee-id> <position-id>", "Quita un cargo", 2,
			func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
				return s.assignment.RemovePosition(ctx, args[0], args[1])
			}),
		employeeAction("primary <employee-id> <position-id>", "Cambia el cargo principal", 2,
			func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
				return s.assignment.SetPrimaryPosition(ctx, args[0], args[1])
			}),
		employeeAction("activate <employee-id>", "Activa al empleado", 1,
			func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
				return s.assignment.SetActive(ctx, args[0], true)
			}),
		employeeAction("deactivate <employee-id>", "Desactiva al empleado (queda fuera del cumplimiento)", 1,
			func(ctx context.Context, s *services, args []string) (*entity.Employee, error) {
				return s.assignment.SetActive(ctx, args[0], false)
			}),
	)
	return cmd
}

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Cargos, tipos de certificado y requisitos",
	}

	positions := &cobra.Command{
		Use:   "positions",
		Short: "Lista los cargos activos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				list, err := s.catalog.Positions(cmd.Context())
				if err != nil {
					return err
				}
				out := make([]dto.PositionDTO, 0, len(list))
				for _, p := range list {
					out = append(out, catalog.PositionToDTO(p))
				}
				return writeJSON(cmd.OutOrStdout(), out)
			})
		},
	}

	positionToggle := func(use, short string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <position-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withServices(cmd.Context(), func(s *services) error {
					p, err := s.catalog.SetPositionActive(cmd.Context(), args[0], active)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), catalog.PositionToDTO(p))
				})
			},
		}
	}

	typeToggle := func(use, short string, active bool) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <certificate-type-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.withServices(cmd.Context(), func(s *services) error {
					t, err := s.catalog.SetCertificateTypeActive(cmd.Context(), args[0], active)
					if err != nil {
						return err
					}
					return writeJSON(cmd.OutOrStdout(), catalog.CertificateTypeToDTO(t))
				})
			},
		}
	}

	var months int
	var optional bool
	requireCmd := &cobra.Command{
		Use:   "require <position-id> <tipo>",
		Short: "Añade un requisito de certificación a un cargo",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				req, err := s.catalog.AddRequirement(cmd.Context(), args[0], args[1], months, !optional)
				if err != nil {
					return err
				}
				return writeJSON(cmd.OutOrStdout(), catalog.RequirementToDTO(req))
			})
		},
	}
	requireCmd.Flags().IntVar(&months, "months", 0, "Vigencia en meses (0 = la del tipo)")
	requireCmd.Flags().BoolVar(&optional, "optional", false, "Requisito recomendado, no obligatorio")

	unrequire := &cobra.Command{
		Use:   "unrequire <requirement-id>",
		Short: "Desactiva un requisito",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withServices(cmd.Context(), func(s *services) error {
				return s.catalog.DeactivateRequirement(cmd.Context(), args[0])
			})
		},
	}

	cmd.AddCommand(
		positions,
		positionToggle("activate-position", "Activa un cargo", true),
		positionToggle("deactivate-position", "Desactiva un cargo", false),
		typeToggle("activate-type", "Activa un tipo de certificado", true),
		typeToggle("deactivate-type", "Desactiva un tipo de certificado", false),
		requireCmd,
		unrequire,
	)
	return cmd
}
