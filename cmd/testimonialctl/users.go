package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/usecase"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/postgres"
)

// passwordEnv permite no dejar la contraseña en el historial del shell.
const passwordEnv = "TESTIMONIALCTL_PASSWORD"

func createAdminCmd() *cobra.Command {
	var email, username, password string
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario admin",
		Long: `Crea un usuario con rol admin (staff y superuser).

La contraseña se toma de --password o de la variable ` + passwordEnv + `.

Ejemplo:
  ` + passwordEnv + `=secreto123 testimonialctl create-admin --email root@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if password == "" {
				password = os.Getenv(passwordEnv)
			}
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			uc := usecase.NewUserUseCase(postgres.NewUserRepository(e.pool), e.log.Component("user"))
			out, err := uc.Create(cmd.Context(), systemCaller, dto.CreateUserRequest{
				Email:    email,
				Username: username,
				Password: password,
				Role:     string(entity.RoleAdmin),
			})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin creado: %s (%s)\n", out.Email, out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email del admin")
	cmd.Flags().StringVar(&username, "username", "", "nombre de usuario (por defecto la parte local del email)")
	cmd.Flags().StringVar(&password, "password", "", "contraseña (mínimo 8 caracteres)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func setRoleCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "set-role <email>",
		Short: "Cambia el rol de un usuario (visitante, editor o admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			repo := postgres.NewUserRepository(e.pool)
			user, err := repo.GetByEmail(cmd.Context(), strings.ToLower(strings.TrimSpace(args[0])))
			if err != nil {
				return err
			}
			if user == nil {
				return fmt.Errorf("no existe un usuario con email %s", args[0])
			}
			uc := usecase.NewUserUseCase(repo, e.log.Component("user"))
			out, err := uc.SetRole(cmd.Context(), systemCaller, user.ID, dto.SetRoleRequest{Role: role})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s ahora es %s\n", out.Email, out.Role)
			return nil
		},
	}
	cmd.Flags().StringVarP(&role, "role", "r", "", "nuevo rol")
	_ = cmd.MarkFlagRequired("role")
	return cmd
}

// describe añade el campo afectado a los errores de validación y conflicto.
func describe(err error) error {
	var de *domain.Error
	if errors.As(err, &de) && de.Field != "" {
		return fmt.Errorf("%s: %w", de.Field, err)
	}
	return err
}
