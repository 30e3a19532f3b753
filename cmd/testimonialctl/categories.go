package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/usecase"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/postgres"
)

func addCategoryCmd() *cobra.Command {
	var icon, color string
	cmd := &cobra.Command{
		Use:   "add-category <nombre>",
		Short: "Crea una categoría de testimonios",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()

			uc := usecase.NewCategoryUseCase(postgres.NewCategoryRepository(e.pool))
			out, err := uc.Create(cmd.Context(), dto.CreateCategoryRequest{Name: args[0], Icon: icon, Color: color})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "categoría creada: %s (%s)\n", out.Name, out.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&icon, "icon", "", "nombre del icono")
	cmd.Flags().StringVar(&color, "color", "", "color hexadecimal, p.ej. #1f6feb")
	return cmd
}
