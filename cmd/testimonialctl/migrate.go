package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jhoicas/testimonios-api/internal/infrastructure/postgres"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migraciones del esquema",
	}
	cmd.AddCommand(migrateUpCmd(), migrateDownCmd(), migrateVersionCmd())
	return cmd
}

// withMigrator abre el entorno y el migrador y los cierra al terminar.
func withMigrator(cmd *cobra.Command, fn func(m *postgres.Migrator) error) error {
	e, err := openEnv(cmd.Context())
	if err != nil {
		return err
	}
	defer e.Close()
	m, err := postgres.NewMigrator(e.pool, e.log.Component("migrate"))
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}

func migrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Aplica todas las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *postgres.Migrator) error { return m.Up() })
		},
	}
}

func migrateDownCmd() *cobra.Command {
	var steps int
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revierte las últimas migraciones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *postgres.Migrator) error { return m.Down(steps) })
		},
	}
	cmd.Flags().IntVarP(&steps, "steps", "n", 1, "cantidad de migraciones a revertir")
	return cmd
}

func migrateVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Muestra la versión aplicada",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(cmd, func(m *postgres.Migrator) error {
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "versión %d (dirty=%t)\n", v, dirty)
				return nil
			})
		},
	}
}
