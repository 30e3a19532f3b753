// testimonialctl tareas administrativas fuera de la API: migraciones, alta de admins, roles y categorías.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
	"github.com/jhoicas/testimonios-api/internal/infrastructure/postgres"
	"github.com/jhoicas/testimonios-api/pkg/config"
	"github.com/jhoicas/testimonios-api/pkg/logger"
)

var Version = "dev"

// systemCaller es el llamador con el que la CLI invoca los casos de uso: tiene acceso a la base, así que actúa como admin.
var systemCaller = visibility.Caller{UserID: "testimonialctl", Role: entity.RoleAdmin}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "testimonialctl",
		Short:         "Administración de la API de testimonios",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(setRoleCmd())
	rootCmd.AddCommand(addCategoryCmd())
	return rootCmd
}

// env carga configuración, logger y pool para un comando.
type env struct {
	cfg  *config.Config
	log  *logger.Logger
	pool *pgxpool.Pool
}

func openEnv(ctx context.Context) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, AppName: "testimonialctl"})
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, log: log, pool: pool}, nil
}

func (e *env) Close() { e.pool.Close() }
