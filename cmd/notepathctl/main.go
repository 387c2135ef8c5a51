package main

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/notepath-api/internal/config"
	"github.com/notepath-api/internal/database"
	"github.com/notepath-api/internal/models"
	"github.com/notepath-api/internal/repository"
	"github.com/notepath-api/pkg/logger"
)

// env bundles what every subcommand needs
type env struct {
	cfg *config.Config
	db  *database.DB
}

func open() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	db, err := database.New(&cfg.Database, log)
	if err != nil {
		return nil, err
	}
	return &env{cfg: cfg, db: db}, nil
}

// withEnv opens the database for the duration of fn
func withEnv(fn func(e *env, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		e, err := open()
		if err != nil {
			return err
		}
		defer e.db.Close()
		return fn(e, args)
	}
}

func main() {
	root := &cobra.Command{
		Use:          "notepathctl",
		Short:        "Administer the notepath database",
		SilenceUsage: true,
	}

	root.AddCommand(migrateCommand(), roleCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func migrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply or roll back schema migrations",
	}

	up := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(e *env, _ []string) error {
			return e.db.RunMigrations(e.cfg.Server.MigrationsPath)
		}),
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(e *env, _ []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1")
			}
			return e.db.MigrateDown(e.cfg.Server.MigrationsPath, steps)
		}),
	}
	down.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	gotoCmd := &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(e *env, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q: %w", args[0], err)
			}
			return e.db.MigrateToVersion(e.cfg.Server.MigrationsPath, uint(version))
		}),
	}

	status := &cobra.Command{
		Use:   "status",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: withEnv(func(e *env, _ []string) error {
			version, dirty, ok, err := e.db.MigrationVersion(e.cfg.Server.MigrationsPath)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("no migrations applied")
				return nil
			}
			fmt.Printf("version %d (dirty: %t)\n", version, dirty)
			return nil
		}),
	}

	cmd.AddCommand(up, down, gotoCmd, status)
	return cmd
}

func roleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Grant or revoke the admin role",
	}

	grant := &cobra.Command{
		Use:   "grant <user-id>",
		Short: "Make a user an admin",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(e *env, args []string) error {
			ctx := context.Background()
			repos := repository.New(e.db)
			if err := requireProfile(ctx, repos, args[0]); err != nil {
				return err
			}
			if err := repos.Role.Grant(ctx, args[0], models.RoleAdmin); err != nil {
				return err
			}
			fmt.Printf("granted admin to %s\n", args[0])
			return nil
		}),
	}

	revoke := &cobra.Command{
		Use:   "revoke <user-id>",
		Short: "Remove the admin role from a user",
		Args:  cobra.ExactArgs(1),
		RunE: withEnv(func(e *env, args []string) error {
			removed, err := repository.New(e.db).Role.Revoke(context.Background(), args[0], models.RoleAdmin)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Printf("%s was not an admin\n", args[0])
				return nil
			}
			fmt.Printf("revoked admin from %s\n", args[0])
			return nil
		}),
	}

	cmd.AddCommand(grant, revoke)
	return cmd
}

func requireProfile(ctx context.Context, repos *repository.Repositories, userID string) error {
	profile, err := repos.Profile.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("no user with id %s", userID)
	}
	return nil
}
