package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lease-core",
		Short: "Lease renewal, termination and lifecycle worker",
	}

	rootCmd.AddCommand(
		workerCmd(),
		migrateCmd(),
		sweepCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func workerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "worker",
		Short: "Run the expiry scheduler and keep the services wired until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := newApp()
			if err := app.Err(); err != nil {
				return err
			}
			app.Run()
			return nil
		},
	}
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, client, err := bootstrap()
			if err != nil {
				return err
			}
			defer client.Close()

			if err := migrate(cmd.Context(), client, log); err != nil {
				return err
			}
			log.Infow("schema migrated", "database", cfg.Postgres.DBName)
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire renewal requests past their response window once",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, client, err := bootstrap()
			if err != nil {
				return err
			}
			defer client.Close()

			sweeper := newSweeper(cfg, log, client)
			expired, err := sweeper.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Expired %d renewal requests.\n", expired)
			return nil
		},
	}
}
