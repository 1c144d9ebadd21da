package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/studyboosters/backend/internal/db"
)

func MigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the SQL store schema (sqlite and pgx drivers only)",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			// app.New migrates on open
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.DB == nil {
				return fmt.Errorf("store driver %q has no SQL schema", a.Cfg.StoreDriver)
			}
			fmt.Println("Schema is up to date")
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if a.DB == nil {
				return fmt.Errorf("store driver %q has no SQL schema", a.Cfg.StoreDriver)
			}
			return db.Rollback(a.DB.DB, a.Cfg.StoreDriver)
		},
	})

	return cmd
}
