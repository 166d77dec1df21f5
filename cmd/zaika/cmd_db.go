package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/zaika-app/zaika/config"
	"github.com/zaika-app/zaika/database/seeders"
	"github.com/zaika-app/zaika/pkg/database"
	"github.com/zaika-app/zaika/pkg/logger"
	"github.com/zaika-app/zaika/pkg/migration"
)

func openDB() (*gorm.DB, error) {
	if err := config.Load(); err != nil {
		return nil, err
	}
	logger.Setup(config.AppEnv())
	return database.Connect()
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.NewRunner(db).Run()
	},
}

var rollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Revert the last migration batch",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		return migration.NewRunner(db).Rollback()
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show migration status",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		statuses, err := migration.NewRunner(db).Statuses()
		if err != nil {
			return err
		}
		for _, st := range statuses {
			mark := "pending"
			if st.Applied {
				mark = fmt.Sprintf("batch %d", st.Batch)
			}
			fmt.Printf("%-55s %s\n", st.Name, mark)
		}
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Fill the database with sample data",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openDB()
		if err != nil {
			return err
		}
		if err := migration.NewRunner(db).Run(); err != nil {
			return err
		}
		return seeders.RunAll(db)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd, rollbackCmd, migrateStatusCmd, seedCmd)
}
