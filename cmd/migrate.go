package cmd

import (
	"context"
	"fmt"

	"github.com/rpupo63/photo-portfolio/config"
	"github.com/rpupo63/photo-portfolio/database"
	"github.com/rpupo63/photo-portfolio/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMaintenanceDB(cmd.Context())
		if err != nil {
			return err
		}
		return models.Migrate(db)
	},
}

var genModelsCmd = &cobra.Command{
	Use:   "gen-models",
	Short: "Generate typed query helpers and report unmapped columns",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openMaintenanceDB(cmd.Context())
		if err != nil {
			return err
		}

		if mustGetBool(cmd, "report-only") {
			if n := models.GenerateColumnMismatchReport(db); n > 0 {
				return fmt.Errorf("%d database columns are not mapped by any model", n)
			}
			return nil
		}
		return models.GenerateModels(db, mustGetString(cmd, "out"))
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(genModelsCmd)

	genModelsCmd.Flags().Bool("report-only", false, "Only print the column mismatch report")
	genModelsCmd.Flags().String("out", "./query", "Output directory for generated query helpers")
}

// openMaintenanceDB connects using only the database settings.
func openMaintenanceDB(ctx context.Context) (*gorm.DB, error) {
	env := config.New()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := config.OverlaySSM(ctx, env); err != nil {
		return nil, err
	}

	db, err := database.Open(config.LoadDatabase(env))
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	return db, nil
}
