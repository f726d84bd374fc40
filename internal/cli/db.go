package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/threaddit/backend/internal/infrastructure/database"
	"github.com/threaddit/backend/pkg/logger"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the forum tables",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)
		return database.Migrate(cmd.Context(), db)
	},
}

var wipeConfirmed bool

var wipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Drop every forum table",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.IsProduction() {
			return errors.New("refusing to wipe a production database")
		}
		if !wipeConfirmed {
			return errors.New("pass --yes to drop every forum table")
		}

		db, err := database.Open(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer database.Close(db)

		logger.Default().Warn("🧹 Wiping forum tables")
		return database.Wipe(cmd.Context(), db)
	},
}

func init() {
	wipeCmd.Flags().BoolVarP(&wipeConfirmed, "yes", "y", false, "confirm the wipe")
}
