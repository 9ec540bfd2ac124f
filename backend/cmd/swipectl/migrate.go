package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TLN1/linkr-back/backend/internal/app/apiapp"
	pgrepo "github.com/TLN1/linkr-back/backend/internal/repo/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the embedded postgres schema",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withEngine(cmd.Context(), func(ctx context.Context, e *apiapp.Engine, log *zap.Logger) error {
			if e.Postgres == nil {
				return fmt.Errorf("migrate requires storage.driver=postgres")
			}
			applied, err := pgrepo.Migrate(ctx, e.Postgres)
			if err != nil {
				return err
			}
			log.Info("migrations applied", zap.Strings("versions", applied))
			return printJSON(cmd, map[string]any{"applied": applied})
		})
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
