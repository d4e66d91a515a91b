package main

import (
	"fmt"

	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newReindexCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reindex [kind...]",
		Short: "Rebuild the search indices from mongo",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := kindsFromArgs(args)
			if err != nil {
				return err
			}
			es, err := db.NewConnectionEs(db.EsConfig{
				Host:       settingsData.ELS_HOST,
				Port:       settingsData.ELS_PORT,
				Username:   settingsData.ELS_USERNAME,
				Password:   settingsData.ELS_PASSWORD,
				Secure:     settingsData.IsProd(),
				CACertFile: settingsData.ELS_CA_CERT,
				SkipVerify: settingsData.ELS_SKIP_VERIFY,
			})
			if err != nil {
				return err
			}
			if err := a.connect(); err != nil {
				return err
			}
			defer a.close(cmd.Context())

			indexer := services.NewIndexerService(es, a.logger)
			for _, spec := range specs {
				stats, err := indexer.Reindex(cmd.Context(), repositories.NewListingRepository(spec.Kind))
				if err != nil {
					a.logger.Error("reindex", zap.String("kind", string(spec.Kind)), zap.Error(err))
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d indexed, %d failed\n", spec.Index, stats.Indexed, stats.Failed)
			}
			return nil
		},
	}
}
