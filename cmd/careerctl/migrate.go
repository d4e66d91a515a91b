package main

import (
	"fmt"

	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newNormalizeDatesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize-dates [kind...]",
		Short: "Store every string date of the listings as a datetime",
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := kindsFromArgs(args)
			if err != nil {
				return err
			}
			if err := a.connect(); err != nil {
				return err
			}
			defer a.close(cmd.Context())

			for _, spec := range specs {
				updated, err := repositories.NormalizeListingDates(cmd.Context(), spec.Kind, a.logger)
				if err != nil {
					a.logger.Error("normalize dates", zap.String("kind", string(spec.Kind)), zap.Error(err))
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d updated\n", spec.Collection, updated)
			}
			return nil
		},
	}
}
