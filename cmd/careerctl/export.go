package main

import (
	"fmt"
	"os"

	"github.com/CPU-commits/CareerNest/repositories"
	"github.com/CPU-commits/CareerNest/services"
	"github.com/spf13/cobra"
)

func newExportCommand(a *app) *cobra.Command {
	var out, search, sort string
	var filters map[string]string

	cmd := &cobra.Command{
		Use:   "export <kind>",
		Short: "Write the listings of a kind to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := kindsFromArgs(args)
			if err != nil {
				return err
			}
			spec := specs[0]
			if out == "" {
				out = spec.Collection + ".xlsx"
			}
			if err := a.connect(); err != nil {
				return err
			}
			defer a.close(cmd.Context())

			file, err := os.Create(out)
			if err != nil {
				return err
			}
			defer file.Close()

			listings := services.NewListingsService(repositories.NewListingRepositories(), a.logger)
			exports := services.NewExportService(listings, "https://"+settingsData.CLIENT_URL, a.logger)
			errRes := exports.ExportListings(cmd.Context(), spec.Kind, repositories.ListQuery{
				Search:  search,
				Filters: filters,
				Sort:    sort,
			}, file)
			if errRes != nil {
				return errRes.Err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file, <collection>.xlsx by default")
	cmd.Flags().StringVarP(&search, "query", "q", "", "search term")
	cmd.Flags().StringVar(&sort, "sort", repositories.SORT_LATEST, "latest, oldest or deadline")
	cmd.Flags().StringToStringVarP(&filters, "filter", "f", nil, "field filters, e.g. -f location=Delhi")
	return cmd
}
