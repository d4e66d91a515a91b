package main

import (
	"context"
	"fmt"

	"github.com/CPU-commits/CareerNest/db"
	"github.com/CPU-commits/CareerNest/models"
	"github.com/CPU-commits/CareerNest/settings"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var settingsData = settings.GetSettings()

type app struct {
	logger *zap.Logger
	mongo  *db.MongoConnection
}

func (a *app) connect() error {
	conn, err := db.NewConnection(
		settingsData.MONGO_CONNECTION,
		settingsData.MONGO_HOST,
		settingsData.MONGO_DB,
	)
	if err != nil {
		return err
	}
	a.mongo = conn
	return models.Init(conn)
}

func (a *app) close(ctx context.Context) {
	if a.mongo != nil {
		if err := a.mongo.Disconnect(ctx); err != nil {
			a.logger.Warn("mongo disconnect", zap.Error(err))
		}
	}
	a.logger.Sync()
}

// kindsFromArgs resolves kind names, collections or route segments; no
// arguments means every kind.
func kindsFromArgs(args []string) ([]models.KindSpec, error) {
	if len(args) == 0 {
		return models.Kinds(), nil
	}
	specs := make([]models.KindSpec, 0, len(args))
	for _, arg := range args {
		spec, err := models.ParseKind(arg)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func NewRootCommand() *cobra.Command {
	a := &app{}
	var verbose bool

	root := &cobra.Command{
		Use:           "careerctl",
		Short:         "Operator tasks for CareerNest",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if verbose {
				a.logger, err = zap.NewDevelopment()
			} else {
				a.logger, err = zap.NewProduction()
			}
			if err != nil {
				return fmt.Errorf("logger: %w", err)
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "development logging")
	root.AddCommand(newReindexCommand(a), newExportCommand(a), newNormalizeDatesCommand(a), newKindsCommand())
	return root
}

func newKindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the content kinds",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, spec := range models.Kinds() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %-14s %s\n", spec.Kind, spec.Collection, spec.Prefix)
			}
		},
	}
}
