package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/db"
	"github.com/parkqr/parking/internal/idempotency"
	"github.com/parkqr/parking/internal/payment"
	"github.com/parkqr/parking/internal/repository/postgresql"
	"github.com/parkqr/parking/internal/storage"
)

func ratesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rates",
		Short: "Manage the rate catalog",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Insert any missing default rate tier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadDatabaseConfig()
			if err != nil {
				return err
			}
			database, err := db.NewDb(cmd.Context(), cfg.DSN())
			if err != nil {
				return err
			}
			defer database.Close()

			logger := zap.NewNop()
			st := storage.NewParkingStorage(
				postgresql.NewRateRepo(database),
				postgresql.NewRegistrationRepo(database, postgresql.NewOutboxTaskRepo()),
				postgresql.NewExemptionRepo(database),
				payment.NewPlaceholderProcessor(cfg.StripeCurrency, logger),
				idempotency.NewMemoryStore(cfg.IdempotencyTTL),
				storage.Options{StoreTimeout: cfg.StoreTimeout, Logger: logger},
			)
			if err := st.SeedDefaultRates(cmd.Context()); err != nil {
				return err
			}

			listing, err := st.ListRates(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, rate := range listing.Rates {
				fmt.Fprintf(out, "%-10s %6s  %s\n", rate.DurationType, rate.Price, rate.Description)
			}
			return nil
		},
	})

	return cmd
}
