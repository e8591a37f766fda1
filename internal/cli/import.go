package cli

import (
	"context"
	"fmt"
	"time"

	"geo-quiz-service/internal/config"
	pgstore "geo-quiz-service/internal/infra/postgres"
	"geo-quiz-service/internal/infra/restcountries"
	"github.com/spf13/cobra"
)

// NewImportCmd copies the REST country feed into Postgres so the server can
// run without outbound HTTP.
func NewImportCmd(configPath *string) *cobra.Command {
	var url string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import country info into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), *configPath, url)
		},
	}
	cmd.Flags().StringVar(&url, "url", "", "country feed URL (defaults to data.countriesURL)")
	return cmd
}

func runImport(ctx context.Context, configPath, url string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	if err := runMigrationsWithConfig(ctx, cfg, logger); err != nil {
		return err
	}
	if url == "" {
		url = cfg.Data.CountriesURL
	}

	client := restcountries.NewClient(url,
		restcountries.WithTimeout(config.TTLDuration(cfg.Data.Timeout, 30*time.Second)),
		restcountries.WithLogger(logger))
	countries, err := client.FetchCountries(ctx)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}

	db := openBun(cfg.Postgres.URL)
	defer db.Close()

	written, err := pgstore.NewCountryWriter(db).Upsert(ctx, countries)
	if err != nil {
		return err
	}
	logger.Info().Int("fetched", len(countries)).Int("written", written).Msg("countries imported")
	return nil
}
