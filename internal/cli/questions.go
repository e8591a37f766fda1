package cli

import (
	"context"
	"fmt"
	"io"
	"math/rand"

	"geo-quiz-service/internal/catalog"
	"geo-quiz-service/internal/config"
	"geo-quiz-service/internal/infra/geodata"
	"geo-quiz-service/internal/question"
	"github.com/spf13/cobra"
)

// NewQuestionsCmd prints sample questions from the configured datasets.
func NewQuestionsCmd(configPath *string) *cobra.Command {
	var count int
	var seed int64
	cmd := &cobra.Command{
		Use:   "questions",
		Short: "Print generated questions with their answers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuestions(cmd.Context(), cmd.OutOrStdout(), *configPath, count, seed)
		},
	}
	cmd.Flags().IntVarP(&count, "count", "n", 10, "number of questions")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	return cmd
}

func runQuestions(ctx context.Context, out io.Writer, configPath string, count int, seed int64) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	b, err := connectBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.close()

	var opts []catalog.Option
	if seed != 0 {
		opts = append(opts, catalog.WithRand(rand.New(rand.NewSource(seed))))
	}
	cat := catalog.New(opts...)
	report := catalog.Populate(ctx, cat, newFeeds(cfg, b, geodata.NewShapes(cfg.Data.GeoJSON), logger), logger)
	if report.Countries == 0 {
		logger.Warn().Strs("failed", report.Failed).Msg("no country info loaded, answers will be Unknown")
	}

	return printQuestions(out, newGenerator(cat, cfg.Quiz.Templates, seed), count)
}

func printQuestions(out io.Writer, gen *question.Generator, count int) error {
	for i := 1; i <= count; i++ {
		qa := gen.Generate()
		if _, err := fmt.Fprintf(out, "%2d. %s\n    -> %s\n", i, qa.Question, qa.Answer); err != nil {
			return err
		}
	}
	return nil
}

func newGenerator(cat *catalog.Catalog, templates []string, seed int64) *question.Generator {
	if seed == 0 {
		return question.New(cat, templates)
	}
	return question.NewWithRand(cat, templates, rand.New(rand.NewSource(seed)))
}
