package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"resume-matcher/internal/app"
	"resume-matcher/internal/config"
	"resume-matcher/internal/logger"
	"resume-matcher/internal/repositories"
	"resume-matcher/internal/services"
)

// matcherFactory lets tests swap the provider-backed matcher.
type matcherFactory func(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.MatchService, error)

func main() {
	root := newRootCmd(os.Stdout, defaultMatcherFactory)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultMatcherFactory(ctx context.Context, cfg *config.Config, log *zap.Logger) (services.MatchService, error) {
	return app.NewMatchService(ctx, cfg, repositories.NewNoopAuditRepository(), log)
}

type rootOptions struct {
	verbose bool
}

func newRootCmd(out io.Writer, factory matcherFactory) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "matchctl",
		Short: "Score a resume against a job ad from the command line",
		Long: `matchctl runs the resume matcher without the HTTP server.

It reads the same environment variables as the API (OPENAI_API_KEY,
GEMINI_API_KEY, LLM_MODEL, ...) and a .env file when present.`,
		SilenceUsage: true,
	}
	root.SetOut(out)
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose logging")

	root.AddCommand(newAnalyzeCmd(opts, factory))
	root.AddCommand(newPromptCmd(opts))

	return root
}

func (o *rootOptions) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}

	zl, err := logger.New(false, true)
	if err != nil {
		return zap.NewNop()
	}
	return zl
}

// jobAdSource is the shared --job-url / --job-text flag pair.
type jobAdSource struct {
	url      string
	textFile string
}

func (s *jobAdSource) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.url, "job-url", "", "URL of the job ad")
	cmd.Flags().StringVar(&s.textFile, "job-text", "", "File containing the job ad text")
	cmd.MarkFlagsMutuallyExclusive("job-url", "job-text")
	cmd.MarkFlagsOneRequired("job-url", "job-text")
}

func (s *jobAdSource) load(ctx context.Context, fetchTimeout time.Duration) (string, error) {
	if s.textFile != "" {
		data, err := os.ReadFile(s.textFile)
		if err != nil {
			return "", fmt.Errorf("failed to read job ad file: %w", err)
		}
		return string(data), nil
	}

	text, err := services.NewJobAdFetcher(fetchTimeout).Fetch(ctx, s.url)
	if err != nil {
		return "", fmt.Errorf("failed to fetch job ad: %w", err)
	}
	return text, nil
}

func readResume(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read resume: %w", err)
	}

	text, err := services.NewDocumentExtractor().ExtractText(path, data)
	if err != nil {
		return "", fmt.Errorf("failed to extract resume text: %w", err)
	}
	return text, nil
}
