package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"resume-matcher/internal/config"
	"resume-matcher/internal/models"
	"resume-matcher/internal/services"
)

func newAnalyzeCmd(root *rootOptions, factory matcherFactory) *cobra.Command {
	var (
		resumePath string
		jobAd      jobAdSource
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a resume against a job ad",
		Example: `  matchctl analyze --resume cv.pdf --job-url https://jobs.example.com/123
  matchctl analyze --resume cv.docx --job-text ad.txt --json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg := config.Load()
			log := root.logger()

			resumeText, err := readResume(resumePath)
			if err != nil {
				return err
			}

			jobAdText, err := jobAd.load(ctx, cfg.LLM.FetchTimeout)
			if err != nil {
				return err
			}

			matcher, err := factory(ctx, cfg, log)
			if err != nil {
				return fmt.Errorf("failed to initialize matcher: %w", err)
			}

			outcome, err := matcher.AnalyzeText(ctx, uuid.NewString(), resumeText, jobAdText)
			if err != nil {
				return err
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), outcome)
			}
			writeReport(cmd.OutOrStdout(), outcome)
			return nil
		},
	}

	cmd.Flags().StringVar(&resumePath, "resume", "", "Resume file (.pdf, .docx or .txt)")
	_ = cmd.MarkFlagRequired("resume")
	jobAd.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the API response body as JSON")

	return cmd
}

func writeJSON(w io.Writer, outcome *services.MatchOutcome) error {
	structured := outcome.Structured
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(models.MatchResponse{
		Result:                   outcome.RawText,
		Structured:               &structured,
		Model:                    outcome.Model,
		FallbackUsed:             outcome.FallbackUsed,
		PromptInjectionSuspected: outcome.PromptInjectionSuspected,
	})
}

func writeReport(w io.Writer, outcome *services.MatchOutcome) {
	r := outcome.Structured

	// Nothing recognised: show the completion as-is.
	if r.IsEmpty() {
		fmt.Fprintln(w, strings.TrimSpace(outcome.RawText))
		return
	}

	if r.JobTitle != "" {
		fmt.Fprintf(w, "Job title: %s\n", r.JobTitle)
	}
	if r.Score != "" {
		fmt.Fprintln(w, r.Score)
	}
	writeList(w, "Key Matching Points", r.Matches)
	writeList(w, "Weak or Missing Qualifications", r.Weaknesses)
	writeList(w, "Suggestions for Improvement", r.Suggestions)

	if outcome.FallbackUsed {
		fmt.Fprintf(w, "\n(answered by fallback model %s)\n", outcome.Model)
	}
	if outcome.PromptInjectionSuspected {
		fmt.Fprintf(w, "\nwarning: the job ad contains instruction-like text: %s\n", strings.Join(outcome.InjectionPhrases, "; "))
	}
}

func writeList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}

	fmt.Fprintf(w, "\n%s:\n", title)
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}
