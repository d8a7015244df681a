package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"resume-matcher/internal/config"
	"resume-matcher/internal/services"
)

func newPromptCmd(_ *rootOptions) *cobra.Command {
	var (
		resumePath string
		jobAd      jobAdSource
	)

	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to the model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()

			resumeText, err := readResume(resumePath)
			if err != nil {
				return err
			}

			jobAdText, err := jobAd.load(cmd.Context(), cfg.LLM.FetchTimeout)
			if err != nil {
				return err
			}

			req, err := services.NewAnalysisRequest(resumeText, jobAdText)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), services.NewPromptBuilder().BuildMatchPrompt(req))

			if phrases := services.DetectInjection(req.JobAdText); len(phrases) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: instruction-like text in job ad: %q\n", phrases)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resumePath, "resume", "", "Resume file (.pdf, .docx or .txt)")
	_ = cmd.MarkFlagRequired("resume")
	jobAd.bind(cmd)

	return cmd
}
