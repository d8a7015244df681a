package services

import (
	_ "embed"
	"strings"
	"unicode/utf8"

	"resume-matcher/internal/models"
)

const (
	MaxResumeChars = 6000
	MaxJobAdChars  = 8000
)

//go:embed prompt.tmpl
var promptTemplate string

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildMatchPrompt creates the evaluation prompt for a bounded request.
func (pb *PromptBuilder) BuildMatchPrompt(req *models.AnalysisRequest) string {
	return BuildPrompt(req.ResumeText, req.JobAdText)
}

// BuildPrompt inserts both payloads verbatim into the fixed template. Inputs
// are not escaped; a single replacement pass keeps placeholder text inside a
// payload from being expanded.
func BuildPrompt(resumeText, jobAdText string) string {
	r := strings.NewReplacer(
		"{{RESUME}}", resumeText,
		"{{JOB_AD}}", jobAdText,
	)
	return r.Replace(promptTemplate)
}

// NewAnalysisRequest keeps the first MaxResumeChars and MaxJobAdChars of the
// inputs as given and rejects inputs that hold only whitespace.
func NewAnalysisRequest(resumeText, jobAdText string) (*models.AnalysisRequest, error) {
	resume := TruncateText(resumeText, MaxResumeChars)
	if strings.TrimSpace(resume) == "" {
		return nil, NewValidationError("Could not extract any text from the resume.")
	}

	jobAd := TruncateText(jobAdText, MaxJobAdChars)
	if strings.TrimSpace(jobAd) == "" {
		return nil, NewValidationError("The job ad is empty.")
	}

	return &models.AnalysisRequest{
		ResumeText: resume,
		JobAdText:  jobAd,
	}, nil
}

// TruncateText returns at most max characters of text, never splitting a rune.
func TruncateText(text string, max int) string {
	if max <= 0 {
		return ""
	}
	if utf8.RuneCountInString(text) <= max {
		return text
	}

	count := 0
	for i := range text {
		if count == max {
			return text[:i]
		}
		count++
	}
	return text
}
