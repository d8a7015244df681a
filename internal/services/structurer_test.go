package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-matcher/internal/models"
)

func TestStructureResultSections(t *testing.T) {
	raw := `Key Matching Points:
- Strong Python background
- Led a 5-person team

Weak or Missing Qualifications:
- No cloud certification`

	result := StructureResult(raw)

	assert.Equal(t, []string{"Strong Python background", "Led a 5-person team"}, result.Matches)
	assert.Equal(t, []string{"No cloud certification"}, result.Weaknesses)
	assert.Empty(t, result.Suggestions)
	assert.NotNil(t, result.Suggestions)
	assert.Empty(t, result.JobTitle)
	assert.Empty(t, result.Score)
}

func TestStructureResultScore(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "strict line", input: "Suitability Score: 87", expect: "Suitability Score: 87"},
		{name: "numbered with range", input: "1. Suitability Score (0-100): 42/100", expect: "Suitability Score: 42"},
		{name: "lower case with equals", input: "suitability score = 9", expect: "Suitability Score: 9"},
		{name: "markdown emphasis", input: "**Suitability Score:** 73", expect: "Suitability Score: 73"},
		{name: "match score dialect", input: "Match score: 64 out of 100", expect: "Suitability Score: 64"},
		{name: "first number wins", input: "Suitability Score: 55 (was 70 last time)", expect: "Suitability Score: 55"},
		{name: "no digits", input: "Suitability Score: not available", expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, StructureResult(tt.input).Score)
		})
	}
}

func TestStructureResultLaterScoreLineSetsScore(t *testing.T) {
	raw := "Suitability Score: pending\nSuitability Score: 61"

	assert.Equal(t, "Suitability Score: 61", StructureResult(raw).Score)
}

func TestStructureResultScoreKeepsCurrentSection(t *testing.T) {
	raw := `Key Matching Points:
- Go microservices
Suitability Score: 80
- Kafka experience`

	result := StructureResult(raw)

	assert.Equal(t, "Suitability Score: 80", result.Score)
	assert.Equal(t, []string{"Go microservices", "Kafka experience"}, result.Matches)
}

func TestStructureResultJobTitle(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "colon", input: "Step 1: Senior Go Engineer", expect: "Senior Go Engineer"},
		{name: "lower case", input: "step 1 - Data Analyst", expect: "Data Analyst"},
		{name: "labelled", input: "Step 1: Job Title: Platform Engineer", expect: "Platform Engineer"},
		{name: "step 10 is not step 1", input: "Step 10: something else", expect: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, StructureResult(tt.input).JobTitle)
		})
	}
}

func TestStructureResultInlineFirstBullet(t *testing.T) {
	raw := `Step 1: Backend Developer
1. Suitability Score (0-100): 78
2. Key Matching Points: Go and PostgreSQL in production
- Designed REST APIs
3. Weak or Missing Qualifications: No Kubernetes
- Limited frontend work
4. Suggestions for Improvement: Mention CI/CD ownership
- Quantify latency improvements`

	result := StructureResult(raw)

	assert.Equal(t, "Backend Developer", result.JobTitle)
	assert.Equal(t, "Suitability Score: 78", result.Score)
	assert.Equal(t, []string{"Go and PostgreSQL in production", "Designed REST APIs"}, result.Matches)
	assert.Equal(t, []string{"No Kubernetes", "Limited frontend work"}, result.Weaknesses)
	assert.Equal(t, []string{"Mention CI/CD ownership", "Quantify latency improvements"}, result.Suggestions)
}

func TestStructureResultNumberedItemsAndMarkdown(t *testing.T) {
	raw := `## **Key Matching Points**
1. Eight years of Go
2) Event-driven design
## Weak or Missing Qualifications
* Missing AWS certification
2. Missing Terraform experience
### Suggestions
• Add a summary section`

	result := StructureResult(raw)

	assert.Equal(t, []string{"Eight years of Go", "Event-driven design"}, result.Matches)
	assert.Equal(t, []string{"Missing AWS certification", "Missing Terraform experience"}, result.Weaknesses)
	assert.Equal(t, []string{"Add a summary section"}, result.Suggestions)
}

func TestStructureResultBulletsBeforeAnySectionIgnored(t *testing.T) {
	raw := "- orphan bullet\n1. orphan numbered\nKey Matching Points:\n- kept"

	result := StructureResult(raw)

	assert.Equal(t, []string{"kept"}, result.Matches)
	assert.Empty(t, result.Weaknesses)
	assert.Empty(t, result.Suggestions)
}

func TestStructureResultDashBulletNeverOpensSection(t *testing.T) {
	raw := "Key Matching Points:\n- Weak spots were addressed\n- Suggestions from peers adopted"

	result := StructureResult(raw)

	assert.Equal(t, []string{"Weak spots were addressed", "Suggestions from peers adopted"}, result.Matches)
	assert.Empty(t, result.Weaknesses)
	assert.Empty(t, result.Suggestions)
}

func TestStructureResultGarbage(t *testing.T) {
	inputs := []string{
		"",
		"hello world",
		"\n\n   \n",
		"-\n*\n1.\n:::",
		strings.Repeat("lorem ipsum ", 500),
		"\x00\xff\xfe binary junk \r\n",
		"Key Matching Points:",
	}

	for _, input := range inputs {
		result := StructureResult(input)

		assert.Empty(t, result.JobTitle)
		assert.Empty(t, result.Score)
		assert.NotNil(t, result.Matches)
		assert.NotNil(t, result.Weaknesses)
		assert.NotNil(t, result.Suggestions)
		assert.Empty(t, result.Matches)
		assert.Empty(t, result.Weaknesses)
		assert.Empty(t, result.Suggestions)
	}
}

func TestStructureResultTruncatedCompletion(t *testing.T) {
	raw := "Step 1: SRE\nSuitability Score: 66\nKey Matching Points:\n- On-call leadership\n- Prometheus and Graf"

	result := StructureResult(raw)

	assert.Equal(t, "SRE", result.JobTitle)
	assert.Equal(t, []string{"On-call leadership", "Prometheus and Graf"}, result.Matches)
}

func TestStructureResultDeterministic(t *testing.T) {
	raw := "Step 1: QA Lead\nSuitability Score: 50\nKey Matching Points: Selenium\nWeak areas:\n- No Cypress\nSuggestions:\n- Learn Playwright"

	first := StructureResult(raw)
	second := StructureResult(raw)

	require.Equal(t, first, second)
	assert.False(t, first.IsEmpty())
	assert.True(t, models.StructuredResult{}.IsEmpty())
}

func TestStructureResultCRLF(t *testing.T) {
	raw := "Suggestions for Improvement:\r\n- Add metrics\r\n- Shorten summary\r\n"

	assert.Equal(t, []string{"Add metrics", "Shorten summary"}, StructureResult(raw).Suggestions)
}

func TestStructureResultAlternateMarkersInsideItems(t *testing.T) {
	t.Run("match score in a suggestion bullet", func(t *testing.T) {
		raw := "Suitability Score: 72\nSuggestions for Improvement:\n- Add Terraform to lift your match score to 85\n- Quantify results"

		result := StructureResult(raw)

		assert.Equal(t, "Suitability Score: 72", result.Score)
		assert.Equal(t, []string{"Add Terraform to lift your match score to 85", "Quantify results"}, result.Suggestions)
	})

	t.Run("gaps in a numbered suggestion", func(t *testing.T) {
		raw := "Suggestions for Improvement:\n1. Close the gaps in cloud skills\n2. Quantify results"

		result := StructureResult(raw)

		assert.Empty(t, result.Weaknesses)
		assert.Equal(t, []string{"Close the gaps in cloud skills", "Quantify results"}, result.Suggestions)
	})

	t.Run("recommendation and key match in numbered items", func(t *testing.T) {
		raw := "Weak or Missing Qualifications:\n1. No recommendation letters\n2. Key match on Go is shallow"

		result := StructureResult(raw)

		assert.Equal(t, []string{"No recommendation letters", "Key match on Go is shallow"}, result.Weaknesses)
		assert.Empty(t, result.Suggestions)
		assert.Empty(t, result.Matches)
	})
}

func TestStructureResultAlternateMarkersAsHeaders(t *testing.T) {
	raw := `3. Match Score: 64
Key Matches:
- Go
Skill Gaps:
- No Rust
Recommendations: Add a portfolio`

	result := StructureResult(raw)

	assert.Equal(t, "Suitability Score: 64", result.Score)
	assert.Equal(t, []string{"Go"}, result.Matches)
	assert.Equal(t, []string{"No Rust"}, result.Weaknesses)
	assert.Equal(t, []string{"Add a portfolio"}, result.Suggestions)
}
