package models

// InputMode tells where the job advertisement text comes from.
type InputMode string

const (
	InputModeLink InputMode = "link"
	InputModeText InputMode = "text"
)

// AnalysisRequest holds the bounded inputs of a single prompt.
// Build it with services.NewAnalysisRequest so the length limits hold.
type AnalysisRequest struct {
	ResumeText string
	JobAdText  string
}

// StructuredResult is the rendering record derived from a completion.
// Every field is independently optional; lists are never nil.
type StructuredResult struct {
	JobTitle    string   `json:"jobTitle"`
	Score       string   `json:"score"`
	Matches     []string `json:"matches"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// IsEmpty reports whether nothing could be recognised in the completion.
func (r StructuredResult) IsEmpty() bool {
	return r.JobTitle == "" && r.Score == "" &&
		len(r.Matches) == 0 && len(r.Weaknesses) == 0 && len(r.Suggestions) == 0
}

type MatchTextRequest struct {
	Resume string `json:"resume"`
	JobAd  string `json:"jobAd"`
}

type MatchResponse struct {
	Result                   string            `json:"result"`
	Structured               *StructuredResult `json:"structured"`
	Model                    string            `json:"model"`
	FallbackUsed             bool              `json:"fallbackUsed"`
	PromptInjectionSuspected bool              `json:"promptInjectionSuspected"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
