package models

import (
	"time"

	"github.com/google/uuid"
)

type AuditOutcome string

const (
	OutcomeCompleted       AuditOutcome = "completed"
	OutcomeValidationError AuditOutcome = "validation_error"
	OutcomeUpstreamError   AuditOutcome = "upstream_error"
)

// AnalysisAudit records request metadata only. Resume text, job ad text and
// completions are never stored.
type AnalysisAudit struct {
	ID                       uuid.UUID    `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	RequestID                string       `gorm:"type:text;index" json:"request_id"`
	InputMode                InputMode    `gorm:"type:text" json:"input_mode"`
	Model                    string       `gorm:"type:text" json:"model"`
	FallbackUsed             bool         `gorm:"not null;default:false" json:"fallback_used"`
	PromptLength             int          `json:"prompt_length"`
	PromptInjectionSuspected bool         `gorm:"not null;default:false" json:"prompt_injection_suspected"`
	Outcome                  AuditOutcome `gorm:"type:text;not null" json:"outcome"`
	ErrorMessage             *string      `gorm:"type:text" json:"error_message,omitempty"`
	DurationMs               int64        `json:"duration_ms"`
	CreatedAt                time.Time    `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (AnalysisAudit) TableName() string {
	return "analysis_audits"
}
