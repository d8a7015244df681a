package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"resume-matcher/internal/logger"
	"resume-matcher/internal/models"
	"resume-matcher/internal/repositories"
)

const (
	DefaultCompletionTimeout = 90 * time.Second
	DefaultFetchTimeout      = 15 * time.Second

	defaultMaxLogLength = 200
	auditWriteTimeout   = 2 * time.Second
)

// UploadInput is one submission of the multipart form.
type UploadInput struct {
	RequestID      string
	ResumeFilename string
	ResumeData     []byte
	InputMode      models.InputMode
	JobAdURL       string
	JobAdText      string
}

type MatchOutcome struct {
	RawText                  string
	Structured               models.StructuredResult
	Model                    string
	FallbackUsed             bool
	PromptInjectionSuspected bool
	InjectionPhrases         []string
}

type MatchService interface {
	AnalyzeUpload(ctx context.Context, in UploadInput) (*MatchOutcome, error)
	AnalyzeText(ctx context.Context, requestID, resumeText, jobAdText string) (*MatchOutcome, error)
}

type MatcherOptions struct {
	Primary ModelConfig
	// Fallback is tried once when the primary output is empty or truncated.
	// A nil Fallback disables the retry.
	Fallback          *ModelConfig
	ReasoningPrefixes []string
	CompletionTimeout time.Duration
	FetchTimeout      time.Duration
	MaxLogLength      int
}

type matchService struct {
	extractor     DocumentExtractor
	fetcher       JobAdFetcher
	completer     Completer
	auditRepo     repositories.AuditRepository
	promptBuilder *PromptBuilder
	opts          MatcherOptions
	logger        *zap.Logger
}

func NewMatchService(
	extractor DocumentExtractor,
	fetcher JobAdFetcher,
	completer Completer,
	auditRepo repositories.AuditRepository,
	opts MatcherOptions,
	log *zap.Logger,
) MatchService {
	if opts.MaxLogLength <= 0 {
		opts.MaxLogLength = defaultMaxLogLength
	}
	if opts.CompletionTimeout <= 0 {
		opts.CompletionTimeout = DefaultCompletionTimeout
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = DefaultFetchTimeout
	}
	if opts.Fallback != nil && strings.TrimSpace(opts.Fallback.Model) == "" {
		opts.Fallback = nil
	}
	if auditRepo == nil {
		auditRepo = repositories.NewNoopAuditRepository()
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &matchService{
		extractor:     extractor,
		fetcher:       fetcher,
		completer:     completer,
		auditRepo:     auditRepo,
		promptBuilder: NewPromptBuilder(),
		opts:          opts,
		logger:        log,
	}
}

// AnalyzeUpload implements MatchService.
func (s *matchService) AnalyzeUpload(ctx context.Context, in UploadInput) (*MatchOutcome, error) {
	start := time.Now()
	log := logger.WithRequest(s.logger, in.RequestID)
	audit := &models.AnalysisAudit{RequestID: in.RequestID, InputMode: in.InputMode}

	outcome, err := s.analyzeUpload(ctx, log, in, audit)
	s.recordAudit(ctx, log, audit, start, err)

	return outcome, err
}

// AnalyzeText implements MatchService.
func (s *matchService) AnalyzeText(ctx context.Context, requestID, resumeText, jobAdText string) (*MatchOutcome, error) {
	start := time.Now()
	log := logger.WithRequest(s.logger, requestID)
	audit := &models.AnalysisAudit{RequestID: requestID, InputMode: models.InputModeText}

	outcome, err := s.analyze(ctx, log, resumeText, jobAdText, audit)
	s.recordAudit(ctx, log, audit, start, err)

	return outcome, err
}

func (s *matchService) analyzeUpload(ctx context.Context, log *zap.Logger, in UploadInput, audit *models.AnalysisAudit) (*MatchOutcome, error) {
	if len(in.ResumeData) == 0 {
		return nil, NewValidationError("Missing resume file.")
	}

	var jobAdText string
	switch in.InputMode {
	case models.InputModeLink:
		if strings.TrimSpace(in.JobAdURL) == "" {
			return nil, NewValidationError("Missing job ad URL.")
		}
	case models.InputModeText:
		if strings.TrimSpace(in.JobAdText) == "" {
			return nil, NewValidationError("Missing job ad text.")
		}
		jobAdText = in.JobAdText
	default:
		return nil, NewValidationError(`inputMode must be "link" or "text".`)
	}

	resumeText, err := s.extractor.ExtractText(in.ResumeFilename, in.ResumeData)
	if err != nil {
		log.Warn("resume text extraction failed", zap.String("filename", in.ResumeFilename), zap.Error(err))
		resumeText = ""
	}
	log.Debug("resume text extracted", zap.Int("resume_length", utf8.RuneCountInString(resumeText)))

	if in.InputMode == models.InputModeLink {
		fetchCtx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()

		jobAdText, err = s.fetcher.Fetch(fetchCtx, in.JobAdURL)
		if err != nil {
			return nil, &UpstreamError{Op: "fetch job ad", Message: "Failed to fetch the job ad URL.", Err: err}
		}
		log.Debug("job ad fetched", zap.String("url", in.JobAdURL), zap.Int("job_ad_length", utf8.RuneCountInString(jobAdText)))
	}

	return s.analyze(ctx, log, resumeText, jobAdText, audit)
}

func (s *matchService) analyze(ctx context.Context, log *zap.Logger, resumeText, jobAdText string, audit *models.AnalysisAudit) (*MatchOutcome, error) {
	req, err := NewAnalysisRequest(resumeText, jobAdText)
	if err != nil {
		return nil, err
	}

	prompt := s.promptBuilder.BuildMatchPrompt(req)
	audit.PromptLength = utf8.RuneCountInString(prompt)

	phrases := DetectInjection(req.JobAdText)
	if len(phrases) > 0 {
		audit.PromptInjectionSuspected = true
		log.Warn("job ad contains instruction-like phrasing", zap.Strings("injection_phrases", phrases))
	}

	completion, fallbackUsed, err := s.complete(ctx, log, prompt)
	audit.FallbackUsed = fallbackUsed
	if err != nil {
		return nil, err
	}
	audit.Model = completion.Model

	structured := StructureResult(completion.Text)
	if structured.IsEmpty() {
		log.Info("completion matched no known layout", zap.String("response_preview", logger.TruncateForLog(completion.Text, s.opts.MaxLogLength)))
	}

	return &MatchOutcome{
		RawText:                  completion.Text,
		Structured:               structured,
		Model:                    completion.Model,
		FallbackUsed:             fallbackUsed,
		PromptInjectionSuspected: len(phrases) > 0,
		InjectionPhrases:         phrases,
	}, nil
}

// complete calls the primary model and, when its output is empty or cut off,
// the fallback model once.
func (s *matchService) complete(ctx context.Context, log *zap.Logger, prompt string) (*Completion, bool, error) {
	primary := SelectParams(s.opts.Primary, s.opts.ReasoningPrefixes)

	first, err := s.callModel(ctx, log, prompt, primary)
	if err != nil {
		return nil, false, completionError(err)
	}
	if !first.Empty() && !first.Truncated {
		return first, false, nil
	}

	if s.opts.Fallback == nil {
		if first.Empty() {
			return nil, false, completionError(ErrEmptyCompletion)
		}
		return first, false, nil
	}

	fallback := SelectParams(*s.opts.Fallback, s.opts.ReasoningPrefixes)
	log.Warn("retrying with fallback model",
		zap.String(logger.FieldModel, primary.Model),
		zap.String("fallback_model", fallback.Model),
		zap.Bool("empty", first.Empty()),
		zap.Bool("truncated", first.Truncated),
	)

	second, err := s.callModel(ctx, log, prompt, fallback)
	if err == nil && !second.Empty() {
		return second, true, nil
	}

	if !first.Empty() {
		log.Warn("fallback model gave nothing better, keeping truncated output", zap.Error(err))
		return first, false, nil
	}

	if err == nil {
		err = ErrEmptyCompletion
	}
	return nil, true, completionError(err)
}

func (s *matchService) callModel(ctx context.Context, log *zap.Logger, prompt string, params GenerationParams) (*Completion, error) {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CompletionTimeout)
	defer cancel()

	log.Debug("completion request",
		zap.String(logger.FieldModel, params.Model),
		zap.String("family", string(params.Family)),
		zap.Int("output_cap", params.OutputCap()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
	)

	completion, err := s.completer.Complete(callCtx, prompt, params)
	if err != nil {
		log.Error("completion failed", zap.String(logger.FieldModel, params.Model), zap.Error(err))
		return nil, err
	}

	if completion.Model == "" {
		completion.Model = params.Model
	}

	log.Debug("completion response",
		zap.String(logger.FieldModel, completion.Model),
		zap.String("finish_reason", completion.FinishReason),
		zap.Int("response_length", utf8.RuneCountInString(completion.Text)),
		zap.String("response_preview", logger.TruncateForLog(completion.Text, s.opts.MaxLogLength)),
	)

	return completion, nil
}

func completionError(err error) *UpstreamError {
	return &UpstreamError{
		Op:      "completion",
		Message: "The AI service could not analyze the resume. Please try again.",
		Err:     err,
	}
}

func (s *matchService) recordAudit(ctx context.Context, log *zap.Logger, audit *models.AnalysisAudit, start time.Time, err error) {
	audit.DurationMs = time.Since(start).Milliseconds()
	audit.Outcome = models.OutcomeCompleted

	if err != nil {
		msg := err.Error()
		audit.ErrorMessage = &msg

		var vErr *ValidationError
		if errors.As(err, &vErr) {
			audit.Outcome = models.OutcomeValidationError
		} else {
			audit.Outcome = models.OutcomeUpstreamError
		}
	}

	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), auditWriteTimeout)
	defer cancel()

	if err := s.auditRepo.Create(writeCtx, audit); err != nil {
		log.Warn("failed to record analysis audit", zap.Error(err))
	}
}
