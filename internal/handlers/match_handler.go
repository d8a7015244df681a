package handlers

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"resume-matcher/internal/models"
	"resume-matcher/internal/services"
)

const requestIDHeader = "X-Request-ID"

type MatchHandler struct {
	matchService services.MatchService
	maxFileSize  int64
	logger       *zap.Logger
}

func NewMatchHandler(matchService services.MatchService, maxFileSize int64, logger *zap.Logger) *MatchHandler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &MatchHandler{
		matchService: matchService,
		maxFileSize:  maxFileSize,
		logger:       logger,
	}
}

// HandleMatchPDF serves the multipart form: a resume file plus a job ad link
// or pasted job ad text.
func (h *MatchHandler) HandleMatchPDF(c *fiber.Ctx) error {
	requestID := requestIDFrom(c)

	fileHeader, err := c.FormFile("resume")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Missing job ad URL or resume PDF.",
		})
	}

	if fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(models.ErrorResponse{
			Error: fmt.Sprintf("Resume file too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Failed to read the uploaded resume.",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxFileSize+1))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Failed to read the uploaded resume.",
		})
	}

	jobAdURL := strings.TrimSpace(c.FormValue("jobAdUrl"))
	jobAdText := c.FormValue("jobAdText")

	outcome, err := h.matchService.AnalyzeUpload(c.UserContext(), services.UploadInput{
		RequestID:      requestID,
		ResumeFilename: fileHeader.Filename,
		ResumeData:     data,
		InputMode:      resolveInputMode(c.FormValue("inputMode"), jobAdURL, jobAdText),
		JobAdURL:       jobAdURL,
		JobAdText:      jobAdText,
	})
	if err != nil {
		return h.writeError(c, requestID, err)
	}

	return c.JSON(toMatchResponse(outcome))
}

// HandleMatchText serves the JSON variant where both documents are plain text.
func (h *MatchHandler) HandleMatchText(c *fiber.Ctx) error {
	requestID := requestIDFrom(c)

	var req models.MatchTextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "Invalid request body",
		})
	}

	if strings.TrimSpace(req.Resume) == "" || strings.TrimSpace(req.JobAd) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error: "resume and jobAd are required",
		})
	}

	outcome, err := h.matchService.AnalyzeText(c.UserContext(), requestID, req.Resume, req.JobAd)
	if err != nil {
		return h.writeError(c, requestID, err)
	}

	return c.JSON(toMatchResponse(outcome))
}

func (h *MatchHandler) writeError(c *fiber.Ctx, requestID string, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: vErr.Message})
	}

	h.logger.Error("match request failed", zap.String("request_id", requestID), zap.Error(err))

	var upErr *services.UpstreamError
	if errors.As(err, &upErr) {
		status := fiber.StatusBadGateway
		if upErr.Timeout() {
			status = fiber.StatusGatewayTimeout
		}

		message := upErr.Message
		if message == "" {
			message = "Failed to process resume or job ad."
		}
		return c.Status(status).JSON(models.ErrorResponse{Error: message})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{
		Error: "Failed to process resume or job ad.",
	})
}

// resolveInputMode falls back to whichever job ad field was filled in when
// the client sends no inputMode.
func resolveInputMode(raw, jobAdURL, jobAdText string) models.InputMode {
	mode := models.InputMode(strings.ToLower(strings.TrimSpace(raw)))
	if mode != "" {
		return mode
	}

	if strings.TrimSpace(jobAdText) != "" && jobAdURL == "" {
		return models.InputModeText
	}
	return models.InputModeLink
}

func requestIDFrom(c *fiber.Ctx) string {
	if id := strings.TrimSpace(c.Get(requestIDHeader)); id != "" {
		return id
	}

	id := uuid.NewString()
	c.Set(requestIDHeader, id)
	return id
}

func toMatchResponse(outcome *services.MatchOutcome) models.MatchResponse {
	structured := outcome.Structured

	return models.MatchResponse{
		Result:                   outcome.RawText,
		Structured:               &structured,
		Model:                    outcome.Model,
		FallbackUsed:             outcome.FallbackUsed,
		PromptInjectionSuspected: outcome.PromptInjectionSuspected,
	}
}
