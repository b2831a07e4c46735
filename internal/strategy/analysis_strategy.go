package strategy

import (
	"context"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/internal/llm"
	"github.com/dumbgoos/WEB2PG/internal/logger"
	"github.com/dumbgoos/WEB2PG/pkg/models"
)

// PromptContext carries everything the analysis stage knows about the page.
type PromptContext struct {
	OCRText      string
	PageURL      string
	Title        string
	Excerpt      string
	ExistingTags []string
}

// AnalysisStrategy defines how the analysis stage runs once OCR succeeded.
// Analysis is best-effort by contract: implementations always return a
// usable result, degrading to the all-defaults one on any failure.
type AnalysisStrategy interface {
	Analyze(ctx context.Context, pc PromptContext) models.AnalysisResult
	GetStrategyName() string
}

// FullAnalysisStrategy builds a prompt, dispatches it to the LLM, and
// parses the response into the normalized schema.
type FullAnalysisStrategy struct {
	client *llm.Client
}

// NewFullAnalysisStrategy creates the prompt → LLM → parse strategy
func NewFullAnalysisStrategy(client *llm.Client) AnalysisStrategy {
	return &FullAnalysisStrategy{
		client: client,
	}
}

// Analyze runs the full analysis pass. Transport and envelope failures are
// absorbed here: the pipeline keeps its OCR result either way.
func (s *FullAnalysisStrategy) Analyze(ctx context.Context, pc PromptContext) models.AnalysisResult {
	prompt := llm.BuildAnalysisPrompt(pc.OCRText, pc.PageURL, pc.Title, pc.Excerpt, pc.ExistingTags)

	raw, err := s.client.RunAnalysis(ctx, prompt)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeNoCredential) {
			logger.Warn("No LLM API key, skipping analysis")
		} else {
			logger.WithError(err).Error("LLM analysis failed")
		}
		return models.EmptyAnalysisResult()
	}

	return llm.ParseAnalysis(raw)
}

// GetStrategyName returns the strategy name
func (s *FullAnalysisStrategy) GetStrategyName() string {
	return "full_analysis"
}

// OCROnlyStrategy skips the analysis stage entirely. Used when no LLM
// credential is configured, making the silent skip structural instead of
// an error path.
type OCROnlyStrategy struct{}

// NewOCROnlyStrategy creates the analysis-skipping strategy
func NewOCROnlyStrategy() AnalysisStrategy {
	return &OCROnlyStrategy{}
}

// Analyze returns the all-defaults analysis result without any LLM call.
func (s *OCROnlyStrategy) Analyze(ctx context.Context, pc PromptContext) models.AnalysisResult {
	return models.EmptyAnalysisResult()
}

// GetStrategyName returns the strategy name
func (s *OCROnlyStrategy) GetStrategyName() string {
	return "ocr_only"
}
