package service

import (
	"context"
	"time"

	"github.com/dumbgoos/WEB2PG/internal/logger"
	"github.com/dumbgoos/WEB2PG/internal/observer"
	"github.com/dumbgoos/WEB2PG/internal/ocr"
	"github.com/dumbgoos/WEB2PG/internal/repository"
	"github.com/dumbgoos/WEB2PG/internal/strategy"
	"github.com/dumbgoos/WEB2PG/pkg/models"

	"github.com/sirupsen/logrus"
)

// ocrFailedMessage is the stable error string reported when the OCR stage
// fails; the capture host matches on it.
const ocrFailedMessage = "OCR processing failed"

// ExtractionService orchestrates the screenshot extraction pipeline:
// resolve image, OCR, then best-effort analysis.
type ExtractionService interface {
	// ProcessScreenshot runs one pipeline invocation. It never returns an
	// error: every failure mode is reported inside the PipelineResult.
	ProcessScreenshot(ctx context.Context, req *models.ExtractionRequest) *models.PipelineResult
}

// extractionService implements ExtractionService
type extractionService struct {
	screenshots repository.ScreenshotRepository
	ocrClient   ocr.Client
	analysis    strategy.AnalysisStrategy
	events      observer.Subject
}

// NewExtractionService creates a new extraction service
func NewExtractionService(
	screenshots repository.ScreenshotRepository,
	ocrClient ocr.Client,
	analysis strategy.AnalysisStrategy,
	events observer.Subject,
) ExtractionService {
	return &extractionService{
		screenshots: screenshots,
		ocrClient:   ocrClient,
		analysis:    analysis,
		events:      events,
	}
}

// ProcessScreenshot sequences OCR then analysis. OCR failure is terminal
// for the request; once OCR succeeds the result is always successful,
// whatever happens to the analysis stage.
func (s *extractionService) ProcessScreenshot(ctx context.Context, req *models.ExtractionRequest) *models.PipelineResult {
	startTime := time.Now()

	s.publish(ctx, observer.ExtractionEvent{
		EventType: observer.ExtractionStarted,
		Timestamp: startTime,
		PageURL:   req.URL,
	})

	image, err := s.screenshots.Resolve(ctx, req)
	if err != nil {
		return s.fail(ctx, req, startTime, err.Error())
	}

	// OCR stage; intentionally not bounded by a timeout here, inference
	// may be slow and the caller accepts the wait.
	ocrText, err := s.ocrClient.RunOCR(ctx, image)
	if err != nil {
		logger.WithError(err).WithField("page_url", req.URL).Error("OCR stage failed")
		return s.fail(ctx, req, startTime, ocrFailedMessage)
	}

	s.publish(ctx, observer.ExtractionEvent{
		EventType: observer.OCRCompleted,
		Timestamp: time.Now(),
		PageURL:   req.URL,
		Success:   true,
		Metadata: map[string]interface{}{
			"ocr_text_length": len(ocrText),
		},
	})

	analysis := s.analysis.Analyze(ctx, strategy.PromptContext{
		OCRText:      ocrText,
		PageURL:      req.URL,
		Title:        req.Title,
		Excerpt:      req.Excerpt(),
		ExistingTags: req.ExistingTags,
	})

	s.publish(ctx, observer.ExtractionEvent{
		EventType: observer.AnalysisCompleted,
		Timestamp: time.Now(),
		PageURL:   req.URL,
		Success:   true,
		Metadata: map[string]interface{}{
			"strategy":         s.analysis.GetStrategyName(),
			"analysis_skipped": len(analysis.Tags) == 0 && analysis.Summary == "",
			"tag_count":        len(analysis.Tags),
			"novel_tags":       CountNovelTags(req.ExistingTags, analysis.Tags),
		},
	})

	duration := time.Since(startTime)
	logger.WithFields(logrus.Fields{
		"page_url":           req.URL,
		"ocr_text_length":    len(ocrText),
		"tags":               len(analysis.Tags),
		"processing_time_ms": duration.Milliseconds(),
	}).Info("Screenshot extraction completed")

	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionCompleted,
		Timestamp:      time.Now(),
		PageURL:        req.URL,
		ProcessingTime: duration,
		Success:        true,
	})

	return models.NewSuccessResult(ocrText, analysis)
}

func (s *extractionService) fail(ctx context.Context, req *models.ExtractionRequest, startTime time.Time, message string) *models.PipelineResult {
	s.publish(ctx, observer.ExtractionEvent{
		EventType:      observer.ExtractionFailed,
		Timestamp:      time.Now(),
		PageURL:        req.URL,
		ProcessingTime: time.Since(startTime),
		Success:        false,
		ErrorMessage:   message,
	})
	return models.NewErrorResult(message)
}

func (s *extractionService) publish(ctx context.Context, event observer.ExtractionEvent) {
	if s.events != nil {
		s.events.NotifyObservers(ctx, event)
	}
}
