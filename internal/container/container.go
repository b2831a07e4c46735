package container

import (
	"fmt"
	"net/http"

	"github.com/dumbgoos/WEB2PG/internal/config"
	"github.com/dumbgoos/WEB2PG/internal/factory"
	"github.com/dumbgoos/WEB2PG/internal/llm"
	"github.com/dumbgoos/WEB2PG/internal/logger"
	"github.com/dumbgoos/WEB2PG/internal/observer"
	"github.com/dumbgoos/WEB2PG/internal/ocr"
	"github.com/dumbgoos/WEB2PG/internal/repository"
	"github.com/dumbgoos/WEB2PG/internal/service"
	"github.com/dumbgoos/WEB2PG/internal/strategy"
	"github.com/dumbgoos/WEB2PG/internal/transport"
	"github.com/dumbgoos/WEB2PG/pkg/validation"
)

// Container holds all application dependencies, constructed once at
// startup and immutable afterwards.
type Container struct {
	config    *config.Config
	ocrClient ocr.Client
	llmClient *llm.Client
	service   service.ExtractionService
	pool      *service.WorkerPool
	metrics   *observer.MetricsObserver
	handler   http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(cfg *config.Config) (*Container, error) {
	factories := factory.NewComponentFactory()

	// Screenshot sources
	fetcher := factories.StorageFactory.CreateFetcher(cfg)
	blobStorage, err := factories.StorageFactory.CreateBlobStorage(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize blob storage: %w", err)
	}
	validator := validation.NewScreenshotValidator(cfg.MaxRequestBodySize)
	screenshots := repository.NewScreenshotRepository(fetcher, blobStorage, validator)

	// OCR stage
	ocrClient, err := factories.OCRClientFactory.CreateOCRClient(
		factory.OCREngineType(cfg.OCREngine), cfg)
	if err != nil {
		return nil, err
	}

	// Analysis stage; without a credential the skip is structural
	llmClient := llm.NewClient(cfg.LLMAPIURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	var analysis strategy.AnalysisStrategy
	if cfg.HasLLMCredential() {
		analysis = strategy.NewFullAnalysisStrategy(llmClient)
	} else {
		logger.Warn("OPENAI_API_KEY not configured, analysis stage disabled")
		analysis = strategy.NewOCROnlyStrategy()
	}

	// Events
	events := observer.NewEventPublisher()
	metrics := observer.NewMetricsObserver()
	events.Subscribe(observer.NewLoggingObserver(logger.Logger))
	events.Subscribe(metrics)

	extractionService := service.NewExtractionService(screenshots, ocrClient, analysis, events)

	pool := service.NewWorkerPool(cfg.MaxConcurrentExtractions)
	pool.Start()

	handler := transport.NewHandler(extractionService, pool, metrics, cfg)

	return &Container{
		config:    cfg,
		ocrClient: ocrClient,
		llmClient: llmClient,
		service:   extractionService,
		pool:      pool,
		metrics:   metrics,
		handler:   handler,
	}, nil
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Service returns the extraction service
func (c *Container) Service() service.ExtractionService {
	return c.service
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// Close releases container resources
func (c *Container) Close() {
	c.pool.Close()
}
