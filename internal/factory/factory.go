package factory

import (
	"fmt"

	"github.com/dumbgoos/WEB2PG/internal/config"
	"github.com/dumbgoos/WEB2PG/internal/ocr"
	"github.com/dumbgoos/WEB2PG/internal/storage"
)

// OCREngineType represents the available OCR backends
type OCREngineType string

const (
	// RemoteEngine calls the DeepSeek-OCR inference server over HTTP
	RemoteEngine OCREngineType = "remote"
	// TesseractEngine runs OCR locally through Tesseract
	TesseractEngine OCREngineType = "tesseract"
)

// StorageType represents different screenshot source backends
type StorageType string

const (
	// HTTPStorage for HTTP-based screenshot fetching
	HTTPStorage StorageType = "http"
	// AzureStorage for Azure blob storage
	AzureStorage StorageType = "azure"
)

// OCRClientFactory creates OCR clients
type OCRClientFactory interface {
	CreateOCRClient(engineType OCREngineType, cfg *config.Config) (ocr.Client, error)
}

// StorageFactory creates screenshot source implementations
type StorageFactory interface {
	CreateFetcher(cfg *config.Config) storage.ScreenshotFetcher
	CreateBlobStorage(cfg *config.Config) (storage.BlobStorage, error)
}

// ocrClientFactory implements OCRClientFactory
type ocrClientFactory struct{}

// NewOCRClientFactory creates a new OCR client factory
func NewOCRClientFactory() OCRClientFactory {
	return &ocrClientFactory{}
}

// CreateOCRClient creates an OCR client for the specified engine
func (f *ocrClientFactory) CreateOCRClient(engineType OCREngineType, cfg *config.Config) (ocr.Client, error) {
	switch engineType {
	case RemoteEngine:
		return ocr.NewRemoteClient(cfg.OCREndpoint), nil
	case TesseractEngine:
		return ocr.NewTesseractClient(), nil
	default:
		return nil, fmt.Errorf("unsupported OCR engine: %s", engineType)
	}
}

// storageFactory implements StorageFactory
type storageFactory struct{}

// NewStorageFactory creates a new storage factory
func NewStorageFactory() StorageFactory {
	return &storageFactory{}
}

// CreateFetcher creates the HTTP screenshot fetcher
func (f *storageFactory) CreateFetcher(cfg *config.Config) storage.ScreenshotFetcher {
	return storage.NewHTTPScreenshotFetcher(cfg.MaxRequestBodySize)
}

// CreateBlobStorage creates the Azure blob source when credentials are
// configured; returns nil otherwise so callers can fall back to HTTP.
func (f *storageFactory) CreateBlobStorage(cfg *config.Config) (storage.BlobStorage, error) {
	if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
		return nil, nil
	}
	return storage.NewAzureStorage(cfg.AzureAccountName, cfg.AzureAccountKey)
}

// ComponentFactory combines all factories
type ComponentFactory struct {
	OCRClientFactory OCRClientFactory
	StorageFactory   StorageFactory
}

// NewComponentFactory creates a new component factory
func NewComponentFactory() *ComponentFactory {
	return &ComponentFactory{
		OCRClientFactory: NewOCRClientFactory(),
		StorageFactory:   NewStorageFactory(),
	}
}
