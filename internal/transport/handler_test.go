package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dumbgoos/WEB2PG/internal/config"
	"github.com/dumbgoos/WEB2PG/internal/observer"
	"github.com/dumbgoos/WEB2PG/internal/service"
	"github.com/dumbgoos/WEB2PG/pkg/models"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	result *models.PipelineResult
}

func (s *stubService) ProcessScreenshot(ctx context.Context, req *models.ExtractionRequest) *models.PipelineResult {
	return s.result
}

func newTestHandler(result *models.PipelineResult) http.Handler {
	pool := service.NewWorkerPool(1)
	pool.Start()
	cfg := &config.Config{MaxRequestBodySize: 1024 * 1024}
	return NewHandler(&stubService{result: result}, pool, observer.NewMetricsObserver(), cfg)
}

func TestHealthCheck(t *testing.T) {
	handler := newTestHandler(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "available" {
		t.Errorf("Expected status available, got %v", body["status"])
	}
}

func TestMetricsEndpoint(t *testing.T) {
	handler := newTestHandler(nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	for _, key := range []string{"total_extractions", "successful_extractions", "failed_extractions"} {
		if _, ok := body[key]; !ok {
			t.Errorf("Expected metrics to contain %q", key)
		}
	}
}

func TestExtract_Success(t *testing.T) {
	ocrText := "extracted text"
	analysis := models.EmptyAnalysisResult()
	handler := newTestHandler(models.NewSuccessResult(ocrText, analysis))

	payload := `{"image": "aGVsbG8=", "url": "https://example.com"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var result models.PipelineResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !result.Success {
		t.Error("Expected success result")
	}
	if result.OCRText == nil || *result.OCRText != ocrText {
		t.Errorf("Unexpected OCR text %v", result.OCRText)
	}
}

func TestExtract_PipelineFailureStillHTTP200(t *testing.T) {
	handler := newTestHandler(models.NewErrorResult("OCR processing failed"))

	payload := `{"image": "aGVsbG8="}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected pipeline failure to use status 200, got %d", w.Code)
	}

	var result models.PipelineResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result.Success {
		t.Error("Expected failure result")
	}
	if result.Error != "OCR processing failed" {
		t.Errorf("Unexpected error message %q", result.Error)
	}
}

func TestExtract_BadRequests(t *testing.T) {
	handler := newTestHandler(nil)

	tests := []struct {
		name    string
		payload string
	}{
		{name: "Malformed JSON", payload: `{"image": `},
		{name: "No image and no URL", payload: `{"url": "https://example.com"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", w.Code)
			}
		})
	}
}

func TestExtract_BodySizeLimit(t *testing.T) {
	pool := service.NewWorkerPool(1)
	pool.Start()
	cfg := &config.Config{MaxRequestBodySize: 64}
	handler := NewHandler(&stubService{}, pool, observer.NewMetricsObserver(), cfg)

	payload, _ := json.Marshal(map[string]string{
		"image": strings.Repeat("A", 1024),
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for oversized body, got %d", w.Code)
	}
}
