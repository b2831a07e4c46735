package repository

import (
	"bytes"
	"context"
	"encoding/base64"
	"testing"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
	"github.com/dumbgoos/WEB2PG/pkg/models"
	"github.com/dumbgoos/WEB2PG/pkg/validation"
)

// Valid minimal PNG data for a 1x1 transparent pixel
var testPNGData = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, // PNG signature
	0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52, // IHDR chunk
	0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01, // 1x1 dimensions
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, // bit depth, color type, etc.
	0x89, 0x00, 0x00, 0x00, 0x0A, 0x49, 0x44, 0x41, // IDAT chunk start
	0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00, // compressed data
	0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, // compressed data end
	0x00, 0x00, 0x00, 0x49, 0x45, 0x4E, 0x44, 0xAE, // IEND chunk
	0x42, 0x60, 0x82,
}

type stubFetcher struct {
	data []byte
	err  error
	urls []string
}

func (s *stubFetcher) FetchScreenshot(ctx context.Context, screenshotURL string) ([]byte, error) {
	s.urls = append(s.urls, screenshotURL)
	return s.data, s.err
}

func newTestRepository(fetcher *stubFetcher) ScreenshotRepository {
	return NewScreenshotRepository(fetcher, nil, validation.NewScreenshotValidator(20*1024*1024))
}

func TestStripDataURLPrefix(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "PNG data URL", input: "data:image/png;base64,abc123", want: "abc123"},
		{name: "JPEG data URL", input: "data:image/jpeg;base64,xyz", want: "xyz"},
		{name: "Bare base64 untouched", input: "abc123", want: "abc123"},
		{name: "Empty string", input: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripDataURLPrefix(tt.input); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResolve_InlineBase64(t *testing.T) {
	repo := newTestRepository(&stubFetcher{})

	tests := []struct {
		name  string
		image string
	}{
		{name: "Bare base64", image: base64.StdEncoding.EncodeToString(testPNGData)},
		{name: "Data URL prefix", image: "data:image/png;base64," + base64.StdEncoding.EncodeToString(testPNGData)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := repo.Resolve(context.Background(), &models.ExtractionRequest{Image: tt.image})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if !bytes.Equal(data, testPNGData) {
				t.Error("Expected decoded bytes to match the original payload")
			}
		})
	}
}

func TestResolve_InvalidBase64(t *testing.T) {
	repo := newTestRepository(&stubFetcher{})

	_, err := repo.Resolve(context.Background(), &models.ExtractionRequest{Image: "!!not-base64!!"})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestResolve_UndecodableImage(t *testing.T) {
	repo := newTestRepository(&stubFetcher{})
	notAnImage := base64.StdEncoding.EncodeToString([]byte("plain text payload"))

	_, err := repo.Resolve(context.Background(), &models.ExtractionRequest{Image: notAnImage})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for non-image payload, got %v", err)
	}
}

func TestResolve_MissingImage(t *testing.T) {
	repo := newTestRepository(&stubFetcher{})

	_, err := repo.Resolve(context.Background(), &models.ExtractionRequest{})
	if !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestResolve_InlineTakesPrecedenceOverURL(t *testing.T) {
	fetcher := &stubFetcher{}
	repo := newTestRepository(fetcher)

	req := &models.ExtractionRequest{
		Image:    base64.StdEncoding.EncodeToString(testPNGData),
		ImageURL: "https://example.com/screenshot.png",
	}
	if _, err := repo.Resolve(context.Background(), req); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(fetcher.urls) != 0 {
		t.Error("Expected no fetch when inline data is present")
	}
}

func TestResolve_FetchesURL(t *testing.T) {
	fetcher := &stubFetcher{data: testPNGData}
	repo := newTestRepository(fetcher)

	data, err := repo.Resolve(context.Background(), &models.ExtractionRequest{ImageURL: "https://example.com/shot.png"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !bytes.Equal(data, testPNGData) {
		t.Error("Expected fetched bytes to be returned")
	}
	if len(fetcher.urls) != 1 {
		t.Errorf("Expected one fetch, got %d", len(fetcher.urls))
	}
}

func TestResolve_RejectsInvalidURL(t *testing.T) {
	fetcher := &stubFetcher{}
	repo := newTestRepository(fetcher)

	tests := []struct {
		name string
		url  string
	}{
		{name: "Unsupported scheme", url: "ftp://example.com/shot.png"},
		{name: "Not a URL", url: "not a url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := repo.Resolve(context.Background(), &models.ExtractionRequest{ImageURL: tt.url})
			if err == nil {
				t.Fatal("Expected error for invalid URL")
			}
			if len(fetcher.urls) != 0 {
				t.Error("Expected no fetch for an invalid URL")
			}
		})
	}
}
