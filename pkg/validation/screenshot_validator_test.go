package validation

import (
	"bytes"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	apperrors "github.com/dumbgoos/WEB2PG/internal/errors"
)

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("Failed to encode test PNG: %v", err)
	}
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height)), nil); err != nil {
		t.Fatalf("Failed to encode test JPEG: %v", err)
	}
	return buf.Bytes()
}

func TestScreenshotValidator_Validate(t *testing.T) {
	validator := NewScreenshotValidator(1024 * 1024)

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "Valid PNG", data: encodePNG(t, 10, 10), wantErr: false},
		{name: "Valid JPEG", data: encodeJPEG(t, 10, 10), wantErr: false},
		{name: "Empty payload", data: []byte{}, wantErr: true},
		{name: "Not an image", data: []byte("plain text payload"), wantErr: true},
		{name: "Truncated PNG header", data: []byte{0x89, 0x50, 0x4E, 0x47}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.data)
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
			if tt.wantErr && !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
				t.Errorf("Expected validation error type, got %v", err)
			}
		})
	}
}

func TestScreenshotValidator_SizeLimit(t *testing.T) {
	data := encodePNG(t, 10, 10)

	validator := NewScreenshotValidator(int64(len(data) - 1))
	if err := validator.Validate(data); !apperrors.IsType(err, apperrors.ErrorTypeValidation) {
		t.Errorf("Expected validation error for oversized payload, got %v", err)
	}

	validator = NewScreenshotValidator(int64(len(data)))
	if err := validator.Validate(data); err != nil {
		t.Errorf("Expected payload at the limit to pass, got %v", err)
	}
}

func TestScreenshotValidator_NoSizeLimit(t *testing.T) {
	validator := NewScreenshotValidator(0)
	if err := validator.Validate(encodePNG(t, 100, 100)); err != nil {
		t.Errorf("Expected zero limit to disable the size check, got %v", err)
	}
}
