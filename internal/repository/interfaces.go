package repository

import (
	"context"

	"github.com/dumbgoos/WEB2PG/pkg/models"
)

// ScreenshotRepository resolves the screenshot bytes for an extraction
// request, whatever transport the capture host chose: inline base64
// (optionally with a data-URL prefix) or a fetchable URL.
type ScreenshotRepository interface {
	// Resolve returns the decoded screenshot bytes for the request.
	Resolve(ctx context.Context, req *models.ExtractionRequest) ([]byte, error)
}
