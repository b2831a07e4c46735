package storage

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ScreenshotFetcher retrieves raw screenshot bytes from a URL. The bytes
// are handed to the OCR stage untouched, so no image decoding happens here.
type ScreenshotFetcher interface {
	FetchScreenshot(ctx context.Context, screenshotURL string) ([]byte, error)
}

// HTTPScreenshotFetcher implements ScreenshotFetcher over plain HTTP
type HTTPScreenshotFetcher struct {
	client   *http.Client
	maxBytes int64
}

// NewHTTPScreenshotFetcher creates an HTTP screenshot fetcher with
// connection pooling tuned for one-off downloads
func NewHTTPScreenshotFetcher(maxBytes int64) ScreenshotFetcher {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     30 * time.Second,

		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,

		MaxResponseHeaderBytes: 4096,

		// Capture hosts often sit behind self-signed proxies
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: true,
		},
	}

	return &HTTPScreenshotFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   30 * time.Second,

			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("too many redirects (limit: 3)")
				}
				return nil
			},
		},
		maxBytes: maxBytes,
	}
}

// FetchScreenshot downloads the screenshot with up to 3 attempts.
// 4xx responses are non-retryable; 5xx and transport errors are retried
// with linear backoff.
func (h *HTTPScreenshotFetcher) FetchScreenshot(ctx context.Context, screenshotURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, screenshotURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	req.Header.Set("Accept", "image/png, image/jpeg, image/webp, */*")
	req.Header.Set("User-Agent", "Web2PG-Extractor/1.0")

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		resp, err = h.client.Do(req)

		if err != nil {
			lastErr = err
		}

		if err == nil && resp != nil && resp.StatusCode == http.StatusOK {
			break
		}

		if err == nil && resp != nil {
			resp.Body.Close()

			if resp.StatusCode >= 400 && resp.StatusCode < 500 {
				lastErr = fmt.Errorf("client error: status code %d", resp.StatusCode)
				resp = nil
				break
			}
			if resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("server error: status code %d", resp.StatusCode)
			}
			resp = nil
		}

		if attempt < 2 {
			time.Sleep(time.Duration(attempt+1) * time.Second)
		}
	}

	if resp == nil {
		if lastErr != nil {
			return nil, fmt.Errorf("failed to fetch screenshot after 3 attempts: %w", lastErr)
		}
		return nil, fmt.Errorf("failed to fetch screenshot after 3 attempts: unknown error")
	}

	defer resp.Body.Close()

	reader := io.Reader(resp.Body)
	if h.maxBytes > 0 {
		reader = io.LimitReader(resp.Body, h.maxBytes+1)
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read screenshot body: %w", err)
	}
	if h.maxBytes > 0 && int64(len(data)) > h.maxBytes {
		return nil, fmt.Errorf("screenshot exceeds size limit of %d bytes", h.maxBytes)
	}

	return data, nil
}
