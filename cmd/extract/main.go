// Command extract runs one pipeline invocation as a child process: a
// single JSON ExtractionRequest on stdin, a single PipelineResult on
// stdout. Diagnostics go to stderr only, so the result channel stays
// machine-readable.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/dumbgoos/WEB2PG/internal/config"
	"github.com/dumbgoos/WEB2PG/internal/container"
	"github.com/dumbgoos/WEB2PG/internal/logger"
	"github.com/dumbgoos/WEB2PG/pkg/models"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fatal("invalid configuration: " + err.Error())
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		fatal("failed to initialize pipeline: " + err.Error())
	}
	defer c.Close()

	input, err := io.ReadAll(os.Stdin)
	if err != nil {
		fatal("failed to read stdin: " + err.Error())
	}
	if len(input) == 0 {
		fatal("no data provided via stdin")
	}

	var req models.ExtractionRequest
	if err := json.Unmarshal(input, &req); err != nil {
		fatal("invalid JSON input: " + err.Error())
	}
	if req.Image == "" && req.ImageURL == "" {
		fatal("missing required field: image")
	}

	result := c.Service().ProcessScreenshot(context.Background(), &req)

	if err := emit(result); err != nil {
		logger.WithError(err).Error("Failed to write result")
		os.Exit(1)
	}
}

// fatal reports an input/setup error as a pipeline result on stdout and
// exits non-zero, mirroring the in-pipeline failure shape.
func fatal(message string) {
	logger.Error(message)
	_ = emit(models.NewErrorResult(message))
	os.Exit(1)
}

func emit(result *models.PipelineResult) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	return enc.Encode(result)
}
