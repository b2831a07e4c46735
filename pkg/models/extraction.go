package models

// ExtractionRequest is the input record for one pipeline invocation.
// It is immutable once received; all fields except the image payload are
// optional context hints forwarded by the capture host.
type ExtractionRequest struct {
	// Image is the screenshot as base64, optionally carrying a data-URL
	// prefix ("data:image/png;base64,...") that is stripped before decoding.
	Image string `json:"image,omitempty"`

	// ImageURL is an alternative to inline image data: the screenshot is
	// fetched from this URL instead.
	ImageURL string `json:"imageUrl,omitempty"`

	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`

	// Content is an opaque pass-through map from the capture host.
	// Recognized keys: "excerpt" (string), "wordCount" (number).
	Content map[string]interface{} `json:"content,omitempty"`

	ExistingTags []string `json:"existingTags,omitempty"`
}

// Excerpt returns the content excerpt if present.
func (r *ExtractionRequest) Excerpt() string {
	if r.Content == nil {
		return ""
	}
	if s, ok := r.Content["excerpt"].(string); ok {
		return s
	}
	return ""
}

// WordCount returns the content word count if present.
func (r *ExtractionRequest) WordCount() int {
	if r.Content == nil {
		return 0
	}
	if n, ok := r.Content["wordCount"].(float64); ok {
		return int(n)
	}
	return 0
}

// AnalysisResult is the normalized output of the analysis stage.
// Every key is always present in the serialized form; defaults fill any
// gap the model left, so callers never need existence checks.
type AnalysisResult struct {
	Tags        []string               `json:"tags"`
	Actors      []string               `json:"actors"`
	Categories  []string               `json:"categories"`
	Keywords    []string               `json:"keywords"`
	Summary     string                 `json:"summary"`
	Language    string                 `json:"language"`
	ContentType string                 `json:"content_type"`
	Entities    map[string]interface{} `json:"entities"`
}

// EmptyAnalysisResult returns the all-defaults analysis result used when
// the analysis stage is skipped or fails.
func EmptyAnalysisResult() AnalysisResult {
	return AnalysisResult{
		Tags:        []string{},
		Actors:      []string{},
		Categories:  []string{},
		Keywords:    []string{},
		Summary:     "",
		Language:    "unknown",
		ContentType: "unknown",
		Entities:    map[string]interface{}{},
	}
}

// PipelineResult is the single output record of a pipeline invocation.
// OCRText and Analysis are present iff Success; Error is present iff not.
type PipelineResult struct {
	Success  bool            `json:"success"`
	OCRText  *string         `json:"ocr_text,omitempty"`
	Analysis *AnalysisResult `json:"analysis,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// NewSuccessResult builds a successful pipeline result.
func NewSuccessResult(ocrText string, analysis AnalysisResult) *PipelineResult {
	return &PipelineResult{
		Success:  true,
		OCRText:  &ocrText,
		Analysis: &analysis,
	}
}

// NewErrorResult builds a failed pipeline result.
func NewErrorResult(message string) *PipelineResult {
	return &PipelineResult{
		Success: false,
		Error:   message,
	}
}
