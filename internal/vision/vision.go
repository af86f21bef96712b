// Package vision analyzes product photos with a vision LLM and extracts
// structured listing data from the model's reply.
package vision

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ramvolt/ebay-lister/internal/listing"
)

// AnalysisError wraps any failure to obtain or parse a model response.
type AnalysisError struct {
	Reason string
}

func (e *AnalysisError) Error() string {
	return "analysis failed: " + e.Reason
}

func analysisErrorf(format string, a ...any) *AnalysisError {
	return &AnalysisError{Reason: fmt.Sprintf(format, a...)}
}

// Image is one photo to analyze.
type Image struct {
	Data     []byte
	MIMEType string
}

// Analyzer can analyze product photos and propose a listing.
type Analyzer interface {
	// AnalyzeImages takes one or more photos of the same item and returns
	// the model's proposed listing fields. categoryHint, when non-empty, is
	// passed to the model to steer categorization.
	AnalyzeImages(ctx context.Context, images []Image, categoryHint string) (listing.RawAnalysis, error)
}

// ParseAnalysis extracts the listing JSON from a model reply. Models wrap
// their JSON in markdown fences or chatter despite instructions, so the
// parser takes the span from the first "{" to the last "}".
func ParseAnalysis(text string) (listing.RawAnalysis, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return listing.RawAnalysis{}, analysisErrorf("no JSON object in model response")
	}

	var raw listing.RawAnalysis
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return listing.RawAnalysis{}, analysisErrorf("invalid JSON from model: %v", err)
	}
	return raw, nil
}
