package vision

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"google.golang.org/genai"

	"github.com/ramvolt/ebay-lister/internal/listing"
)

// defaultGeminiModel is overridable with the GEMINI_MODEL environment
// variable.
const defaultGeminiModel = "gemini-2.0-flash"

// GeminiAnalyzer uses Google's Gemini API for image analysis.
type GeminiAnalyzer struct {
	client *genai.Client
	model  string
}

// NewGeminiAnalyzer creates a new Gemini-based analyzer. It uses the
// GEMINI_API_KEY environment variable for authentication.
func NewGeminiAnalyzer(ctx context.Context) (*GeminiAnalyzer, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey: os.Getenv("GEMINI_API_KEY"),
	})
	if err != nil {
		return nil, analysisErrorf("create Gemini client: %v", err)
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiAnalyzer{client: client, model: model}, nil
}

// AnalyzeImages implements the Analyzer interface using Gemini. The same
// instructions are sent as with OpenAI so both backends produce the same
// JSON shape.
func (g *GeminiAnalyzer) AnalyzeImages(ctx context.Context, images []Image, categoryHint string) (listing.RawAnalysis, error) {
	if len(images) == 0 {
		return listing.RawAnalysis{}, analysisErrorf("no images to analyze")
	}

	prompt := openaiSystemPrompt + "\n\nAnalyze this item and create an eBay listing optimized for Cassini SEO. Return only the JSON response."
	if categoryHint != "" {
		prompt += "\n\nCategory hint: " + categoryHint
	}

	parts := []*genai.Part{genai.NewPartFromText(prompt)}
	for _, img := range images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{Data: img.Data, MIMEType: img.MIMEType},
		})
	}

	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}

	log.Info().Str("model", g.model).Int("images", len(images)).Msg("sending photos for analysis")
	result, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return listing.RawAnalysis{}, analysisErrorf("gemini: %v", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return listing.RawAnalysis{}, analysisErrorf("no response from Gemini")
	}

	text := result.Text()
	log.Debug().Str("response", text).Msg("vision model response")

	return ParseAnalysis(text)
}
