package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"

	"github.com/lithammer/dedent"
	"github.com/openai/openai-go"
	"github.com/rs/zerolog/log"

	"github.com/ramvolt/ebay-lister/internal/listing"
)

// defaultOpenAIModel is cost-effective and good enough for product photos.
// Override with the OPENAI_MODEL environment variable.
const defaultOpenAIModel = "gpt-4o-mini"

const (
	openaiTemperature = 0.3
	openaiMaxTokens   = 1500
)

var openaiSystemPrompt = strings.TrimSpace(dedent.Dedent(`
	You are an expert eBay listing specialist with deep knowledge of Cassini SEO (eBay's search algorithm).

	Your task is to analyze product images and create highly optimized eBay listings that rank well in search results.

	CRITICAL SEO RULES FOR CASSINI:
	1. TITLE: Must be keyword-rich, specific, and front-loaded with most important terms
	   - Include: Brand, Type/Model, Key Features, Size/Color, Condition
	   - Use exact product names, not generic terms
	   - Max 80 characters - use every character wisely
	   - Example: "Vintage Levi's 501 Jeans Blue Denim W32 L34 Made in USA 90s"

	2. ITEM SPECIFICS: Critical for Cassini ranking
	   - Provide as many accurate specifics as possible
	   - Use eBay's standard aspect names (Brand, Size, Color, Material, Style, etc.)
	   - Be specific and detailed

	3. DESCRIPTION: Should be detailed and keyword-rich
	   - Include measurements, condition details, material composition
	   - Use HTML formatting for readability
	   - Mention any flaws honestly
	   - Include style/fit information

	4. CONDITION: Be accurate and honest
	   - NEW: Brand new with tags
	   - USED_EXCELLENT: Like new, minimal wear
	   - USED_GOOD: Normal wear, good condition
	   - USED_ACCEPTABLE: Noticeable wear but functional

	5. CATEGORY KEYWORDS: Help with categorization
	   - Provide specific terms that identify the item category

	Return ONLY valid JSON with this exact structure:
	{
	  "title": "SEO-optimized title max 80 chars",
	  "description": "Detailed HTML description",
	  "price": 19.99,
	  "condition": "USED_EXCELLENT",
	  "aspects": {
	    "Brand": ["Brand Name"],
	    "Type": ["Item Type"],
	    "Size": ["Size"],
	    "Colour": ["Color"],
	    "Material": ["Material"],
	    "Style": ["Style"],
	    "Fit": ["Fit Type"],
	    "Era": ["Decade/Era"],
	    "Country/Region of Manufacture": ["Country"],
	    "Features": ["Feature1", "Feature2"]
	  },
	  "category_keywords": "specific category identifying terms"
	}`))

// OpenAIAnalyzer uses OpenAI's vision-capable chat models for image analysis.
type OpenAIAnalyzer struct {
	client openai.Client
	model  string
}

// NewOpenAIAnalyzer creates a new OpenAI-based analyzer. It uses the
// OPENAI_API_KEY environment variable for authentication and OPENAI_MODEL to
// override the default model.
func NewOpenAIAnalyzer() *OpenAIAnalyzer {
	model := os.Getenv("OPENAI_MODEL")
	if model == "" {
		model = defaultOpenAIModel
	}
	return &OpenAIAnalyzer{client: openai.NewClient(), model: model}
}

// AnalyzeImages implements the Analyzer interface using OpenAI.
func (o *OpenAIAnalyzer) AnalyzeImages(ctx context.Context, images []Image, categoryHint string) (listing.RawAnalysis, error) {
	if len(images) == 0 {
		return listing.RawAnalysis{}, analysisErrorf("no images to analyze")
	}

	userPrompt := "Analyze this item and create an eBay listing optimized for Cassini SEO. Return only the JSON response."
	if categoryHint != "" {
		userPrompt += "\n\nCategory hint: " + categoryHint
	}

	parts := []openai.ChatCompletionContentPartUnionParam{
		openai.TextContentPart(userPrompt),
	}
	for _, img := range images {
		dataURL := fmt.Sprintf("data:%s;base64,%s", img.MIMEType, base64.StdEncoding.EncodeToString(img.Data))
		parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
			URL: dataURL,
		}))
	}

	log.Info().Str("model", o.model).Int("images", len(images)).Msg("sending photos for analysis")
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(openaiSystemPrompt),
			openai.UserMessage(parts),
		},
		Temperature: openai.Float(openaiTemperature),
		MaxTokens:   openai.Int(openaiMaxTokens),
	})
	if err != nil {
		return listing.RawAnalysis{}, analysisErrorf("openai: %v", err)
	}
	if len(resp.Choices) == 0 {
		return listing.RawAnalysis{}, analysisErrorf("no response from OpenAI")
	}

	text := resp.Choices[0].Message.Content
	log.Debug().Str("response", text).Msg("vision model response")

	return ParseAnalysis(text)
}
