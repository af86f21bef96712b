package vision

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAnalysis(t *testing.T) {
	raw, err := ParseAnalysis(`{"title": "Levi's 501 Jeans", "price": 25.5, "condition": "USED_GOOD", "aspects": {"Brand": ["Levi's"]}, "category_keywords": "mens jeans denim"}`)
	require.NoError(t, err)
	assert.Equal(t, "Levi's 501 Jeans", raw.Title)
	assert.Equal(t, 25.5, raw.Price)
	assert.Equal(t, "USED_GOOD", raw.Condition)
	assert.Equal(t, "mens jeans denim", raw.CategoryKeywords)
}

func TestParseAnalysisMarkdownFences(t *testing.T) {
	raw, err := ParseAnalysis("```json\n{\"title\": \"Mug\"}\n```")
	require.NoError(t, err)
	assert.Equal(t, "Mug", raw.Title)
}

func TestParseAnalysisSurroundingChatter(t *testing.T) {
	raw, err := ParseAnalysis(`Here is the listing you asked for:

{"title": "Mug", "price": "4.99"}

Let me know if you need anything else!`)
	require.NoError(t, err)
	assert.Equal(t, "Mug", raw.Title)
	assert.Equal(t, "4.99", raw.Price)
}

func TestParseAnalysisNoJSON(t *testing.T) {
	_, err := ParseAnalysis("I cannot identify the item in this photo.")
	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Reason, "no JSON object")
}

func TestParseAnalysisInvalidJSON(t *testing.T) {
	_, err := ParseAnalysis(`{"title": "Mug",}`)
	var aerr *AnalysisError
	require.ErrorAs(t, err, &aerr)
	assert.Contains(t, aerr.Reason, "invalid JSON")
}
