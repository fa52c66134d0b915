package categorizer

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"mhoward/lettings-ledger/internal/logging"
	"mhoward/lettings-ledger/internal/models"
)

// mockAIClient is a scriptable AIClient for tests. It is safe for the
// concurrent use SuggestBatch makes of it.
type mockAIClient struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)

	mu         sync.Mutex
	callCount  int
	lastPrompt string
}

func (m *mockAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	m.callCount++
	m.lastPrompt = prompt
	m.mu.Unlock()
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	return `{"category": "repairs", "propertyId": "", "confidence": 0.9, "reasoning": "test"}`, nil
}

func (m *mockAIClient) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.callCount
}

func (m *mockAIClient) LastPrompt() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastPrompt
}

func respondWith(response string) *mockAIClient {
	return &mockAIClient{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return response, nil
	}}
}

var testProperties = []models.Property{
	{ID: "prop-1", Name: "Flat 2", Keywords: []string{"flat 2", "high st"}},
	{ID: "prop-2", Name: "The Cottage", Keywords: []string{"cottage"}},
}

func TestSuggest_HappyPath(t *testing.T) {
	c := New(respondWith(`{"category": "repairs", "propertyId": "prop-2", "confidence": 0.85, "reasoning": "plumber invoice"}`), logging.NewMockLogger())

	s := c.Suggest(context.Background(), "ACME PLUMBING LTD", decimal.NewFromFloat(-120), testProperties)

	assert.Equal(t, models.CategoryRepairs, s.Category)
	assert.Equal(t, "prop-2", s.PropertyID)
	assert.InDelta(t, 0.85, s.Confidence, 0.0001)
	assert.Equal(t, "plumber invoice", s.Reasoning)
}

func TestSuggest_FencedJSON(t *testing.T) {
	response := "Here is the classification:\n```json\n" +
		`{"category": "insurance", "propertyId": "", "confidence": 0.7, "reasoning": "policy renewal"}` +
		"\n```\nLet me know if you need anything else."
	c := New(respondWith(response), logging.NewMockLogger())

	s := c.Suggest(context.Background(), "AVIVA LANDLORD POLICY", decimal.NewFromFloat(-30), nil)
	assert.Equal(t, models.CategoryInsurance, s.Category)
	assert.InDelta(t, 0.7, s.Confidence, 0.0001)
}

func TestSuggest_HallucinatedCategory(t *testing.T) {
	c := New(respondWith(`{"category": "groceries", "confidence": 0.95}`), logging.NewMockLogger())

	s := c.Suggest(context.Background(), "TESCO", decimal.NewFromFloat(-20), nil)
	assert.Equal(t, models.CategoryUncategorized, s.Category)
	// Confidence in a category outside the closed set is meaningless.
	assert.Zero(t, s.Confidence)
}

func TestSuggest_HallucinatedPropertyDropped(t *testing.T) {
	c := New(respondWith(`{"category": "repairs", "propertyId": "prop-999", "confidence": 0.9}`), logging.NewMockLogger())

	s := c.Suggest(context.Background(), "SCREWFIX", decimal.NewFromFloat(-60), testProperties)
	assert.Equal(t, models.CategoryRepairs, s.Category)
	// Unknown property id falls through to the keyword/default chain; with
	// no keyword hit the first property is assigned at low confidence.
	assert.Equal(t, "prop-1", s.PropertyID)
	assert.InDelta(t, 0.2, s.Confidence, 0.0001)
}

func TestSuggest_KeywordMatchBeatsDefault(t *testing.T) {
	c := New(respondWith(`{"category": "repairs", "propertyId": "", "confidence": 0.9}`), logging.NewMockLogger())

	s := c.Suggest(context.Background(), "Roof repair THE COTTAGE", decimal.NewFromFloat(-400), testProperties)
	assert.Equal(t, "prop-2", s.PropertyID)
	// A keyword hit is a real signal, confidence is not capped.
	assert.InDelta(t, 0.9, s.Confidence, 0.0001)
}

func TestSuggest_GarbageResponse(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "prose only", response: "I think this is probably repairs."},
		{name: "empty", response: ""},
		{name: "unterminated object", response: `{"category": "repairs"`},
		{name: "malformed json", response: `{category: repairs}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(respondWith(tt.response), logging.NewMockLogger())
			s := c.Suggest(context.Background(), "SOMETHING", decimal.NewFromFloat(-10), nil)
			assert.Equal(t, models.CategoryUncategorized, s.Category)
			assert.Zero(t, s.Confidence)
		})
	}
}

func TestSuggest_ClientError(t *testing.T) {
	client := &mockAIClient{GenerateFunc: func(ctx context.Context, prompt string) (string, error) {
		return "", errors.New("quota exceeded")
	}}
	log := logging.NewMockLogger()
	c := New(client, log)

	s := c.Suggest(context.Background(), "SOMETHING", decimal.NewFromFloat(-10), nil)
	assert.Equal(t, models.CategoryUncategorized, s.Category)
	assert.Zero(t, s.Confidence)
	assert.True(t, log.HasEntry("WARN", "Classification call failed, using fallback"))
}

func TestSuggest_NilClient(t *testing.T) {
	c := New(nil, logging.NewMockLogger())

	s := c.Suggest(context.Background(), "Gas cert FLAT 2", decimal.NewFromFloat(-80), testProperties)
	assert.Equal(t, models.CategoryUncategorized, s.Category)
	// Keyword matching still works without a classifier.
	assert.Equal(t, "prop-1", s.PropertyID)
}

func TestSuggest_ConfidenceClamped(t *testing.T) {
	c := New(respondWith(`{"category": "repairs", "confidence": 7.5}`), logging.NewMockLogger())
	s := c.Suggest(context.Background(), "X", decimal.NewFromFloat(-1), nil)
	assert.Equal(t, 1.0, s.Confidence)

	c = New(respondWith(`{"category": "repairs", "confidence": -3}`), logging.NewMockLogger())
	s = c.Suggest(context.Background(), "X", decimal.NewFromFloat(-1), nil)
	assert.Zero(t, s.Confidence)
}

func TestSuggest_PromptListsDomainVocabulary(t *testing.T) {
	client := &mockAIClient{}
	c := New(client, logging.NewMockLogger())

	c.Suggest(context.Background(), "ACME", decimal.NewFromFloat(-10), testProperties)

	prompt := client.LastPrompt()
	for _, cat := range models.Categories() {
		assert.Contains(t, prompt, string(cat))
	}
	assert.Contains(t, prompt, "prop-1")
	assert.Contains(t, prompt, "The Cottage")
}

func TestExtractPayload_BracesInsideStrings(t *testing.T) {
	p, err := extractPayload(`{"category": "repairs", "reasoning": "matches {vendor} pattern", "confidence": 0.5}`)
	assert.NoError(t, err)
	assert.Equal(t, "repairs", p.Category)
	assert.Equal(t, "matches {vendor} pattern", p.Reasoning)
}

func TestExtractPayload_EscapedQuotes(t *testing.T) {
	p, err := extractPayload(`{"category": "repairs", "reasoning": "vendor says \"fixed\"", "confidence": 0.5}`)
	assert.NoError(t, err)
	assert.Equal(t, `vendor says "fixed"`, p.Reasoning)
}
