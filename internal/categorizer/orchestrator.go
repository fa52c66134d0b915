package categorizer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/logging"
	"mhoward/lettings-ledger/internal/models"
)

// Suggestion is a validated classification result. Category is always a
// member of the closed set and PropertyID, when non-empty, always
// references a known property.
type Suggestion struct {
	Category   models.Category
	PropertyID string
	Confidence float64
	Reasoning  string
}

// fallback is the safe default substituted on any contract violation by
// the external classifier.
func fallback() Suggestion {
	return Suggestion{Category: models.CategoryUncategorized, Confidence: 0}
}

// payload mirrors the JSON shape the classifier is asked to produce.
type payload struct {
	Category   string  `json:"category"`
	PropertyID string  `json:"propertyId"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// Categorizer validates and normalizes the output of the external
// classification model.
type Categorizer struct {
	client AIClient
	logger logging.Logger
}

// New creates a Categorizer. A nil client disables AI classification; every
// suggestion then degrades to the uncategorized fallback.
func New(client AIClient, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Categorizer{client: client, logger: logger}
}

// Suggest classifies one transaction description and amount against the
// closed category set and the current property list. It never returns an
// error: any failure at the AI boundary is recovered locally into the
// uncategorized fallback.
func (c *Categorizer) Suggest(ctx context.Context, description string, amount decimal.Decimal, properties []models.Property) Suggestion {
	if c.client == nil {
		return c.withPropertyDefault(fallback(), description, properties)
	}

	raw, err := c.client.Generate(ctx, buildPrompt(description, amount, properties))
	if err != nil {
		c.logger.WithError(err).WithField("description", description).Warn("Classification call failed, using fallback")
		return c.withPropertyDefault(fallback(), description, properties)
	}

	parsed, err := extractPayload(raw)
	if err != nil {
		c.logger.WithError(err).WithField("description", description).Warn("Could not extract classification payload, using fallback")
		return c.withPropertyDefault(fallback(), description, properties)
	}

	return c.validate(parsed, description, properties)
}

// validate enforces the closed domain model on the untrusted payload. The
// classifier may hallucinate category codes and property ids; nothing it
// returns is used without a membership check.
func (c *Categorizer) validate(p payload, description string, properties []models.Property) Suggestion {
	s := Suggestion{Reasoning: p.Reasoning}

	s.Category = models.Category(p.Category)
	if !models.ValidCategory(s.Category) {
		c.logger.WithFields(
			logging.Field{Key: "category", Value: p.Category},
			logging.Field{Key: "description", Value: description},
		).Debug("Classifier returned unknown category, falling back to uncategorized")
		s.Category = models.CategoryUncategorized
		s.Confidence = 0
	} else {
		s.Confidence = clamp01(p.Confidence)
	}

	if p.PropertyID != "" && propertyExists(p.PropertyID, properties) {
		s.PropertyID = p.PropertyID
		return s
	}
	if p.PropertyID != "" {
		c.logger.WithField("property_id", p.PropertyID).Debug("Classifier returned unknown property id, dropping it")
	}
	return c.withPropertyDefault(s, description, properties)
}

// withPropertyDefault fills in a property when the classifier produced none
// or an invalid one: keyword match against the description first, then the
// first known property at low confidence, then none.
func (c *Categorizer) withPropertyDefault(s Suggestion, description string, properties []models.Property) Suggestion {
	if s.PropertyID != "" || len(properties) == 0 {
		return s
	}
	if id, ok := matchPropertyKeywords(description, properties); ok {
		s.PropertyID = id
		return s
	}
	s.PropertyID = properties[0].ID
	if s.Confidence > lowConfidence {
		s.Confidence = lowConfidence
	}
	return s
}

// lowConfidence caps the score whenever the property assignment is a
// default rather than a classifier decision.
const lowConfidence = 0.2

// matchPropertyKeywords scans the property keyword lists for a
// case-insensitive hit in the description.
func matchPropertyKeywords(description string, properties []models.Property) (string, bool) {
	haystack := strings.ToLower(description)
	for _, p := range properties {
		for _, keyword := range p.Keywords {
			if keyword != "" && strings.Contains(haystack, strings.ToLower(keyword)) {
				return p.ID, true
			}
		}
	}
	return "", false
}

// extractPayload pulls the first balanced JSON object out of the response
// text. The collaborator routinely wraps its payload in prose or code
// fences, so plain unmarshalling of the whole body is not an option.
func extractPayload(raw string) (payload, error) {
	start := strings.IndexByte(raw, '{')
	if start < 0 {
		return payload{}, fmt.Errorf("no JSON object in response")
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(raw); i++ {
		ch := raw[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				var p payload
				if err := json.Unmarshal([]byte(raw[start:i+1]), &p); err != nil {
					return payload{}, fmt.Errorf("malformed JSON payload: %w", err)
				}
				return p, nil
			}
		}
	}
	return payload{}, fmt.Errorf("unterminated JSON object in response")
}

// buildPrompt lists the closed category codes and the known properties so
// the model answers inside the domain vocabulary.
func buildPrompt(description string, amount decimal.Decimal, properties []models.Property) string {
	var b strings.Builder
	b.WriteString("Classify the following landlord bank transaction for a UK property tax return.\n\n")
	fmt.Fprintf(&b, "Description: %s\nAmount: %s (positive = income, negative = expense)\n\n", description, amount.StringFixed(2))

	b.WriteString("Valid category codes:\n")
	for _, cat := range models.Categories() {
		fmt.Fprintf(&b, "- %s: %s\n", cat, cat.Label())
	}

	if len(properties) > 0 {
		b.WriteString("\nKnown properties:\n")
		for _, p := range properties {
			fmt.Fprintf(&b, "- %s: %s\n", p.ID, p.Name)
		}
	}

	b.WriteString("\nRespond with a single JSON object, no other text:\n")
	b.WriteString(`{"category": "<code>", "propertyId": "<id or empty>", "confidence": <0.0-1.0>, "reasoning": "<one sentence>"}`)
	return b.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func propertyExists(id string, properties []models.Property) bool {
	for _, p := range properties {
		if p.ID == id {
			return true
		}
	}
	return false
}
