// Package docextract wraps the external document-extraction collaborator
// that reads receipt images and statement exports. The collaborator is
// best-effort: any failure is collapsed into ErrNothingUsable so callers
// proceed as if the document produced nothing.
package docextract

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/categorizer"
	"mhoward/lettings-ledger/internal/dateutils"
	"mhoward/lettings-ledger/internal/logging"
)

// ErrNothingUsable reports that extraction produced no usable fields.
var ErrNothingUsable = errors.New("document produced nothing usable")

// InvoiceFields are the fields extracted from a single receipt document.
type InvoiceFields struct {
	Date        string // canonical YYYY-MM-DD
	Vendor      string
	Amount      decimal.Decimal
	Description string
}

// StatementRow is one extracted bank-statement line.
type StatementRow struct {
	Date        string // canonical YYYY-MM-DD
	Description string
	Amount      decimal.Decimal
}

// Extractor runs document extraction through an AI client.
type Extractor struct {
	client categorizer.AIClient
	logger logging.Logger
}

// New creates an Extractor. A nil client makes every extraction return
// ErrNothingUsable.
func New(client categorizer.AIClient, logger logging.Logger) *Extractor {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	return &Extractor{client: client, logger: logger}
}

type invoicePayload struct {
	Date        string `json:"date"`
	Vendor      string `json:"vendor"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
}

type rowPayload struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// InvoiceFields extracts receipt fields from a document payload.
func (e *Extractor) InvoiceFields(ctx context.Context, document []byte) (InvoiceFields, error) {
	raw, err := e.generate(ctx, invoicePrompt(document))
	if err != nil {
		return InvoiceFields{}, err
	}

	var p invoicePayload
	if err := unmarshalFirstObject(raw, &p); err != nil {
		e.logger.WithError(err).Warn("Receipt extraction returned no parseable payload")
		return InvoiceFields{}, ErrNothingUsable
	}

	date, err := dateutils.Normalize(p.Date)
	if err != nil {
		e.logger.WithError(err).Warn("Receipt extraction returned unusable date")
		return InvoiceFields{}, ErrNothingUsable
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(p.Amount))
	if err != nil || !amount.IsPositive() {
		e.logger.WithField("amount", p.Amount).Warn("Receipt extraction returned unusable amount")
		return InvoiceFields{}, ErrNothingUsable
	}

	return InvoiceFields{
		Date:        date,
		Vendor:      strings.TrimSpace(p.Vendor),
		Amount:      amount,
		Description: strings.TrimSpace(p.Description),
	}, nil
}

// StatementRows extracts bank-statement lines from a document payload.
// Unusable rows are dropped individually; an empty result is
// ErrNothingUsable.
func (e *Extractor) StatementRows(ctx context.Context, document []byte) ([]StatementRow, error) {
	raw, err := e.generate(ctx, statementPrompt(document))
	if err != nil {
		return nil, err
	}

	var payload []rowPayload
	if err := unmarshalFirstArray(raw, &payload); err != nil {
		e.logger.WithError(err).Warn("Statement extraction returned no parseable payload")
		return nil, ErrNothingUsable
	}

	rows := make([]StatementRow, 0, len(payload))
	for _, p := range payload {
		date, err := dateutils.Normalize(p.Date)
		if err != nil {
			continue
		}
		amount, err := decimal.NewFromString(strings.TrimSpace(p.Amount))
		if err != nil {
			continue
		}
		rows = append(rows, StatementRow{
			Date:        date,
			Description: strings.TrimSpace(p.Description),
			Amount:      amount,
		})
	}
	if len(rows) == 0 {
		return nil, ErrNothingUsable
	}
	return rows, nil
}

func (e *Extractor) generate(ctx context.Context, prompt string) (string, error) {
	if e.client == nil {
		return "", ErrNothingUsable
	}
	raw, err := e.client.Generate(ctx, prompt)
	if err != nil {
		e.logger.WithError(err).Warn("Document extraction call failed")
		return "", ErrNothingUsable
	}
	return raw, nil
}

func invoicePrompt(document []byte) string {
	return fmt.Sprintf(`Extract the receipt details from this document.
Respond with a single JSON object, no other text:
{"date": "<date>", "vendor": "<name>", "amount": "<positive decimal>", "description": "<short summary>"}

Document (base64):
%s`, base64.StdEncoding.EncodeToString(document))
}

func statementPrompt(document []byte) string {
	return fmt.Sprintf(`Extract every transaction line from this bank statement.
Respond with a single JSON array, no other text:
[{"date": "<date>", "description": "<text>", "amount": "<signed decimal, negative for debits>"}]

Document (base64):
%s`, base64.StdEncoding.EncodeToString(document))
}

// unmarshalFirstObject finds the first balanced JSON object in text and
// unmarshals it into v.
func unmarshalFirstObject(text string, v interface{}) error {
	chunk, err := firstBalanced(text, '{', '}')
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(chunk), v)
}

// unmarshalFirstArray finds the first balanced JSON array in text and
// unmarshals it into v.
func unmarshalFirstArray(text string, v interface{}) error {
	chunk, err := firstBalanced(text, '[', ']')
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(chunk), v)
}

func firstBalanced(text string, open, close byte) (string, error) {
	start := strings.IndexByte(text, open)
	if start < 0 {
		return "", fmt.Errorf("no %q in response", string(open))
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		switch {
		case escaped:
			escaped = false
		case ch == '\\' && inString:
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}
	return "", fmt.Errorf("unterminated %q in response", string(open))
}
