package docextract

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mhoward/lettings-ledger/internal/logging"
)

type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Generate(ctx context.Context, prompt string) (string, error) {
	return s.response, s.err
}

func TestInvoiceFields_HappyPath(t *testing.T) {
	e := New(&stubClient{response: `{"date": "06/05/2024", "vendor": "Acme Plumbing", "amount": "345.67", "description": "Boiler service"}`}, logging.NewMockLogger())

	fields, err := e.InvoiceFields(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "2024-05-06", fields.Date) // normalized from UK format
	assert.Equal(t, "Acme Plumbing", fields.Vendor)
	assert.True(t, decimal.NewFromFloat(345.67).Equal(fields.Amount))
	assert.Equal(t, "Boiler service", fields.Description)
}

func TestInvoiceFields_ProseWrappedPayload(t *testing.T) {
	e := New(&stubClient{response: "Sure! Here you go:\n" +
		`{"date": "2024-05-06", "vendor": "Acme", "amount": "10", "description": ""}` +
		"\nHope that helps."}, logging.NewMockLogger())

	fields, err := e.InvoiceFields(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	assert.Equal(t, "Acme", fields.Vendor)
}

func TestInvoiceFields_Unusable(t *testing.T) {
	tests := []struct {
		name     string
		response string
		err      error
	}{
		{name: "client error", err: errors.New("boom")},
		{name: "no json", response: "could not read the document"},
		{name: "bad date", response: `{"date": "soon", "vendor": "X", "amount": "10"}`},
		{name: "bad amount", response: `{"date": "2024-05-06", "vendor": "X", "amount": "lots"}`},
		{name: "negative amount", response: `{"date": "2024-05-06", "vendor": "X", "amount": "-10"}`},
		{name: "zero amount", response: `{"date": "2024-05-06", "vendor": "X", "amount": "0"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&stubClient{response: tt.response, err: tt.err}, logging.NewMockLogger())
			_, err := e.InvoiceFields(context.Background(), []byte("pdf"))
			assert.ErrorIs(t, err, ErrNothingUsable)
		})
	}
}

func TestInvoiceFields_NilClient(t *testing.T) {
	e := New(nil, logging.NewMockLogger())
	_, err := e.InvoiceFields(context.Background(), []byte("pdf"))
	assert.ErrorIs(t, err, ErrNothingUsable)
}

func TestStatementRows_DropsUnusableRowsIndividually(t *testing.T) {
	e := New(&stubClient{response: `[
		{"date": "01/05/2024", "description": "RENT", "amount": "850"},
		{"date": "not-a-date", "description": "BAD", "amount": "1"},
		{"date": "02/05/2024", "description": "SCREWFIX", "amount": "oops"},
		{"date": "03/05/2024", "description": "B&Q", "amount": "-45.50"}
	]`}, logging.NewMockLogger())

	rows, err := e.StatementRows(context.Background(), []byte("pdf"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-05-01", rows[0].Date)
	assert.Equal(t, "RENT", rows[0].Description)
	assert.Equal(t, "2024-05-03", rows[1].Date)
	assert.True(t, decimal.NewFromFloat(-45.50).Equal(rows[1].Amount))
}

func TestStatementRows_NothingUsable(t *testing.T) {
	tests := []struct {
		name     string
		response string
	}{
		{name: "no array", response: "no transactions found"},
		{name: "empty array", response: "[]"},
		{name: "all rows bad", response: `[{"date": "x", "amount": "y"}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := New(&stubClient{response: tt.response}, logging.NewMockLogger())
			_, err := e.StatementRows(context.Background(), []byte("pdf"))
			assert.ErrorIs(t, err, ErrNothingUsable)
		})
	}
}

func TestPrompts_EmbedDocument(t *testing.T) {
	document := []byte("binary receipt bytes")
	encoded := base64.StdEncoding.EncodeToString(document)
	assert.Contains(t, invoicePrompt(document), encoded)
	assert.Contains(t, statementPrompt(document), encoded)
}

func TestFirstBalanced_NestedStructures(t *testing.T) {
	chunk, err := firstBalanced(`noise {"a": {"b": "c}"}, "d": 1} tail`, '{', '}')
	require.NoError(t, err)
	assert.Equal(t, `{"a": {"b": "c}"}, "d": 1}`, chunk)
}
