package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSnapshot_YAMLRoundTrip(t *testing.T) {
	original := LedgerSnapshot{
		Transactions: []Transaction{
			{
				ID:          "tx-1",
				Date:        "2024-05-01",
				Description: "Rent payment Flat 2",
				Amount:      decimal.NewFromFloat(850.00),
				PropertyID:  "prop-1",
				Category:    CategoryRentIncome,
				Status:      StatusPending,
				Origin:      OriginImported,
			},
			{
				ID:          "tx-2",
				Date:        "2024-05-10",
				Description: "Boiler repair",
				Amount:      decimal.NewFromFloat(-345.67),
				Category:    CategoryRepairs,
				Status:      StatusReconciled,
				Origin:      OriginManual,
				InvoiceID:   "inv-1",
				OwnerSplit:  SplitJoint,
			},
		},
		Invoices: []Invoice{
			{
				ID:            "inv-1",
				Date:          "2024-05-09",
				Vendor:        "Acme Plumbing",
				Amount:        decimal.NewFromFloat(345.67),
				Status:        InvoiceMatched,
				Document:      []byte("fake-pdf-bytes"),
				TransactionID: "tx-2",
			},
		},
		Properties: []Property{
			{ID: "prop-1", Name: "Flat 2", Address: "2 High St", Keywords: []string{"flat 2", "high st"}},
		},
	}

	data, err := yaml.Marshal(original)
	require.NoError(t, err)

	// Amounts travel as exact strings, never as floats.
	assert.Contains(t, string(data), "amount: \"850\"")
	assert.Contains(t, string(data), "amount: \"-345.67\"")

	var restored LedgerSnapshot
	require.NoError(t, yaml.Unmarshal(data, &restored))

	require.Len(t, restored.Transactions, 2)
	assert.True(t, original.Transactions[0].Amount.Equal(restored.Transactions[0].Amount))
	assert.True(t, original.Transactions[1].Amount.Equal(restored.Transactions[1].Amount))
	assert.Equal(t, original.Transactions[1].Category, restored.Transactions[1].Category)
	assert.Equal(t, original.Transactions[1].OwnerSplit, restored.Transactions[1].OwnerSplit)

	require.Len(t, restored.Invoices, 1)
	assert.True(t, original.Invoices[0].Amount.Equal(restored.Invoices[0].Amount))
	assert.Equal(t, original.Invoices[0].Document, restored.Invoices[0].Document)
	assert.Equal(t, "tx-2", restored.Invoices[0].TransactionID)

	require.Len(t, restored.Properties, 1)
	assert.Equal(t, original.Properties[0], restored.Properties[0])
}

func TestTransaction_UnmarshalYAML_BadAmount(t *testing.T) {
	var tx Transaction
	err := yaml.Unmarshal([]byte("id: tx-1\ndate: 2024-05-01\namount: not-a-number\n"), &tx)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transaction amount")
}

func TestInvoice_UnmarshalYAML_BadAmount(t *testing.T) {
	var inv Invoice
	err := yaml.Unmarshal([]byte("id: inv-1\namount: ''\n"), &inv)
	assert.Error(t, err)
}
