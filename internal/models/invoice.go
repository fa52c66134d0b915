package models

import (
	"github.com/shopspring/decimal"
)

// Invoice represents a receipt record uploaded against the ledger. Amounts
// are always positive; the sign convention lives on Transaction only.
//
// Invariant: Status == InvoiceMatched exactly when TransactionID is set,
// and the linked transaction's InvoiceID points back at this invoice.
type Invoice struct {
	ID            string
	Date          string // canonical YYYY-MM-DD
	Vendor        string
	Amount        decimal.Decimal
	Description   string
	Status        string // unmatched | matched | processing
	Document      []byte
	TransactionID string
}

// IsMatched reports whether the invoice is linked to a transaction.
func (i *Invoice) IsMatched() bool {
	return i.Status == InvoiceMatched
}
