// Package models provides the data structures shared across the application.
package models

import (
	"github.com/shopspring/decimal"
)

// Transaction represents a single ledger entry, imported from a bank
// statement or entered by hand. Dates are canonical YYYY-MM-DD strings so
// that period filtering reduces to lexicographic comparison.
type Transaction struct {
	ID          string
	Date        string // canonical YYYY-MM-DD
	Description string
	Amount      decimal.Decimal // signed: positive income, negative expense
	PropertyID  string
	Category    Category
	Status      string // pending | reconciled | flagged
	Origin      string // imported | manual
	InvoiceID   string
	OwnerSplit  string
}

// IsIncome reports whether the transaction is an income entry.
func (t *Transaction) IsIncome() bool {
	return t.Amount.IsPositive()
}

// IsExpense reports whether the transaction is an expense entry.
func (t *Transaction) IsExpense() bool {
	return t.Amount.IsNegative()
}

// IsDeductibleExpense reports whether the transaction counts toward the
// deductible-expense aggregate: a negative amount in a deductible category.
func (t *Transaction) IsDeductibleExpense() bool {
	return t.IsExpense() && t.Category.Deductible()
}

// AbsAmount returns the unsigned magnitude of the amount.
func (t *Transaction) AbsAmount() decimal.Decimal {
	return t.Amount.Abs()
}

// HasInvoice reports whether the transaction is linked to a receipt.
func (t *Transaction) HasInvoice() bool {
	return t.InvoiceID != ""
}
