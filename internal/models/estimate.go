package models

import (
	"github.com/shopspring/decimal"
)

// BandBreakdown reports how much taxable income fell into one marginal-rate
// band and the tax charged on it.
type BandBreakdown struct {
	Name   string
	Rate   decimal.Decimal
	Amount decimal.Decimal
	Tax    decimal.Decimal
}

// TaxEstimate is the derived result of a tax computation over one fiscal
// period. It is recomputed on demand and never persisted.
type TaxEstimate struct {
	GrossIncome          decimal.Decimal
	DeductibleExpenses   decimal.Decimal
	FinanceCosts         decimal.Decimal
	TaxableProfit        decimal.Decimal
	NetCashFlow          decimal.Decimal
	SupplementalIncome   decimal.Decimal
	Allowance            decimal.Decimal
	NetTaxableIncome     decimal.Decimal
	GrossTaxBeforeRelief decimal.Decimal
	Relief               decimal.Decimal
	FinalTax             decimal.Decimal
	Bands                []BandBreakdown
}
