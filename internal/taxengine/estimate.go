package taxengine

import (
	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/models"
)

var two = decimal.NewFromInt(2)

// Estimate computes the full tax breakdown for a period-filtered
// transaction set plus a supplemental (non-property) income figure.
//
// Finance costs are not deducted from taxable profit: the scheme grants a
// capped credit at FinanceReliefRate instead. Net cash flow subtracts them,
// which is why the two figures differ.
//
// The input records are assumed validated; an empty set yields an all-zero
// estimate.
func Estimate(transactions []models.Transaction, supplementalIncome decimal.Decimal, policy Policy) models.TaxEstimate {
	grossIncome := decimal.Zero
	financeCosts := decimal.Zero
	otherExpenses := decimal.Zero

	for i := range transactions {
		tx := &transactions[i]
		switch {
		case tx.IsIncome():
			grossIncome = grossIncome.Add(tx.Amount)
		case tx.Category.IsFinanceCost():
			financeCosts = financeCosts.Add(tx.AbsAmount())
		case tx.IsDeductibleExpense():
			otherExpenses = otherExpenses.Add(tx.AbsAmount())
		}
	}

	taxableProfit := decimal.Max(decimal.Zero, grossIncome.Sub(otherExpenses))
	netCashFlow := grossIncome.Sub(otherExpenses).Sub(financeCosts)
	totalIncome := taxableProfit.Add(supplementalIncome)

	allowance := taperedAllowance(totalIncome, policy)
	netTaxable := decimal.Max(decimal.Zero, totalIncome.Sub(allowance))

	grossTax, bands := bandedTax(netTaxable, policy)

	relief := decimal.Min(financeCosts.Mul(policy.FinanceReliefRate), grossTax)
	finalTax := grossTax.Sub(relief)

	return models.TaxEstimate{
		GrossIncome:          grossIncome,
		DeductibleExpenses:   otherExpenses,
		FinanceCosts:         financeCosts,
		TaxableProfit:        taxableProfit,
		NetCashFlow:          netCashFlow,
		SupplementalIncome:   supplementalIncome,
		Allowance:            allowance,
		NetTaxableIncome:     netTaxable,
		GrossTaxBeforeRelief: grossTax,
		Relief:               relief,
		FinalTax:             finalTax,
		Bands:                bands,
	}
}

// taperedAllowance reduces the base allowance by one unit for every two
// units of total income above the taper threshold, floored at zero.
func taperedAllowance(totalIncome decimal.Decimal, policy Policy) decimal.Decimal {
	excess := totalIncome.Sub(policy.TaperThreshold)
	if !excess.IsPositive() {
		return policy.Allowance
	}
	return decimal.Max(decimal.Zero, policy.Allowance.Sub(excess.Div(two)))
}

// bandedTax applies the ascending marginal bands to net taxable income.
// Each band consumes min(remaining, width) at its rate; the top band has
// no width and takes everything left.
func bandedTax(netTaxable decimal.Decimal, policy Policy) (decimal.Decimal, []models.BandBreakdown) {
	remaining := netTaxable
	grossTax := decimal.Zero
	breakdown := make([]models.BandBreakdown, 0, len(policy.Bands))

	for _, band := range policy.Bands {
		inBand := remaining
		if band.Width.IsPositive() {
			inBand = decimal.Min(remaining, band.Width)
		}
		tax := inBand.Mul(band.Rate)
		grossTax = grossTax.Add(tax)
		remaining = remaining.Sub(inBand)

		breakdown = append(breakdown, models.BandBreakdown{
			Name:   band.Name,
			Rate:   band.Rate,
			Amount: inBand,
			Tax:    tax,
		})
		if !remaining.IsPositive() {
			remaining = decimal.Zero
		}
	}

	return grossTax, breakdown
}
