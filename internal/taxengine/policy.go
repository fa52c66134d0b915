// Package taxengine computes the tax estimate for a fiscal period. All
// arithmetic is decimal end to end; intermediate sums are never rounded.
package taxengine

import (
	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/config"
)

// Band is one marginal-rate band. A zero Width marks the unbounded top
// band, which absorbs all remaining income.
type Band struct {
	Name  string
	Width decimal.Decimal
	Rate  decimal.Decimal
}

// Policy holds the jurisdiction scheme figures: the personal allowance and
// its taper, the marginal bands in ascending order, and the finance-cost
// relief rate.
type Policy struct {
	Allowance         decimal.Decimal
	TaperThreshold    decimal.Decimal
	Bands             []Band
	FinanceReliefRate decimal.Decimal
}

// DefaultPolicy returns the current single-scheme rule set.
func DefaultPolicy() Policy {
	return Policy{
		Allowance:      decimal.NewFromInt(12570),
		TaperThreshold: decimal.NewFromInt(100000),
		Bands: []Band{
			{Name: "basic", Width: decimal.NewFromInt(37700), Rate: decimal.NewFromFloat(0.20)},
			{Name: "higher", Width: decimal.NewFromInt(87440), Rate: decimal.NewFromFloat(0.40)},
			{Name: "additional", Width: decimal.Zero, Rate: decimal.NewFromFloat(0.45)},
		},
		FinanceReliefRate: decimal.NewFromFloat(0.20),
	}
}

// PolicyFromConfig builds a Policy from the application configuration.
func PolicyFromConfig(cfg *config.Config) Policy {
	return Policy{
		Allowance:      decimal.NewFromFloat(cfg.Tax.Allowance),
		TaperThreshold: decimal.NewFromFloat(cfg.Tax.TaperThreshold),
		Bands: []Band{
			{Name: "basic", Width: decimal.NewFromFloat(cfg.Tax.BasicBandWidth), Rate: decimal.NewFromFloat(cfg.Tax.BasicRate)},
			{Name: "higher", Width: decimal.NewFromFloat(cfg.Tax.HigherBandWidth), Rate: decimal.NewFromFloat(cfg.Tax.HigherRate)},
			{Name: "additional", Width: decimal.Zero, Rate: decimal.NewFromFloat(cfg.Tax.AdditionalRate)},
		},
		FinanceReliefRate: decimal.NewFromFloat(cfg.Tax.FinanceReliefRate),
	}
}
