// Package estimate computes and prints the tax estimate for a fiscal
// period.
package estimate

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/taxengine"
)

var supplementalFlag string

// Cmd represents the estimate command.
var Cmd = &cobra.Command{
	Use:   "estimate",
	Short: "Estimate the self-assessment liability for a fiscal period",
	Long: `Compute the tax estimate over the period's transactions: rental profit,
tapered personal allowance, marginal-rate bands and the finance-cost
relief credit. Other income (salary etc.) can be added with
--supplemental so the rental profit is taxed at the right margin.`,
	RunE: estimateFunc,
}

func init() {
	Cmd.Flags().StringVarP(&supplementalFlag, "supplemental", "s", "0", "Other taxable income for the year")
}

func estimateFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	period, err := root.Period()
	if err != nil {
		return err
	}
	supplemental, err := decimal.NewFromString(supplementalFlag)
	if err != nil || supplemental.IsNegative() {
		return fmt.Errorf("--supplemental must be a non-negative decimal")
	}

	policy := taxengine.PolicyFromConfig(root.Cfg)
	est := taxengine.Estimate(l.InPeriod(period), supplemental, policy)

	fmt.Printf("Tax estimate for %s\n\n", period.Label)
	fmt.Printf("Gross rental income      %12s\n", est.GrossIncome.StringFixed(2))
	fmt.Printf("Deductible expenses      %12s\n", est.DeductibleExpenses.StringFixed(2))
	fmt.Printf("Finance costs            %12s\n", est.FinanceCosts.StringFixed(2))
	fmt.Printf("Taxable rental profit    %12s\n", est.TaxableProfit.StringFixed(2))
	fmt.Printf("Net cash flow            %12s\n", est.NetCashFlow.StringFixed(2))
	fmt.Printf("Supplemental income      %12s\n", est.SupplementalIncome.StringFixed(2))
	fmt.Printf("Personal allowance       %12s\n", est.Allowance.StringFixed(2))
	fmt.Printf("Net taxable income       %12s\n\n", est.NetTaxableIncome.StringFixed(2))

	for _, band := range est.Bands {
		if band.Amount.IsZero() {
			continue
		}
		fmt.Printf("%-16s %s%% on %12s  = %12s\n",
			band.Name, band.Rate.Mul(decimal.NewFromInt(100)).StringFixed(0),
			band.Amount.StringFixed(2), band.Tax.StringFixed(2))
	}

	fmt.Printf("\nGross tax before relief  %12s\n", est.GrossTaxBeforeRelief.StringFixed(2))
	fmt.Printf("Finance-cost relief      %12s\n", est.Relief.StringFixed(2))
	fmt.Printf("Estimated tax due        %12s\n", est.FinalTax.StringFixed(2))
	return nil
}
