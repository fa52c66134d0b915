// Package export writes the reporting views: grouped totals per property
// and category, and the flat itemized CSV listing.
package export

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/export"
)

var outputFile string

// Cmd represents the export command.
var Cmd = &cobra.Command{
	Use:   "export",
	Short: "Export period totals and itemized transactions",
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print grouped (property, category) totals for the period",
	RunE:  totalsFunc,
}

var itemizedCmd = &cobra.Command{
	Use:   "itemized",
	Short: "Write the itemized transaction CSV for the period",
	RunE:  itemizedFunc,
}

func init() {
	itemizedCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output CSV file (default stdout)")
	Cmd.AddCommand(totalsCmd, itemizedCmd)
}

func totalsFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	period, err := root.Period()
	if err != nil {
		return err
	}

	totals := export.GroupTotals(l.Transactions(), l.Properties(), period)
	if len(totals) == 0 {
		fmt.Printf("No transactions in %s\n", period.Label)
		return nil
	}

	fmt.Printf("Totals for %s\n\n", period.Label)
	lastProperty := "\x00"
	for _, cell := range totals {
		if cell.PropertyID != lastProperty {
			name := cell.PropertyName
			if name == "" {
				name = "(unassigned)"
			}
			fmt.Printf("%s\n", name)
			lastProperty = cell.PropertyID
		}
		marker := " "
		if !cell.Deductible {
			marker = "*"
		}
		fmt.Printf("  %-28s %12s  (%d)%s\n", cell.Category.Label(), cell.Total.StringFixed(2), cell.Count, marker)
	}
	fmt.Println("\n* not deductible")
	return nil
}

func itemizedFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	period, err := root.Period()
	if err != nil {
		return err
	}

	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}
	return export.WriteItemized(w, l.Transactions(), l.Properties(), period)
}
