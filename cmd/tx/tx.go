// Package tx covers manual transaction entry and single-record removal.
package tx

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/dateutils"
	"mhoward/lettings-ledger/internal/models"
)

var (
	dateFlag     string
	amountFlag   string
	categoryFlag string
	propertyFlag string
)

// Cmd represents the tx command.
var Cmd = &cobra.Command{
	Use:   "tx",
	Short: "Add and remove individual transactions",
}

var addCmd = &cobra.Command{
	Use:   "add <description>",
	Short: "Record a transaction that never hit the bank account",
	Long: `Record a cash or out-of-band transaction manually. Manual entries get
their own identity and are never deduplicated against statement imports.`,
	Args: cobra.ExactArgs(1),
	RunE: addFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <transaction-id>",
	Short: "Delete a single transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the period's transactions",
	RunE:  listFunc,
}

func init() {
	addCmd.Flags().StringVar(&dateFlag, "date", "", "Transaction date")
	addCmd.Flags().StringVar(&amountFlag, "amount", "", "Signed amount, negative for expenses")
	addCmd.Flags().StringVar(&categoryFlag, "category", string(models.CategoryUncategorized), "Category code")
	addCmd.Flags().StringVar(&propertyFlag, "property", "", "Property id")
	_ = addCmd.MarkFlagRequired("date")
	_ = addCmd.MarkFlagRequired("amount")
	Cmd.AddCommand(addCmd, deleteCmd, listCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	date, err := dateutils.Normalize(dateFlag)
	if err != nil {
		return fmt.Errorf("invalid --date: %w", err)
	}
	amount, err := decimal.NewFromString(amountFlag)
	if err != nil {
		return fmt.Errorf("--amount must be a decimal")
	}
	category := models.Category(categoryFlag)
	if !models.ValidCategory(category) {
		return fmt.Errorf("unknown category %q; run with --help for the closed set", categoryFlag)
	}

	id := l.AddManualTransaction(models.Transaction{
		Date:        date,
		Description: args[0],
		Amount:      amount,
		Category:    category,
	}, time.Now())

	if propertyFlag != "" {
		if err := l.AssignProperty(id, propertyFlag); err != nil {
			return err
		}
	}
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}
	fmt.Printf("Transaction %s recorded\n", id)
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	if err := l.DeleteTransaction(args[0]); err != nil {
		return err
	}
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}
	fmt.Printf("Transaction %s deleted\n", args[0])
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	period, err := root.Period()
	if err != nil {
		return err
	}
	for _, t := range l.InPeriod(period) {
		fmt.Printf("%s  %s  %12s  %-24s %s\n", t.ID, t.Date, t.Amount.StringFixed(2), t.Category, t.Description)
	}
	return nil
}
