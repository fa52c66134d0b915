// Package reconcile groups the reconciliation operations: manual sign-off,
// bulk tagging and deletion, the receipt checklist and link repair.
package reconcile

import (
	"fmt"

	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/models"
)

var splitTag string

// Cmd represents the reconcile command.
var Cmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile, tag and tidy ledger transactions",
}

var toggleCmd = &cobra.Command{
	Use:   "toggle <transaction-id>",
	Short: "Flip a transaction between pending and reconciled",
	Long: `Manually sign off a transaction that needs no receipt, or undo a
previous sign-off. Transactions reconciled via a matched invoice cannot
be toggled; delete the invoice instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l ledgerOps) error {
			return l.ToggleReconciled(args[0])
		})
	},
}

var tagCmd = &cobra.Command{
	Use:   "tag <transaction-id>...",
	Short: "Assign an owner-split tag to a batch of transactions",
	Long: `Tag transactions with an ownership split (owner-a, owner-b or joint,
empty to clear). The batch is atomic: one unknown id abandons the whole
batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l ledgerOps) error {
			return l.BulkTag(args, splitTag)
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <transaction-id>...",
	Short: "Delete a batch of transactions",
	Long: `Delete transactions atomically. Matched invoices of deleted
transactions return to unmatched. One unknown id abandons the whole
batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l ledgerOps) error {
			return l.BulkDelete(args)
		})
	},
}

var recatCmd = &cobra.Command{
	Use:   "recat <transaction-id> <category>",
	Short: "Recategorize a transaction",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLedger(func(l ledgerOps) error {
			return l.SetCategory(args[0], models.Category(args[1]))
		})
	},
}

var assignCmd = &cobra.Command{
	Use:   "assign <transaction-id> [property-id]",
	Short: "Assign a transaction to a property, or clear the assignment",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		propertyID := ""
		if len(args) == 2 {
			propertyID = args[1]
		}
		return withLedger(func(l ledgerOps) error {
			return l.AssignProperty(args[0], propertyID)
		})
	},
}

var checklistCmd = &cobra.Command{
	Use:   "checklist",
	Short: "List deductible expenses in the period that still lack a receipt",
	RunE:  checklistFunc,
}

var repairCmd = &cobra.Command{
	Use:   "repair",
	Short: "Restore symmetry between transaction and invoice links",
	RunE:  repairFunc,
}

func init() {
	tagCmd.Flags().StringVar(&splitTag, "split", "", "Owner-split tag: owner-a, owner-b, joint or empty to clear")
	Cmd.AddCommand(toggleCmd, tagCmd, deleteCmd, recatCmd, assignCmd, checklistCmd, repairCmd)
}

// ledgerOps is the slice of ledger behaviour the mutating subcommands use.
type ledgerOps interface {
	ToggleReconciled(id string) error
	BulkTag(ids []string, tag string) error
	BulkDelete(ids []string) error
	SetCategory(id string, category models.Category) error
	AssignProperty(id, propertyID string) error
}

// withLedger opens the ledger, applies one mutation and saves on success.
func withLedger(fn func(ledgerOps) error) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	if err := fn(l); err != nil {
		return err
	}
	return root.SaveLedger(l, s)
}

func checklistFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	period, err := root.Period()
	if err != nil {
		return err
	}
	missing := l.ReceiptChecklist(period)
	if len(missing) == 0 {
		fmt.Printf("All deductible expenses in %s have receipts\n", period.Label)
		return nil
	}
	fmt.Printf("%d expenses in %s still need a receipt:\n", len(missing), period.Label)
	for _, tx := range missing {
		fmt.Printf("%s  %s  %s  %s\n", tx.ID, tx.Date, tx.AbsAmount().StringFixed(2), tx.Description)
	}
	return nil
}

func repairFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	healed := l.Repair()
	if healed == 0 {
		fmt.Println("No dangling links found")
		return nil
	}
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}
	fmt.Printf("Cleared %d dangling links\n", healed)
	return nil
}
