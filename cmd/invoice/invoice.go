// Package invoice records receipt documents against the ledger and
// auto-matches them to expense transactions.
package invoice

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/categorizer"
	"mhoward/lettings-ledger/internal/dateutils"
	"mhoward/lettings-ledger/internal/docextract"
	"mhoward/lettings-ledger/internal/models"
)

var (
	documentFile string
	dateFlag     string
	vendorFlag   string
	amountFlag   string
	descFlag     string
)

// Cmd represents the invoice command.
var Cmd = &cobra.Command{
	Use:   "invoice",
	Short: "Record receipts and match them to expense transactions",
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a receipt from a document file or from manual fields",
	Long: `Add a receipt record. With --file the date, vendor and amount are
extracted from the document; otherwise supply them with --date, --vendor
and --amount. The receipt is auto-matched against unlinked expense
transactions in the selected period.`,
	RunE: addFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <invoice-id>",
	Short: "Delete a receipt and unlink its matched transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded receipts",
	RunE:  listFunc,
}

func init() {
	addCmd.Flags().StringVarP(&documentFile, "file", "f", "", "Receipt document to extract fields from")
	addCmd.Flags().StringVar(&dateFlag, "date", "", "Receipt date")
	addCmd.Flags().StringVar(&vendorFlag, "vendor", "", "Vendor name")
	addCmd.Flags().StringVar(&amountFlag, "amount", "", "Receipt amount (positive)")
	addCmd.Flags().StringVar(&descFlag, "description", "", "Short description")
	Cmd.AddCommand(addCmd, deleteCmd, listCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	period, err := root.Period()
	if err != nil {
		return err
	}

	inv, err := buildInvoice(cmd.Context())
	if err != nil {
		return err
	}

	id, matched := l.AddInvoice(inv, period)
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}

	if matched {
		stored, _ := l.Invoice(id)
		fmt.Printf("Invoice %s matched to transaction %s\n", id, stored.TransactionID)
	} else {
		fmt.Printf("Invoice %s recorded, no matching transaction found\n", id)
	}
	return nil
}

// buildInvoice assembles the invoice either from extracted document fields
// or from the manual flags.
func buildInvoice(ctx context.Context) (models.Invoice, error) {
	if documentFile != "" {
		return extractInvoice(ctx)
	}

	if dateFlag == "" || amountFlag == "" {
		return models.Invoice{}, fmt.Errorf("either --file or both --date and --amount are required")
	}
	date, err := dateutils.Normalize(dateFlag)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("invalid --date: %w", err)
	}
	amount, err := decimal.NewFromString(amountFlag)
	if err != nil || !amount.IsPositive() {
		return models.Invoice{}, fmt.Errorf("--amount must be a positive decimal")
	}
	return models.Invoice{
		Date:        date,
		Vendor:      vendorFlag,
		Amount:      amount,
		Description: descFlag,
	}, nil
}

func extractInvoice(ctx context.Context) (models.Invoice, error) {
	document, err := os.ReadFile(documentFile)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to read document: %w", err)
	}

	if !root.Cfg.AI.Enabled {
		return models.Invoice{}, fmt.Errorf("document extraction requires AI to be enabled; use the manual flags instead")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(root.Cfg.AI.TimeoutSeconds)*time.Second)
	defer cancel()
	client, err := categorizer.NewGeminiClient(ctx, root.Cfg)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("failed to create extraction client: %w", err)
	}
	defer func() { _ = client.Close() }()

	fields, err := docextract.New(client, root.Logger()).InvoiceFields(ctx, document)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("extraction failed: %w", err)
	}
	return models.Invoice{
		Date:        fields.Date,
		Vendor:      fields.Vendor,
		Amount:      fields.Amount,
		Description: fields.Description,
		Document:    document,
	}, nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	if err := l.DeleteInvoice(args[0]); err != nil {
		return err
	}
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}
	fmt.Printf("Invoice %s deleted\n", args[0])
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	for _, inv := range l.Invoices() {
		link := "unmatched"
		if inv.IsMatched() {
			link = "matched to " + inv.TransactionID
		}
		fmt.Printf("%s  %s  %s  %s  (%s)\n", inv.ID, inv.Date, inv.Vendor, inv.Amount.StringFixed(2), link)
	}
	return nil
}
