// Package ingest imports bank-statement rows from a CSV export into the
// ledger, deduplicating against previous imports and classifying new rows.
package ingest

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/categorizer"
	"mhoward/lettings-ledger/internal/dateutils"
	"mhoward/lettings-ledger/internal/docextract"
	"mhoward/lettings-ledger/internal/models"
)

var (
	inputFile    string
	documentFile string
)

// Cmd represents the ingest command.
var Cmd = &cobra.Command{
	Use:   "ingest",
	Short: "Import bank-statement rows into the ledger",
	Long: `Import bank-statement rows. With --input the rows come from a CSV
export (Date, Description, Amount columns); with --file they are
extracted from a statement document such as a PDF. Rows already in the
ledger are skipped; new rows are classified before being stored.`,
	RunE: ingestFunc,
}

func init() {
	Cmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input CSV file")
	Cmd.Flags().StringVarP(&documentFile, "file", "f", "", "Statement document to extract rows from")
	Cmd.MarkFlagsOneRequired("input", "file")
	Cmd.MarkFlagsMutuallyExclusive("input", "file")
}

// csvRow is the expected statement CSV shape. Amounts are signed: positive
// for credits, negative for debits.
type csvRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
}

func ingestFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}

	parsed, err := loadRows(cmd.Context())
	if err != nil {
		return err
	}

	// Drop rows already in the ledger before spending any classification
	// calls on them.
	var pending []models.Transaction
	var rows []categorizer.Row
	skippedEarly := 0
	for _, r := range parsed {
		if l.HasImport(r.Date, r.Description, r.Amount) {
			skippedEarly++
			continue
		}
		pending = append(pending, models.Transaction{
			Date:        r.Date,
			Description: r.Description,
			Amount:      r.Amount,
			Category:    models.CategoryUncategorized,
		})
		rows = append(rows, categorizer.Row{Description: r.Description, Amount: r.Amount})
	}

	if len(pending) > 0 {
		cat := buildCategorizer(cmd.Context())
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(root.Cfg.AI.TimeoutSeconds)*time.Second)
		suggestions := cat.SuggestBatch(ctx, rows, l.Properties())
		cancel()
		for i := range pending {
			pending[i].Category = suggestions[i].Category
			pending[i].PropertyID = suggestions[i].PropertyID
		}
	}

	result := l.ImportTransactions(pending)
	result.Skipped += skippedEarly

	if err := root.SaveLedger(l, s); err != nil {
		return err
	}

	fmt.Printf("Imported %d transactions, skipped %d duplicates\n", result.Imported, result.Skipped)
	return nil
}

// loadRows reads statement rows from whichever source was selected,
// normalizing dates to the canonical form.
func loadRows(ctx context.Context) ([]docextract.StatementRow, error) {
	if documentFile != "" {
		return extractRows(ctx)
	}

	f, err := os.Open(inputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var raw []csvRow
	if err := gocsv.UnmarshalFile(f, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse statement CSV: %w", err)
	}

	rows := make([]docextract.StatementRow, 0, len(raw))
	for _, r := range raw {
		date, err := dateutils.Normalize(r.Date)
		if err != nil {
			root.Log.Warnf("Skipping row with unparseable date %q", r.Date)
			continue
		}
		amount, err := decimal.NewFromString(r.Amount)
		if err != nil {
			root.Log.Warnf("Skipping row with unparseable amount %q", r.Amount)
			continue
		}
		rows = append(rows, docextract.StatementRow{Date: date, Description: r.Description, Amount: amount})
	}
	return rows, nil
}

// extractRows pulls statement rows out of a document via the extraction
// collaborator.
func extractRows(ctx context.Context) ([]docextract.StatementRow, error) {
	document, err := os.ReadFile(documentFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	if !root.Cfg.AI.Enabled {
		return nil, fmt.Errorf("document extraction requires AI to be enabled; use --input with a CSV instead")
	}
	ctx, cancel := context.WithTimeout(ctx, time.Duration(root.Cfg.AI.TimeoutSeconds)*time.Second)
	defer cancel()
	client, err := categorizer.NewGeminiClient(ctx, root.Cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction client: %w", err)
	}
	defer func() { _ = client.Close() }()

	return docextract.New(client, root.Logger()).StatementRows(ctx, document)
}

// buildCategorizer returns an AI-backed categorizer when AI is enabled,
// otherwise one that falls back to uncategorized for every row.
func buildCategorizer(ctx context.Context) *categorizer.Categorizer {
	if !root.Cfg.AI.Enabled {
		return categorizer.New(nil, root.Logger())
	}
	client, err := categorizer.NewGeminiClient(ctx, root.Cfg)
	if err != nil {
		root.Log.Warnf("AI classification unavailable: %v", err)
		return categorizer.New(nil, root.Logger())
	}
	return categorizer.New(client, root.Logger())
}
