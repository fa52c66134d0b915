// Package categorize classifies a single description/amount pair from the
// command line. Useful for checking the classifier before a bulk import.
package categorize

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/categorizer"
)

var (
	descFlag   string
	amountFlag string
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Classify a single transaction description",
	RunE:  categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&descFlag, "description", "d", "", "Transaction description")
	Cmd.Flags().StringVarP(&amountFlag, "amount", "a", "0", "Signed amount, negative for debits")
	_ = Cmd.MarkFlagRequired("description")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	amount, err := decimal.NewFromString(amountFlag)
	if err != nil {
		return fmt.Errorf("--amount must be a decimal")
	}

	if !root.Cfg.AI.Enabled {
		return fmt.Errorf("classification requires AI to be enabled; set LEDGER_AI_ENABLED or ai.enabled in config")
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Duration(root.Cfg.AI.TimeoutSeconds)*time.Second)
	defer cancel()
	client, err := categorizer.NewGeminiClient(ctx, root.Cfg)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() { _ = client.Close() }()

	suggestion := categorizer.New(client, root.Logger()).Suggest(ctx, descFlag, amount, l.Properties())

	fmt.Printf("Category:   %s (%s)\n", suggestion.Category, suggestion.Category.Label())
	if suggestion.PropertyID != "" {
		fmt.Printf("Property:   %s\n", suggestion.PropertyID)
	}
	fmt.Printf("Confidence: %.2f\n", suggestion.Confidence)
	if suggestion.Reasoning != "" {
		fmt.Printf("Reasoning:  %s\n", suggestion.Reasoning)
	}
	return nil
}
