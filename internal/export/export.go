// Package export derives the reporting views: grouped totals per
// (property, category) pair and the flat itemized listing. Both are
// read-only projections of the ledger.
package export

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/fiscal"
	"mhoward/lettings-ledger/internal/models"
)

// GroupTotal is one aggregated (property, category) cell.
type GroupTotal struct {
	PropertyID   string
	PropertyName string
	Category     models.Category
	Total        decimal.Decimal
	Count        int
	Deductible   bool
}

// GroupTotals aggregates the period's transactions by property and
// category, in property order then fixed category order. Transactions
// without a property fall under an empty property id.
func GroupTotals(transactions []models.Transaction, properties []models.Property, period fiscal.Period) []GroupTotal {
	names := make(map[string]string, len(properties))
	for _, p := range properties {
		names[p.ID] = p.Name
	}

	type key struct {
		property string
		category models.Category
	}
	totals := make(map[key]*GroupTotal)
	for _, tx := range transactions {
		if !period.Contains(tx.Date) {
			continue
		}
		k := key{property: tx.PropertyID, category: tx.Category}
		cell, ok := totals[k]
		if !ok {
			cell = &GroupTotal{
				PropertyID:   tx.PropertyID,
				PropertyName: names[tx.PropertyID],
				Category:     tx.Category,
				Total:        decimal.Zero,
				Deductible:   tx.Category.Deductible(),
			}
			totals[k] = cell
		}
		cell.Total = cell.Total.Add(tx.Amount)
		cell.Count++
	}

	// Stable output: unassigned first, then the property list order, and
	// the fixed category order inside each property.
	propertyOrder := []string{""}
	for _, p := range properties {
		propertyOrder = append(propertyOrder, p.ID)
	}

	var out []GroupTotal
	for _, propertyID := range propertyOrder {
		for _, category := range models.Categories() {
			if cell, ok := totals[key{property: propertyID, category: category}]; ok {
				out = append(out, *cell)
			}
		}
	}
	return out
}

// itemizedRow is the CSV shape of one ledger entry.
type itemizedRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      string `csv:"Amount"`
	Category    string `csv:"Category"`
	Property    string `csv:"Property"`
	Status      string `csv:"Status"`
	OwnerSplit  string `csv:"OwnerSplit"`
}

// WriteItemized writes the flat itemized CSV listing of the period's
// transactions.
func WriteItemized(w io.Writer, transactions []models.Transaction, properties []models.Property, period fiscal.Period) error {
	names := make(map[string]string, len(properties))
	for _, p := range properties {
		names[p.ID] = p.Name
	}

	rows := make([]itemizedRow, 0, len(transactions))
	for _, tx := range transactions {
		if !period.Contains(tx.Date) {
			continue
		}
		rows = append(rows, itemizedRow{
			Date:        tx.Date,
			Description: tx.Description,
			Amount:      tx.Amount.StringFixed(2),
			Category:    tx.Category.Label(),
			Property:    names[tx.PropertyID],
			Status:      tx.Status,
			OwnerSplit:  tx.OwnerSplit,
		})
	}

	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("error writing itemized CSV: %w", err)
	}
	return nil
}
