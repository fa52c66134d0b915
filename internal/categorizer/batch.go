package categorizer

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/models"
)

// Row is one statement row awaiting classification.
type Row struct {
	Description string
	Amount      decimal.Decimal
}

// SuggestBatch classifies a batch of rows concurrently, one call per row.
// Every call closes over the same immutable property snapshot and writes
// only its own slot of the result slice; results are joined before the
// caller touches any shared state. A failed call degrades to the fallback
// for that row without aborting its siblings.
func (c *Categorizer) SuggestBatch(ctx context.Context, rows []Row, properties []models.Property) []Suggestion {
	suggestions := make([]Suggestion, len(rows))

	var wg sync.WaitGroup
	for i, row := range rows {
		wg.Add(1)
		go func(i int, row Row) {
			defer wg.Done()
			suggestions[i] = c.Suggest(ctx, row.Description, row.Amount, properties)
		}(i, row)
	}
	wg.Wait()

	return suggestions
}
