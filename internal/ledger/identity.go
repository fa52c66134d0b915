// Package ledger maintains the in-memory transaction and invoice record
// set: idempotent statement import, invoice matching, reconciliation state
// and the bidirectional link invariants between the two collections.
package ledger

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ImportIdentity derives the deterministic identity of an imported
// statement row from its defining triple. The encoding is a stable,
// order-preserving join of the fields, so re-importing the same row always
// produces the same id and a different row never does.
func ImportIdentity(date, description string, amount decimal.Decimal) string {
	raw := fmt.Sprintf("%s|%s|%s", date, description, amount.String())
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ManualIdentity produces an identity for a manually entered transaction.
// It incorporates the creation instant and a random component, so manual
// entries can never collide with imports or with each other.
func ManualIdentity(now time.Time) string {
	return fmt.Sprintf("man-%d-%s", now.UnixNano(), uuid.NewString()[:8])
}

// NewInvoiceID returns a fresh invoice identifier.
func NewInvoiceID() string {
	return "inv-" + uuid.NewString()
}
