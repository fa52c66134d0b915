package ledger

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"mhoward/lettings-ledger/internal/config"
	"mhoward/lettings-ledger/internal/dateutils"
	"mhoward/lettings-ledger/internal/fiscal"
	"mhoward/lettings-ledger/internal/logging"
	"mhoward/lettings-ledger/internal/models"
)

// MatchPolicy holds the invoice matching thresholds: the absolute amount
// tolerance that absorbs OCR rounding and the day window around the
// invoice date.
type MatchPolicy struct {
	AmountTolerance decimal.Decimal
	DayWindow       int
}

// DefaultMatchPolicy returns the standard thresholds.
func DefaultMatchPolicy() MatchPolicy {
	return MatchPolicy{
		AmountTolerance: decimal.NewFromFloat(0.10),
		DayWindow:       7,
	}
}

// MatchPolicyFromConfig builds a MatchPolicy from the application
// configuration.
func MatchPolicyFromConfig(cfg *config.Config) MatchPolicy {
	return MatchPolicy{
		AmountTolerance: decimal.NewFromFloat(cfg.Matching.AmountTolerance),
		DayWindow:       cfg.Matching.DayWindow,
	}
}

// ImportResult reports the outcome of a statement import. Skipped rows are
// duplicates of already-ingested transactions, which is a normal outcome,
// not an error.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Ledger is the in-memory record set. All operations are synchronous and
// single-threaded; the atomicity required for link updates is ordering,
// not locking.
type Ledger struct {
	transactions []models.Transaction
	invoices     []models.Invoice
	properties   []models.Property
	txIndex      map[string]int
	invIndex     map[string]int
	policy       MatchPolicy
	logger       logging.Logger
}

// New builds a Ledger over a loaded snapshot. Dangling links in the
// snapshot are repaired immediately so no record is ever surfaced in an
// invalid matched state.
func New(snapshot *models.LedgerSnapshot, policy MatchPolicy, logger logging.Logger) *Ledger {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}
	l := &Ledger{policy: policy, logger: logger}
	if snapshot != nil {
		l.transactions = append(l.transactions, snapshot.Transactions...)
		l.invoices = append(l.invoices, snapshot.Invoices...)
		l.properties = append(l.properties, snapshot.Properties...)
	}
	l.reindex()
	if healed := l.Repair(); healed > 0 {
		l.logger.WithField("links_cleared", healed).Warn("Repaired dangling record links on load")
	}
	return l
}

// Snapshot returns the whole-collection persistence unit.
func (l *Ledger) Snapshot() models.LedgerSnapshot {
	return models.LedgerSnapshot{
		Transactions: append([]models.Transaction(nil), l.transactions...),
		Invoices:     append([]models.Invoice(nil), l.invoices...),
		Properties:   append([]models.Property(nil), l.properties...),
	}
}

// Transactions returns a copy of the transaction collection in stable
// order.
func (l *Ledger) Transactions() []models.Transaction {
	return append([]models.Transaction(nil), l.transactions...)
}

// Invoices returns a copy of the invoice collection.
func (l *Ledger) Invoices() []models.Invoice {
	return append([]models.Invoice(nil), l.invoices...)
}

// Properties returns a copy of the property collection.
func (l *Ledger) Properties() []models.Property {
	return append([]models.Property(nil), l.properties...)
}

// Transaction looks up a transaction by id.
func (l *Ledger) Transaction(id string) (models.Transaction, bool) {
	if i, ok := l.txIndex[id]; ok {
		return l.transactions[i], true
	}
	return models.Transaction{}, false
}

// Invoice looks up an invoice by id.
func (l *Ledger) Invoice(id string) (models.Invoice, bool) {
	if i, ok := l.invIndex[id]; ok {
		return l.invoices[i], true
	}
	return models.Invoice{}, false
}

// HasImport reports whether a statement row with this defining triple has
// already been ingested. Used to skip classification calls for rows that
// would be dropped anyway.
func (l *Ledger) HasImport(date, description string, amount decimal.Decimal) bool {
	_, ok := l.txIndex[ImportIdentity(date, description, amount)]
	return ok
}

// ImportTransactions ingests statement rows idempotently. Each row gets
// the deterministic identity of its (date, description, amount) triple; a
// row whose identity already exists is dropped and counted, never
// overwritten. Dates must already be canonical.
func (l *Ledger) ImportTransactions(rows []models.Transaction) ImportResult {
	var result ImportResult
	for _, row := range rows {
		id := ImportIdentity(row.Date, row.Description, row.Amount)
		if _, exists := l.txIndex[id]; exists {
			result.Skipped++
			continue
		}
		tx := row
		tx.ID = id
		tx.Origin = models.OriginImported
		tx.Status = models.StatusPending
		tx.InvoiceID = ""
		if !models.ValidCategory(tx.Category) {
			tx.Category = models.CategoryUncategorized
		}
		l.txIndex[id] = len(l.transactions)
		l.transactions = append(l.transactions, tx)
		result.Imported++
	}
	l.logger.WithFields(
		logging.Field{Key: "imported", Value: result.Imported},
		logging.Field{Key: "skipped", Value: result.Skipped},
	).Info("Statement import complete")
	return result
}

// AddManualTransaction records a manually entered transaction. Manual
// identities incorporate the creation instant so they can never collide
// with imports.
func (l *Ledger) AddManualTransaction(tx models.Transaction, now time.Time) string {
	tx.ID = ManualIdentity(now)
	tx.Origin = models.OriginManual
	tx.Status = models.StatusPending
	tx.InvoiceID = ""
	if !models.ValidCategory(tx.Category) {
		tx.Category = models.CategoryUncategorized
	}
	l.txIndex[tx.ID] = len(l.transactions)
	l.transactions = append(l.transactions, tx)
	return tx.ID
}

// AddInvoice stores a receipt record and attempts to match it against an
// unlinked expense transaction in the period. On a match both sides of the
// link are updated together; on no match the invoice is stored unmatched
// and the transaction set is untouched. Returns the invoice id and whether
// it matched.
func (l *Ledger) AddInvoice(inv models.Invoice, period fiscal.Period) (string, bool) {
	if inv.ID == "" {
		inv.ID = NewInvoiceID()
	}
	inv.Status = models.InvoiceUnmatched
	inv.TransactionID = ""

	if i, ok := l.findMatchCandidate(inv, period); ok {
		tx := &l.transactions[i]
		inv.Status = models.InvoiceMatched
		inv.TransactionID = tx.ID
		tx.Status = models.StatusReconciled
		tx.InvoiceID = inv.ID
		l.logger.WithFields(
			logging.Field{Key: "invoice", Value: inv.ID},
			logging.Field{Key: "transaction", Value: tx.ID},
		).Info("Invoice matched to transaction")
	}

	l.invIndex[inv.ID] = len(l.invoices)
	l.invoices = append(l.invoices, inv)
	return inv.ID, inv.IsMatched()
}

// findMatchCandidate returns the index of the first transaction in stable
// order that satisfies the amount tolerance and day window against the
// invoice. No scoring among multiple candidates is performed.
func (l *Ledger) findMatchCandidate(inv models.Invoice, period fiscal.Period) (int, bool) {
	for i := range l.transactions {
		tx := &l.transactions[i]
		if !tx.IsDeductibleExpense() || tx.HasInvoice() {
			continue
		}
		if !period.Contains(tx.Date) {
			continue
		}
		diff := tx.AbsAmount().Sub(inv.Amount).Abs()
		if diff.GreaterThanOrEqual(l.policy.AmountTolerance) {
			continue
		}
		days, err := dateutils.DaysBetween(tx.Date, inv.Date)
		if err != nil || days > l.policy.DayWindow {
			continue
		}
		return i, true
	}
	return 0, false
}

// ToggleReconciled flips a transaction between pending and reconciled.
// This is the manual "no receipt needed" sign-off and is only permitted
// for transactions without a linked invoice.
func (l *Ledger) ToggleReconciled(id string) error {
	i, ok := l.txIndex[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	tx := &l.transactions[i]
	if tx.HasInvoice() {
		return fmt.Errorf("transaction %s is reconciled via invoice %s; delete the invoice to unreconcile", id, tx.InvoiceID)
	}
	switch tx.Status {
	case models.StatusPending, models.StatusFlagged:
		tx.Status = models.StatusReconciled
	case models.StatusReconciled:
		tx.Status = models.StatusPending
	default:
		return fmt.Errorf("transaction %s has unknown status %q", id, tx.Status)
	}
	return nil
}

// DeleteInvoice removes an invoice and clears the reciprocal link on its
// matched transaction, resetting that transaction to pending. The two
// updates happen together.
func (l *Ledger) DeleteInvoice(id string) error {
	i, ok := l.invIndex[id]
	if !ok {
		return fmt.Errorf("invoice %s not found", id)
	}
	inv := l.invoices[i]
	if inv.TransactionID != "" {
		if ti, ok := l.txIndex[inv.TransactionID]; ok {
			tx := &l.transactions[ti]
			tx.InvoiceID = ""
			tx.Status = models.StatusPending
		}
	}
	l.invoices = append(l.invoices[:i], l.invoices[i+1:]...)
	l.reindex()
	return nil
}

// DeleteTransaction removes a transaction. A matched invoice loses its
// link and returns to unmatched so it can pair with a future import.
func (l *Ledger) DeleteTransaction(id string) error {
	i, ok := l.txIndex[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	tx := l.transactions[i]
	if tx.InvoiceID != "" {
		if ii, ok := l.invIndex[tx.InvoiceID]; ok {
			inv := &l.invoices[ii]
			inv.TransactionID = ""
			inv.Status = models.InvoiceUnmatched
		}
	}
	l.transactions = append(l.transactions[:i], l.transactions[i+1:]...)
	l.reindex()
	return nil
}

// SetCategory recategorizes a transaction. The code must be a member of
// the closed category set.
func (l *Ledger) SetCategory(id string, category models.Category) error {
	i, ok := l.txIndex[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	if !models.ValidCategory(category) {
		return fmt.Errorf("unknown category %q", category)
	}
	l.transactions[i].Category = category
	return nil
}

// AssignProperty points a transaction at a property, or clears the
// reference when propertyID is empty.
func (l *Ledger) AssignProperty(id, propertyID string) error {
	i, ok := l.txIndex[id]
	if !ok {
		return fmt.Errorf("transaction %s not found", id)
	}
	if propertyID != "" && !l.propertyExists(propertyID) {
		return fmt.Errorf("property %s not found", propertyID)
	}
	l.transactions[i].PropertyID = propertyID
	return nil
}

// BulkTag assigns an owner-split tag to a set of transactions atomically:
// every target is validated before any record is touched, so a batch either
// applies in full or not at all.
func (l *Ledger) BulkTag(ids []string, tag string) error {
	if !models.ValidOwnerSplit(tag) {
		return fmt.Errorf("unknown owner-split tag %q", tag)
	}
	indexes := make([]int, 0, len(ids))
	for _, id := range ids {
		i, ok := l.txIndex[id]
		if !ok {
			return fmt.Errorf("transaction %s not found; batch abandoned", id)
		}
		indexes = append(indexes, i)
	}
	for _, i := range indexes {
		l.transactions[i].OwnerSplit = tag
	}
	return nil
}

// BulkDelete removes a set of transactions atomically. Validation happens
// up front; matched invoices of deleted transactions return to unmatched.
func (l *Ledger) BulkDelete(ids []string) error {
	doomed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if _, ok := l.txIndex[id]; !ok {
			return fmt.Errorf("transaction %s not found; batch abandoned", id)
		}
		doomed[id] = true
	}
	kept := l.transactions[:0]
	for _, tx := range l.transactions {
		if !doomed[tx.ID] {
			kept = append(kept, tx)
			continue
		}
		if tx.InvoiceID != "" {
			if ii, ok := l.invIndex[tx.InvoiceID]; ok {
				inv := &l.invoices[ii]
				inv.TransactionID = ""
				inv.Status = models.InvoiceUnmatched
			}
		}
	}
	l.transactions = kept
	l.reindex()
	return nil
}

// AddProperty registers a property.
func (l *Ledger) AddProperty(p models.Property) {
	l.properties = append(l.properties, p)
}

// DeleteProperty removes a property and clears the reference on any
// transaction that pointed at it.
func (l *Ledger) DeleteProperty(id string) error {
	for i, p := range l.properties {
		if p.ID == id {
			l.properties = append(l.properties[:i], l.properties[i+1:]...)
			for t := range l.transactions {
				if l.transactions[t].PropertyID == id {
					l.transactions[t].PropertyID = ""
				}
			}
			return nil
		}
	}
	return fmt.Errorf("property %s not found", id)
}

// ReceiptChecklist lists the deductible expense transactions in the period
// that still lack a linked receipt. Personal and uncategorized entries are
// excluded.
func (l *Ledger) ReceiptChecklist(period fiscal.Period) []models.Transaction {
	var out []models.Transaction
	for _, tx := range l.transactions {
		if tx.IsDeductibleExpense() && !tx.HasInvoice() && period.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// InPeriod returns the transactions whose dates fall inside the period.
func (l *Ledger) InPeriod(period fiscal.Period) []models.Transaction {
	var out []models.Transaction
	for _, tx := range l.transactions {
		if period.Contains(tx.Date) {
			out = append(out, tx)
		}
	}
	return out
}

// Repair restores link symmetry: an invoice pointing at a missing or
// non-reciprocating transaction loses its link and returns to unmatched,
// and likewise for transactions. Returns the number of links cleared.
func (l *Ledger) Repair() int {
	healed := 0
	for i := range l.invoices {
		inv := &l.invoices[i]
		if inv.TransactionID == "" {
			if inv.Status == models.InvoiceMatched {
				inv.Status = models.InvoiceUnmatched
				healed++
			}
			continue
		}
		ti, ok := l.txIndex[inv.TransactionID]
		if !ok || l.transactions[ti].InvoiceID != inv.ID {
			inv.TransactionID = ""
			inv.Status = models.InvoiceUnmatched
			healed++
		}
	}
	for i := range l.transactions {
		tx := &l.transactions[i]
		if tx.InvoiceID == "" {
			continue
		}
		ii, ok := l.invIndex[tx.InvoiceID]
		if !ok || l.invoices[ii].TransactionID != tx.ID {
			tx.InvoiceID = ""
			tx.Status = models.StatusPending
			healed++
		}
	}
	return healed
}

func (l *Ledger) propertyExists(id string) bool {
	for _, p := range l.properties {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (l *Ledger) reindex() {
	l.txIndex = make(map[string]int, len(l.transactions))
	for i, tx := range l.transactions {
		l.txIndex[tx.ID] = i
	}
	l.invIndex = make(map[string]int, len(l.invoices))
	for i, inv := range l.invoices {
		l.invIndex[inv.ID] = i
	}
}
