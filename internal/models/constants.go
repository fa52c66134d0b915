package models

// Transaction reconciliation statuses
const (
	StatusPending    = "pending"
	StatusReconciled = "reconciled"
	StatusFlagged    = "flagged"
)

// Transaction origins
const (
	OriginImported = "imported"
	OriginManual   = "manual"
)

// Invoice statuses
const (
	InvoiceUnmatched  = "unmatched"
	InvoiceMatched    = "matched"
	InvoiceProcessing = "processing"
)

// Owner split tags. The ledger supports a small fixed set of co-owner
// attributions; an empty tag means the default single owner.
const (
	SplitOwnerA = "owner-a"
	SplitOwnerB = "owner-b"
	SplitJoint  = "joint"
)

// ValidOwnerSplit reports whether tag is one of the fixed owner-split tags
// or empty (unsplit).
func ValidOwnerSplit(tag string) bool {
	switch tag {
	case "", SplitOwnerA, SplitOwnerB, SplitJoint:
		return true
	}
	return false
}
