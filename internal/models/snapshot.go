package models

// LedgerSnapshot is the whole-collection persistence unit. The store loads
// and replaces it atomically; no partial updates exist.
type LedgerSnapshot struct {
	Transactions []Transaction `yaml:"transactions"`
	Invoices     []Invoice     `yaml:"invoices"`
	Properties   []Property    `yaml:"properties"`
}
