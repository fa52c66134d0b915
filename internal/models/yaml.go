package models

import (
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Amounts are serialized as strings so the snapshot file never carries a
// binary-float approximation of a monetary value.

type yamlTransaction struct {
	ID          string `yaml:"id"`
	Date        string `yaml:"date"`
	Description string `yaml:"description"`
	Amount      string `yaml:"amount"`
	PropertyID  string `yaml:"property_id,omitempty"`
	Category    string `yaml:"category"`
	Status      string `yaml:"status"`
	Origin      string `yaml:"origin"`
	InvoiceID   string `yaml:"invoice_id,omitempty"`
	OwnerSplit  string `yaml:"owner_split,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (t Transaction) MarshalYAML() (interface{}, error) {
	return yamlTransaction{
		ID:          t.ID,
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount.String(),
		PropertyID:  t.PropertyID,
		Category:    string(t.Category),
		Status:      t.Status,
		Origin:      t.Origin,
		InvoiceID:   t.InvoiceID,
		OwnerSplit:  t.OwnerSplit,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (t *Transaction) UnmarshalYAML(value *yaml.Node) error {
	var raw yamlTransaction
	if err := value.Decode(&raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid transaction amount %q: %w", raw.Amount, err)
	}
	*t = Transaction{
		ID:          raw.ID,
		Date:        raw.Date,
		Description: raw.Description,
		Amount:      amount,
		PropertyID:  raw.PropertyID,
		Category:    Category(raw.Category),
		Status:      raw.Status,
		Origin:      raw.Origin,
		InvoiceID:   raw.InvoiceID,
		OwnerSplit:  raw.OwnerSplit,
	}
	return nil
}

type yamlInvoice struct {
	ID            string `yaml:"id"`
	Date          string `yaml:"date"`
	Vendor        string `yaml:"vendor"`
	Amount        string `yaml:"amount"`
	Description   string `yaml:"description,omitempty"`
	Status        string `yaml:"status"`
	Document      []byte `yaml:"document,omitempty"`
	TransactionID string `yaml:"transaction_id,omitempty"`
}

// MarshalYAML implements yaml.Marshaler.
func (i Invoice) MarshalYAML() (interface{}, error) {
	return yamlInvoice{
		ID:            i.ID,
		Date:          i.Date,
		Vendor:        i.Vendor,
		Amount:        i.Amount.String(),
		Description:   i.Description,
		Status:        i.Status,
		Document:      i.Document,
		TransactionID: i.TransactionID,
	}, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (i *Invoice) UnmarshalYAML(value *yaml.Node) error {
	var raw yamlInvoice
	if err := value.Decode(&raw); err != nil {
		return err
	}
	amount, err := decimal.NewFromString(raw.Amount)
	if err != nil {
		return fmt.Errorf("invalid invoice amount %q: %w", raw.Amount, err)
	}
	*i = Invoice{
		ID:            raw.ID,
		Date:          raw.Date,
		Vendor:        raw.Vendor,
		Amount:        amount,
		Description:   raw.Description,
		Status:        raw.Status,
		Document:      raw.Document,
		TransactionID: raw.TransactionID,
	}
	return nil
}
