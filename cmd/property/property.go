// Package property manages the property roster used for keyword matching
// and per-property totals.
package property

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/internal/models"
)

var (
	addressFlag  string
	keywordsFlag []string
)

// Cmd represents the property command.
var Cmd = &cobra.Command{
	Use:   "property",
	Short: "Manage the property roster",
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Register a property",
	Args:  cobra.ExactArgs(1),
	RunE:  addFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <property-id>",
	Short: "Remove a property and clear references to it",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered properties",
	RunE:  listFunc,
}

func init() {
	addCmd.Flags().StringVar(&addressFlag, "address", "", "Property address")
	addCmd.Flags().StringSliceVar(&keywordsFlag, "keywords", nil, "Keywords that identify the property in descriptions")
	Cmd.AddCommand(addCmd, deleteCmd, listCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	p := models.Property{
		ID:       "prop-" + uuid.New().String()[:8],
		Name:     args[0],
		Address:  addressFlag,
		Keywords: keywordsFlag,
	}
	l.AddProperty(p)
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}
	fmt.Printf("Property %s added as %s\n", p.Name, p.ID)
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	l, s, err := root.OpenLedger()
	if err != nil {
		return err
	}
	if err := l.DeleteProperty(args[0]); err != nil {
		return err
	}
	if err := root.SaveLedger(l, s); err != nil {
		return err
	}
	fmt.Printf("Property %s deleted\n", args[0])
	return nil
}

func listFunc(cmd *cobra.Command, args []string) error {
	l, _, err := root.OpenLedger()
	if err != nil {
		return err
	}
	for _, p := range l.Properties() {
		fmt.Printf("%s  %-24s %s\n", p.ID, p.Name, strings.Join(p.Keywords, ", "))
	}
	return nil
}
