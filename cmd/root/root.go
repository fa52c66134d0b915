// Package root contains the root command and the wiring shared by all
// subcommands.
package root

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"mhoward/lettings-ledger/internal/config"
	"mhoward/lettings-ledger/internal/fiscal"
	"mhoward/lettings-ledger/internal/ledger"
	"mhoward/lettings-ledger/internal/logging"
	"mhoward/lettings-ledger/internal/store"
)

// SharedFlags holds the flags common to all commands.
type SharedFlags struct {
	LedgerFile string
	PeriodID   string
}

var (
	// Log is the shared logger instance for commands.
	Log = logrus.New()

	// Cfg is the loaded application configuration, set in PersistentPreRun.
	Cfg *config.Config

	// Flags holds the persistent flag values.
	Flags = SharedFlags{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "lettings-ledger",
		Short: "Track lettings income and expenses, reconcile receipts and estimate the tax bill.",
		Long: `lettings-ledger keeps a landlord's bank transactions categorized against
tax-return expense categories, matches uploaded receipts to expense
transactions and estimates the self-assessment liability for a fiscal year.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()

			var err error
			Cfg, err = config.InitializeConfig()
			if err != nil {
				Log.Fatalf("Failed to initialize configuration: %v", err)
			}
			Log = config.ConfigureLoggingFromConfig(Cfg)
		},
	}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&Flags.LedgerFile, "ledger", "l", "", "Ledger snapshot file (default from config)")
	Cmd.PersistentFlags().StringVarP(&Flags.PeriodID, "period", "p", "", "Fiscal period, e.g. 2024-25 (default: current)")
}

// Logger returns the shared logger wrapped in the logging interface.
func Logger() logging.Logger {
	return logging.NewLogrusAdapterFromLogger(Log)
}

// LedgerPath resolves the snapshot path from the flag or configuration.
func LedgerPath() string {
	if Flags.LedgerFile != "" {
		return Flags.LedgerFile
	}
	return Cfg.Ledger.File
}

// Period resolves the selected fiscal period, defaulting to the period
// containing today.
func Period() (fiscal.Period, error) {
	if Flags.PeriodID == "" {
		return fiscal.Current(time.Now()), nil
	}
	return fiscal.Resolve(Flags.PeriodID)
}

// OpenLedger loads the snapshot and builds the ledger over it.
func OpenLedger() (*ledger.Ledger, *store.LedgerStore, error) {
	s := store.NewLedgerStore(LedgerPath(), Logger())
	snapshot, err := s.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	l := ledger.New(snapshot, ledger.MatchPolicyFromConfig(Cfg), Logger())
	return l, s, nil
}

// SaveLedger persists the ledger back to its snapshot file.
func SaveLedger(l *ledger.Ledger, s *store.LedgerStore) error {
	if err := s.Save(l.Snapshot()); err != nil {
		return fmt.Errorf("failed to save ledger: %w", err)
	}
	return nil
}
