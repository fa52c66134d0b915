package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"mhoward/lettings-ledger/cmd/categorize"
	"mhoward/lettings-ledger/cmd/estimate"
	"mhoward/lettings-ledger/cmd/export"
	"mhoward/lettings-ledger/cmd/ingest"
	"mhoward/lettings-ledger/cmd/invoice"
	"mhoward/lettings-ledger/cmd/property"
	"mhoward/lettings-ledger/cmd/reconcile"
	"mhoward/lettings-ledger/cmd/root"
	"mhoward/lettings-ledger/cmd/tx"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func init() {
	// Load environment variables before anything logs, so LOG_LEVEL from
	// .env takes effect from the first line of output.
	loadEnvSilently()
	logrus.SetLevel(logLevelFromEnv())

	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(tx.Cmd)
	root.Cmd.AddCommand(invoice.Cmd)
	root.Cmd.AddCommand(reconcile.Cmd)
	root.Cmd.AddCommand(property.Cmd)
	root.Cmd.AddCommand(estimate.Cmd)
	root.Cmd.AddCommand(export.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
}

// loadEnvSilently loads .env from the working directory or the project
// root without logging anything.
func loadEnvSilently() {
	envFile := ".env"
	if _, err := os.Stat(envFile); os.IsNotExist(err) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			return
		}
	}
	_ = godotenv.Load(envFile)
}

func logLevelFromEnv() logrus.Level {
	levelStr := os.Getenv("LOG_LEVEL")
	if levelStr == "" {
		levelStr = "info"
	}
	level, err := logrus.ParseLevel(strings.ToLower(levelStr))
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
