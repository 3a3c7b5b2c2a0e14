package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"trapscan/internal/config"
)

func main() {
	root := &cobra.Command{
		Use:          "trapscan",
		Short:        "Find trapped join swap bonds and check them against the vault",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Extract trapped bonds, check pending state and print the report",
		RunE:  runScan,
	}
	addQueryFlags(runCmd)
	addExtractFlags(runCmd)
	addCheckFlags(runCmd)
	root.AddCommand(runCmd)

	extractCmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract trapped bonds into the bond ids file",
		RunE:  runExtract,
	}
	addQueryFlags(extractCmd)
	addExtractFlags(extractCmd)
	root.AddCommand(extractCmd)

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Check a saved bond ids file against the vault",
		RunE:  runCheck,
	}
	addQueryFlags(checkCmd)
	addCheckFlags(checkCmd)
	checkCmd.Flags().String("bond-ids", "bond_ids.json", "bond ids file to check")
	root.AddCommand(checkCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("backend", "cli", "query backend (cli, rpc)")
	cmd.Flags().String("binary", "quasard", "chain binary used by the cli backend")
	cmd.Flags().String("node", "https://quasar-rpc.polkachu.com:443", "node RPC endpoint")
	cmd.Flags().String("chain-id", "quasar-1", "chain id")
	cmd.Flags().StringSlice("source", config.DefaultSources, "primitive contracts as label=address (comma-separated)")
	cmd.Flags().String("address-prefix", "quasar", "bech32 address prefix")
	cmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")
}

func addExtractFlags(cmd *cobra.Command) {
	cmd.Flags().String("out-dir", ".", "directory for raw trapped errors snapshots")
	cmd.Flags().String("bond-ids", "bond_ids.json", "bond ids output file")
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("vault", config.DefaultVault, "vault contract address")
	cmd.Flags().String("null-check", "substring", "null classification (substring, structured)")
	cmd.Flags().String("results", "./data/bond_checks.jsonl", "bond check results JSONL path")
	cmd.Flags().String("pg-dsn", "", "optional Postgres DSN for bond check results")
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
