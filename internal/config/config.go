package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Addresses of the quasar-1 deployment inspected for migration 005.
var (
	DefaultSources = []string{
		"prim1=quasar1kj8q8g2pmhnagmfepp9jh9g2mda7gzd0m5zdq0s08ulvac8ck4dq9ykfps",
		"prim2=quasar1ma0g752dl0yujasnfs9yrk6uew7d0a2zrgvg62cfnlfftu2y0egqx8e7fv",
		"prim3=quasar1ery8l6jquynn9a4cz2pff6khg8c68f7urt33l5n9dng2cwzz4c4qxhm6a2",
	}
	DefaultVault = "quasar18a2u6az6dzw528rptepfg6n49ak6hdzkf8ewf0n5r0nwju7gtdgqamr7qu"
)

const (
	BackendCLI = "cli"
	BackendRPC = "rpc"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Binary        string
	Node          string
	ChainID       string
	Backend       string
	Sources       []string
	Vault         string
	AddressPrefix string
	OutDir        string
	BondIDs       string
	Results       string
	NullCheck     string
	PGDSN         string
	LogLevel      string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRAPSCAN")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("binary", "quasard")
	v.SetDefault("node", "https://quasar-rpc.polkachu.com:443")
	v.SetDefault("chain-id", "quasar-1")
	v.SetDefault("backend", BackendCLI)
	v.SetDefault("source", DefaultSources)
	v.SetDefault("vault", DefaultVault)
	v.SetDefault("address-prefix", "quasar")
	v.SetDefault("out-dir", ".")
	v.SetDefault("bond-ids", "bond_ids.json")
	v.SetDefault("results", "./data/bond_checks.jsonl")
	v.SetDefault("null-check", "substring")
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Binary:        v.GetString("binary"),
		Node:          v.GetString("node"),
		ChainID:       v.GetString("chain-id"),
		Backend:       strings.ToLower(v.GetString("backend")),
		Sources:       getStringSlice(v, "source"),
		Vault:         v.GetString("vault"),
		AddressPrefix: v.GetString("address-prefix"),
		OutDir:        v.GetString("out-dir"),
		BondIDs:       v.GetString("bond-ids"),
		Results:       v.GetString("results"),
		NullCheck:     v.GetString("null-check"),
		PGDSN:         v.GetString("pg-dsn"),
		LogLevel:      v.GetString("log-level"),
	}

	return cfg, nil
}

// Validate checks the settings every subcommand depends on.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendCLI:
		if c.Binary == "" {
			return fmt.Errorf("binary is required")
		}
	case BackendRPC:
	default:
		return fmt.Errorf("unknown backend: %s", c.Backend)
	}
	if c.Node == "" {
		return fmt.Errorf("node is required")
	}
	if c.ChainID == "" {
		return fmt.Errorf("chain id is required")
	}
	return nil
}

func getStringSlice(v *viper.Viper, key string) []string {
	if !v.IsSet(key) {
		return nil
	}

	val := v.Get(key)
	switch typed := val.(type) {
	case []string:
		return cleanStrings(typed)
	case string:
		return splitAndClean(typed)
	case []interface{}:
		items := make([]string, 0, len(typed))
		for _, item := range typed {
			items = append(items, fmt.Sprintf("%v", item))
		}
		return cleanStrings(items)
	default:
		return nil
	}
}

func splitAndClean(input string) []string {
	if input == "" {
		return nil
	}
	parts := strings.Split(input, ",")
	return cleanStrings(parts)
}

func cleanStrings(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
