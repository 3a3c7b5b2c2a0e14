package config

import (
	"fmt"
	"strings"

	"github.com/cosmos/cosmos-sdk/types/bech32"

	"trapscan/internal/model"
)

// ParseSources converts "label=address" entries into sources, keeping their
// order. Labels must be unique.
func ParseSources(inputs []string, prefix string) ([]model.Source, error) {
	sources := make([]model.Source, 0, len(inputs))
	seen := make(map[string]struct{}, len(inputs))
	for _, input := range inputs {
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		parts := strings.SplitN(input, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid source %q: expected label=address", input)
		}
		label := strings.TrimSpace(parts[0])
		address := strings.TrimSpace(parts[1])
		if label == "" {
			return nil, fmt.Errorf("invalid source %q: empty label", input)
		}
		if err := ValidateAddress(address, prefix); err != nil {
			return nil, fmt.Errorf("source %s: %w", label, err)
		}
		if _, ok := seen[label]; ok {
			return nil, fmt.Errorf("duplicate source label: %s", label)
		}
		seen[label] = struct{}{}
		sources = append(sources, model.Source{Label: label, Address: address})
	}
	return sources, nil
}

// ValidateAddress decodes a bech32 account address, verifying its checksum,
// and checks the human readable part against prefix when one is given.
func ValidateAddress(address, prefix string) error {
	if address == "" {
		return fmt.Errorf("address is required")
	}
	hrp, data, err := bech32.DecodeAndConvert(address)
	if err != nil {
		return fmt.Errorf("invalid address %s: %w", address, err)
	}
	if prefix != "" && hrp != prefix {
		return fmt.Errorf("invalid address %s: expected prefix %s, got %s", address, prefix, hrp)
	}
	if len(data) == 0 {
		return fmt.Errorf("invalid address %s: empty payload", address)
	}
	return nil
}
