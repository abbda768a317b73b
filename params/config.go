// Package params holds the session configuration of the register file model
// and derives the NTT constants it is seeded with.
package params

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/sarchlab/pqsim/pqspr"
)

// Config holds the parameters of one simulation session.
type Config struct {
	// Modulus is the NTT prime q. It must be an odd prime below 2^32.
	// Default: 3329 (Kyber).
	Modulus uint32 `json:"modulus"`

	// LogOrder is log2 of the multiplicative order of psi. 2^LogOrder must
	// divide q-1. Default: 8.
	LogOrder uint32 `json:"log_order"`

	// Prefix is prepended to the two-digit register index in trace names.
	// Default: "p".
	Prefix string `json:"prefix"`

	// TraceWidth is the width every trace entry is rendered with.
	// Default: 256 bits, the width of the special purpose register bus.
	TraceWidth int `json:"trace_width"`

	// Inverse starts the stride schedule in inverse-NTT mode (mode = 1).
	// Default: false.
	Inverse bool `json:"inverse"`
}

// DefaultConfig returns a Config for the Kyber prime.
func DefaultConfig() *Config {
	return &Config{
		Modulus:    3329,
		LogOrder:   8,
		Prefix:     "p",
		TraceWidth: pqspr.WideWidth,
		Inverse:    false,
	}
}

// LoadConfig loads a Config from a JSON file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate performs the cheap structural checks. Primality and root
// existence are checked by Derive.
func (c *Config) Validate() error {
	if c.Modulus < 3 || c.Modulus%2 == 0 {
		return fmt.Errorf("modulus must be an odd number >= 3")
	}
	if c.LogOrder == 0 || c.LogOrder > 31 {
		return fmt.Errorf("log_order must be in [1, 31]")
	}
	if c.Prefix == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	if c.TraceWidth < 4 || c.TraceWidth > pqspr.WideWidth || c.TraceWidth%4 != 0 {
		return fmt.Errorf("trace_width must be a multiple of 4 in [4, %d]", pqspr.WideWidth)
	}
	return nil
}

// Clone returns a deep copy of the Config.
func (c *Config) Clone() *Config {
	return &Config{
		Modulus:    c.Modulus,
		LogOrder:   c.LogOrder,
		Prefix:     c.Prefix,
		TraceWidth: c.TraceWidth,
		Inverse:    c.Inverse,
	}
}

// FileOptions returns the register file options selected by the config.
func (c *Config) FileOptions() []pqspr.FileOption {
	return []pqspr.FileOption{
		pqspr.WithPrefix(c.Prefix),
		pqspr.WithTraceWidth(c.TraceWidth),
	}
}
