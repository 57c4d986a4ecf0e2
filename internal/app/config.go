package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	LedgerPath  string // ledger text file
	ProfilePath string // optional HCL analysis profile

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.LedgerPath == "" {
		return nil, errors.New("LedgerPath is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
