package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRotation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateLedger(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRotation() error {
	if c.Rotation.Binary == "" {
		return errors.New("rotation.binary must be set")
	}
	if c.Rotation.Workers < 0 {
		return errors.New("rotation.workers must be zero (auto) or positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use console or json)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateLedger() error {
	if c.Ledger.Enabled && c.Paths.LedgerPath == "" {
		return errors.New("paths.ledger_path must be set when ledger.enabled is true")
	}
	return nil
}
