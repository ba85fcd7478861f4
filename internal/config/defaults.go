package config

const (
	defaultConfigPath = "~/.config/tifrotate/config.toml"
	projectConfigName = "tifrotate.toml"
	defaultBinary     = "mogrify"
	defaultLogDir     = "~/.local/share/tifrotate/logs"
	defaultLedgerPath = "~/.local/share/tifrotate/ledger.db"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"

	workersEnv = "TIFROTATE_WORKERS"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Rotation: Rotation{
			Binary: defaultBinary,
		},
		Paths: Paths{
			LogDir:     defaultLogDir,
			LedgerPath: defaultLedgerPath,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
