package config

// NewDefaultConfig creates a configuration with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "prod",
		Server: ServerConfig{
			Port: 4310,
			Host: "localhost",
		},
		Providers: ProvidersConfig{},
		Cache: CacheConfig{
			Badger: BadgerConfig{
				Path: "./data/tickerdeck",
			},
			SweepSchedule: "@every 10m",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Outputs: []string{"console", "file"},
		},
	}
}
