package config

// Default returns the default checker configuration.
func Default() *Config {
	return &Config{
		DataDir: DefaultDataDir(),
		Check: CheckConfig{
			Revision: "altair",
			Preset:   PresetMainnet,
		},
		Store: StoreConfig{
			Enabled: true,
			History: 100,
		},
		Log: LogConfig{
			Level: "info",
			JSON:  false,
		},
	}
}
