package bpsolver

type Cache struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path,omitempty"`
}

type Config struct {
	Backend     string `json:"backend"`
	Preflight   bool   `json:"preflight"`
	Timeout     string `json:"timeout,omitempty"`
	NodeLimit   int64  `json:"nodeLimit,omitempty"`
	Parallelism int    `json:"parallelism,omitempty"`
	Cache       Cache  `json:"cache"`
	LogLevel    string `json:"logLevel,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Backend:     "cp",
		Preflight:   true,
		Timeout:     "30s",
		Parallelism: 1,
		LogLevel:    "info",
	}
}
