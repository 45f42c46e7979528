package config

import "os"

// FromEnv applies environment overrides on top of cfg.
// Unset variables leave the config untouched.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("TASKD_STORAGE_BACKEND"); v != "" {
		cfg.Storage.Backend = v
	}
	if v := os.Getenv("TASKD_DATA_DIR"); v != "" {
		cfg.Storage.Dir = v
	}
	if v := os.Getenv("TASKD_SQLITE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TASKD_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("TASKD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return cfg
}
