package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage Storage `yaml:"storage" json:"storage"`
	Server  Server  `yaml:"server" json:"server"`
}

type Storage struct {
	// Backend selects the key-value store: "memory", "file", or "sqlite".
	Backend string `yaml:"backend" json:"backend"`
	// Dir is the data directory for the file backend.
	Dir string `yaml:"dir" json:"dir"`
	// Path is the database file for the sqlite backend.
	Path string `yaml:"path" json:"path"`
	// Key is the storage key the collection is persisted under.
	Key string `yaml:"key" json:"key"`
}

type Server struct {
	Addr string `yaml:"addr" json:"addr"`
}

func Default() Config {
	return Config{
		Storage: Storage{
			Backend: "file",
			Dir:     "data",
			Path:    "data/tasks.db",
			Key:     "TODOS",
		},
		Server: Server{
			Addr: ":8080",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path just
// returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
