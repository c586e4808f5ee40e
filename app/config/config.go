package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	xdgAppName = "tasklist"
	configFile = "config.json"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendNeo4j  = "neo4j"
	BackendMySQL  = "mysql"
)

type Config struct {
	Backend string `json:"backend"`
	DataDir string `json:"data_dir"`
	Addr    string `json:"addr"`

	Neo4jURI      string `json:"neo4j_uri"`
	Neo4jUser     string `json:"neo4j_user"`
	Neo4jPassword string `json:"neo4j_password"`

	MySQLDSN string `json:"mysql_dsn"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	dataDir := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".local", "share", xdgAppName)
	}
	return &Config{
		Backend:   BackendFile,
		DataDir:   dataDir,
		Addr:      "0.0.0.0:8080",
		Neo4jURI:  "neo4j://localhost:7687",
		Neo4jUser: "neo4j",
	}
}

func GetConfigPath() (string, error) {
	xdgHome, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(xdgHome, ".config", xdgAppName, configFile), nil
}

// Load reads the config file at path, or the default location when path is
// empty, and applies environment overrides. A missing file yields defaults.
// Load does not validate; callers apply their own overrides and then call
// Validate.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	f, err := os.Open(path)
	switch {
	case err == nil:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg.applyEnv(os.Getenv)
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	overrides := map[string]*string{
		"TASKLIST_BACKEND":   &c.Backend,
		"TASKLIST_DATA_DIR":  &c.DataDir,
		"TASKLIST_ADDR":      &c.Addr,
		"NEO4J_URI":          &c.Neo4jURI,
		"NEO4J_USER":         &c.Neo4jUser,
		"NEO4J_PASSWORD":     &c.Neo4jPassword,
		"TASKLIST_MYSQL_DSN": &c.MySQLDSN,
	}
	for name, field := range overrides {
		if v := getenv(name); v != "" {
			*field = v
		}
	}
}

// Validate checks the backend name and the settings it needs.
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile:
		if c.DataDir == "" {
			return fmt.Errorf("backend %s needs a data directory", c.Backend)
		}
	case BackendMemory:
	case BackendNeo4j:
		if c.Neo4jURI == "" {
			return fmt.Errorf("backend %s needs neo4j_uri", c.Backend)
		}
	case BackendMySQL:
		if _, err := MySQLConfig(c.MySQLDSN); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}

// Save writes cfg as indented JSON to path, or the default location when path
// is empty, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}
