package config

import (
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// MySQLConfig parses dsn and turns on the options the slot table relies on.
func MySQLConfig(dsn string) (*mysql.Config, error) {
	if dsn == "" {
		return nil, fmt.Errorf("backend %s needs mysql_dsn", BackendMySQL)
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid mysql_dsn: %w", err)
	}
	cfg.ParseTime = true
	if cfg.Params == nil {
		cfg.Params = map[string]string{}
	}
	if _, ok := cfg.Params["charset"]; !ok {
		cfg.Params["charset"] = "utf8mb4"
	}
	return cfg, nil
}
