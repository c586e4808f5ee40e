package config

import (
	"context"
	"fmt"

	"tasklist/app/storage"
)

// OpenSlot returns the storage slot for the configured backend.
func OpenSlot(ctx context.Context, cfg *Config) (storage.Slot, error) {
	switch cfg.Backend {
	case BackendFile:
		return storage.NewFileSlot(cfg.DataDir, storage.Key), nil
	case BackendMemory:
		return storage.NewMemorySlot(), nil
	case BackendNeo4j:
		driver, err := InitNeo4j(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Neo4j connection: %w", err)
		}
		if err := driver.VerifyConnectivity(ctx); err != nil {
			driver.Close(ctx)
			return nil, fmt.Errorf("neo4j unreachable: %w", err)
		}
		return storage.NewNeo4jSlot(driver, storage.Key), nil
	case BackendMySQL:
		mcfg, err := MySQLConfig(cfg.MySQLDSN)
		if err != nil {
			return nil, err
		}
		return storage.OpenMySQLSlot(ctx, mcfg, storage.Key)
	}
	return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
}
