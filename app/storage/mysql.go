package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

const createSlotTable = `CREATE TABLE IF NOT EXISTS task_slots (
    slot_key VARCHAR(191) PRIMARY KEY,
    value LONGTEXT NOT NULL,
    updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
)`

// MySQLSlot keeps the value in one row of the task_slots table.
type MySQLSlot struct {
	db  *sql.DB
	key string
}

// OpenMySQLSlot connects with cfg, checks the connection and creates the
// table when it is missing.
func OpenMySQLSlot(ctx context.Context, cfg *mysql.Config, key string) (*MySQLSlot, error) {
	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("mysql ping: %w", err)
	}
	s := &MySQLSlot{db: db, key: key}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *MySQLSlot) migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSlotTable); err != nil {
		return fmt.Errorf("create task_slots: %w", err)
	}
	return nil
}

func (s *MySQLSlot) Read(ctx context.Context) ([]byte, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM task_slots WHERE slot_key = ?`, s.key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mysql read slot %q: %w", s.key, err)
	}
	return []byte(value), nil
}

func (s *MySQLSlot) Write(ctx context.Context, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO task_slots (slot_key, value) VALUES (?, ?)
ON DUPLICATE KEY UPDATE value = VALUES(value)`,
		s.key, string(value),
	)
	if err != nil {
		return fmt.Errorf("mysql write slot %q: %w", s.key, err)
	}
	return nil
}

func (s *MySQLSlot) Close(ctx context.Context) error { return s.db.Close() }
