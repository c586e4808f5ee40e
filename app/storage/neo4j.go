package storage

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Neo4jSlot keeps the value as a property of a (:Slot {key}) node.
type Neo4jSlot struct {
	driver neo4j.DriverWithContext
	key    string
}

// NewNeo4jSlot returns a slot stored through driver. The slot owns the driver
// and closes it on Close.
func NewNeo4jSlot(driver neo4j.DriverWithContext, key string) *Neo4jSlot {
	return &Neo4jSlot{driver: driver, key: key}
}

func (s *Neo4jSlot) Read(ctx context.Context) ([]byte, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (s:Slot {key: $key}) RETURN s.value AS value",
			map[string]any{"key": s.key},
		)
		if err != nil {
			return nil, err
		}

		if res.Next(ctx) {
			value, _ := res.Record().Get("value")
			return slotValue(value)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return nil, fmt.Errorf("neo4j read slot %q: %w", s.key, err)
	}

	if result == nil {
		return nil, nil
	}
	return result.([]byte), nil
}

func (s *Neo4jSlot) Write(ctx context.Context, value []byte) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MERGE (s:Slot {key: $key}) "+
				"SET s.value = $value, s.updated_at = datetime()",
			map[string]any{
				"key":   s.key,
				"value": string(value),
			},
		)
		return nil, err
	})
	if err != nil {
		return fmt.Errorf("neo4j write slot %q: %w", s.key, err)
	}
	return nil
}

func (s *Neo4jSlot) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// slotValue converts a stored value property. A missing property is an empty
// slot; any type other than a string is an error so that the next write does
// not replace data that could not be read.
func slotValue(value any) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	}
	return nil, fmt.Errorf("slot value has type %T, want string", value)
}
