package storage

import (
	"fmt"

	"moodtrack.app/config"
)

// NewStore builds the KeyValueStore selected by STORAGE_TYPE.
func NewStore(cfg *config.StorageConfig) (KeyValueStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		return NewRedisStore(&cfg.Redis)
	case "sqlite":
		return NewSQLiteStore(cfg.SQLitePath)
	case "postgres":
		return NewPostgresStore(&cfg.Postgres)
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
