// Package storage selects the directory backend the search engine reads from.
package storage

import (
	"errors"
	"fmt"

	"healthdir_backend/internal/config"
	"healthdir_backend/internal/repositories"
	"healthdir_backend/internal/repositories/memory"

	"gorm.io/gorm"
)

// Config holds storage configuration
type Config struct {
	Type     string   // postgres, memory
	DB       *gorm.DB // For postgres
	SeedPath string   // For memory; empty starts with an empty directory
}

// NewStorage creates the directory repository based on configuration
func NewStorage(cfg Config) (repositories.DirectoryRepository, error) {
	switch cfg.Type {
	case config.StoragePostgres:
		if cfg.DB == nil {
			return nil, errors.New("postgres storage requires a database connection")
		}
		return repositories.NewDirectoryRepository(cfg.DB), nil
	case config.StorageMemory:
		return newMemoryStorage(cfg.SeedPath)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

func newMemoryStorage(seedPath string) (*memory.Store, error) {
	var seed memory.Seed
	if seedPath != "" {
		var err error
		seed, err = memory.LoadSeedFile(seedPath)
		if err != nil {
			return nil, err
		}
	}
	store, err := memory.New(seed)
	if err != nil {
		return nil, fmt.Errorf("build memory store: %w", err)
	}
	return store, nil
}
