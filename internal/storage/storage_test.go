package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthdir_backend/internal/config"
	"healthdir_backend/internal/query"
)

const seed = `
hospitals:
  - id: h-1
    name: Hopital Central
    city: Nantes
    verified: true
doctors:
  - id: doc-1
    name: Dr. Ines Blanc
    verified: true
    hospital: h-1
`

func TestNewStorageMemory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o600))

	repo, err := NewStorage(Config{Type: config.StorageMemory, SeedPath: path})
	require.NoError(t, err)

	n, err := repo.Count(context.Background(), query.SourceDoctor, nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NoError(t, repo.Ping(context.Background()))
}

func TestNewStorageMemoryWithoutSeed(t *testing.T) {
	repo, err := NewStorage(Config{Type: config.StorageMemory})
	require.NoError(t, err)

	n, err := repo.Count(context.Background(), query.SourceHospital, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestNewStorageErrors(t *testing.T) {
	_, err := NewStorage(Config{Type: config.StoragePostgres})
	assert.ErrorContains(t, err, "requires a database connection")

	_, err = NewStorage(Config{Type: "s3"})
	assert.ErrorContains(t, err, "unsupported storage type")

	_, err = NewStorage(Config{Type: config.StorageMemory, SeedPath: filepath.Join(t.TempDir(), "missing.yaml")})
	assert.ErrorContains(t, err, "read seed file")
}
