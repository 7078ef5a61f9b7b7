package helpers

import (
	"context"
	"testing"

	"healthdir_backend/database"
	"healthdir_backend/internal/repositories/memory"

	"github.com/stretchr/testify/require"
)

// LoadDirectory truncates the tables and inserts the YAML fixture.
// Fixture IDs map to database IDs through database.SeedID.
func (ts *TestServer) LoadDirectory(t *testing.T, fixture string) {
	t.Helper()
	ts.ClearTables(t)

	seed, err := memory.ParseSeed([]byte(fixture))
	require.NoError(t, err, "fixture must parse")

	written, err := database.SeedDirectory(context.Background(), ts.DB, seed)
	require.NoError(t, err, "fixture must load")
	require.True(t, written, "tables were truncated, seeding must write")
}
