package testutil

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/contracts-tracker/internal/repository"
)

// OpenSQLite opens a migrated in-memory database private to the test.
func OpenSQLite(t *testing.T) *repository.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", name)
	db, err := repository.Open(context.Background(), repository.Config{Driver: "sqlite", DSN: dsn}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close(nil) })
	require.NoError(t, repository.EnsureSchema(context.Background(), db))
	return db
}
