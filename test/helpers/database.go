package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory store that is closed with the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	require.NoError(t, err, "open activity log store")
	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}
