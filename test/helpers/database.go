package helpers

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/andrescamacho/headquartz-go/internal/infrastructure/database"
)

// NewTestDB opens a migrated in-memory SQLite database that is closed with the test
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := database.NewTestConnection()
	require.NoError(t, err, "failed to create test database")
	for _, model := range database.Models() {
		require.True(t, db.Migrator().HasTable(model), "table for %T not migrated", model)
	}

	t.Cleanup(func() {
		_ = database.Close(db)
	})
	return db
}

// SlotRowCount counts the rows a snapshot slot owns across the header and every child table
func SlotRowCount(t *testing.T, db *gorm.DB, slot string) int64 {
	t.Helper()

	var total int64
	for _, model := range database.Models() {
		if !db.Migrator().HasColumn(model, "slot") {
			continue
		}
		var n int64
		require.NoError(t, db.Model(model).Where("slot = ?", slot).Count(&n).Error)
		total += n
	}
	return total
}
