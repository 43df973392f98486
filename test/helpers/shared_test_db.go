package helpers

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/mars-sim/mars-sim-sub055/internal/adapters/persistence"
	"github.com/mars-sim/mars-sim-sub055/internal/infrastructure/database"
)

// SharedTestDB backs the godog suites; scenarios empty it in their Before hook
var SharedTestDB *gorm.DB

// InitializeSharedTestDB opens the store once per TestMain
func InitializeSharedTestDB() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open shared test database: %w", err)
	}
	SharedTestDB = db
	return nil
}

// TruncateAllTables removes every activity log and schedule row
func TruncateAllTables() error {
	if SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}

	wipe := SharedTestDB.Session(&gorm.Session{AllowGlobalUpdate: true})
	for _, model := range []interface{}{&persistence.ActivityLogModel{}, &persistence.TaskScheduleModel{}} {
		if err := wipe.Delete(model).Error; err != nil {
			return fmt.Errorf("failed to truncate %T: %w", model, err)
		}
	}
	return nil
}

// CloseSharedTestDB releases the store after the suites finish
func CloseSharedTestDB() error {
	if SharedTestDB == nil {
		return nil
	}
	db := SharedTestDB
	SharedTestDB = nil
	return database.Close(db)
}
