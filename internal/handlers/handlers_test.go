package handlers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/alexedwards/scs/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"marmitaria/internal/db"
)

func withTestSessionManager(t *testing.T) (*scs.SessionManager, func()) {
	t.Helper()
	original := sessionManager
	sm := scs.New()
	sessionManager = sm
	return sm, func() {
		sessionManager = original
	}
}

func withTestDatabase(t *testing.T) (*gorm.DB, func()) {
	t.Helper()
	original := database
	dsn := fmt.Sprintf("file:handlers-%s?mode=memory&cache=shared", t.Name())
	testDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite database: %v", err)
	}
	if err := db.AutoMigrate(testDB); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	database = testDB
	return testDB, func() {
		database = original
		if sqlDB, err := testDB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func uintString(id uint) string {
	return fmt.Sprintf("%d", id)
}

// withSession loads a session context onto the request so handlers that
// touch the session manager can run outside the LoadAndSave middleware.
func withSession(t *testing.T, sm *scs.SessionManager, r *http.Request) *http.Request {
	t.Helper()
	ctx, err := sm.Load(r.Context(), "")
	if err != nil {
		t.Fatalf("failed to load session context: %v", err)
	}
	return r.WithContext(ctx)
}
