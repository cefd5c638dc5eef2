package registry

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"study-hand/db"
	"study-hand/models"
)

// newTestDB öffnet eine isolierte In-Memory-SQLite-Datenbank mit aktiven
// Fremdschlüsseln und wendet alle Migrationen an.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_fk=1", name)
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite test db: %v", err)
	}
	if err := db.RunMigrations(gdb, zap.NewNop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return gdb
}

// testProvenance legt einen Nutzer und einen Run an und liefert den
// Erstellungskontext dazu.
func testProvenance(t *testing.T, gdb *gorm.DB) Provenance {
	t.Helper()
	core := NewCoreRegistry(gdb, zap.NewNop())
	user := &models.User{Handle: "testuser"}
	if err := core.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	run, err := core.StartRun(context.Background(), "test-run")
	if err != nil {
		t.Fatalf("failed to start run: %v", err)
	}
	return Provenance{UserID: &user.ID, RunID: &run.ID}
}

func createTestArtifact(t *testing.T, gdb *gorm.DB, prov Provenance, key string) *models.Artifact {
	t.Helper()
	core := NewCoreRegistry(gdb, zap.NewNop())
	art := &models.Artifact{Key: key}
	if err := core.CreateArtifact(context.Background(), prov, art); err != nil {
		t.Fatalf("failed to create artifact: %v", err)
	}
	return art
}
