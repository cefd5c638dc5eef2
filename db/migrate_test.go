package db

import (
	"fmt"
	"strings"
	"testing"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
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
	return gdb
}

func TestMigrationsFormTotalOrder(t *testing.T) {
	migs := Migrations()
	if len(migs) == 0 {
		t.Fatal("no migrations defined")
	}
	if migs[0].DependsOn != "" {
		t.Fatalf("first migration must not declare a dependency, got %q", migs[0].DependsOn)
	}
	for i := 1; i < len(migs); i++ {
		if migs[i].DependsOn != migs[i-1].ID {
			t.Fatalf("migration %s must depend on %s, declares %q", migs[i].ID, migs[i-1].ID, migs[i].DependsOn)
		}
	}
}

func TestRunMigrationsAppliesAndRecords(t *testing.T) {
	gdb := openTestDB(t)
	if err := RunMigrations(gdb, zap.NewNop()); err != nil {
		t.Fatalf("migrations failed: %v", err)
	}

	var rows []schemaMigration
	if err := gdb.Order("applied_at").Find(&rows).Error; err != nil {
		t.Fatalf("reading schema_migrations failed: %v", err)
	}
	if len(rows) != len(Migrations()) {
		t.Fatalf("expected %d applied migrations, got %d", len(Migrations()), len(rows))
	}
	for i, m := range Migrations() {
		if rows[i].ID != m.ID {
			t.Fatalf("migration order mismatch at %d: %s vs %s", i, rows[i].ID, m.ID)
		}
	}

	for _, table := range []string{
		"references", "artifact_references",
		"clinical_trials", "artifact_clinical_trials",
		"biosamples", "artifact_biosamples",
		"patients", "artifact_patients",
		"medications", "artifact_medications",
		"treatments", "artifact_treatments",
		"medication_parents", "biosample_tissues", "clinical_trial_collections",
	} {
		if !gdb.Migrator().HasTable(table) {
			t.Fatalf("expected table %s after migrations", table)
		}
	}
}

func TestRunMigrationsIsIdempotent(t *testing.T) {
	gdb := openTestDB(t)
	for i := 0; i < 2; i++ {
		if err := RunMigrations(gdb, zap.NewNop()); err != nil {
			t.Fatalf("run %d failed: %v", i, err)
		}
	}
	var count int64
	if err := gdb.Model(&schemaMigration{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != int64(len(Migrations())) {
		t.Fatalf("expected %d rows, got %d", len(Migrations()), count)
	}
}

func TestApplyMigrationsRejectsMissingDependency(t *testing.T) {
	gdb := openTestDB(t)
	migs := []Migration{
		{ID: "a", Migrate: func(tx *gorm.DB) error { return nil }},
		{ID: "c", DependsOn: "b", Migrate: func(tx *gorm.DB) error { return nil }},
	}
	err := applyMigrations(gdb, zap.NewNop(), migs)
	if err == nil {
		t.Fatal("expected dependency violation for migration c")
	}
	if !strings.Contains(err.Error(), "depends on") {
		t.Fatalf("unexpected error: %v", err)
	}

	// Der gültige Präfix wurde angewendet und bleibt protokolliert.
	var rows []schemaMigration
	if err := gdb.Find(&rows).Error; err != nil {
		t.Fatalf("reading schema_migrations failed: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != "a" {
		t.Fatalf("expected only migration a to be recorded, got %+v", rows)
	}
}
