package db

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// Migration ist ein Schema-Evolutionsschritt. Jede Migration benennt explizit
// ihre Vorgänger-Migration, so dass die Anwendungsreihenfolge total geordnet
// ist; nur die erste Migration hat keinen Vorgänger.
type Migration struct {
	ID        string
	DependsOn string
	Migrate   func(tx *gorm.DB) error
}

// schemaMigration protokolliert angewendete Migrationen.
type schemaMigration struct {
	ID        string    `gorm:"primaryKey;size:64"`
	DependsOn string    `gorm:"size:64"`
	AppliedAt time.Time `gorm:"autoCreateTime"`
}

func (schemaMigration) TableName() string { return "schema_migrations" }

// Migrations liefert alle Schema-Migrationen in Anwendungsreihenfolge.
func Migrations() []Migration {
	return []Migration{
		{
			ID: "0001_core",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.User{},
					&models.Run{},
					&models.Artifact{},
					&models.Feature{},
					&models.Collection{},
					&models.Tissue{},
					&models.CellType{},
					&models.Disease{},
					&models.Ethnicity{},
					&models.Source{},
				)
			},
		},
		{
			ID:        "0002_reference",
			DependsOn: "0001_core",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.Reference{},
					&models.ArtifactReference{},
				)
			},
		},
		{
			ID:        "0003_clinical",
			DependsOn: "0002_reference",
			Migrate: func(tx *gorm.DB) error {
				return tx.AutoMigrate(
					&models.ClinicalTrial{},
					&models.ArtifactClinicalTrial{},
					&models.Patient{},
					&models.ArtifactPatient{},
					&models.Medication{},
					&models.ArtifactMedication{},
					&models.Biosample{},
					&models.ArtifactBiosample{},
					&models.Treatment{},
					&models.ArtifactTreatment{},
				)
			},
		},
		{
			// Spätere Schema-Version der Reference: Volltext-Felder.
			// Auf frischen Datenbanken legt bereits 0002 die Spalten an,
			// daher sind die Schritte hier idempotent.
			ID:        "0004_reference_fulltext",
			DependsOn: "0003_clinical",
			Migrate: func(tx *gorm.DB) error {
				for _, col := range []string{"abstract", "full_text", "authors", "published_at"} {
					if tx.Migrator().HasColumn(&models.Reference{}, col) {
						continue
					}
					if err := tx.Migrator().AddColumn(&models.Reference{}, col); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}

// RunMigrations wendet alle ausstehenden Migrationen in Reihenfolge an.
// Eine Migration, deren Vorgänger nicht angewendet ist, wird abgelehnt.
func RunMigrations(gdb *gorm.DB, log *zap.Logger) error {
	return applyMigrations(gdb, log, Migrations())
}

func applyMigrations(gdb *gorm.DB, log *zap.Logger, migrations []Migration) error {
	if err := SetupJoinTables(gdb); err != nil {
		return err
	}
	if err := gdb.AutoMigrate(&schemaMigration{}); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	applied := make(map[string]bool)
	var rows []schemaMigration
	if err := gdb.Find(&rows).Error; err != nil {
		return fmt.Errorf("failed to read schema_migrations: %w", err)
	}
	for _, row := range rows {
		applied[row.ID] = true
	}

	for _, m := range migrations {
		if applied[m.ID] {
			continue
		}
		if m.DependsOn != "" && !applied[m.DependsOn] {
			return fmt.Errorf("migration %s depends on %s, which has not been applied", m.ID, m.DependsOn)
		}
		log.Info("Applying migration", zap.String("id", m.ID))
		err := gdb.Transaction(func(tx *gorm.DB) error {
			if err := m.Migrate(tx); err != nil {
				return err
			}
			return tx.Create(&schemaMigration{ID: m.ID, DependsOn: m.DependsOn}).Error
		})
		if err != nil {
			return fmt.Errorf("migration %s failed: %w", m.ID, err)
		}
		applied[m.ID] = true
	}
	return nil
}
