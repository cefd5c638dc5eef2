package db

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"study-hand/models"
)

// Open stellt die Postgres-Verbindung her und registriert die expliziten
// Join-Tabellen. TranslateError ist aktiv, damit Unique- und FK-Verletzungen
// als gorm.ErrDuplicatedKey bzw. gorm.ErrForeignKeyViolated ankommen.
func Open(dsn string, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	if err := SetupJoinTables(gdb); err != nil {
		return nil, err
	}
	log.Info("Successfully connected to registry database.")
	return gdb, nil
}

// SetupJoinTables registriert für jede Artifact-m2m-Beziehung die explizite
// Link-Tabelle, damit pro Verknüpfung Feature und Flags mitgeführt werden
// können statt einer impliziten Join-Tabelle.
func SetupJoinTables(gdb *gorm.DB) error {
	joins := []struct {
		model any
		field string
		join  any
	}{
		{&models.Reference{}, "Artifacts", &models.ArtifactReference{}},
		{&models.ClinicalTrial{}, "Artifacts", &models.ArtifactClinicalTrial{}},
		{&models.Biosample{}, "Artifacts", &models.ArtifactBiosample{}},
		{&models.Patient{}, "Artifacts", &models.ArtifactPatient{}},
		{&models.Medication{}, "Artifacts", &models.ArtifactMedication{}},
		{&models.Treatment{}, "Artifacts", &models.ArtifactTreatment{}},
	}
	for _, j := range joins {
		if err := gdb.SetupJoinTable(j.model, j.field, j.join); err != nil {
			return fmt.Errorf("failed to set up join table for %T.%s: %w", j.model, j.field, err)
		}
	}
	return nil
}
