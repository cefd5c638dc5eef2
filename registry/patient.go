package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// PatientRegistry verwaltet Patienten und ihre Artifact-Verknüpfungen.
type PatientRegistry struct {
	Registry
}

// NewPatientRegistry erstellt eine neue Instanz.
func NewPatientRegistry(gdb *gorm.DB, logger *zap.Logger) *PatientRegistry {
	return &PatientRegistry{Registry{DB: gdb, Logger: logger}}
}

// Create legt einen Patienten an. Ein Gender außerhalb der festen
// Wertemenge schlägt als ErrValidation fehl.
func (r *PatientRegistry) Create(ctx context.Context, prov Provenance, patient *models.Patient) error {
	patient.CreatedByID = prov.UserID
	patient.RunID = prov.RunID
	if err := r.createRecord(ctx, patient); err != nil {
		return err
	}
	r.Logger.Info("Patient created", zap.String("uid", patient.UID))
	return nil
}

// GetByUID lädt einen Patienten über seine Universal-ID.
func (r *PatientRegistry) GetByUID(ctx context.Context, uid string) (*models.Patient, error) {
	var patient models.Patient
	if err := r.getByUID(ctx, &patient, uid); err != nil {
		return nil, err
	}
	return &patient, nil
}

// Save persistiert Feld-Mutationen eines geladenen Patienten.
func (r *PatientRegistry) Save(ctx context.Context, patient *models.Patient) error {
	return r.saveRecord(ctx, patient)
}

// Delete entfernt einen Patienten, sofern weder Verknüpfungen noch
// Biosamples darauf zeigen.
func (r *PatientRegistry) Delete(ctx context.Context, uid string) error {
	patient, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, patient)
}

// LinkArtifact legt eine Verknüpfungszeile zwischen Patient und Artifact an.
func (r *PatientRegistry) LinkArtifact(ctx context.Context, prov Provenance, patient *models.Patient, art *models.Artifact, opts LinkOptions) (*models.ArtifactPatient, error) {
	link := &models.ArtifactPatient{
		ArtifactID:       art.ID,
		PatientID:        patient.ID,
		FeatureID:        opts.FeatureID,
		LabelRefIsName:   opts.LabelRefIsName,
		FeatureRefIsName: opts.FeatureRefIsName,
		CreatedByID:      prov.UserID,
		RunID:            prov.RunID,
	}
	if err := r.createRecord(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// Links liefert alle Verknüpfungszeilen eines Patienten.
func (r *PatientRegistry) Links(ctx context.Context, patient *models.Patient) ([]models.ArtifactPatient, error) {
	var links []models.ArtifactPatient
	if err := r.DB.WithContext(ctx).Where("patient_id = ?", patient.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
