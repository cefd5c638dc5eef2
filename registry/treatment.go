package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// TreatmentRegistry verwaltet Behandlungen und ihre Artifact-Verknüpfungen.
type TreatmentRegistry struct {
	Registry
}

// NewTreatmentRegistry erstellt eine neue Instanz.
func NewTreatmentRegistry(gdb *gorm.DB, logger *zap.Logger) *TreatmentRegistry {
	return &TreatmentRegistry{Registry{DB: gdb, Logger: logger}}
}

// Create legt eine Behandlung an. Ein Status außerhalb der festen
// Wertemenge schlägt als ErrValidation fehl.
func (r *TreatmentRegistry) Create(ctx context.Context, prov Provenance, treatment *models.Treatment) error {
	treatment.CreatedByID = prov.UserID
	treatment.RunID = prov.RunID
	if err := r.createRecord(ctx, treatment); err != nil {
		return err
	}
	r.Logger.Info("Treatment created", zap.String("uid", treatment.UID), zap.String("name", treatment.Name))
	return nil
}

// GetByUID lädt eine Behandlung über ihre Universal-ID.
func (r *TreatmentRegistry) GetByUID(ctx context.Context, uid string) (*models.Treatment, error) {
	var treatment models.Treatment
	if err := r.getByUID(ctx, &treatment, uid); err != nil {
		return nil, err
	}
	return &treatment, nil
}

// Save persistiert Feld-Mutationen einer geladenen Behandlung.
func (r *TreatmentRegistry) Save(ctx context.Context, treatment *models.Treatment) error {
	return r.saveRecord(ctx, treatment)
}

// Delete entfernt eine Behandlung, sofern keine Verknüpfungen darauf zeigen.
func (r *TreatmentRegistry) Delete(ctx context.Context, uid string) error {
	treatment, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, treatment)
}

// LinkArtifact legt eine Verknüpfungszeile zwischen Behandlung und Artifact an.
func (r *TreatmentRegistry) LinkArtifact(ctx context.Context, prov Provenance, treatment *models.Treatment, art *models.Artifact, opts LinkOptions) (*models.ArtifactTreatment, error) {
	link := &models.ArtifactTreatment{
		ArtifactID:       art.ID,
		TreatmentID:      treatment.ID,
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

// Links liefert alle Verknüpfungszeilen einer Behandlung.
func (r *TreatmentRegistry) Links(ctx context.Context, treatment *models.Treatment) ([]models.ArtifactTreatment, error) {
	var links []models.ArtifactTreatment
	if err := r.DB.WithContext(ctx).Where("treatment_id = ?", treatment.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
