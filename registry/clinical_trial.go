package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// ClinicalTrialRegistry verwaltet klinische Studien, ihre Collections und
// Artifact-Verknüpfungen.
type ClinicalTrialRegistry struct {
	Registry
}

// NewClinicalTrialRegistry erstellt eine neue Instanz.
func NewClinicalTrialRegistry(gdb *gorm.DB, logger *zap.Logger) *ClinicalTrialRegistry {
	return &ClinicalTrialRegistry{Registry{DB: gdb, Logger: logger}}
}

// Create legt eine klinische Studie an; der Name trägt die NCT-ID.
func (r *ClinicalTrialRegistry) Create(ctx context.Context, prov Provenance, trial *models.ClinicalTrial) error {
	trial.CreatedByID = prov.UserID
	trial.RunID = prov.RunID
	if err := r.createRecord(ctx, trial); err != nil {
		return err
	}
	r.Logger.Info("ClinicalTrial created", zap.String("uid", trial.UID), zap.String("name", trial.Name))
	return nil
}

// GetByUID lädt eine Studie über ihre Universal-ID.
func (r *ClinicalTrialRegistry) GetByUID(ctx context.Context, uid string) (*models.ClinicalTrial, error) {
	var trial models.ClinicalTrial
	if err := r.getByUID(ctx, &trial, uid); err != nil {
		return nil, err
	}
	return &trial, nil
}

// Save persistiert Feld-Mutationen einer geladenen Studie.
func (r *ClinicalTrialRegistry) Save(ctx context.Context, trial *models.ClinicalTrial) error {
	return r.saveRecord(ctx, trial)
}

// Delete entfernt eine Studie, sofern keine Verknüpfungen oder Biosamples
// mehr darauf zeigen.
func (r *ClinicalTrialRegistry) Delete(ctx context.Context, uid string) error {
	trial, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, trial)
}

// AddCollection verknüpft eine Collection m2m mit der Studie.
func (r *ClinicalTrialRegistry) AddCollection(ctx context.Context, trial *models.ClinicalTrial, coll *models.Collection) error {
	err := r.DB.WithContext(ctx).Model(trial).Association("Collections").Append(coll)
	return translateWrite(err)
}

// LinkArtifact legt eine Verknüpfungszeile zwischen Studie und Artifact an.
func (r *ClinicalTrialRegistry) LinkArtifact(ctx context.Context, prov Provenance, trial *models.ClinicalTrial, art *models.Artifact, opts LinkOptions) (*models.ArtifactClinicalTrial, error) {
	link := &models.ArtifactClinicalTrial{
		ArtifactID:       art.ID,
		ClinicalTrialID:  trial.ID,
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

// Links liefert alle Verknüpfungszeilen einer Studie.
func (r *ClinicalTrialRegistry) Links(ctx context.Context, trial *models.ClinicalTrial) ([]models.ArtifactClinicalTrial, error) {
	var links []models.ArtifactClinicalTrial
	if err := r.DB.WithContext(ctx).Where("clinical_trial_id = ?", trial.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
