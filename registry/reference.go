package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// ReferenceRegistry verwaltet bibliographische Referenzen und ihre
// Artifact-Verknüpfungen.
type ReferenceRegistry struct {
	Registry
}

// NewReferenceRegistry erstellt eine neue Instanz.
func NewReferenceRegistry(gdb *gorm.DB, logger *zap.Logger) *ReferenceRegistry {
	return &ReferenceRegistry{Registry{DB: gdb, Logger: logger}}
}

// Create legt eine Referenz mit explizitem Erstellungskontext an. Die uid
// wird gesetzt, falls sie fehlt; ein ungültiger DOI schlägt als
// ErrValidation fehl.
func (r *ReferenceRegistry) Create(ctx context.Context, prov Provenance, ref *models.Reference) error {
	ref.CreatedByID = prov.UserID
	ref.RunID = prov.RunID
	if err := r.createRecord(ctx, ref); err != nil {
		return err
	}
	r.Logger.Info("Reference created", zap.String("uid", ref.UID), zap.String("name", ref.Name))
	return nil
}

// GetByUID lädt eine Referenz über ihre Universal-ID.
func (r *ReferenceRegistry) GetByUID(ctx context.Context, uid string) (*models.Reference, error) {
	var ref models.Reference
	if err := r.getByUID(ctx, &ref, uid); err != nil {
		return nil, err
	}
	return &ref, nil
}

// Save persistiert Feld-Mutationen einer geladenen Referenz.
func (r *ReferenceRegistry) Save(ctx context.Context, ref *models.Reference) error {
	return r.saveRecord(ctx, ref)
}

// Delete entfernt eine Referenz. Bestehende Artifact-Verknüpfungen
// blockieren das Löschen (RESTRICT).
func (r *ReferenceRegistry) Delete(ctx context.Context, uid string) error {
	ref, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, ref)
}

// LinkArtifact legt eine Verknüpfungszeile zwischen Referenz und Artifact an,
// optional mit Feature und Namens-Flags.
func (r *ReferenceRegistry) LinkArtifact(ctx context.Context, prov Provenance, ref *models.Reference, art *models.Artifact, opts LinkOptions) (*models.ArtifactReference, error) {
	link := &models.ArtifactReference{
		ArtifactID:       art.ID,
		ReferenceID:      ref.ID,
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

// Links liefert alle Verknüpfungszeilen einer Referenz.
func (r *ReferenceRegistry) Links(ctx context.Context, ref *models.Reference) ([]models.ArtifactReference, error) {
	var links []models.ArtifactReference
	if err := r.DB.WithContext(ctx).Where("reference_id = ?", ref.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
