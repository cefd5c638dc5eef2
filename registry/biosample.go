package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// BiosampleRegistry verwaltet Bioproben samt Ontologie- und
// Artifact-Verknüpfungen.
type BiosampleRegistry struct {
	Registry
}

// NewBiosampleRegistry erstellt eine neue Instanz.
func NewBiosampleRegistry(gdb *gorm.DB, logger *zap.Logger) *BiosampleRegistry {
	return &BiosampleRegistry{Registry{DB: gdb, Logger: logger}}
}

// Create legt ein Biosample an. Patient und Studie sind optionale
// Fremdschlüssel; zeigen sie ins Leere, schlägt das Anlegen fehl.
func (r *BiosampleRegistry) Create(ctx context.Context, prov Provenance, sample *models.Biosample) error {
	sample.CreatedByID = prov.UserID
	sample.RunID = prov.RunID
	if err := r.createRecord(ctx, sample); err != nil {
		return err
	}
	r.Logger.Info("Biosample created", zap.String("uid", sample.UID), zap.String("batch", sample.Batch))
	return nil
}

// GetByUID lädt ein Biosample über seine Universal-ID.
func (r *BiosampleRegistry) GetByUID(ctx context.Context, uid string) (*models.Biosample, error) {
	var sample models.Biosample
	if err := r.getByUID(ctx, &sample, uid); err != nil {
		return nil, err
	}
	return &sample, nil
}

// Save persistiert Feld-Mutationen eines geladenen Biosamples.
func (r *BiosampleRegistry) Save(ctx context.Context, sample *models.Biosample) error {
	return r.saveRecord(ctx, sample)
}

// Delete entfernt ein Biosample, sofern keine Verknüpfungen darauf zeigen.
func (r *BiosampleRegistry) Delete(ctx context.Context, uid string) error {
	sample, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, sample)
}

// AddTissue verknüpft einen Gewebe-Begriff m2m mit dem Biosample.
func (r *BiosampleRegistry) AddTissue(ctx context.Context, sample *models.Biosample, tissue *models.Tissue) error {
	return translateWrite(r.DB.WithContext(ctx).Model(sample).Association("Tissues").Append(tissue))
}

// AddCellType verknüpft einen Zelltyp m2m mit dem Biosample.
func (r *BiosampleRegistry) AddCellType(ctx context.Context, sample *models.Biosample, ct *models.CellType) error {
	return translateWrite(r.DB.WithContext(ctx).Model(sample).Association("CellTypes").Append(ct))
}

// AddDisease verknüpft einen Krankheits-Begriff m2m mit dem Biosample.
func (r *BiosampleRegistry) AddDisease(ctx context.Context, sample *models.Biosample, d *models.Disease) error {
	return translateWrite(r.DB.WithContext(ctx).Model(sample).Association("Diseases").Append(d))
}

// AddMedication verknüpft ein Medikament m2m mit dem Biosample.
func (r *BiosampleRegistry) AddMedication(ctx context.Context, sample *models.Biosample, med *models.Medication) error {
	return translateWrite(r.DB.WithContext(ctx).Model(sample).Association("Medications").Append(med))
}

// LinkArtifact legt eine Verknüpfungszeile zwischen Biosample und Artifact an.
func (r *BiosampleRegistry) LinkArtifact(ctx context.Context, prov Provenance, sample *models.Biosample, art *models.Artifact, opts LinkOptions) (*models.ArtifactBiosample, error) {
	link := &models.ArtifactBiosample{
		ArtifactID:       art.ID,
		BiosampleID:      sample.ID,
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

// Links liefert alle Verknüpfungszeilen eines Biosamples.
func (r *BiosampleRegistry) Links(ctx context.Context, sample *models.Biosample) ([]models.ArtifactBiosample, error) {
	var links []models.ArtifactBiosample
	if err := r.DB.WithContext(ctx).Where("biosample_id = ?", sample.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
