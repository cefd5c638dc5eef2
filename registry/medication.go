package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// MedicationRegistry verwaltet die Medikamenten-Ontologie: Einträge,
// Eltern/Kind-Hierarchie und Artifact-Verknüpfungen.
type MedicationRegistry struct {
	Registry
}

// NewMedicationRegistry erstellt eine neue Instanz.
func NewMedicationRegistry(gdb *gorm.DB, logger *zap.Logger) *MedicationRegistry {
	return &MedicationRegistry{Registry{DB: gdb, Logger: logger}}
}

// Create legt ein Medikament an; (name, ontology_id) ist zusammen eindeutig.
func (r *MedicationRegistry) Create(ctx context.Context, prov Provenance, med *models.Medication) error {
	med.CreatedByID = prov.UserID
	med.RunID = prov.RunID
	if err := r.createRecord(ctx, med); err != nil {
		return err
	}
	r.Logger.Info("Medication created", zap.String("uid", med.UID), zap.String("name", med.Name))
	return nil
}

// GetByUID lädt ein Medikament über seine Universal-ID.
func (r *MedicationRegistry) GetByUID(ctx context.Context, uid string) (*models.Medication, error) {
	var med models.Medication
	if err := r.getByUID(ctx, &med, uid); err != nil {
		return nil, err
	}
	return &med, nil
}

// Save persistiert Feld-Mutationen eines geladenen Medikaments.
func (r *MedicationRegistry) Save(ctx context.Context, med *models.Medication) error {
	return r.saveRecord(ctx, med)
}

// Delete entfernt ein Medikament, sofern keine Verknüpfungen darauf zeigen.
func (r *MedicationRegistry) Delete(ctx context.Context, uid string) error {
	med, err := r.GetByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, med)
}

// AddParent hängt ein Medikament in die Hierarchie unter parent. Zyklen
// werden auf Schema-Ebene nicht verhindert; Aufrufer müssen sie vermeiden.
func (r *MedicationRegistry) AddParent(ctx context.Context, med, parent *models.Medication) error {
	return translateWrite(r.DB.WithContext(ctx).Model(med).Association("Parents").Append(parent))
}

// Parents liefert die direkten Eltern eines Medikaments.
func (r *MedicationRegistry) Parents(ctx context.Context, med *models.Medication) ([]*models.Medication, error) {
	var parents []*models.Medication
	if err := r.DB.WithContext(ctx).Model(med).Association("Parents").Find(&parents); err != nil {
		return nil, err
	}
	return parents, nil
}

// Children liefert die direkten Kinder eines Medikaments.
func (r *MedicationRegistry) Children(ctx context.Context, med *models.Medication) ([]*models.Medication, error) {
	var children []*models.Medication
	if err := r.DB.WithContext(ctx).Model(med).Association("Children").Find(&children); err != nil {
		return nil, err
	}
	return children, nil
}

// LinkArtifact legt eine Verknüpfungszeile zwischen Medikament und Artifact an.
func (r *MedicationRegistry) LinkArtifact(ctx context.Context, prov Provenance, med *models.Medication, art *models.Artifact, opts LinkOptions) (*models.ArtifactMedication, error) {
	link := &models.ArtifactMedication{
		ArtifactID:       art.ID,
		MedicationID:     med.ID,
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

// Links liefert alle Verknüpfungszeilen eines Medikaments.
func (r *MedicationRegistry) Links(ctx context.Context, med *models.Medication) ([]models.ArtifactMedication, error) {
	var links []models.ArtifactMedication
	if err := r.DB.WithContext(ctx).Where("medication_id = ?", med.ID).Find(&links).Error; err != nil {
		return nil, err
	}
	return links, nil
}
