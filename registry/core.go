package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// CoreRegistry verwaltet die Kollaborator-Entitäten (Artifacts, Features,
// Collections, Nutzer, Runs, Ontologie-Begriffe), auf die die Fach-Registries
// per Fremdschlüssel verweisen.
type CoreRegistry struct {
	Registry
}

// NewCoreRegistry erstellt eine neue Instanz.
func NewCoreRegistry(gdb *gorm.DB, logger *zap.Logger) *CoreRegistry {
	return &CoreRegistry{Registry{DB: gdb, Logger: logger}}
}

// CreateArtifact legt ein Artifact an.
func (r *CoreRegistry) CreateArtifact(ctx context.Context, prov Provenance, art *models.Artifact) error {
	art.CreatedByID = prov.UserID
	art.RunID = prov.RunID
	return r.createRecord(ctx, art)
}

// GetArtifactByUID lädt ein Artifact über seine Universal-ID.
func (r *CoreRegistry) GetArtifactByUID(ctx context.Context, uid string) (*models.Artifact, error) {
	var art models.Artifact
	if err := r.getByUID(ctx, &art, uid); err != nil {
		return nil, err
	}
	return &art, nil
}

// DeleteArtifact löscht ein Artifact. Seine Verknüpfungszeilen werden per
// CASCADE mitgelöscht; die verknüpften Fach-Datensätze bleiben bestehen.
func (r *CoreRegistry) DeleteArtifact(ctx context.Context, uid string) error {
	art, err := r.GetArtifactByUID(ctx, uid)
	if err != nil {
		return err
	}
	return r.deleteRecord(ctx, art)
}

// CreateFeature legt eine Feature-Annotation an.
func (r *CoreRegistry) CreateFeature(ctx context.Context, feature *models.Feature) error {
	return r.createRecord(ctx, feature)
}

// CreateCollection legt eine Collection an.
func (r *CoreRegistry) CreateCollection(ctx context.Context, coll *models.Collection) error {
	return r.createRecord(ctx, coll)
}

// GetCollectionByUID lädt eine Collection über ihre Universal-ID.
func (r *CoreRegistry) GetCollectionByUID(ctx context.Context, uid string) (*models.Collection, error) {
	var coll models.Collection
	if err := r.getByUID(ctx, &coll, uid); err != nil {
		return nil, err
	}
	return &coll, nil
}

// CreateUser legt einen Nutzer an.
func (r *CoreRegistry) CreateUser(ctx context.Context, user *models.User) error {
	return r.createRecord(ctx, user)
}

// StartRun legt einen neuen Ausführungskontext an und gibt ihn zurück.
func (r *CoreRegistry) StartRun(ctx context.Context, name string) (*models.Run, error) {
	run := &models.Run{Name: name}
	if err := r.createRecord(ctx, run); err != nil {
		return nil, err
	}
	r.Logger.Info("Run started", zap.String("uid", run.UID), zap.String("name", name))
	return run, nil
}
