package registry

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/models"
)

// Provenance ist der explizite Erstellungskontext eines Datensatzes: wer hat
// ihn angelegt, in welchem Run. Er wird bei jedem Create mitgegeben statt
// über globale "current user"-Lookups aufgelöst.
type Provenance struct {
	UserID *uint
	RunID  *uint
}

// LinkOptions sind die optionalen Metadaten einer Artifact-Verknüpfung.
type LinkOptions struct {
	FeatureID        *uint
	LabelRefIsName   *bool
	FeatureRefIsName *bool
}

// Registry bündelt DB-Handle und Logger; alle Entity-Registries betten es ein.
type Registry struct {
	DB     *gorm.DB
	Logger *zap.Logger
}

// createRecord validiert und speichert einen neuen Datensatz.
func (r *Registry) createRecord(ctx context.Context, rec any) error {
	if v, ok := rec.(models.Validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return translateWrite(err)
	}
	return nil
}

// saveRecord persistiert Feld-Mutationen eines geladenen Datensatzes und
// aktualisiert dabei updated_at.
func (r *Registry) saveRecord(ctx context.Context, rec any) error {
	if v, ok := rec.(models.Validatable); ok {
		if err := v.Validate(); err != nil {
			return err
		}
	}
	if err := r.DB.WithContext(ctx).Save(rec).Error; err != nil {
		return translateWrite(err)
	}
	return nil
}

// deleteRecord löscht einen Datensatz; RESTRICT-Verletzungen werden zu
// ErrProtected.
func (r *Registry) deleteRecord(ctx context.Context, rec any) error {
	if err := r.DB.WithContext(ctx).Delete(rec).Error; err != nil {
		return translateDelete(err)
	}
	return nil
}

// getByUID lädt einen Datensatz über seine Universal-ID in dest.
func (r *Registry) getByUID(ctx context.Context, dest any, uid string) error {
	if err := r.DB.WithContext(ctx).Where("uid = ?", uid).First(dest).Error; err != nil {
		return translateRead(err)
	}
	return nil
}
