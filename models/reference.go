package models

import (
	"fmt"
	"regexp"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"study-hand/ids"
)

// doiRegex akzeptiert nackte DOIs (10.1000/xyz123) sowie die üblichen
// Präfix-Varianten (doi:, DOI:, https://doi.org/, https://dx.doi.org/).
var doiRegex = regexp.MustCompile(`^(?:https?://(?:dx\.)?doi\.org/|doi:|DOI:)?10\.\d+/.*$`)

// Reference modelliert eine bibliographische Referenz (Publikation, Dokument)
// mit eindeutigen Identifikatoren und Metadaten.
type Reference struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"uniqueIndex;size:12;<-:create"`

	Name string  `json:"name" gorm:"index;size:255;not null"`
	Abbr *string `json:"abbr,omitempty" gorm:"uniqueIndex;size:32"`

	// Externe Identifikatoren
	URL      string `json:"url,omitempty" gorm:"size:255"`
	PubmedID *int64 `json:"pubmed_id,omitempty" gorm:"index"`
	DOI      string `json:"doi,omitempty" gorm:"index;size:255"`

	// Volltext-Felder für die Suche
	Text        string         `json:"text,omitempty" gorm:"type:text"`
	Abstract    string         `json:"abstract,omitempty" gorm:"type:text"`
	FullText    string         `json:"full_text,omitempty" gorm:"type:text"`
	Authors     datatypes.JSON `json:"authors,omitempty" gorm:"type:jsonb"`
	PublishedAt *time.Time     `json:"published_at,omitempty" gorm:"index"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`

	Artifacts []Artifact `json:"-" gorm:"many2many:artifact_references;joinForeignKey:ReferenceID;joinReferences:ArtifactID"`
}

func (Reference) TableName() string { return "references" }

func (r *Reference) RecordUID() string  { return r.UID }
func (r *Reference) RecordName() string { return r.Name }

// Validate prüft Pflichtfelder und das DOI-Format.
func (r *Reference) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	if r.DOI != "" && !doiRegex.MatchString(r.DOI) {
		return fmt.Errorf("%w: must be a DOI (e.g., 10.1000/xyz123 or https://doi.org/10.1000/xyz123), got %q", ErrValidation, r.DOI)
	}
	return nil
}

func (r *Reference) BeforeCreate(tx *gorm.DB) error {
	if r.UID == "" {
		r.UID = ids.Base62_12()
	}
	return r.Validate()
}

func (r *Reference) BeforeUpdate(tx *gorm.DB) error { return r.Validate() }

// ArtifactReference verknüpft ein Artifact mit einer Referenz. Löschen des
// Artifacts entfernt die Zeile (CASCADE), die Referenz selbst ist gegen
// Löschen mit offenen Verknüpfungen geschützt (RESTRICT).
type ArtifactReference struct {
	ID uint64 `json:"id" gorm:"primaryKey"`

	ArtifactID  uint      `json:"artifact_id" gorm:"index;not null"`
	Artifact    Artifact  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ReferenceID uint      `json:"reference_id" gorm:"index;not null"`
	Reference   Reference `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	FeatureID        *uint    `json:"feature_id,omitempty" gorm:"index"`
	Feature          *Feature `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LabelRefIsName   *bool    `json:"label_ref_is_name,omitempty"`
	FeatureRefIsName *bool    `json:"feature_ref_is_name,omitempty"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
}

func (ArtifactReference) TableName() string { return "artifact_references" }

func (l *ArtifactReference) LinkedArtifactID() uint { return l.ArtifactID }
