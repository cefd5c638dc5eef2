package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"study-hand/ids"
)

// Medication modelliert ein Medikament als Ontologie-Eintrag: (name,
// ontology_id) ist zusammen eindeutig, und Einträge bilden über parents eine
// Hierarchie. Zyklen werden auf Schema-Ebene nicht verhindert; Aufrufer
// müssen sie vermeiden.
type Medication struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"uniqueIndex;size:8;<-:create"`

	Name       string  `json:"name" gorm:"index;size:256;not null;uniqueIndex:idx_medications_name_ontology_id"`
	OntologyID *string `json:"ontology_id,omitempty" gorm:"index;size:32;uniqueIndex:idx_medications_name_ontology_id"`
	ChemblID   *string `json:"chembl_id,omitempty" gorm:"index;size:32"`
	Abbr       *string `json:"abbr,omitempty" gorm:"uniqueIndex;size:32"`

	// Synonyme, getrennt durch "|"
	Synonyms    string `json:"synonyms,omitempty" gorm:"type:text"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	SourceID *uint   `json:"source_id,omitempty" gorm:"index"`
	Source   *Source `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	Parents  []*Medication `json:"-" gorm:"many2many:medication_parents;joinForeignKey:MedicationID;joinReferences:ParentID"`
	Children []*Medication `json:"-" gorm:"many2many:medication_parents;joinForeignKey:ParentID;joinReferences:MedicationID"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`

	Artifacts []Artifact `json:"-" gorm:"many2many:artifact_medications;joinForeignKey:MedicationID;joinReferences:ArtifactID"`
}

func (Medication) TableName() string { return "medications" }

func (m *Medication) RecordUID() string  { return m.UID }
func (m *Medication) RecordName() string { return m.Name }

func (m *Medication) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

func (m *Medication) BeforeCreate(tx *gorm.DB) error {
	if m.UID == "" {
		m.UID = ids.Base62_8()
	}
	return m.Validate()
}

func (m *Medication) BeforeUpdate(tx *gorm.DB) error { return m.Validate() }

// ArtifactMedication verknüpft ein Artifact mit einem Medikament.
type ArtifactMedication struct {
	ID uint64 `json:"id" gorm:"primaryKey"`

	ArtifactID   uint       `json:"artifact_id" gorm:"index;not null"`
	Artifact     Artifact   `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	MedicationID uint       `json:"medication_id" gorm:"index;not null"`
	Medication   Medication `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	FeatureID        *uint    `json:"feature_id,omitempty" gorm:"index"`
	Feature          *Feature `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LabelRefIsName   *bool    `json:"label_ref_is_name,omitempty"`
	FeatureRefIsName *bool    `json:"feature_ref_is_name,omitempty"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
}

func (ArtifactMedication) TableName() string { return "artifact_medications" }

func (l *ArtifactMedication) LinkedArtifactID() uint { return l.ArtifactID }
