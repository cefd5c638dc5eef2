package models

import (
	"time"

	"gorm.io/gorm"

	"study-hand/ids"
)

// Biosample modelliert eine von einem Patienten gewonnene Probe, z.B. Gewebe,
// Blut oder Zellen.
type Biosample struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"uniqueIndex;size:12;<-:create"`

	Name        string `json:"name,omitempty" gorm:"index;size:255"`
	Batch       string `json:"batch,omitempty" gorm:"index;size:60"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	PatientID       *uint          `json:"patient_id,omitempty" gorm:"index"`
	Patient         *Patient       `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	ClinicalTrialID *uint          `json:"clinical_trial_id,omitempty" gorm:"index"`
	ClinicalTrial   *ClinicalTrial `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	Tissues     []Tissue     `json:"-" gorm:"many2many:biosample_tissues"`
	CellTypes   []CellType   `json:"-" gorm:"many2many:biosample_cell_types"`
	Diseases    []Disease    `json:"-" gorm:"many2many:biosample_diseases"`
	Medications []Medication `json:"-" gorm:"many2many:biosample_medications"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`

	Artifacts []Artifact `json:"-" gorm:"many2many:artifact_biosamples;joinForeignKey:BiosampleID;joinReferences:ArtifactID"`
}

func (Biosample) TableName() string { return "biosamples" }

func (b *Biosample) RecordUID() string  { return b.UID }
func (b *Biosample) RecordName() string { return b.Name }

// Validate: Biosample hat keine Pflichtfelder, auch der Name ist optional.
func (b *Biosample) Validate() error { return nil }

func (b *Biosample) BeforeCreate(tx *gorm.DB) error {
	if b.UID == "" {
		b.UID = ids.Base62_12()
	}
	return nil
}

// ArtifactBiosample verknüpft ein Artifact mit einem Biosample.
type ArtifactBiosample struct {
	ID uint64 `json:"id" gorm:"primaryKey"`

	ArtifactID  uint      `json:"artifact_id" gorm:"index;not null"`
	Artifact    Artifact  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	BiosampleID uint      `json:"biosample_id" gorm:"index;not null"`
	Biosample   Biosample `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	FeatureID        *uint    `json:"feature_id,omitempty" gorm:"index"`
	Feature          *Feature `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LabelRefIsName   *bool    `json:"label_ref_is_name,omitempty"`
	FeatureRefIsName *bool    `json:"feature_ref_is_name,omitempty"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
}

func (ArtifactBiosample) TableName() string { return "artifact_biosamples" }

func (l *ArtifactBiosample) LinkedArtifactID() uint { return l.ArtifactID }
