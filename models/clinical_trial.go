package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"study-hand/ids"
)

// ClinicalTrial modelliert eine klinische Studie. Der Name ist die
// ClinicalTrials.gov-ID ("NCT" gefolgt von einer 8-stelligen Nummer).
type ClinicalTrial struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"uniqueIndex;size:8;<-:create"`

	Name        string `json:"name" gorm:"index;size:255;not null"`
	Title       string `json:"title,omitempty" gorm:"type:text"`
	Objective   string `json:"objective,omitempty" gorm:"type:text"`
	Description string `json:"description,omitempty" gorm:"type:text"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`

	Collections []Collection `json:"-" gorm:"many2many:clinical_trial_collections"`
	Artifacts   []Artifact   `json:"-" gorm:"many2many:artifact_clinical_trials;joinForeignKey:ClinicalTrialID;joinReferences:ArtifactID"`
}

func (ClinicalTrial) TableName() string { return "clinical_trials" }

func (t *ClinicalTrial) RecordUID() string  { return t.UID }
func (t *ClinicalTrial) RecordName() string { return t.Name }

func (t *ClinicalTrial) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return nil
}

func (t *ClinicalTrial) BeforeCreate(tx *gorm.DB) error {
	if t.UID == "" {
		t.UID = ids.Base62_8()
	}
	return t.Validate()
}

func (t *ClinicalTrial) BeforeUpdate(tx *gorm.DB) error { return t.Validate() }

// ArtifactClinicalTrial verknüpft ein Artifact mit einer klinischen Studie.
type ArtifactClinicalTrial struct {
	ID uint64 `json:"id" gorm:"primaryKey"`

	ArtifactID      uint          `json:"artifact_id" gorm:"index;not null"`
	Artifact        Artifact      `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ClinicalTrialID uint          `json:"clinical_trial_id" gorm:"index;not null"`
	ClinicalTrial   ClinicalTrial `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	FeatureID        *uint    `json:"feature_id,omitempty" gorm:"index"`
	Feature          *Feature `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LabelRefIsName   *bool    `json:"label_ref_is_name,omitempty"`
	FeatureRefIsName *bool    `json:"feature_ref_is_name,omitempty"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
}

func (ArtifactClinicalTrial) TableName() string { return "artifact_clinical_trials" }

func (l *ArtifactClinicalTrial) LinkedArtifactID() uint { return l.ArtifactID }
