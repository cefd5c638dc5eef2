package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"study-hand/ids"
)

// Zulässige Werte für Treatment.Status (angelehnt an FHIR MedicationAdministration).
const (
	TreatmentInProgress     = "in-progress"
	TreatmentCompleted      = "completed"
	TreatmentEnteredInError = "entered-in-error"
	TreatmentStopped        = "stopped"
	TreatmentOnHold         = "on-hold"
	TreatmentUnknown        = "unknown"
	TreatmentNotDone        = "not-done"
)

// TreatmentStatusChoices ist die feste Wertemenge des Status-Enums.
var TreatmentStatusChoices = []string{
	TreatmentInProgress,
	TreatmentCompleted,
	TreatmentEnteredInError,
	TreatmentStopped,
	TreatmentOnHold,
	TreatmentUnknown,
	TreatmentNotDone,
}

// Treatment modelliert eine Behandlung, z.B. die Gabe eines Medikaments.
type Treatment struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"uniqueIndex;size:12;<-:create"`

	Name   string `json:"name" gorm:"index;size:255;not null"`
	Status string `json:"status,omitempty" gorm:"size:16"`

	MedicationID *uint       `json:"medication_id,omitempty" gorm:"index"`
	Medication   *Medication `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	Dosage               *float64       `json:"dosage,omitempty"`
	DosageUnit           string         `json:"dosage_unit,omitempty" gorm:"size:32"`
	AdministeredDatetime *time.Time     `json:"administered_datetime,omitempty"`
	Duration             *time.Duration `json:"duration,omitempty"`
	Route                string         `json:"route,omitempty" gorm:"size:32"`
	Site                 string         `json:"site,omitempty" gorm:"size:32"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`

	Artifacts []Artifact `json:"-" gorm:"many2many:artifact_treatments;joinForeignKey:TreatmentID;joinReferences:ArtifactID"`
}

func (Treatment) TableName() string { return "treatments" }

func (t *Treatment) RecordUID() string  { return t.UID }
func (t *Treatment) RecordName() string { return t.Name }

func (t *Treatment) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return validateChoice("status", t.Status, TreatmentStatusChoices)
}

func (t *Treatment) BeforeCreate(tx *gorm.DB) error {
	if t.UID == "" {
		t.UID = ids.Base62_12()
	}
	return t.Validate()
}

func (t *Treatment) BeforeUpdate(tx *gorm.DB) error { return t.Validate() }

// ArtifactTreatment verknüpft ein Artifact mit einer Behandlung.
type ArtifactTreatment struct {
	ID uint64 `json:"id" gorm:"primaryKey"`

	ArtifactID  uint      `json:"artifact_id" gorm:"index;not null"`
	Artifact    Artifact  `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	TreatmentID uint      `json:"treatment_id" gorm:"index;not null"`
	Treatment   Treatment `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	FeatureID        *uint    `json:"feature_id,omitempty" gorm:"index"`
	Feature          *Feature `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LabelRefIsName   *bool    `json:"label_ref_is_name,omitempty"`
	FeatureRefIsName *bool    `json:"feature_ref_is_name,omitempty"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
}

func (ArtifactTreatment) TableName() string { return "artifact_treatments" }

func (l *ArtifactTreatment) LinkedArtifactID() uint { return l.ArtifactID }
