package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"study-hand/ids"
)

// Zulässige Werte für Patient.Gender.
const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderOther   = "other"
	GenderUnknown = "unknown"
)

// GenderChoices ist die feste Wertemenge des Gender-Enums.
var GenderChoices = []string{GenderMale, GenderFemale, GenderOther, GenderUnknown}

// Patient modelliert einen Patienten einer klinischen Studie. Interne
// Patienten-IDs werden über das uid-Feld abgebildet.
type Patient struct {
	ID  uint   `json:"id" gorm:"primaryKey"`
	UID string `json:"uid" gorm:"uniqueIndex;size:12;<-:create"`

	Name   string `json:"name" gorm:"index;size:255;not null"`
	Age    *int   `json:"age,omitempty" gorm:"index"`
	Gender string `json:"gender,omitempty" gorm:"index;size:10"`

	EthnicityID *uint      `json:"ethnicity_id,omitempty" gorm:"index"`
	Ethnicity   *Ethnicity `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	BirthDate    *time.Time `json:"birth_date,omitempty" gorm:"index;type:date"`
	Deceased     *bool      `json:"deceased,omitempty" gorm:"index"`
	DeceasedDate *time.Time `json:"deceased_date,omitempty" gorm:"index;type:date"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`

	Artifacts []Artifact `json:"-" gorm:"many2many:artifact_patients;joinForeignKey:PatientID;joinReferences:ArtifactID"`
}

func (Patient) TableName() string { return "patients" }

func (p *Patient) RecordUID() string  { return p.UID }
func (p *Patient) RecordName() string { return p.Name }

func (p *Patient) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}
	return validateChoice("gender", p.Gender, GenderChoices)
}

func (p *Patient) BeforeCreate(tx *gorm.DB) error {
	if p.UID == "" {
		p.UID = ids.Base62_12()
	}
	return p.Validate()
}

func (p *Patient) BeforeUpdate(tx *gorm.DB) error { return p.Validate() }

// ArtifactPatient verknüpft ein Artifact mit einem Patienten.
type ArtifactPatient struct {
	ID uint64 `json:"id" gorm:"primaryKey"`

	ArtifactID uint     `json:"artifact_id" gorm:"index;not null"`
	Artifact   Artifact `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	PatientID  uint     `json:"patient_id" gorm:"index;not null"`
	Patient    Patient  `json:"-" gorm:"constraint:OnDelete:RESTRICT"`

	FeatureID        *uint    `json:"feature_id,omitempty" gorm:"index"`
	Feature          *Feature `json:"-" gorm:"constraint:OnDelete:RESTRICT"`
	LabelRefIsName   *bool    `json:"label_ref_is_name,omitempty"`
	FeatureRefIsName *bool    `json:"feature_ref_is_name,omitempty"`

	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
}

func (ArtifactPatient) TableName() string { return "artifact_patients" }

func (l *ArtifactPatient) LinkedArtifactID() uint { return l.ArtifactID }
