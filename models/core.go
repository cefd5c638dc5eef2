package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"study-hand/ids"
)

// Dieses File deklariert die Kollaborator-Entitäten, auf die die Registries
// nur per Fremdschlüssel verweisen: Nutzer/Run-Provenienz, Artifacts,
// Features, Collections und die Ontologie-Typen. Es werden nur die Spalten
// geführt, die die Registries tatsächlich anfassen.

// User ist der handelnde Nutzer, der einen Datensatz angelegt hat.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UID       string    `json:"uid" gorm:"uniqueIndex;size:8;<-:create"`
	Handle    string    `json:"handle" gorm:"uniqueIndex;size:150;not null"`
	Name      string    `json:"name,omitempty" gorm:"index;size:255"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UID == "" {
		u.UID = ids.Base62_8()
	}
	return nil
}

// Run ist der Ausführungskontext (Pipeline-Lauf, Notebook-Session), in dem
// ein Datensatz entstanden ist.
type Run struct {
	ID         uint       `json:"id" gorm:"primaryKey"`
	UID        string     `json:"uid" gorm:"uniqueIndex;size:36;<-:create"`
	Name       string     `json:"name,omitempty" gorm:"index;size:255"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (r *Run) BeforeCreate(tx *gorm.DB) error {
	if r.UID == "" {
		r.UID = uuid.NewString()
	}
	if r.StartedAt.IsZero() {
		r.StartedAt = time.Now().UTC()
	}
	return nil
}

// Artifact ist eine Datei oder ein Dataset, das über die Link-Tabellen mit
// den Registries verknüpft wird.
type Artifact struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UID         string    `json:"uid" gorm:"uniqueIndex;size:20;<-:create"`
	Key         string    `json:"key,omitempty" gorm:"index;size:1024"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Size        int64     `json:"size,omitempty"`
	Hash        string    `json:"hash,omitempty" gorm:"index;size:86"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
	CreatedByID *uint     `json:"created_by_id,omitempty" gorm:"index"`
	CreatedBy   *User     `json:"-" gorm:"foreignKey:CreatedByID;constraint:OnDelete:RESTRICT"`
	RunID       *uint     `json:"run_id,omitempty" gorm:"index"`
	Run         *Run      `json:"-" gorm:"foreignKey:RunID;constraint:OnDelete:RESTRICT"`
}

func (a *Artifact) BeforeCreate(tx *gorm.DB) error {
	if a.UID == "" {
		a.UID = ids.Base62(20)
	}
	return nil
}

// Feature ist eine Annotations-Dimension, mit der eine Verknüpfung optional
// getaggt werden kann.
type Feature struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UID       string    `json:"uid" gorm:"uniqueIndex;size:12;<-:create"`
	Name      string    `json:"name" gorm:"uniqueIndex;size:255;not null"`
	Dtype     string    `json:"dtype,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (f *Feature) BeforeCreate(tx *gorm.DB) error {
	if f.UID == "" {
		f.UID = ids.Base62_12()
	}
	return nil
}

// Collection bündelt Artifacts; klinische Studien verweisen m2m darauf.
type Collection struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	UID         string    `json:"uid" gorm:"uniqueIndex;size:20;<-:create"`
	Name        string    `json:"name" gorm:"index;size:255;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (c *Collection) BeforeCreate(tx *gorm.DB) error {
	if c.UID == "" {
		c.UID = ids.Base62(20)
	}
	return nil
}

// OntologyTerm fasst die gemeinsamen Spalten der Ontologie-Registries
// (Tissue, CellType, Disease, Ethnicity) zusammen.
type OntologyTerm struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UID        string    `json:"uid" gorm:"uniqueIndex;size:8;<-:create"`
	Name       string    `json:"name" gorm:"index;size:255;not null"`
	OntologyID string    `json:"ontology_id,omitempty" gorm:"index;size:32"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (o *OntologyTerm) BeforeCreate(tx *gorm.DB) error {
	if o.UID == "" {
		o.UID = ids.Base62_8()
	}
	return nil
}

// Tissue ist ein Gewebe-Ontologie-Begriff (z.B. UBERON).
type Tissue struct {
	OntologyTerm `gorm:"embedded"`
}

// CellType ist ein Zelltyp-Ontologie-Begriff (z.B. CL).
type CellType struct {
	OntologyTerm `gorm:"embedded"`
}

// Disease ist ein Krankheits-Ontologie-Begriff (z.B. MONDO).
type Disease struct {
	OntologyTerm `gorm:"embedded"`
}

// Ethnicity ist ein Ethnizität-Ontologie-Begriff (z.B. HANCESTRO).
type Ethnicity struct {
	OntologyTerm `gorm:"embedded"`
}

// Source beschreibt die Ontologie-Quelle (Name + Version) eines Eintrags.
type Source struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UID       string    `json:"uid" gorm:"uniqueIndex;size:8;<-:create"`
	Name      string    `json:"name" gorm:"index;size:64;not null"`
	Version   string    `json:"version,omitempty" gorm:"size:64"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.UID == "" {
		s.UID = ids.Base62_8()
	}
	return nil
}
