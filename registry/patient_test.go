package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"study-hand/models"
)

func TestPatientCreate(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	patients := NewPatientRegistry(gdb, zap.NewNop())

	age := 45
	patient := &models.Patient{Name: "Patient 5446", Age: &age, Gender: models.GenderFemale}
	if err := patients.Create(context.Background(), prov, patient); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(patient.UID) != 12 {
		t.Fatalf("expected 12-character uid, got %q", patient.UID)
	}
}

func TestPatientRejectsUnknownGender(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	patients := NewPatientRegistry(gdb, zap.NewNop())

	patient := &models.Patient{Name: "Patient X", Gender: "robot"}
	if err := patients.Create(context.Background(), prov, patient); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown gender, got %v", err)
	}
}

func TestPatientUpdateTouchesUpdatedAt(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	patients := NewPatientRegistry(gdb, zap.NewNop())

	patient := &models.Patient{Name: "Patient 1"}
	if err := patients.Create(context.Background(), prov, patient); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	created := patient.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	deceased := false
	patient.Deceased = &deceased
	if err := patients.Save(context.Background(), patient); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var reloaded models.Patient
	if err := gdb.First(&reloaded, patient.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.UpdatedAt.After(created) {
		t.Fatalf("updated_at not advanced: %v vs %v", reloaded.UpdatedAt, created)
	}
	if reloaded.Deceased == nil || *reloaded.Deceased {
		t.Fatalf("deceased flag not persisted: %+v", reloaded)
	}
}

func TestPatientEthnicityRestrict(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	patients := NewPatientRegistry(gdb, zap.NewNop())

	ethnicity := &models.Ethnicity{}
	ethnicity.Name = "European"
	if err := gdb.Create(ethnicity).Error; err != nil {
		t.Fatalf("create ethnicity failed: %v", err)
	}

	patient := &models.Patient{Name: "Patient 2", EthnicityID: &ethnicity.ID}
	if err := patients.Create(context.Background(), prov, patient); err != nil {
		t.Fatalf("create patient failed: %v", err)
	}

	err := gdb.Delete(ethnicity).Error
	if err == nil {
		t.Fatalf("deleting a referenced ethnicity must be blocked")
	}
}

func TestPatientArtifactLinks(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	patients := NewPatientRegistry(gdb, zap.NewNop())

	patient := &models.Patient{Name: "Patient 3"}
	if err := patients.Create(context.Background(), prov, patient); err != nil {
		t.Fatalf("create patient failed: %v", err)
	}
	art := createTestArtifact(t, gdb, prov, "patients/3/mri.nii")
	link, err := patients.LinkArtifact(context.Background(), prov, patient, art, LinkOptions{})
	if err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if link.PatientID != patient.ID || link.ArtifactID != art.ID {
		t.Fatalf("link row references wrong rows: %+v", link)
	}

	links, err := patients.Links(context.Background(), patient)
	if err != nil {
		t.Fatalf("links query failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
}
