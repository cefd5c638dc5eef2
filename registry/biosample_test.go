package registry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"study-hand/models"
)

func TestBiosampleCreateWithForeignKeys(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	samples := NewBiosampleRegistry(gdb, zap.NewNop())
	patients := NewPatientRegistry(gdb, zap.NewNop())
	trials := NewClinicalTrialRegistry(gdb, zap.NewNop())

	patient := &models.Patient{Name: "Patient 7"}
	if err := patients.Create(context.Background(), prov, patient); err != nil {
		t.Fatalf("create patient failed: %v", err)
	}
	trial := &models.ClinicalTrial{Name: "NCT11112222"}
	if err := trials.Create(context.Background(), prov, trial); err != nil {
		t.Fatalf("create trial failed: %v", err)
	}

	sample := &models.Biosample{
		Name:            "control",
		Batch:           "ctrl_1",
		PatientID:       &patient.ID,
		ClinicalTrialID: &trial.ID,
	}
	if err := samples.Create(context.Background(), prov, sample); err != nil {
		t.Fatalf("create biosample failed: %v", err)
	}
	if len(sample.UID) != 12 {
		t.Fatalf("expected 12-character uid, got %q", sample.UID)
	}

	// Der referenzierte Patient ist gegen Löschen geschützt.
	if err := patients.Delete(context.Background(), patient.UID); !errors.Is(err, ErrProtected) {
		t.Fatalf("expected ErrProtected for referenced patient, got %v", err)
	}
}

func TestBiosampleRejectsUnknownPatient(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	samples := NewBiosampleRegistry(gdb, zap.NewNop())

	bogus := uint(424242)
	sample := &models.Biosample{Name: "orphan", PatientID: &bogus}
	if err := samples.Create(context.Background(), prov, sample); !errors.Is(err, ErrInvalidReference) {
		t.Fatalf("expected ErrInvalidReference, got %v", err)
	}
}

func TestBiosampleOntologyAssociations(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	samples := NewBiosampleRegistry(gdb, zap.NewNop())
	meds := NewMedicationRegistry(gdb, zap.NewNop())

	sample := &models.Biosample{Batch: "b1"}
	if err := samples.Create(context.Background(), prov, sample); err != nil {
		t.Fatalf("create biosample failed: %v", err)
	}

	tissue := &models.Tissue{}
	tissue.Name = "lung"
	tissue.OntologyID = "UBERON:0002048"
	if err := gdb.Create(tissue).Error; err != nil {
		t.Fatalf("create tissue failed: %v", err)
	}
	if err := samples.AddTissue(context.Background(), sample, tissue); err != nil {
		t.Fatalf("add tissue failed: %v", err)
	}

	disease := &models.Disease{}
	disease.Name = "lung adenocarcinoma"
	if err := gdb.Create(disease).Error; err != nil {
		t.Fatalf("create disease failed: %v", err)
	}
	if err := samples.AddDisease(context.Background(), sample, disease); err != nil {
		t.Fatalf("add disease failed: %v", err)
	}

	med := &models.Medication{Name: "cisplatin"}
	if err := meds.Create(context.Background(), prov, med); err != nil {
		t.Fatalf("create medication failed: %v", err)
	}
	if err := samples.AddMedication(context.Background(), sample, med); err != nil {
		t.Fatalf("add medication failed: %v", err)
	}

	var got models.Biosample
	if err := gdb.Preload("Tissues").Preload("Diseases").Preload("Medications").First(&got, sample.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if len(got.Tissues) != 1 || got.Tissues[0].Name != "lung" {
		t.Fatalf("tissue association missing: %+v", got.Tissues)
	}
	if len(got.Diseases) != 1 || len(got.Medications) != 1 {
		t.Fatalf("associations missing: %d diseases, %d medications", len(got.Diseases), len(got.Medications))
	}
}

func TestBiosampleArtifactCascade(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	samples := NewBiosampleRegistry(gdb, zap.NewNop())
	core := NewCoreRegistry(gdb, zap.NewNop())

	sample := &models.Biosample{Name: "s1"}
	if err := samples.Create(context.Background(), prov, sample); err != nil {
		t.Fatalf("create biosample failed: %v", err)
	}
	art := createTestArtifact(t, gdb, prov, "samples/s1/counts.h5")
	if _, err := samples.LinkArtifact(context.Background(), prov, sample, art, LinkOptions{}); err != nil {
		t.Fatalf("link failed: %v", err)
	}

	if err := core.DeleteArtifact(context.Background(), art.UID); err != nil {
		t.Fatalf("artifact delete failed: %v", err)
	}
	links, err := samples.Links(context.Background(), sample)
	if err != nil {
		t.Fatalf("links query failed: %v", err)
	}
	if len(links) != 0 {
		t.Fatalf("expected cascade to remove links, found %d", len(links))
	}
}
