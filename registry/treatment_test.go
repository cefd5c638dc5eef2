package registry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"study-hand/models"
)

func TestTreatmentCreate(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	treatments := NewTreatmentRegistry(gdb, zap.NewNop())

	treatment := &models.Treatment{Name: "Aspirin 325 MG Enteric Coated Tablet"}
	if err := treatments.Create(context.Background(), prov, treatment); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if len(treatment.UID) != 12 {
		t.Fatalf("expected 12-character uid, got %q", treatment.UID)
	}
}

func TestTreatmentRejectsUnknownStatus(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	treatments := NewTreatmentRegistry(gdb, zap.NewNop())

	treatment := &models.Treatment{Name: "x", Status: "paused"}
	if err := treatments.Create(context.Background(), prov, treatment); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for unknown status, got %v", err)
	}
}

func TestTreatmentMedicationRestrict(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	treatments := NewTreatmentRegistry(gdb, zap.NewNop())
	meds := NewMedicationRegistry(gdb, zap.NewNop())

	med := &models.Medication{Name: "dexamethasone"}
	if err := meds.Create(context.Background(), prov, med); err != nil {
		t.Fatalf("create medication failed: %v", err)
	}

	dosage := 4.0
	duration := 14 * 24 * time.Hour
	administered := time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)
	treatment := &models.Treatment{
		Name:                 "dexamethasone taper",
		Status:               models.TreatmentInProgress,
		MedicationID:         &med.ID,
		Dosage:               &dosage,
		DosageUnit:           "mg",
		AdministeredDatetime: &administered,
		Duration:             &duration,
		Route:                "oral",
	}
	if err := treatments.Create(context.Background(), prov, treatment); err != nil {
		t.Fatalf("create treatment failed: %v", err)
	}

	// Das referenzierte Medikament ist gegen Löschen geschützt.
	if err := meds.Delete(context.Background(), med.UID); !errors.Is(err, ErrProtected) {
		t.Fatalf("expected ErrProtected for referenced medication, got %v", err)
	}

	var reloaded models.Treatment
	if err := gdb.First(&reloaded, treatment.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.Duration == nil || *reloaded.Duration != duration {
		t.Fatalf("duration not persisted: %+v", reloaded.Duration)
	}
}

func TestTreatmentArtifactLink(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	treatments := NewTreatmentRegistry(gdb, zap.NewNop())

	treatment := &models.Treatment{Name: "chemo cycle 1", Status: models.TreatmentCompleted}
	if err := treatments.Create(context.Background(), prov, treatment); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	art := createTestArtifact(t, gdb, prov, "treatments/cycle1/report.pdf")
	if _, err := treatments.LinkArtifact(context.Background(), prov, treatment, art, LinkOptions{}); err != nil {
		t.Fatalf("link failed: %v", err)
	}
	links, err := treatments.Links(context.Background(), treatment)
	if err != nil {
		t.Fatalf("links query failed: %v", err)
	}
	if len(links) != 1 {
		t.Fatalf("expected 1 link, got %d", len(links))
	}
}
