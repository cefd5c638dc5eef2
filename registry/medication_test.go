package registry

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"study-hand/models"
)

func strptr(s string) *string { return &s }

func TestMedicationNameOntologyJointlyUnique(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	meds := NewMedicationRegistry(gdb, zap.NewNop())

	first := &models.Medication{Name: "aspirin", OntologyID: strptr("CHEBI:15365")}
	if err := meds.Create(context.Background(), prov, first); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if len(first.UID) != 8 {
		t.Fatalf("expected 8-character uid, got %q", first.UID)
	}

	// Gleicher Name mit anderer Ontologie-ID ist erlaubt.
	other := &models.Medication{Name: "aspirin", OntologyID: strptr("DRON:00000001")}
	if err := meds.Create(context.Background(), prov, other); err != nil {
		t.Fatalf("create with different ontology_id failed: %v", err)
	}

	dup := &models.Medication{Name: "aspirin", OntologyID: strptr("CHEBI:15365")}
	if err := meds.Create(context.Background(), prov, dup); !errors.Is(err, ErrUniqueConflict) {
		t.Fatalf("expected ErrUniqueConflict, got %v", err)
	}
}

func TestMedicationAbbrUnique(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	meds := NewMedicationRegistry(gdb, zap.NewNop())

	if err := meds.Create(context.Background(), prov, &models.Medication{Name: "acetylsalicylic acid", Abbr: strptr("ASA")}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	err := meds.Create(context.Background(), prov, &models.Medication{Name: "something else", Abbr: strptr("ASA")})
	if !errors.Is(err, ErrUniqueConflict) {
		t.Fatalf("expected ErrUniqueConflict, got %v", err)
	}
}

func TestMedicationHierarchy(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	meds := NewMedicationRegistry(gdb, zap.NewNop())

	parent := &models.Medication{Name: "nsaid"}
	child := &models.Medication{Name: "ibuprofen"}
	for _, m := range []*models.Medication{parent, child} {
		if err := meds.Create(context.Background(), prov, m); err != nil {
			t.Fatalf("create %q failed: %v", m.Name, err)
		}
	}

	if err := meds.AddParent(context.Background(), child, parent); err != nil {
		t.Fatalf("add parent failed: %v", err)
	}

	parents, err := meds.Parents(context.Background(), child)
	if err != nil {
		t.Fatalf("parents query failed: %v", err)
	}
	if len(parents) != 1 || parents[0].Name != "nsaid" {
		t.Fatalf("unexpected parents: %+v", parents)
	}

	children, err := meds.Children(context.Background(), parent)
	if err != nil {
		t.Fatalf("children query failed: %v", err)
	}
	if len(children) != 1 || children[0].Name != "ibuprofen" {
		t.Fatalf("unexpected children: %+v", children)
	}

	// Die Beziehung ist gerichtet: das Kind hat keine Kinder.
	none, err := meds.Children(context.Background(), child)
	if err != nil {
		t.Fatalf("children query failed: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("expected no children for leaf, got %+v", none)
	}
}

func TestMedicationArtifactLink(t *testing.T) {
	gdb := newTestDB(t)
	prov := testProvenance(t, gdb)
	meds := NewMedicationRegistry(gdb, zap.NewNop())

	med := &models.Medication{Name: "metformin", ChemblID: strptr("CHEMBL1431")}
	if err := meds.Create(context.Background(), prov, med); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	art := createTestArtifact(t, gdb, prov, "dosing/metformin.csv")
	if _, err := meds.LinkArtifact(context.Background(), prov, med, art, LinkOptions{}); err != nil {
		t.Fatalf("link failed: %v", err)
	}
	if err := meds.Delete(context.Background(), med.UID); !errors.Is(err, ErrProtected) {
		t.Fatalf("expected ErrProtected, got %v", err)
	}
}
