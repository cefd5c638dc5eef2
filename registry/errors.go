package registry

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"study-hand/models"
)

// Fehler-Taxonomie der Registries. Alles andere propagiert unverändert;
// es gibt keine Retries und keine Fallback-Logik.
var (
	// ErrUniqueConflict: Unique-Constraint verletzt (uid, abbr, name+ontology_id, ...).
	ErrUniqueConflict = errors.New("uniqueness conflict")
	// ErrProtected: Löschen blockiert, weil noch Zeilen per RESTRICT darauf zeigen.
	ErrProtected = errors.New("record is protected by existing links")
	// ErrInvalidReference: ein Fremdschlüssel zeigt beim Schreiben ins Leere.
	ErrInvalidReference = errors.New("referenced record does not exist")
	// ErrNotFound: kein Datensatz mit dem angefragten Schlüssel.
	ErrNotFound = errors.New("record not found")
)

// ErrValidation wird aus dem models-Paket durchgereicht, damit Aufrufer nur
// gegen das registry-Paket prüfen müssen.
var ErrValidation = models.ErrValidation

// translateWrite übersetzt Treiberfehler beim Anlegen/Ändern.
func translateWrite(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrUniqueConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	default:
		return err
	}
}

// translateDelete übersetzt Treiberfehler beim Löschen: eine FK-Verletzung
// bedeutet hier, dass die RESTRICT-Policy das Löschen blockiert. SQLite
// meldet ON DELETE RESTRICT als Trigger-Constraint (extended code 1811
// statt 787), den der Treiber nicht nach gorm.ErrForeignKeyViolated
// übersetzt; in dem Fall bleibt der rohe Meldungstext stehen.
func translateDelete(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrProtected
	case strings.Contains(err.Error(), "FOREIGN KEY constraint failed"):
		return ErrProtected
	default:
		return err
	}
}

// translateRead übersetzt Lesefehler.
func translateRead(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
