package models

import (
	"errors"
	"fmt"
)

// ErrValidation markiert alle Feld-Validierungsfehler (Format, Enum, Pflichtfelder).
// Aufrufer prüfen mit errors.Is.
var ErrValidation = errors.New("validation failed")

// Record wird von jedem primären Registry-Typ implementiert: jede Zeile hat
// eine Universal-ID (über DB-Instanzen hinweg gültig) und einen Anzeigenamen.
type Record interface {
	RecordUID() string
	RecordName() string
}

// Validatable wird von Typen implementiert, die Feld-Constraints vor dem
// Speichern prüfen (Pendant zu CanValidate/ValidateFields).
type Validatable interface {
	Validate() error
}

// ArtifactLink wird von allen Artifact-Verknüpfungszeilen implementiert.
// Jede Zeile referenziert genau ein Artifact und genau einen primären Datensatz.
type ArtifactLink interface {
	LinkedArtifactID() uint
}

// validateChoice prüft ein Enum-Feld gegen seine erlaubte Wertemenge.
// Ein leerer Wert gilt als "nicht gesetzt" und ist immer erlaubt.
func validateChoice(field, value string, choices []string) error {
	if value == "" {
		return nil
	}
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return fmt.Errorf("%w: %s must be one of %v, got %q", ErrValidation, field, choices, value)
}
