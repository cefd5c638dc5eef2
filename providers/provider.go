package providers

import (
	"context"

	"study-hand/models"
)

// Provider ist das Interface für Metadaten-Quellen, die eine Referenz anhand
// einer externen ID (PMID, DOI) auflösen.
type Provider interface {
	// Lookup löst eine externe ID in eine unpersistierte Referenz auf.
	Lookup(ctx context.Context, id string) (*models.Reference, error)

	// Name gibt den eindeutigen Namen des Providers zurück (z.B. "pubmed").
	Name() string
}
