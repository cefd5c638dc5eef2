// Package services enthält die Hintergrund- und Orchestrierungs-Dienste der
// Registry.
package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"study-hand/config"
	"study-hand/models"
	"study-hand/providers"
	"study-hand/providers/ctgov"
	"study-hand/registry"
)

// EnrichService löst externe IDs (PMID, DOI, NCT) über die Provider auf und
// persistiert die Ergebnisse als Registry-Datensätze.
type EnrichService struct {
	Config     *config.Config
	References *registry.ReferenceRegistry
	Trials     *registry.ClinicalTrialRegistry
	Logger     *zap.Logger
	Providers  []providers.Provider
	CTGov      *ctgov.Fetcher
}

// NewEnrichService erstellt eine neue Instanz des Enrich-Service.
func NewEnrichService(cfg *config.Config, refs *registry.ReferenceRegistry, trials *registry.ClinicalTrialRegistry, logger *zap.Logger, provs []providers.Provider, ct *ctgov.Fetcher) *EnrichService {
	return &EnrichService{
		Config:     cfg,
		References: refs,
		Trials:     trials,
		Logger:     logger,
		Providers:  provs,
		CTGov:      ct,
	}
}

// provider sucht den Provider mit dem angegebenen Namen.
func (s *EnrichService) provider(name string) (providers.Provider, error) {
	for _, p := range s.Providers {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown provider: %s", name)
}

// EnrichReference löst eine externe ID über den benannten Provider auf und
// legt die Referenz an. Existiert bereits eine Referenz mit derselben PMID
// oder DOI, wird diese zurückgegeben statt ein Duplikat anzulegen.
func (s *EnrichService) EnrichReference(ctx context.Context, prov registry.Provenance, source, id string) (*models.Reference, error) {
	p, err := s.provider(source)
	if err != nil {
		return nil, err
	}

	ref, err := p.Lookup(ctx, id)
	if err != nil {
		s.Logger.Warn("Provider lookup failed", zap.String("provider", source), zap.String("id", id), zap.Error(err))
		return nil, err
	}

	if existing, err := s.findExisting(ctx, ref); err != nil {
		return nil, err
	} else if existing != nil {
		s.Logger.Info("Reference already registered, skipping create", zap.String("uid", existing.UID))
		return existing, nil
	}

	if err := s.References.Create(ctx, prov, ref); err != nil {
		return nil, err
	}
	return ref, nil
}

// findExisting prüft, ob die aufgelöste Referenz schon registriert ist.
func (s *EnrichService) findExisting(ctx context.Context, ref *models.Reference) (*models.Reference, error) {
	var existing models.Reference
	q := s.References.DB.WithContext(ctx)
	switch {
	case ref.PubmedID != nil:
		q = q.Where("pubmed_id = ?", *ref.PubmedID)
	case ref.DOI != "":
		q = q.Where("doi = ?", ref.DOI)
	default:
		return nil, nil
	}
	if err := q.First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &existing, nil
}

// EnrichTrial löst eine NCT-ID auf und legt die klinische Studie an. Eine
// bereits registrierte Studie mit demselben Namen wird zurückgegeben.
func (s *EnrichService) EnrichTrial(ctx context.Context, prov registry.Provenance, nctID string) (*models.ClinicalTrial, error) {
	trial, err := s.CTGov.Lookup(ctx, nctID)
	if err != nil {
		s.Logger.Warn("ClinicalTrials.gov lookup failed", zap.String("nct_id", nctID), zap.Error(err))
		return nil, err
	}

	var existing models.ClinicalTrial
	err = s.Trials.DB.WithContext(ctx).Where("name = ?", trial.Name).First(&existing).Error
	if err == nil {
		s.Logger.Info("Trial already registered, skipping create", zap.String("uid", existing.UID))
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Trials.Create(ctx, prov, trial); err != nil {
		return nil, err
	}
	return trial, nil
}
