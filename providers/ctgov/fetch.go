// Package ctgov holt Studien-Metadaten von der ClinicalTrials.gov v2 API.
package ctgov

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"study-hand/config"
	"study-hand/models"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// studyResponse repräsentiert den benötigten Ausschnitt der v2 study-Antwort.
type studyResponse struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID         string `json:"nctId"`
			BriefTitle    string `json:"briefTitle"`
			OfficialTitle string `json:"officialTitle"`
		} `json:"identificationModule"`
		DescriptionModule struct {
			BriefSummary        string `json:"briefSummary"`
			DetailedDescription string `json:"detailedDescription"`
		} `json:"descriptionModule"`
	} `json:"protocolSection"`
}

// Fetcher kapselt die Logik für ClinicalTrials.gov.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen ClinicalTrials.gov-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Lookup löst eine NCT-ID in eine unpersistierte klinische Studie auf.
func (f *Fetcher) Lookup(ctx context.Context, nctID string) (*models.ClinicalTrial, error) {
	reqURL := fmt.Sprintf("%s/studies/%s", f.Config.CTGovBaseURL, nctID)
	log := f.Logger.With(zap.String("nct_id", nctID))
	log.Debug("Rufe ClinicalTrials.gov API auf", zap.String("url", reqURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("study %s not found on clinicaltrials.gov", nctID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("clinicaltrials.gov request failed with status: %d", resp.StatusCode)
	}

	var study studyResponse
	if err := json.NewDecoder(resp.Body).Decode(&study); err != nil {
		return nil, err
	}

	ident := study.ProtocolSection.IdentificationModule
	desc := study.ProtocolSection.DescriptionModule

	trial := &models.ClinicalTrial{
		Name:        ident.NCTID,
		Title:       ident.OfficialTitle,
		Objective:   desc.BriefSummary,
		Description: desc.DetailedDescription,
	}
	if trial.Name == "" {
		trial.Name = nctID
	}
	if trial.Title == "" {
		trial.Title = ident.BriefTitle
	}

	log.Info("Trial metadata fetched from ClinicalTrials.gov", zap.String("title", trial.Title))
	return trial, nil
}
