// Package crossref löst DOIs über die Crossref-API in Referenz-Metadaten auf.
package crossref

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"study-hand/config"
	"study-hand/models"
)

var httpClient = &http.Client{Timeout: 30 * time.Second}

// workResponse repräsentiert die JSON-Antwort der Crossref works-API.
type workResponse struct {
	Message struct {
		Title  []string `json:"title"`
		URL    string   `json:"URL"`
		Author []struct {
			Given  string `json:"given"`
			Family string `json:"family"`
		} `json:"author"`
		Issued struct {
			DateParts [][]int `json:"date-parts"`
		} `json:"issued"`
		Abstract string `json:"abstract"`
	} `json:"message"`
}

// Fetcher kapselt die Logik für Crossref.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt einen neuen Crossref-Fetcher.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "crossref"
}

// Lookup löst eine DOI in eine unpersistierte Referenz auf.
func (f *Fetcher) Lookup(ctx context.Context, doi string) (*models.Reference, error) {
	reqURL := fmt.Sprintf("%s/works/%s", f.Config.CrossrefBaseURL, url.PathEscape(doi))
	if f.Config.CrossrefEmail != "" {
		reqURL += "?mailto=" + url.QueryEscape(f.Config.CrossrefEmail)
	}
	log := f.Logger.With(zap.String("doi", doi))
	log.Debug("Rufe Crossref API auf", zap.String("url", reqURL))

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
		return nil, fmt.Errorf("doi %s not found in crossref", doi)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("crossref request failed with status: %d", resp.StatusCode)
	}

	var work workResponse
	if err := json.NewDecoder(resp.Body).Decode(&work); err != nil {
		return nil, err
	}

	ref := &models.Reference{DOI: doi, URL: work.Message.URL, Abstract: work.Message.Abstract}
	if len(work.Message.Title) > 0 {
		ref.Name = work.Message.Title[0]
	}

	var authors []string
	for _, a := range work.Message.Author {
		authors = append(authors, a.Given+" "+a.Family)
	}
	if len(authors) > 0 {
		if raw, err := json.Marshal(authors); err == nil {
			ref.Authors = raw
		}
	}

	if parts := work.Message.Issued.DateParts; len(parts) > 0 && len(parts[0]) > 0 {
		year := parts[0][0]
		month, day := 1, 1
		if len(parts[0]) > 1 {
			month = parts[0][1]
		}
		if len(parts[0]) > 2 {
			day = parts[0][2]
		}
		t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
		ref.PublishedAt = &t
	}

	log.Info("Reference metadata fetched from Crossref", zap.String("name", ref.Name))
	return ref, nil
}
