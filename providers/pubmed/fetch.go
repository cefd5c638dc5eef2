package pubmed

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"study-hand/config"
	"study-hand/models"
)

var httpClient = &http.Client{Timeout: 60 * time.Second}

// Fetcher kapselt die Logik zur Interaktion mit PubMed.
type Fetcher struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewFetcher erstellt eine neue Instanz des PubMed-Fetchers.
func NewFetcher(cfg *config.Config, logger *zap.Logger) *Fetcher {
	return &Fetcher{Config: cfg, Logger: logger}
}

// Name gibt den Namen des Providers zurück.
func (f *Fetcher) Name() string {
	return "pubmed"
}

// Lookup holt die Metadaten für eine PMID via EFetch und baut daraus eine
// unpersistierte Referenz.
func (f *Fetcher) Lookup(ctx context.Context, pmid string) (*models.Reference, error) {
	log := f.Logger.With(zap.String("pmid", pmid))

	efetchURL := fmt.Sprintf("%s/efetch.fcgi?db=pubmed&id=%s&retmode=xml&tool=%s", f.Config.PubMedBaseURL, pmid, f.Config.PubMedTool)
	if f.Config.PubMedAPIKey != "" {
		efetchURL += "&api_key=" + f.Config.PubMedAPIKey
	}
	log.Debug("Rufe EFetch-URL für Metadaten auf", zap.String("url", efetchURL))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, efetchURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		log.Error("EFetch-Anfrage fehlgeschlagen", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("efetch failed: status %d", resp.StatusCode)
	}

	var articleSet PubmedArticleSet
	if err := xml.NewDecoder(resp.Body).Decode(&articleSet); err != nil {
		log.Error("Fehler beim Parsen der EFetch-XML-Antwort", zap.Error(err))
		return nil, err
	}
	if len(articleSet.PubmedArticle) == 0 {
		return nil, fmt.Errorf("no PubmedArticle found for PMID %s", pmid)
	}

	ref := mapArticleToReference(&articleSet.PubmedArticle[0])
	log.Info("Reference metadata fetched from PubMed", zap.String("name", ref.Name))
	return ref, nil
}

// mapArticleToReference wandelt ein XML-Article-Objekt in unser
// Reference-Modell um.
func mapArticleToReference(article *PubmedArticle) *models.Reference {
	ref := &models.Reference{
		Name:     article.MedlineCitation.Article.Title,
		Abstract: strings.Join(article.MedlineCitation.Article.Abstract.Text, "\n"),
		URL:      fmt.Sprintf("https://pubmed.ncbi.nlm.nih.gov/%s/", article.MedlineCitation.PMID),
	}

	if pmid, err := strconv.ParseInt(article.MedlineCitation.PMID, 10, 64); err == nil {
		ref.PubmedID = &pmid
	}

	var authors []string
	for _, author := range article.MedlineCitation.Article.Authors {
		authors = append(authors, strings.TrimSpace(author.Initials+" "+author.LastName))
	}
	if len(authors) > 0 {
		if raw, err := json.Marshal(authors); err == nil {
			ref.Authors = raw
		}
	}

	for _, id := range article.MedlineCitation.Article.ELocationID {
		if id.IDType == "doi" && id.ValidYN == "Y" {
			ref.DOI = id.Value
			break
		}
	}

	pubDate := article.MedlineCitation.Article.Journal.PubDate
	if pubDate.Year != "" {
		month := "01"
		if pubDate.Month != "" {
			if parsedMonth, err := time.Parse("Jan", pubDate.Month); err == nil {
				month = fmt.Sprintf("%02d", parsedMonth.Month())
			} else if tm, err := time.Parse("1", pubDate.Month); err == nil {
				// Fallback für numerische Monate
				month = fmt.Sprintf("%02d", tm.Month())
			}
		}
		day := "01"
		if pubDate.Day != "" {
			day = pubDate.Day
		}
		if t, err := time.Parse("2006-01-02", fmt.Sprintf("%s-%s-%s", pubDate.Year, month, day)); err == nil {
			ref.PublishedAt = &t
		}
	}

	return ref
}
