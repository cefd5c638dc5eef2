package pubmed

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"
)

const sampleEFetchXML = `<?xml version="1.0" ?>
<PubmedArticleSet>
  <PubmedArticle>
    <MedlineCitation>
      <PMID>31345061</PMID>
      <Article>
        <Journal>
          <JournalIssue>
            <PubDate>
              <Year>2019</Year>
              <Month>Jul</Month>
              <Day>25</Day>
            </PubDate>
          </JournalIssue>
        </Journal>
        <ArticleTitle>Laminopathies in clinical practice</ArticleTitle>
        <Abstract>
          <AbstractText>First paragraph.</AbstractText>
          <AbstractText>Second paragraph.</AbstractText>
        </Abstract>
        <AuthorList>
          <Author>
            <LastName>Smith</LastName>
            <Initials>A</Initials>
          </Author>
          <Author>
            <LastName>Jones</LastName>
            <Initials>B</Initials>
          </Author>
        </AuthorList>
        <ELocationID EIdType="pii" ValidYN="Y">e12345</ELocationID>
        <ELocationID EIdType="doi" ValidYN="Y">10.1000/xyz123</ELocationID>
      </Article>
    </MedlineCitation>
  </PubmedArticle>
</PubmedArticleSet>`

func TestMapArticleToReference(t *testing.T) {
	var set PubmedArticleSet
	if err := xml.Unmarshal([]byte(sampleEFetchXML), &set); err != nil {
		t.Fatalf("failed to parse sample XML: %v", err)
	}
	if len(set.PubmedArticle) != 1 {
		t.Fatalf("expected 1 article, got %d", len(set.PubmedArticle))
	}

	ref := mapArticleToReference(&set.PubmedArticle[0])

	if ref.Name != "Laminopathies in clinical practice" {
		t.Errorf("unexpected name: %q", ref.Name)
	}
	if ref.PubmedID == nil || *ref.PubmedID != 31345061 {
		t.Errorf("expected pubmed id 31345061, got %v", ref.PubmedID)
	}
	if ref.DOI != "10.1000/xyz123" {
		t.Errorf("expected DOI from ELocationID, got %q", ref.DOI)
	}
	if ref.URL != "https://pubmed.ncbi.nlm.nih.gov/31345061/" {
		t.Errorf("unexpected URL: %q", ref.URL)
	}
	if !strings.Contains(ref.Abstract, "First paragraph.") || !strings.Contains(ref.Abstract, "Second paragraph.") {
		t.Errorf("abstract paragraphs not joined: %q", ref.Abstract)
	}
	if !strings.Contains(string(ref.Authors), "A Smith") || !strings.Contains(string(ref.Authors), "B Jones") {
		t.Errorf("authors not mapped: %s", ref.Authors)
	}
	if ref.PublishedAt == nil {
		t.Fatal("expected published date to be set")
	}
	want := time.Date(2019, time.July, 25, 0, 0, 0, 0, time.UTC)
	if !ref.PublishedAt.Equal(want) {
		t.Errorf("expected published date %v, got %v", want, ref.PublishedAt)
	}
}

func TestMapArticleWithoutDate(t *testing.T) {
	var set PubmedArticleSet
	doc := `<PubmedArticleSet><PubmedArticle><MedlineCitation><PMID>1</PMID><Article><ArticleTitle>t</ArticleTitle></Article></MedlineCitation></PubmedArticle></PubmedArticleSet>`
	if err := xml.Unmarshal([]byte(doc), &set); err != nil {
		t.Fatalf("failed to parse sample XML: %v", err)
	}
	ref := mapArticleToReference(&set.PubmedArticle[0])
	if ref.PublishedAt != nil {
		t.Errorf("expected nil published date, got %v", ref.PublishedAt)
	}
	if ref.DOI != "" {
		t.Errorf("expected empty DOI, got %q", ref.DOI)
	}
}
