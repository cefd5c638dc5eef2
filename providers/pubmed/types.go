// Package pubmed enthält die Logik für die Interaktion mit der PubMed-API.
package pubmed

import (
	"encoding/xml"
)

// PubmedArticleSet repräsentiert das gesamte XML-Dokument von efetch.
type PubmedArticleSet struct {
	XMLName       xml.Name        `xml:"PubmedArticleSet"`
	PubmedArticle []PubmedArticle `xml:"PubmedArticle"`
}

// PubmedArticle repräsentiert einen einzelnen Artikel in der XML-Antwort.
type PubmedArticle struct {
	MedlineCitation struct {
		PMID    string `xml:"PMID"`
		Article struct {
			Title    string `xml:"ArticleTitle"`
			Abstract struct {
				Text []string `xml:"AbstractText"`
			} `xml:"Abstract"`
			Authors []struct {
				LastName string `xml:"LastName"`
				Initials string `xml:"Initials"`
			} `xml:"AuthorList>Author"`
			Journal struct {
				PubDate struct {
					Year  string `xml:"Year"`
					Month string `xml:"Month"`
					Day   string `xml:"Day"`
				} `xml:"JournalIssue>PubDate"`
			} `xml:"Journal"`
			ELocationID []struct {
				IDType  string `xml:"EIdType,attr"`
				ValidYN string `xml:"ValidYN,attr"`
				Value   string `xml:",chardata"`
			} `xml:"ELocationID"`
		} `xml:"Article"`
	} `xml:"MedlineCitation"`
}
