package inspect

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PageFacts summarizes structural properties of a page's HTML body.
type PageFacts struct {
	FirstH1       string
	H1Count       int
	Images        int
	ImagesWithAlt int
	WordCount     int
}

// Extract parses the HTML content and collects the facts used to enrich
// analysis logging and operator hints.
func Extract(html string) (PageFacts, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PageFacts{}, err
	}

	var facts PageFacts
	doc.Find("h1").Each(func(i int, s *goquery.Selection) {
		facts.H1Count++
		if facts.FirstH1 == "" {
			facts.FirstH1 = strings.TrimSpace(s.Text())
		}
	})
	doc.Find("img").Each(func(i int, s *goquery.Selection) {
		facts.Images++
		if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
			facts.ImagesWithAlt++
		}
	})
	facts.WordCount = len(strings.Fields(doc.Text()))
	return facts, nil
}

// Snapshot renders a plain-text excerpt of the HTML content, truncated to
// limit runes. Used for the immutable snapshot stored with each report.
func Snapshot(html string, limit int) string {
	text := html
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		text = doc.Text()
	}
	text = strings.Join(strings.Fields(text), " ")

	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
