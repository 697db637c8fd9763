package cses

import (
	"bytes"
	"context"
	"strings"

	"cp_journey/internal/domain/model"
	"cp_journey/internal/platform/judge"

	"github.com/PuerkitoBio/goquery"
	"github.com/gosimple/slug"
)

// fallbackCatalogVersion tracks the CSES problem-set layout the static
// dataset below was taken from.
const fallbackCatalogVersion = "2024-09"

var fallbackCatalog = []struct {
	title string
	count int
}{
	{"Introductory Problems", 19},
	{"Sorting and Searching", 35},
	{"Dynamic Programming", 19},
	{"Graph Algorithms", 36},
	{"Range Queries", 19},
	{"Tree Algorithms", 16},
	{"Mathematics", 31},
	{"String Algorithms", 17},
	{"Geometry", 7},
	{"Advanced Techniques", 24},
	{"Additional Problems", 77},
}

var topicKeywords = []string{
	"Introductory", "Sorting", "Dynamic Programming", "Graph", "Range Queries",
	"Tree", "Mathematics", "String", "Geometry", "Advanced", "Additional",
}

// FallbackCatalog returns the static topic list used when live parsing of
// the problem-set page yields nothing.
func FallbackCatalog(baseURL string) []model.TopicCatalogEntry {
	entries := make([]model.TopicCatalogEntry, 0, len(fallbackCatalog))
	for _, t := range fallbackCatalog {
		entries = append(entries, makeEntry(t.title, t.count, baseURL))
	}
	return entries
}

// FetchTopicCatalog scrapes the problem-set page for topic sections. Parse
// strategies are tried in order; when the page cannot be fetched or neither
// strategy finds a topic, the static fallback is returned with fromFallback
// set and any underlying failure in err. This degrades gracefully: the
// caller always gets a usable catalog.
func (c *Client) FetchTopicCatalog(ctx context.Context) (entries []model.TopicCatalogEntry, fromFallback bool, err error) {
	body, err := c.fetcher.Get(ctx, c.cfg.BaseURL+"/problemset/", c.cfg.CatalogTimeout, judge.AcceptHTML)
	if err != nil {
		return FallbackCatalog(c.cfg.BaseURL), true, err
	}
	return c.ParseTopicCatalog(body)
}

// ParseTopicCatalog runs the parse-strategy chain over an already fetched
// problem-set document.
func (c *Client) ParseTopicCatalog(body []byte) ([]model.TopicCatalogEntry, bool, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return FallbackCatalog(c.cfg.BaseURL), true, err
	}

	for _, strategy := range []func(*goquery.Document, string) []model.TopicCatalogEntry{
		parseHeadingSections,
		parseKeywordBlocks,
	} {
		if entries := strategy(doc, c.cfg.BaseURL); len(entries) > 0 {
			return entries, false, nil
		}
	}
	return FallbackCatalog(c.cfg.BaseURL), true, nil
}

// parseHeadingSections treats each heading as a topic title and counts the
// task links between it and the next heading.
func parseHeadingSections(doc *goquery.Document, baseURL string) []model.TopicCatalogEntry {
	var entries []model.TopicCatalogEntry
	doc.Find("h1, h2, h3").Each(func(_ int, h *goquery.Selection) {
		title := strings.TrimSpace(h.Text())
		if title == "" {
			return
		}
		count := h.NextUntil("h1, h2, h3").Find(`a[href*="/task/"]`).Length()
		if count == 0 {
			return
		}
		entries = append(entries, makeEntry(title, count, baseURL))
	})
	return dedupeByTitle(entries)
}

// parseKeywordBlocks is the looser second pass: any short element naming a
// known topic that has task links near it counts as a section.
func parseKeywordBlocks(doc *goquery.Document, baseURL string) []model.TopicCatalogEntry {
	var entries []model.TopicCatalogEntry
	doc.Find("h1, h2, h3, h4, b, strong, span, div").Each(func(_ int, s *goquery.Selection) {
		title := strings.TrimSpace(s.Text())
		if title == "" || len(title) > 60 || !containsTopicKeyword(title) {
			return
		}
		count := s.Parent().Find(`a[href*="/task/"]`).Length()
		if count == 0 {
			return
		}
		entries = append(entries, makeEntry(title, count, baseURL))
	})
	return dedupeByTitle(entries)
}

func containsTopicKeyword(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range topicKeywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func makeEntry(title string, count int, baseURL string) model.TopicCatalogEntry {
	n := count
	return model.TopicCatalogEntry{
		Title: title,
		Slug:  slug.Make(title),
		Count: &n,
		URL:   baseURL + "/problemset/",
	}
}

func dedupeByTitle(entries []model.TopicCatalogEntry) []model.TopicCatalogEntry {
	seen := make(map[string]bool)
	out := entries[:0]
	for _, e := range entries {
		key := strings.ToLower(e.Title)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	return out
}
