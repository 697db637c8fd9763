package cses

import (
	"bytes"
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"cp_journey/internal/domain/model"
	"cp_journey/internal/platform/judge"

	"github.com/PuerkitoBio/goquery"
)

// Config carries everything the CSES client needs; there is no package-level
// state besides the static tables.
type Config struct {
	BaseURL        string
	UserAgent      string
	ProfileTimeout time.Duration
	CatalogTimeout time.Duration
	Table          model.TopicTable
	HTTPClient     *http.Client
}

type Client struct {
	cfg     Config
	fetcher *judge.Fetcher
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://cses.fi"
	}
	if cfg.ProfileTimeout == 0 {
		cfg.ProfileTimeout = 10 * time.Second
	}
	if cfg.CatalogTimeout == 0 {
		cfg.CatalogTimeout = 10 * time.Second
	}
	if cfg.Table == nil {
		cfg.Table = DefaultTopicTable
	}
	return &Client{
		cfg:     cfg,
		fetcher: judge.NewFetcher(cfg.HTTPClient, cfg.UserAgent),
	}
}

var taskLinkRe = regexp.MustCompile(`/task/(\d+)`)

// FetchUserProgress scrapes the public profile for fully solved tasks and
// buckets them by topic. Failures are returned as data, never as an error.
func (c *Client) FetchUserProgress(ctx context.Context, username string) *model.CSESResult {
	body, err := c.fetcher.Get(ctx, c.cfg.BaseURL+"/user/"+username, c.cfg.ProfileTimeout, judge.AcceptHTML)
	if err != nil {
		return failedResult(username, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return failedResult(username, err)
	}

	seen := make(map[string]bool)
	var solved []model.SolvedProblem
	doc.Find(`a[href*="/task/"]`).Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		m := taskLinkRe.FindStringSubmatch(href)
		if m == nil || seen[m[1]] {
			return
		}
		if !rowFullySolved(link) {
			return
		}
		name := strings.TrimSpace(link.Text())
		if name == "" {
			name = "Task " + m[1]
		}
		seen[m[1]] = true
		solved = append(solved, model.SolvedProblem{ID: m[1], Name: name})
	})

	byTopic := make(map[model.TopicKey][]model.SolvedProblem)
	for _, p := range solved {
		key, ok := c.cfg.Table.Classify(p.ID)
		if !ok {
			continue // solved but uncategorized
		}
		byTopic[key] = append(byTopic[key], p)
	}

	return &model.CSESResult{
		Success:     true,
		Username:    username,
		TotalSolved: len(solved),
		Solved:      solved,
		ByTopic:     byTopic,
		LastUpdated: time.Now(),
	}
}

// rowFullySolved checks the "full" score marker on the task link itself or
// anywhere in its table row.
func rowFullySolved(link *goquery.Selection) bool {
	if cls, ok := link.Attr("class"); ok && strings.Contains(cls, "full") {
		return true
	}
	row := link.Closest("tr")
	if row.Length() == 0 {
		row = link.Parent()
	}
	return row.Find(`[class*="full"]`).Length() > 0
}

func failedResult(username string, err error) *model.CSESResult {
	return &model.CSESResult{
		Success:  false,
		Error:    err.Error(),
		Username: username,
	}
}
