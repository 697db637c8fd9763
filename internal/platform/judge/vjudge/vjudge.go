package vjudge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cp_journey/internal/domain/model"
	"cp_journey/internal/platform/judge"

	"github.com/PuerkitoBio/goquery"
)

// Config carries the VJudge endpoints and timeouts.
type Config struct {
	BaseURL        string
	UserAgent      string
	ProfileTimeout time.Duration
	StatusTimeout  time.Duration
	HTTPClient     *http.Client
}

type Client struct {
	cfg     Config
	fetcher *judge.Fetcher
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://vjudge.net"
	}
	if cfg.ProfileTimeout == 0 {
		cfg.ProfileTimeout = 10 * time.Second
	}
	if cfg.StatusTimeout == 0 {
		cfg.StatusTimeout = 20 * time.Second
	}
	return &Client{
		cfg:     cfg,
		fetcher: judge.NewFetcher(cfg.HTTPClient, cfg.UserAgent),
	}
}

var (
	solvedRe   = regexp.MustCompile(`(?i)overall\s+solved[^0-9]*([0-9]+)`)
	attemptRe  = regexp.MustCompile(`(?i)overall\s+(?:attempted|submissions?)[^0-9]*([0-9]+)`)
	calendarRe = regexp.MustCompile(`(?s)dataJson\s*=\s*(\{.*?\})`)
)

// FetchProgress scrapes the profile page for aggregate counts and the daily
// activity calendar, then reads the submissions listing for recent accepted
// runs. The calendar and the submissions listing are independent sources and
// are both reported as-is, without reconciling one against the other.
func (c *Client) FetchProgress(ctx context.Context, username string) *model.VJudgeResult {
	body, err := c.fetcher.Get(ctx, c.cfg.BaseURL+"/user/"+url.PathEscape(username), c.cfg.ProfileTimeout, judge.AcceptHTML)
	if err != nil {
		return failedResult(username, err)
	}

	solved, submitted, err := parseProfileCounts(body)
	if err != nil {
		return failedResult(username, err)
	}
	dailyActivity := parseCalendar(body)

	recentSolves, err := c.fetchRecentSolves(ctx, username)
	if err != nil {
		return failedResult(username, err)
	}

	return &model.VJudgeResult{
		Success:        true,
		Username:       username,
		TotalSolved:    solved,
		TotalSubmitted: submitted,
		DailyActivity:  dailyActivity,
		RecentSolves:   recentSolves,
		LastUpdated:    time.Now(),
	}
}

// parseProfileCounts looks for the Solved / Submissions stat rows in the
// profile tables, falling back to a plain-text scan of the page.
func parseProfileCounts(body []byte) (solved, submitted int, err error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return 0, 0, fmt.Errorf("parsing profile page: %w", err)
	}

	foundSolved, foundSubmitted := false, false
	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td, th")
		if cells.Length() < 2 {
			return
		}
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		value, convErr := strconv.Atoi(strings.TrimSpace(cells.Last().Text()))
		if convErr != nil {
			return
		}
		switch {
		case !foundSolved && strings.Contains(label, "solved"):
			solved, foundSolved = value, true
		case !foundSubmitted && (strings.Contains(label, "submi") || strings.Contains(label, "attempt")):
			submitted, foundSubmitted = value, true
		}
	})

	text := string(body)
	if !foundSolved {
		if m := solvedRe.FindStringSubmatch(text); m != nil {
			solved, _ = strconv.Atoi(m[1])
			foundSolved = true
		}
	}
	if !foundSubmitted {
		if m := attemptRe.FindStringSubmatch(text); m != nil {
			submitted, _ = strconv.Atoi(m[1])
		}
	}

	if !foundSolved {
		return 0, 0, fmt.Errorf("profile page had no solved counter")
	}
	return solved, submitted, nil
}

// parseCalendar extracts the embedded daily-activity grid. A missing or
// malformed grid yields an empty map, not a failure.
func parseCalendar(body []byte) map[string]int {
	activity := make(map[string]int)
	m := calendarRe.FindSubmatch(body)
	if m == nil {
		return activity
	}
	var raw map[string]int
	if err := json.Unmarshal(m[1], &raw); err != nil {
		return activity
	}
	for key, count := range raw {
		activity[normalizeDateKey(key)] = count
	}
	return activity
}

// normalizeDateKey converts the grid's ISO dates to the daily-map key
// format; keys already in that format (or unrecognized) pass through.
func normalizeDateKey(key string) string {
	if t, err := time.ParseInLocation("2006-01-02", key, time.Local); err == nil {
		return t.Format(model.DateKeyLayout)
	}
	return key
}

type statusPage struct {
	Data []vjSubmission `json:"data"`
}

type vjSubmission struct {
	OJ      string `json:"oj"`
	ProbNum string `json:"probNum"`
	Status  string `json:"status"`
	Time    int64  `json:"time"` // epoch milliseconds
}

// fetchRecentSolves reads the accepted-submissions listing and groups it by
// calendar date, one entry per problem per date.
func (c *Client) fetchRecentSolves(ctx context.Context, username string) (map[string][]model.VJudgeSolve, error) {
	endpoint := c.cfg.BaseURL + "/status/data?user=" + url.QueryEscape(username) + "&status=1&length=500"
	body, err := c.fetcher.Get(ctx, endpoint, c.cfg.StatusTimeout, "")
	if err != nil {
		return nil, err
	}

	var page statusPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decoding submissions listing: %w", err)
	}

	solves := make(map[string][]model.VJudgeSolve)
	seen := make(map[string]bool)
	for _, s := range page.Data {
		if s.Status != "" && !strings.Contains(s.Status, "Accepted") && s.Status != "AC" {
			continue
		}
		ts := time.Unix(0, s.Time*int64(time.Millisecond))
		date := model.DateKey(ts)
		problem := s.OJ + "-" + s.ProbNum
		if seen[date+"|"+problem] {
			continue
		}
		seen[date+"|"+problem] = true
		solves[date] = append(solves[date], model.VJudgeSolve{Problem: problem, Timestamp: ts})
	}
	return solves, nil
}

func failedResult(username string, err error) *model.VJudgeResult {
	return &model.VJudgeResult{
		Success:  false,
		Error:    err.Error(),
		Username: username,
	}
}
