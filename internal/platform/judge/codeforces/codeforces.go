package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"cp_journey/internal/domain/model"
	"cp_journey/internal/platform/judge"
)

// Config carries the Codeforces API settings.
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
		cfg.BaseURL = "https://codeforces.com"
	}
	if cfg.ProfileTimeout == 0 {
		cfg.ProfileTimeout = 10 * time.Second
	}
	if cfg.StatusTimeout == 0 {
		cfg.StatusTimeout = 15 * time.Second
	}
	return &Client{
		cfg:     cfg,
		fetcher: judge.NewFetcher(cfg.HTTPClient, cfg.UserAgent),
	}
}

type apiEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type userInfo struct {
	Handle    string `json:"handle"`
	Rating    *int   `json:"rating"`
	MaxRating *int   `json:"maxRating"`
}

type submission struct {
	ID                  int64  `json:"id"`
	CreationTimeSeconds int64  `json:"creationTimeSeconds"`
	Verdict             string `json:"verdict"`
	Problem             struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
		Name      string `json:"name"`
	} `json:"problem"`
	Author struct {
		ParticipantType string `json:"participantType"`
	} `json:"author"`
}

// FetchProgress pulls user.info and user.status and reduces them to one
// snapshot. A problem counts once per unique (contestId, index) pair; its
// daily-solves entry goes under the date of its first accepted submission.
// A contest counts once if any submission for it carries the CONTESTANT
// participant type. Failures come back as data with zeroed fields.
func (c *Client) FetchProgress(ctx context.Context, handle string) *model.CodeforcesResult {
	info, err := c.fetchUserInfo(ctx, handle)
	if err != nil {
		return failedResult(handle, err)
	}

	subs, err := c.fetchSubmissions(ctx, handle)
	if err != nil {
		return failedResult(handle, err)
	}

	// First accepted time per unique problem.
	firstAC := make(map[string]int64)
	for _, s := range subs {
		if s.Verdict != "OK" {
			continue
		}
		key := problemKey(s)
		if prev, ok := firstAC[key]; !ok || s.CreationTimeSeconds < prev {
			firstAC[key] = s.CreationTimeSeconds
		}
	}

	// Daily solves in payload order, one entry per problem at its first AC.
	dailySolves := make(map[string][]model.SolvedProblem)
	recorded := make(map[string]bool)
	for _, s := range subs {
		if s.Verdict != "OK" {
			continue
		}
		key := problemKey(s)
		if recorded[key] || s.CreationTimeSeconds != firstAC[key] {
			continue
		}
		recorded[key] = true
		date := model.DateKey(time.Unix(s.CreationTimeSeconds, 0))
		dailySolves[date] = append(dailySolves[date], model.SolvedProblem{ID: key, Name: s.Problem.Name})
	}

	// Distinct contests with genuine contestant participation. Practice and
	// virtual runs stay out of the counter, but a single CONTESTANT
	// submission (accepted or not) marks the whole contest.
	contests := make(map[int]bool)
	for _, s := range subs {
		if s.Problem.ContestID != 0 && s.Author.ParticipantType == "CONTESTANT" {
			contests[s.Problem.ContestID] = true
		}
	}

	rating := model.CfRating{}
	if info.Rating != nil {
		rating = model.CfRating{Value: *info.Rating, Rated: true}
	}
	maxRating := 0
	if info.MaxRating != nil {
		maxRating = *info.MaxRating
	}

	return &model.CodeforcesResult{
		Success:        true,
		Handle:         handle,
		Rating:         rating,
		MaxRating:      maxRating,
		ProblemsSolved: len(firstAC),
		Contests:       len(contests),
		DailySolves:    dailySolves,
		LastUpdated:    time.Now(),
	}
}

func (c *Client) fetchUserInfo(ctx context.Context, handle string) (*userInfo, error) {
	endpoint := c.cfg.BaseURL + "/api/user.info?handles=" + url.QueryEscape(handle)
	body, err := c.fetcher.Get(ctx, endpoint, c.cfg.ProfileTimeout, "")
	if err != nil {
		return nil, err
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding user.info: %w", err)
	}
	if env.Status != "OK" {
		return nil, fmt.Errorf("user.info failed: %s", env.Comment)
	}

	var users []userInfo
	if err := json.Unmarshal(env.Result, &users); err != nil {
		return nil, fmt.Errorf("decoding user.info result: %w", err)
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("user %q not found", handle)
	}
	return &users[0], nil
}

func (c *Client) fetchSubmissions(ctx context.Context, handle string) ([]submission, error) {
	endpoint := c.cfg.BaseURL + "/api/user.status?handle=" + url.QueryEscape(handle) + "&from=1&count=10000"
	body, err := c.fetcher.Get(ctx, endpoint, c.cfg.StatusTimeout, "")
	if err != nil {
		return nil, err
	}

	var env apiEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decoding user.status: %w", err)
	}
	if env.Status != "OK" {
		return nil, fmt.Errorf("user.status failed: %s", env.Comment)
	}

	var subs []submission
	if err := json.Unmarshal(env.Result, &subs); err != nil {
		return nil, fmt.Errorf("decoding user.status result: %w", err)
	}
	return subs, nil
}

func problemKey(s submission) string {
	return fmt.Sprintf("%d%s", s.Problem.ContestID, s.Problem.Index)
}

func failedResult(handle string, err error) *model.CodeforcesResult {
	return &model.CodeforcesResult{
		Success: false,
		Error:   err.Error(),
		Handle:  handle,
	}
}
