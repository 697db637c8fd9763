package model

import (
	"encoding/json"
	"time"
)

const (
	PlatformCSES       = "cses"
	PlatformCodeforces = "codeforces"
	PlatformVJudge     = "vjudge"
)

// DateKeyLayout is the calendar-date key format used by the daily maps,
// e.g. "Mon Jan 01 2024". Keys are rendered in the fetch's local timezone.
const DateKeyLayout = "Mon Jan 02 2006"

// DateKey renders t as a daily-map key.
func DateKey(t time.Time) string {
	return t.Local().Format(DateKeyLayout)
}

// CfRating is a Codeforces rating that serializes as a number, or as the
// string "Unrated" for users who have never been rated.
type CfRating struct {
	Value int
	Rated bool
}

func (r CfRating) MarshalJSON() ([]byte, error) {
	if !r.Rated {
		return json.Marshal("Unrated")
	}
	return json.Marshal(r.Value)
}

func (r *CfRating) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		r.Value = n
		r.Rated = true
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	r.Value = 0
	r.Rated = false
	return nil
}

// CSESResult is the outcome of one CSES user-progress sync. On failure,
// Success is false, Error is set and the remaining fields are zeroed.
type CSESResult struct {
	Success     bool                        `json:"success"`
	Error       string                      `json:"error,omitempty"`
	Username    string                      `json:"username"`
	TotalSolved int                         `json:"total_solved"`
	Solved      []SolvedProblem             `json:"solved,omitempty"`
	ByTopic     map[TopicKey][]SolvedProblem `json:"by_topic,omitempty"`
	LastUpdated time.Time                   `json:"last_updated"`
}

// CodeforcesResult is the outcome of one Codeforces sync.
type CodeforcesResult struct {
	Success        bool                       `json:"success"`
	Error          string                     `json:"error,omitempty"`
	Handle         string                     `json:"handle"`
	Rating         CfRating                   `json:"rating"`
	MaxRating      int                        `json:"max_rating"`
	ProblemsSolved int                        `json:"problems_solved"`
	Contests       int                        `json:"contests"`
	DailySolves    map[string][]SolvedProblem `json:"daily_solves,omitempty"`
	LastUpdated    time.Time                  `json:"last_updated"`
}

// VJudgeSolve is one accepted submission seen on the VJudge status page.
type VJudgeSolve struct {
	Problem   string    `json:"problem"`
	Timestamp time.Time `json:"timestamp"`
}

// VJudgeResult is the outcome of one VJudge sync. DailyActivity comes from
// the profile calendar grid and RecentSolves from the submissions listing;
// the two are reported as-is and never reconciled against each other.
type VJudgeResult struct {
	Success        bool                     `json:"success"`
	Error          string                   `json:"error,omitempty"`
	Username       string                   `json:"username"`
	TotalSolved    int                      `json:"total_solved"`
	TotalSubmitted int                      `json:"total_submitted"`
	DailyActivity  map[string]int           `json:"daily_activity,omitempty"`
	RecentSolves   map[string][]VJudgeSolve `json:"recent_solves,omitempty"`
	LastUpdated    time.Time                `json:"last_updated"`
}

// PlatformResult is the tagged union of per-platform sync outcomes,
// discriminated by Platform. Exactly one of the pointers is non-nil.
type PlatformResult struct {
	Platform   string            `json:"platform"`
	CSES       *CSESResult       `json:"cses,omitempty"`
	Codeforces *CodeforcesResult `json:"codeforces,omitempty"`
	VJudge     *VJudgeResult     `json:"vjudge,omitempty"`
}

// Succeeded reports whether the underlying platform sync succeeded.
func (r PlatformResult) Succeeded() bool {
	switch {
	case r.CSES != nil:
		return r.CSES.Success
	case r.Codeforces != nil:
		return r.Codeforces.Success
	case r.VJudge != nil:
		return r.VJudge.Success
	}
	return false
}
