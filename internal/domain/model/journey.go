package model

import (
	"strconv"
	"time"
)

type TopicKey string

const (
	TopicIntro TopicKey = "intro"
	TopicSort  TopicKey = "sort"
	TopicDP    TopicKey = "dp"
	TopicGraph TopicKey = "graph"
	TopicRange TopicKey = "range"
	TopicTree  TopicKey = "tree"
)

// SolvedProblem is one problem known to be solved on a platform.
// Identity is ID, scoped to the platform it came from.
type SolvedProblem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TopicProgress tracks completion of one CSES problem-set section.
// Solved never exceeds Total.
type TopicProgress struct {
	Title    string          `json:"title"`
	Solved   int             `json:"solved"`
	Total    int             `json:"total"`
	Problems []SolvedProblem `json:"problems,omitempty"`
}

// AddSolvedProblem records a solve. Duplicate ids and additions past Total
// are no-ops; it reports whether the problem was actually added.
func (tp *TopicProgress) AddSolvedProblem(p SolvedProblem) bool {
	if tp.Solved >= tp.Total {
		return false // category complete
	}
	for _, existing := range tp.Problems {
		if existing.ID == p.ID {
			return false
		}
	}
	tp.Problems = append(tp.Problems, p)
	tp.Solved++
	return true
}

// NewTopicProgressSet returns the tracked CSES sections with their known
// problem counts and zero progress.
func NewTopicProgressSet() map[TopicKey]*TopicProgress {
	return map[TopicKey]*TopicProgress{
		TopicIntro: {Title: "Introductory Problems", Total: 19},
		TopicSort:  {Title: "Sorting and Searching", Total: 35},
		TopicDP:    {Title: "Dynamic Programming", Total: 19},
		TopicGraph: {Title: "Graph Algorithms", Total: 36},
		TopicRange: {Title: "Range Queries", Total: 19},
		TopicTree:  {Title: "Tree Algorithms", Total: 16},
	}
}

// TopicTable partitions CSES problem ids by topic. Classification is a pure
// lookup; the table is read-only at sync time.
type TopicTable map[TopicKey][]int

// Classify returns the topic whose bucket contains the given problem id.
// Ids absent from every bucket report ok=false and are counted nowhere.
func (t TopicTable) Classify(problemID string) (TopicKey, bool) {
	id, err := strconv.Atoi(problemID)
	if err != nil {
		return "", false
	}
	for key, bucket := range t {
		for _, entry := range bucket {
			if entry == id {
				return key, true
			}
		}
	}
	return "", false
}

// PlatformHandles are the linked external usernames for one user.
type PlatformHandles struct {
	CSES       string `json:"cses,omitempty"`
	Codeforces string `json:"codeforces,omitempty"`
	VJudge     string `json:"vjudge,omitempty"`
}

func (h PlatformHandles) Empty() bool {
	return h.CSES == "" && h.Codeforces == "" && h.VJudge == ""
}

// CodeforcesStats is the Codeforces slice of a persisted journey.
type CodeforcesStats struct {
	Handle         string                     `json:"handle,omitempty"`
	Rating         CfRating                   `json:"rating"`
	MaxRating      int                        `json:"max_rating"`
	ProblemsSolved int                        `json:"problems_solved"`
	Contests       int                        `json:"contests"`
	DailySolves    map[string][]SolvedProblem `json:"daily_solves,omitempty"`
}

// VJudgeStats is the VJudge slice of a persisted journey. DailyActivity and
// RecentSolves come from independent sources and are kept unreconciled.
type VJudgeStats struct {
	Username       string                   `json:"username,omitempty"`
	TotalSolved    int                      `json:"total_solved"`
	TotalSubmitted int                      `json:"total_submitted"`
	DailyActivity  map[string]int           `json:"daily_activity,omitempty"`
	RecentSolves   map[string][]VJudgeSolve `json:"recent_solves,omitempty"`
}

// JourneyRecord is the durable per-user progress record. Manual counters are
// owned by the user and never touched by platform sync.
type JourneyRecord struct {
	UserID       string                       `json:"user_id"`
	Handles      PlatformHandles              `json:"handles"`
	Topics       map[TopicKey]*TopicProgress  `json:"topics"`
	Codeforces   CodeforcesStats              `json:"codeforces"`
	VJudge       VJudgeStats                  `json:"vjudge"`
	ManualSolves int                          `json:"manual_solves"`
	LastAutoSync time.Time                    `json:"last_auto_sync"`
	CreatedAt    time.Time                    `json:"created_at"`
	UpdatedAt    time.Time                    `json:"updated_at"`
}

// NewJourneyRecord returns an empty journey for a user.
func NewJourneyRecord(userID string) *JourneyRecord {
	return &JourneyRecord{
		UserID: userID,
		Topics: NewTopicProgressSet(),
	}
}

// Merge overlays a snapshot onto the record. Only sections present in the
// snapshot are touched, so a failed platform sync never erases previously
// recorded progress. Topic and daily-solve merging is a union: problems
// already recorded are not added twice, and completed categories stay put.
// ManualSolves is owned by the user and deliberately left alone.
func (r *JourneyRecord) Merge(snap *JourneySnapshot) {
	if snap == nil {
		return
	}

	if snap.Topics != nil {
		if r.Topics == nil {
			r.Topics = NewTopicProgressSet()
		}
		for key, tp := range snap.Topics {
			dst, ok := r.Topics[key]
			if !ok {
				continue
			}
			for _, p := range tp.Problems {
				dst.AddSolvedProblem(p)
			}
		}
	}

	if cf := snap.Codeforces; cf != nil {
		r.Codeforces.Handle = cf.Handle
		r.Codeforces.Rating = cf.Rating
		r.Codeforces.MaxRating = cf.MaxRating
		r.Codeforces.ProblemsSolved = cf.ProblemsSolved
		r.Codeforces.Contests = cf.Contests
		r.Codeforces.DailySolves = unionDailySolves(r.Codeforces.DailySolves, cf.DailySolves)
	}

	if vj := snap.VJudge; vj != nil {
		r.VJudge.Username = vj.Username
		r.VJudge.TotalSolved = vj.TotalSolved
		r.VJudge.TotalSubmitted = vj.TotalSubmitted
		if r.VJudge.DailyActivity == nil {
			r.VJudge.DailyActivity = make(map[string]int)
		}
		for date, count := range vj.DailyActivity {
			r.VJudge.DailyActivity[date] = count
		}
		r.VJudge.RecentSolves = unionRecentSolves(r.VJudge.RecentSolves, vj.RecentSolves)
	}

	if cses := snap.CSES; cses != nil && cses.Success {
		r.Handles.CSES = cses.Username
	}

	if !snap.LastAutoSync.IsZero() {
		r.LastAutoSync = snap.LastAutoSync
	}
}

func unionDailySolves(dst, src map[string][]SolvedProblem) map[string][]SolvedProblem {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string][]SolvedProblem)
	}
	for date, list := range src {
		for _, p := range list {
			if !containsProblem(dst[date], p.ID) {
				dst[date] = append(dst[date], p)
			}
		}
	}
	return dst
}

func unionRecentSolves(dst, src map[string][]VJudgeSolve) map[string][]VJudgeSolve {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string][]VJudgeSolve)
	}
	for date, list := range src {
		for _, s := range list {
			duplicate := false
			for _, existing := range dst[date] {
				if existing.Problem == s.Problem {
					duplicate = true
					break
				}
			}
			if !duplicate {
				dst[date] = append(dst[date], s)
			}
		}
	}
	return dst
}

func containsProblem(list []SolvedProblem, id string) bool {
	for _, p := range list {
		if p.ID == id {
			return true
		}
	}
	return false
}

// JourneySnapshot is the ephemeral output of one aggregation. Sections are
// nil for platforms that were not synced or whose sync failed, so overlaying
// a snapshot never zeroes previously recorded data.
type JourneySnapshot struct {
	CSES         *CSESResult                 `json:"cses,omitempty"`
	Codeforces   *CodeforcesResult           `json:"codeforces,omitempty"`
	VJudge       *VJudgeResult               `json:"vjudge,omitempty"`
	Topics       map[TopicKey]*TopicProgress `json:"topics,omitempty"`
	LastAutoSync time.Time                   `json:"last_auto_sync"`
}
