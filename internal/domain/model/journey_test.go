package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTopicTableClassify(t *testing.T) {
	table := TopicTable{
		TopicIntro: {1068, 1083},
		TopicDP:    {1633},
	}

	for id, want := range map[string]TopicKey{
		"1068": TopicIntro,
		"1083": TopicIntro,
		"1633": TopicDP,
	} {
		key, ok := table.Classify(id)
		require.True(t, ok, "id %s should classify", id)
		require.Equal(t, want, key)
	}

	// Ids absent from every bucket are counted nowhere.
	_, ok := table.Classify("9999")
	require.False(t, ok)
	_, ok = table.Classify("not-a-number")
	require.False(t, ok)
}

func TestTopicProgressCapAndDedupe(t *testing.T) {
	tp := &TopicProgress{Title: "Dynamic Programming", Total: 2}

	require.True(t, tp.AddSolvedProblem(SolvedProblem{ID: "1633", Name: "Dice Combinations"}))
	require.False(t, tp.AddSolvedProblem(SolvedProblem{ID: "1633", Name: "Dice Combinations"}), "duplicate id must be a no-op")
	require.True(t, tp.AddSolvedProblem(SolvedProblem{ID: "1634", Name: "Minimizing Coins"}))
	require.Equal(t, 2, tp.Solved)

	// Category complete: further additions leave the progress unchanged.
	require.False(t, tp.AddSolvedProblem(SolvedProblem{ID: "1635", Name: "Coin Combinations I"}))
	require.Equal(t, 2, tp.Solved)
	require.Len(t, tp.Problems, 2)
}

func TestJourneyRecordMergeUnionAndIsolation(t *testing.T) {
	record := NewJourneyRecord("u1")
	record.ManualSolves = 7
	record.Codeforces = CodeforcesStats{
		Handle:         "tourist",
		Rating:         CfRating{Value: 1500, Rated: true},
		ProblemsSolved: 10,
		DailySolves: map[string][]SolvedProblem{
			"Mon Jan 01 2024": {{ID: "1700A", Name: "Old"}},
		},
	}

	// Snapshot from a sync where only VJudge succeeded.
	snap := &JourneySnapshot{
		VJudge: &VJudgeResult{
			Success:       true,
			Username:      "vj_user",
			TotalSolved:   42,
			DailyActivity: map[string]int{"Mon Jan 01 2024": 3},
			RecentSolves: map[string][]VJudgeSolve{
				"Mon Jan 01 2024": {{Problem: "CF-1700A"}},
			},
		},
	}
	record.Merge(snap)

	// Codeforces data from the previous sync is untouched.
	require.Equal(t, 10, record.Codeforces.ProblemsSolved)
	require.Equal(t, 1500, record.Codeforces.Rating.Value)
	require.Equal(t, 42, record.VJudge.TotalSolved)
	require.Equal(t, 7, record.ManualSolves, "manual counter is never touched by sync")

	// Re-merging the same snapshot does not duplicate recent solves.
	record.Merge(snap)
	require.Len(t, record.VJudge.RecentSolves["Mon Jan 01 2024"], 1)
}

func TestJourneyRecordMergeDailySolvesUnion(t *testing.T) {
	record := NewJourneyRecord("u1")
	record.Codeforces.DailySolves = map[string][]SolvedProblem{
		"Mon Jan 01 2024": {{ID: "1700A", Name: "A"}},
	}

	snap := &JourneySnapshot{
		Codeforces: &CodeforcesResult{
			Success: true,
			DailySolves: map[string][]SolvedProblem{
				"Mon Jan 01 2024": {
					{ID: "1700A", Name: "A"}, // already recorded
					{ID: "1700B", Name: "B"},
				},
			},
		},
	}
	record.Merge(snap)

	require.Len(t, record.Codeforces.DailySolves["Mon Jan 01 2024"], 2)
}

func TestJourneyRecordMergeTopicsRespectsCap(t *testing.T) {
	record := NewJourneyRecord("u1")

	topics := NewTopicProgressSet()
	topics[TopicDP].AddSolvedProblem(SolvedProblem{ID: "1633", Name: "Dice Combinations"})
	topics[TopicDP].AddSolvedProblem(SolvedProblem{ID: "1634", Name: "Minimizing Coins"})

	record.Merge(&JourneySnapshot{Topics: topics})
	require.Equal(t, 2, record.Topics[TopicDP].Solved)

	// Same solves again: union, not double counting.
	record.Merge(&JourneySnapshot{Topics: topics})
	require.Equal(t, 2, record.Topics[TopicDP].Solved)
}

func TestDateKeyLayout(t *testing.T) {
	d := time.Date(2024, time.January, 1, 15, 4, 5, 0, time.Local)
	require.Equal(t, "Mon Jan 01 2024", DateKey(d))
}
