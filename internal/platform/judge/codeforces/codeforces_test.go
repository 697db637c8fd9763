package codeforces

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cp_journey/internal/domain/model"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:    srv.URL,
		HTTPClient: srv.Client(),
	})
}

func apiOK(result string) string {
	return fmt.Sprintf(`{"status":"OK","result":%s}`, result)
}

func submissionJSON(id int64, when time.Time, contestID int, index, name, verdict, participantType string) string {
	return fmt.Sprintf(`{
		"id": %d,
		"creationTimeSeconds": %d,
		"verdict": %q,
		"problem": {"contestId": %d, "index": %q, "name": %q},
		"author": {"participantType": %q}
	}`, id, when.Unix(), verdict, contestID, index, name, participantType)
}

func TestFetchProgressDeduplicatesProblems(t *testing.T) {
	day1 := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.Local)
	day2 := day1.AddDate(0, 0, 1)
	day3 := day1.AddDate(0, 0, 2)

	// (1700,A) accepted on three different days plus one (1700,B) accept.
	// Listings arrive newest first, like the real API.
	status := apiOK(fmt.Sprintf("[%s,%s,%s,%s]",
		submissionJSON(4, day3, 1700, "A", "Maximum Crossings", "OK", "PRACTICE"),
		submissionJSON(3, day2, 1700, "A", "Maximum Crossings", "OK", "PRACTICE"),
		submissionJSON(2, day1.Add(2*time.Hour), 1700, "B", "Palindromic Numbers", "OK", "CONTESTANT"),
		submissionJSON(1, day1, 1700, "A", "Maximum Crossings", "OK", "CONTESTANT"),
	))

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user.info":
			w.Write([]byte(apiOK(`[{"handle":"someone","rating":1834,"maxRating":1901}]`)))
		case "/api/user.status":
			w.Write([]byte(status))
		default:
			http.NotFound(w, r)
		}
	}))

	result := client.FetchProgress(context.Background(), "someone")
	require.True(t, result.Success, result.Error)
	require.Equal(t, 2, result.ProblemsSolved, "unique problems, not accepted submissions")

	// (1700,A) appears only under its first accepted date. Within the date,
	// problems keep the order they were encountered in the listing.
	firstDay := model.DateKey(day1)
	require.Equal(t, []model.SolvedProblem{
		{ID: "1700B", Name: "Palindromic Numbers"},
		{ID: "1700A", Name: "Maximum Crossings"},
	}, result.DailySolves[firstDay])
	require.NotContains(t, result.DailySolves, model.DateKey(day2))
	require.NotContains(t, result.DailySolves, model.DateKey(day3))

	require.Equal(t, 1834, result.Rating.Value)
	require.True(t, result.Rating.Rated)
	require.Equal(t, 1901, result.MaxRating)
}

func TestFetchProgressContestCounting(t *testing.T) {
	now := time.Now()

	// Contest 1700 has one genuine contestant submission (a rejected one);
	// contest 1800 was only ever practiced. Only 1700 counts.
	status := apiOK(fmt.Sprintf("[%s,%s,%s]",
		submissionJSON(3, now, 1800, "A", "Practice Run", "OK", "PRACTICE"),
		submissionJSON(2, now, 1700, "B", "Near Miss", "WRONG_ANSWER", "CONTESTANT"),
		submissionJSON(1, now, 1700, "A", "Warmup", "OK", "VIRTUAL"),
	))

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/user.info":
			w.Write([]byte(apiOK(`[{"handle":"someone"}]`)))
		case "/api/user.status":
			w.Write([]byte(status))
		default:
			http.NotFound(w, r)
		}
	}))

	result := client.FetchProgress(context.Background(), "someone")
	require.True(t, result.Success, result.Error)
	require.Equal(t, 1, result.Contests)

	// No rating field in user.info means unrated.
	require.False(t, result.Rating.Rated)
	data, err := json.Marshal(result.Rating)
	require.NoError(t, err)
	require.Equal(t, `"Unrated"`, string(data))
}

func TestFetchProgressAPIFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"FAILED","comment":"handles: User with handle nobody not found"}`))
	}))

	result := client.FetchProgress(context.Background(), "nobody")
	require.False(t, result.Success)
	require.Contains(t, result.Error, "not found")
	require.Zero(t, result.ProblemsSolved)
	require.Zero(t, result.Contests)
	require.Empty(t, result.DailySolves)
}

func TestFetchProgressTransportFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))

	result := client.FetchProgress(context.Background(), "someone")
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
}
