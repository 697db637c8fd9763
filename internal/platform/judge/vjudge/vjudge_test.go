package vjudge

import (
	"context"
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

func profileHTML(calendar string) string {
	return fmt.Sprintf(`<html><body>
<table id="profile">
<tr><td>Overall solved</td><td>123</td></tr>
<tr><td>Overall submissions</td><td>456</td></tr>
</table>
<script>var dataJson = %s;</script>
</body></html>`, calendar)
}

func TestFetchProgressDualSourcesUnreconciled(t *testing.T) {
	day := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.Local)
	dateKey := model.DateKey(day) // "Mon Jan 01 2024"

	// The calendar grid says 3 solves on Jan 1; the submissions listing only
	// shows 2 accepted runs that day. Both must be surfaced as-is.
	statusJSON := fmt.Sprintf(`{"data":[
		{"oj":"CodeForces","probNum":"1700A","status":"Accepted","time":%d},
		{"oj":"CSES","probNum":"1068","status":"Accepted","time":%d},
		{"oj":"CodeForces","probNum":"1700B","status":"Wrong answer","time":%d}
	]}`, day.UnixMilli(), day.Add(time.Hour).UnixMilli(), day.Add(2*time.Hour).UnixMilli())

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/vj_user":
			w.Write([]byte(profileHTML(`{"2024-01-01": 3}`)))
		case "/status/data":
			w.Write([]byte(statusJSON))
		default:
			http.NotFound(w, r)
		}
	}))

	result := client.FetchProgress(context.Background(), "vj_user")
	require.True(t, result.Success, result.Error)
	require.Equal(t, 123, result.TotalSolved)
	require.Equal(t, 456, result.TotalSubmitted)

	require.Equal(t, 3, result.DailyActivity[dateKey])
	require.Len(t, result.RecentSolves[dateKey], 2, "rejected runs are excluded")
	require.Equal(t, "CodeForces-1700A", result.RecentSolves[dateKey][0].Problem)
	require.Equal(t, "CSES-1068", result.RecentSolves[dateKey][1].Problem)
}

func TestFetchProgressCountsFromTextFallback(t *testing.T) {
	// A restyled profile without the stats table still exposes the counters
	// in page text.
	page := `<html><body>
<div class="stats">Overall solved: 77 / Overall attempted: 140</div>
</body></html>`

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user/vj_user":
			w.Write([]byte(page))
		case "/status/data":
			w.Write([]byte(`{"data":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))

	result := client.FetchProgress(context.Background(), "vj_user")
	require.True(t, result.Success, result.Error)
	require.Equal(t, 77, result.TotalSolved)
	require.Equal(t, 140, result.TotalSubmitted)
	require.Empty(t, result.DailyActivity)
	require.Empty(t, result.RecentSolves)
}

func TestFetchProgressProfileFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	result := client.FetchProgress(context.Background(), "ghost")
	require.False(t, result.Success)
	require.NotEmpty(t, result.Error)
	require.Zero(t, result.TotalSolved)
}

func TestFetchProgressUnparseableProfile(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>nothing useful</p></body></html>"))
	}))

	result := client.FetchProgress(context.Background(), "vj_user")
	require.False(t, result.Success)
	require.Contains(t, result.Error, "no solved counter")
}
