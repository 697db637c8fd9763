package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCfRatingJSON(t *testing.T) {
	rated, err := json.Marshal(CfRating{Value: 2100, Rated: true})
	require.NoError(t, err)
	require.Equal(t, "2100", string(rated))

	unrated, err := json.Marshal(CfRating{})
	require.NoError(t, err)
	require.Equal(t, `"Unrated"`, string(unrated))

	var r CfRating
	require.NoError(t, json.Unmarshal([]byte("1834"), &r))
	require.True(t, r.Rated)
	require.Equal(t, 1834, r.Value)

	require.NoError(t, json.Unmarshal([]byte(`"Unrated"`), &r))
	require.False(t, r.Rated)
}

func TestPlatformResultSucceeded(t *testing.T) {
	require.True(t, PlatformResult{
		Platform: PlatformCSES,
		CSES:     &CSESResult{Success: true},
	}.Succeeded())

	require.False(t, PlatformResult{
		Platform:   PlatformCodeforces,
		Codeforces: &CodeforcesResult{Success: false, Error: "timeout"},
	}.Succeeded())

	require.False(t, PlatformResult{Platform: PlatformVJudge}.Succeeded())
}
