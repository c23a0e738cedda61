package seed

import (
	"testing"
	"time"

	"newsdesk/internal/filter"
	"newsdesk/internal/model"
	"newsdesk/internal/store"
	"newsdesk/internal/workflow"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

func TestDefault_LoadsIntoStore(t *testing.T) {
	data, err := Default(now, workflow.Display{Location: time.UTC, Label: "UTC"})
	require.NoError(t, err)

	_, err = store.NewMemoryStore(data.Articles, data.Roundups, data.Stories)
	require.NoError(t, err)

	counts := filter.CountByStatus(data.Articles)
	assert.Equal(t, 5, counts[model.StatusPending])
	assert.NotZero(t, counts[model.StatusReview])
	assert.NotZero(t, counts[model.StatusRejected])

	eligible := 0
	for _, a := range data.Articles {
		if filter.Eligible(a, now) {
			eligible++
		}
	}
	assert.GreaterOrEqual(t, eligible, workflow.MinCurated, "a fresh process can curate a roundup")

	require.NotEmpty(t, data.Stories)
	assert.Equal(t, len(data.Stories[0].ArticleIDs), data.Stories[0].EventCount)
	assert.Equal(t, "UTC", data.Roundups[0].PublishedTimezone)
	assert.Equal(t, now.Add(-2*time.Hour), data.Roundups[0].PublishAt)
}

func TestDefault_ElectionArticlesArePending(t *testing.T) {
	data, err := Default(now, workflow.Display{})
	require.NoError(t, err)

	q := filter.DefaultQuery()
	q.Search = "election"
	got := filter.FilterAndSort(data.Articles, q)

	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, model.StatusPending, a.Status)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := map[string]string{
		"bad duration":   "articles:\n  - id: a\n    ingested_ago: soon\n    safety_score: 3\n    status: pending\n",
		"bad score":      "articles:\n  - id: a\n    ingested_ago: 1h\n    safety_score: 9\n    status: pending\n",
		"bad status":     "articles:\n  - id: a\n    ingested_ago: 1h\n    safety_score: 3\n    status: published\n",
		"bad collection": "roundups:\n  - id: r\n    status: gone\n    published_ago: 1h\n    duration: 1h\n",
		"not yaml":       "articles: [",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(raw), now, workflow.Display{})
			assert.Error(t, err)
		})
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(t.TempDir()+"/nope.yaml", now, workflow.Display{})
	assert.Error(t, err)
}
