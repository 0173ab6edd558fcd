// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/mattermost/issue-migrator/metrics"
)

func TestNewGithubClient(t *testing.T) {
	var hits int32
	var lastAuth, lastAgent atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		lastAuth.Store(r.Header.Get("Authorization"))
		lastAgent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "max-age=60")
		_, _ = w.Write([]byte(`[{"number": 1, "title": "1.0"}]`))
	}))
	defer server.Close()

	list := func(client *GithubClient) {
		milestones, resp, err := client.Issues.ListMilestones(context.Background(), "owner", "target", &github.MilestoneListOptions{State: "all"})
		require.NoError(t, checkResponse(resp, err, http.StatusOK))
		require.Len(t, milestones, 1)
	}

	t.Run("Should authenticate with a token and cache GETs", func(t *testing.T) {
		atomic.StoreInt32(&hits, 0)
		client, err := NewGithubClient(&Config{
			GithubAccessToken: "secret",
			GithubBaseURL:     server.URL + "/",
			GithubCacheSize:   1 << 20,
		}, metrics.NewPrometheusProvider())
		require.NoError(t, err)
		require.NotNil(t, client.RateLimit)

		list(client)
		list(client)
		assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
		assert.Equal(t, "Bearer secret", lastAuth.Load())
		assert.Contains(t, lastAgent.Load(), "issue-migrator/")
	})

	t.Run("Should fall back to basic auth", func(t *testing.T) {
		client, err := NewGithubClient(&Config{
			TargetUsername: "octocat",
			TargetPassword: "hunter2",
			GithubBaseURL:  server.URL + "/",
		}, metrics.NewPrometheusProvider())
		require.NoError(t, err)

		list(client)
		assert.Equal(t, "Basic b2N0b2NhdDpodW50ZXIy", lastAuth.Load())
	})

	t.Run("Should reject a malformed base url", func(t *testing.T) {
		_, err := NewGithubClient(&Config{GithubAccessToken: "t", GithubBaseURL: "://bad"}, metrics.NewPrometheusProvider())
		require.Error(t, err)
	})
}

func TestGithubClientRejectedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed","errors":[{"resource":"Issue","field":"assignee","code":"invalid","value":"ghost"}]}`))
	}))
	defer server.Close()

	client, err := NewGithubClient(&Config{GithubAccessToken: "secret", GithubBaseURL: server.URL + "/"}, metrics.NewPrometheusProvider())
	require.NoError(t, err)

	_, resp, err := client.Issues.Create(context.Background(), "o", "r", &github.IssueRequest{
		Title:    github.String("title"),
		Assignee: github.String("ghost"),
	})
	err = checkResponse(resp, err, http.StatusCreated)

	var statusErr *UnexpectedStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Got)
	assert.Equal(t, http.MethodPost, statusErr.Method)
	assert.Contains(t, statusErr.Body, `"field":"assignee"`)
	assert.Contains(t, statusErr.Body, `"code":"invalid"`)
	assert.Contains(t, err.Error(), "assignee")
}

type countingTransport struct {
	calls int32
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	atomic.AddInt32(&c.calls, 1)
	return &http.Response{StatusCode: http.StatusOK, Body: http.NoBody, Request: r}, nil
}

func TestRateLimitTransport(t *testing.T) {
	t.Run("Should pass requests within the limit", func(t *testing.T) {
		base := &countingTransport{}
		transport := NewRateLimitTransport(rate.Inf, 1, base)
		req := httptest.NewRequest(http.MethodGet, "https://api.github.com/", nil)
		for i := 0; i < 3; i++ {
			_, err := transport.RoundTrip(req)
			require.NoError(t, err)
		}
		assert.Equal(t, int32(3), atomic.LoadInt32(&base.calls))
	})

	t.Run("Should give up when the context ends while waiting", func(t *testing.T) {
		base := &countingTransport{}
		transport := NewRateLimitTransport(rate.Every(time.Hour), 1, base)
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()
		req := httptest.NewRequest(http.MethodGet, "https://api.github.com/", nil).WithContext(ctx)

		_, err := transport.RoundTrip(req)
		require.NoError(t, err)
		_, err = transport.RoundTrip(req)
		require.Error(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&base.calls))
	})
}
