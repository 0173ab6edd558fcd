// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"sync"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/go-github/v39/github"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/issue-migrator/metrics"
	"github.com/mattermost/issue-migrator/migrator/mocks"
	"github.com/mattermost/issue-migrator/model"
)

const (
	testOwner  = "owner"
	testRepo   = "target"
	testSource = "owner/source"
)

var ctxInterface = reflect.TypeOf((*context.Context)(nil)).Elem()

func anyCtx() gomock.Matcher {
	return gomock.AssignableToTypeOf(ctxInterface)
}

func response(method string, code int) *github.Response {
	return &github.Response{Response: &http.Response{
		StatusCode: code,
		Body:       http.NoBody,
		Request:    &http.Request{Method: method, URL: &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/owner/target/issues"}},
	}}
}

func testConfig() *Config {
	return &Config{
		SourceRepository: testSource,
		SourcePageSize:   2,
		TargetRepository: testOwner + "/" + testRepo,
		Workers:          DefaultWorkers,
	}
}

func newTestMigrator(t *testing.T, issues IssuesService, source Source) *Migrator {
	t.Helper()
	m, err := New(testConfig(), source, &GithubClient{Issues: issues}, metrics.NewPrometheusProvider())
	require.NoError(t, err)
	return m
}

// newMockSource returns a source mock whose issue URLs are always available.
func newMockSource(ctrl *gomock.Controller) *mocks.MockSource {
	source := mocks.NewMockSource(ctrl)
	source.EXPECT().IssueURL(gomock.Any()).DoAndReturn(func(id int) string {
		return fmt.Sprintf("https://bitbucket.org/%s/issue/%d", testSource, id)
	}).AnyTimes()
	return source
}

func timestamp(t *testing.T, raw string) model.Timestamp {
	t.Helper()
	ts, err := model.ParseTimestamp(raw)
	require.NoError(t, err)
	return ts
}

// fakeTarget is an in-memory target that allocates issue numbers the way
// the real one does.
type fakeTarget struct {
	mu sync.Mutex

	existing   []*github.Issue
	milestones []*github.Milestone
	// driftAt makes the target skip a number when that number is next.
	driftAt int

	next     int
	created  []*github.IssueRequest
	numbers  []int
	edits    map[int][]*github.IssueRequest
	comments map[int][]string
	writes   int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		edits:    make(map[int][]*github.IssueRequest),
		comments: make(map[int][]string),
	}
}

func (f *fakeTarget) Create(_ context.Context, _, _ string, issue *github.IssueRequest) (*github.Issue, *github.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.next++
	if f.driftAt != 0 && f.next == f.driftAt {
		f.next++
	}
	f.writes++
	f.created = append(f.created, issue)
	f.numbers = append(f.numbers, f.next)
	return &github.Issue{Number: github.Int(f.next)}, response(http.MethodPost, http.StatusCreated), nil
}

func (f *fakeTarget) Edit(_ context.Context, _, _ string, number int, issue *github.IssueRequest) (*github.Issue, *github.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.edits[number] = append(f.edits[number], issue)
	return &github.Issue{Number: github.Int(number)}, response(http.MethodPatch, http.StatusOK), nil
}

func (f *fakeTarget) CreateComment(_ context.Context, _, _ string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	f.comments[number] = append(f.comments[number], comment.GetBody())
	return comment, response(http.MethodPost, http.StatusCreated), nil
}

func (f *fakeTarget) ListByRepo(_ context.Context, _, _ string, _ *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error) {
	return f.existing, response(http.MethodGet, http.StatusOK), nil
}

func (f *fakeTarget) ListMilestones(_ context.Context, _, _ string, opts *github.MilestoneListOptions) ([]*github.Milestone, *github.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if opts.Page != 1 {
		return nil, response(http.MethodGet, http.StatusOK), nil
	}
	return f.milestones, response(http.MethodGet, http.StatusOK), nil
}

func (f *fakeTarget) CreateMilestone(_ context.Context, _, _ string, milestone *github.Milestone) (*github.Milestone, *github.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes++
	milestone.Number = github.Int(len(f.milestones) + 1)
	f.milestones = append(f.milestones, milestone)
	return milestone, response(http.MethodPost, http.StatusCreated), nil
}

// fakeSource serves a fixed set of issues and comments.
type fakeSource struct {
	issues     []*model.Issue
	comments   map[int][]*model.Comment
	milestones []*model.Milestone
}

func (s *fakeSource) ListIssues(_ context.Context, start, limit int) ([]*model.Issue, error) {
	if start >= len(s.issues) {
		return nil, nil
	}
	end := start + limit
	if end > len(s.issues) {
		end = len(s.issues)
	}
	return s.issues[start:end], nil
}

func (s *fakeSource) ListMilestones(_ context.Context) ([]*model.Milestone, error) {
	return s.milestones, nil
}

func (s *fakeSource) ListComments(_ context.Context, id int) ([]*model.Comment, error) {
	comments := make([]*model.Comment, len(s.comments[id]))
	copy(comments, s.comments[id])
	return comments, nil
}

func (s *fakeSource) IssueURL(id int) string {
	return fmt.Sprintf("https://bitbucket.org/%s/issue/%d", testSource, id)
}
