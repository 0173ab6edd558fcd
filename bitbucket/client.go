// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

// Package bitbucket reads issues, comments and milestones from the
// Bitbucket 1.0 issue tracker API.
package bitbucket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/model"
	"github.com/mattermost/issue-migrator/version"
)

const (
	DefaultAPIURL = "https://bitbucket.org/api/1.0/repositories/"
	DefaultWebURL = "https://bitbucket.org/"

	maxResponseSize = 50 * 1024 * 1024
)

// StatusError is returned when the source answers with an unexpected status.
// Body holds the raw response for the operator.
type StatusError struct {
	Method   string
	URL      string
	Expected int
	Got      int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: expected status %d, got %d", e.Method, e.URL, e.Expected, e.Got)
}

// Client talks to a single source repository. Requests are never retried.
type Client struct {
	Repository string
	APIURL     string
	WebURL     string

	username string
	password string

	httpClient *http.Client
}

// NewClient creates a client for repository ("owner/slug"). Empty URLs fall
// back to the public Bitbucket endpoints; a nil httpClient uses
// http.DefaultClient.
func NewClient(repository, apiURL, webURL string, httpClient *http.Client) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if webURL == "" {
		webURL = DefaultWebURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		Repository: repository,
		APIURL:     strings.TrimRight(apiURL, "/") + "/",
		WebURL:     strings.TrimRight(webURL, "/") + "/",
		httpClient: httpClient,
	}
}

// WithCredentials enables basic auth for private repositories.
func (c *Client) WithCredentials(username, password string) *Client {
	c.username = username
	c.password = password
	return c
}

// IssueURL is the web address of a source issue, used in provenance footers.
func (c *Client) IssueURL(id int) string {
	return fmt.Sprintf("%s%s/issue/%d", c.WebURL, c.Repository, id)
}

// ListIssues returns one page of issues sorted by local id.
func (c *Client) ListIssues(ctx context.Context, start, limit int) ([]*model.Issue, error) {
	params := url.Values{}
	params.Set("start", strconv.Itoa(start))
	params.Set("limit", strconv.Itoa(limit))
	params.Set("sort", "local_id")

	var page issuesPage
	if err := c.get(ctx, "issues", params, &page); err != nil {
		return nil, errors.Wrapf(err, "could not list issues from %d", start)
	}

	issues := make([]*model.Issue, 0, len(page.Issues))
	for _, i := range page.Issues {
		issues = append(issues, i.toModel())
	}
	return issues, nil
}

func (c *Client) ListMilestones(ctx context.Context) ([]*model.Milestone, error) {
	var raw []*milestone
	if err := c.get(ctx, "issues/milestones", nil, &raw); err != nil {
		return nil, errors.Wrap(err, "could not list milestones")
	}

	milestones := make([]*model.Milestone, 0, len(raw))
	for _, m := range raw {
		milestones = append(milestones, &model.Milestone{Name: m.Name})
	}
	return milestones, nil
}

// ListComments returns the comments of an issue in source order.
func (c *Client) ListComments(ctx context.Context, issueID int) ([]*model.Comment, error) {
	var raw []*comment
	if err := c.get(ctx, fmt.Sprintf("issues/%d/comments", issueID), nil, &raw); err != nil {
		return nil, errors.Wrapf(err, "could not list comments of issue %d", issueID)
	}

	comments := make([]*model.Comment, 0, len(raw))
	for _, cm := range raw {
		comments = append(comments, cm.toModel())
	}
	return comments, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v interface{}) error {
	u := c.APIURL + c.Repository + "/" + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", version.UserAgent())
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return errors.Wrap(err, "could not read response")
	}

	if resp.StatusCode != http.StatusOK {
		return &StatusError{
			Method:   req.Method,
			URL:      u,
			Expected: http.StatusOK,
			Got:      resp.StatusCode,
			Body:     string(body),
		}
	}

	if err := json.Unmarshal(body, v); err != nil {
		return errors.Wrap(err, "could not decode response")
	}
	return nil
}
