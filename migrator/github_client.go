// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

//go:generate mockgen -destination=mocks/github_mock.go -package=mocks github.com/mattermost/issue-migrator/migrator IssuesService,RateLimitService

import (
	"context"
	"net/http"

	"github.com/die-net/lrucache"
	"github.com/google/go-github/v39/github"
	"github.com/m4ns0ur/httpcache"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/mattermost/issue-migrator/metrics"
	"github.com/mattermost/issue-migrator/version"
)

// cacheMaxAge bounds how long cached GET responses are kept, in seconds.
const cacheMaxAge = 10 * 60

type IssuesService interface {
	Create(ctx context.Context, owner string, repo string, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
	Edit(ctx context.Context, owner string, repo string, number int, issue *github.IssueRequest) (*github.Issue, *github.Response, error)
	CreateComment(ctx context.Context, owner string, repo string, number int, comment *github.IssueComment) (*github.IssueComment, *github.Response, error)
	ListByRepo(ctx context.Context, owner string, repo string, opts *github.IssueListByRepoOptions) ([]*github.Issue, *github.Response, error)
	ListMilestones(ctx context.Context, owner string, repo string, opts *github.MilestoneListOptions) ([]*github.Milestone, *github.Response, error)
	CreateMilestone(ctx context.Context, owner string, repo string, milestone *github.Milestone) (*github.Milestone, *github.Response, error)
}

type RateLimitService interface {
	RateLimits(ctx context.Context) (*github.RateLimits, *github.Response, error)
}

// GithubClient wraps the github.Client with the interfaces the migration uses.
type GithubClient struct {
	client *github.Client

	Issues    IssuesService
	RateLimit RateLimitService
}

// NewGithubClient builds the target client. Requests go through the metrics
// transport, the GET cache, the throttle and finally the authentication
// transport, in that order.
func NewGithubClient(config *Config, provider metrics.Provider) (*GithubClient, error) {
	var transport http.RoundTripper = http.DefaultTransport
	if config.GithubAccessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.GithubAccessToken})
		transport = &oauth2.Transport{Source: ts, Base: transport}
	} else {
		transport = &github.BasicAuthTransport{
			Username:  config.TargetUsername,
			Password:  config.TargetPassword,
			Transport: transport,
		}
	}

	if config.GithubRequestsPerSecond > 0 {
		burst := int(config.GithubRequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		transport = NewRateLimitTransport(rate.Limit(config.GithubRequestsPerSecond), burst, transport)
	}

	if config.GithubCacheSize > 0 {
		cache := httpcache.NewTransport(lrucache.New(config.GithubCacheSize, cacheMaxAge))
		cache.Transport = transport
		cache.MarkCachedResponses = true
		transport = cache
	}

	httpClient := metrics.NewTransport(transport, provider, "github").Client()

	var client *github.Client
	if config.GithubBaseURL != "" {
		var err error
		client, err = github.NewEnterpriseClient(config.GithubBaseURL, config.GithubBaseURL, httpClient)
		if err != nil {
			return nil, errors.Wrap(err, "invalid github base url")
		}
	} else {
		client = github.NewClient(httpClient)
	}
	client.UserAgent = version.UserAgent()

	return &GithubClient{
		client:    client,
		Issues:    client.Issues,
		RateLimit: client,
	}, nil
}
