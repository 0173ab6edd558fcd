// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"time"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/metrics"
	"github.com/mattermost/issue-migrator/model"
	"github.com/mattermost/issue-migrator/store"
)

// Migrator moves the issues of one source repository into one empty target
// repository, keeping every issue number.
type Migrator struct {
	Config       *Config
	Source       Source
	GithubClient *GithubClient
	Metrics      metrics.Provider
	// Users is optional; without it no issue gets an assignee.
	Users model.UserMapping
	// Store is optional; without it nothing is journaled or locked.
	Store store.Store

	owner   string
	repo    string
	summary model.Summary
}

func New(config *Config, source Source, client *GithubClient, provider metrics.Provider) (*Migrator, error) {
	if provider == nil {
		return nil, errors.New("a metrics provider is required")
	}
	m := &Migrator{
		Config:       config,
		Source:       source,
		GithubClient: client,
		Metrics:      provider,
	}
	if config.TargetRepository != "" {
		owner, repo, err := SplitRepository(config.TargetRepository)
		if err != nil {
			return nil, err
		}
		m.owner, m.repo = owner, repo
	}
	return m, nil
}

// Run performs the whole migration. Any error leaves the target as it is;
// the run cannot be resumed.
func (m *Migrator) Run(ctx context.Context) (*model.Summary, error) {
	start := time.Now()
	m.summary = model.Summary{}
	if m.GithubClient == nil || m.owner == "" {
		return nil, errors.New("a target repository and client are required to migrate")
	}

	if m.Store != nil {
		mutex, err := m.Store.Mutex(m.Config.TargetRepository)
		if err != nil {
			return nil, errors.Wrap(err, "could not create the migration lock")
		}
		if err = mutex.Lock(ctx); err != nil {
			return nil, errors.Wrap(err, "could not take the migration lock")
		}
		defer func() {
			if err := mutex.Unlock(); err != nil {
				mlog.Error("Failed to release the migration lock", mlog.Err(err))
			}
		}()
	}

	var (
		issues     map[int]*model.Issue
		ids        []int
		milestones map[string]int
		labels     map[int][]string
	)
	phases := []struct {
		name string
		run  func() error
	}{
		{"load_issues", func() (err error) {
			issues, ids, err = m.fetchAllIssues(ctx)
			return err
		}},
		{"preflight", func() error {
			return m.preflight(ctx, issues, ids)
		}},
		{"resolve_milestones", func() (err error) {
			milestones, err = m.resolveMilestones(ctx)
			return err
		}},
		{"load_comments", func() error {
			if err := m.loadComments(ctx, issues, ids); err != nil {
				return err
			}
			m.checkRateLimit(ctx, estimateWrites(issues, ids))
			return nil
		}},
		{"create_issues", func() (err error) {
			labels, err = m.recreateIssues(ctx, ids, issues, milestones)
			return err
		}},
		{"finalize", func() error {
			return m.finalize(ctx, issues, labels)
		}},
	}

	for _, phase := range phases {
		if err := m.runPhase(phase.name, phase.run); err != nil {
			return nil, err
		}
	}

	summary := m.summary
	summary.Elapsed = time.Since(start)
	return &summary, nil
}

func (m *Migrator) runPhase(name string, run func() error) error {
	mlog.Info("Starting migration phase", mlog.String("phase", name))
	start := time.Now()
	err := run()
	elapsed := time.Since(start)
	m.Metrics.ObservePhaseDuration(name, elapsed.Seconds())
	if err != nil {
		m.Metrics.IncreasePhaseErrors(name)
		return err
	}
	mlog.Info("Finished migration phase", mlog.String("phase", name), mlog.String("elapsed", elapsed.String()))
	return nil
}
