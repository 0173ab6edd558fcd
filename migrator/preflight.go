// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"net/http"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/model"
)

// ErrTargetNotEmpty is returned when the target already holds issues or
// pull requests, so its numbering cannot start at 1.
var ErrTargetNotEmpty = errors.New("target repository already has issues or pull requests; migrate into a freshly created repository")

// ErrAlreadyJournaled is returned when the journal already has entries for
// the target repository.
var ErrAlreadyJournaled = errors.New("the journal already holds a migration into the target repository")

// preflight checks everything that can be checked before the first write.
// Statuses are normalized in place.
func (m *Migrator) preflight(ctx context.Context, issues map[int]*model.Issue, ids []int) error {
	if err := validateStatuses(issues, ids); err != nil {
		return err
	}

	if m.Store != nil {
		count, err := m.Store.Journal().Count(ctx, m.Config.TargetRepository)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrAlreadyJournaled
		}
	}

	existing, resp, err := m.GithubClient.Issues.ListByRepo(ctx, m.owner, m.repo, &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 1},
	})
	if err = checkResponse(resp, err, http.StatusOK); err != nil {
		return errors.Wrap(err, "could not list target issues")
	}
	if len(existing) > 0 {
		return ErrTargetNotEmpty
	}
	return nil
}

// validateStatuses rejects statuses the finalizer has no action for.
func validateStatuses(issues map[int]*model.Issue, ids []int) error {
	for _, id := range ids {
		issue := issues[id]
		status, ok := model.ParseStatus(string(issue.Status))
		if !ok {
			return &UnknownStatusError{IssueID: id, Status: issue.Status}
		}
		issue.Status = status
	}
	return nil
}

// estimateWrites counts the target writes a migration will make, not
// counting milestones.
func estimateWrites(issues map[int]*model.Issue, ids []int) int {
	if len(ids) == 0 {
		return 0
	}
	// Every number up to the highest id is created, placeholders are
	// closed right away.
	last := ids[len(ids)-1]
	writes := last + (last - len(ids))
	for _, id := range ids {
		issue := issues[id]
		writes += len(issue.Comments)
		if action, _ := issue.Status.Action(); action != model.ActionNone {
			writes++
		}
	}
	return writes
}

// checkRateLimit logs the remaining target quota and warns when it looks
// too small for the run. It never waits.
func (m *Migrator) checkRateLimit(ctx context.Context, estimate int) {
	if m.GithubClient.RateLimit == nil {
		return
	}
	limits, _, err := m.GithubClient.RateLimit.RateLimits(ctx)
	if err != nil {
		mlog.Warn("Error getting the rate limit", mlog.Err(err))
		return
	}
	core := limits.GetCore()
	if core == nil {
		return
	}
	mlog.Info("Current rate limit", mlog.Int("remaining", core.Remaining), mlog.Int("limit", core.Limit), mlog.Int("estimated_writes", estimate))
	if core.Remaining < estimate {
		mlog.Warn("The rate limit is lower than the estimated number of writes, the migration may be interrupted",
			mlog.Int("remaining", core.Remaining), mlog.Int("estimated_writes", estimate), mlog.String("reset", core.Reset.Time.Format(time.RFC3339)))
	}
}
