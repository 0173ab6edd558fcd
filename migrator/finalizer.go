// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync/atomic"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/model"
)

type finalizeJob struct {
	ID     int
	Labels []string
}

type finalizeCounters struct {
	comments      atomic.Int64
	statusUpdates atomic.Int64
}

// finalize replays the comments of every migrated issue and then applies
// its final status. Each issue is handled by a single worker so its
// comments keep their order.
func (m *Migrator) finalize(ctx context.Context, issues map[int]*model.Issue, labels map[int][]string) error {
	jobs := make([]finalizeJob, 0, len(labels))
	for id, l := range labels {
		jobs = append(jobs, finalizeJob{ID: id, Labels: l})
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })

	var counters finalizeCounters
	err := drain(ctx, m.Config.Workers, newWorkQueue(jobs), func(ctx context.Context, job finalizeJob) error {
		return m.finalizeIssue(ctx, issues[job.ID], job.Labels, &counters)
	})
	m.summary.Comments += int(counters.comments.Load())
	m.summary.StatusUpdates += int(counters.statusUpdates.Load())
	return err
}

func (m *Migrator) finalizeIssue(ctx context.Context, issue *model.Issue, labels []string, counters *finalizeCounters) error {
	for _, comment := range issue.Comments {
		_, resp, err := m.GithubClient.Issues.CreateComment(ctx, m.owner, m.repo, issue.ID, &github.IssueComment{
			Body: github.String(comment.Content + commentFooter(issue, comment)),
		})
		if err = checkResponse(resp, err, http.StatusCreated); err != nil {
			return errors.Wrapf(err, "could not post comment on issue #%d", issue.ID)
		}
		mlog.Debug("Posted comment", mlog.Int("issue", issue.ID), mlog.String("author", comment.AuthorName()))
		counters.comments.Add(1)
		m.Metrics.IncreaseCommentsPosted()
	}

	update, err := issue.Status.Update(labels)
	if err != nil {
		return &UnknownStatusError{IssueID: issue.ID, Status: issue.Status}
	}
	if update != nil {
		request := &github.IssueRequest{Labels: &update.Labels}
		if update.State != "" {
			request.State = github.String(update.State)
		}
		_, resp, err := m.GithubClient.Issues.Edit(ctx, m.owner, m.repo, issue.ID, request)
		if err = checkResponse(resp, err, http.StatusOK); err != nil {
			return errors.Wrapf(err, "could not set status %q on issue #%d", string(issue.Status), issue.ID)
		}
		action, _ := issue.Status.Action()
		mlog.Info("Set issue status", mlog.Int("issue", issue.ID), mlog.String("status", string(issue.Status)), mlog.String("action", action.String()))
		counters.statusUpdates.Add(1)
		m.Metrics.IncreaseStatusUpdates(action.String())
	}

	if m.Store != nil {
		if err := m.Store.Journal().MarkFinalized(ctx, m.Config.TargetRepository, issue.ID); err != nil {
			return errors.Wrapf(err, "could not journal finalization of issue #%d", issue.ID)
		}
	}
	return nil
}

func commentFooter(issue *model.Issue, comment *model.Comment) string {
	return footerSeparator + fmt.Sprintf("- Original comment by *%s* on %s\n", comment.AuthorName(), issue.CreatedOn)
}
