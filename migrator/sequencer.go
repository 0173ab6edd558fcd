// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/metrics"
	"github.com/mattermost/issue-migrator/model"
)

const (
	PlaceholderTitle = "Deleted Issue"
	PlaceholderBody  = "This issue was deleted"

	footerSeparator = "\n\n\n---------------------------------------\n"
)

// recreateIssues creates the target issues one at a time in ascending id
// order. Every id missing from the source is filled with a closed
// placeholder so that the target numbering matches the source. It returns
// the labels computed for every migrated issue.
func (m *Migrator) recreateIssues(ctx context.Context, ids []int, issues map[int]*model.Issue, milestones map[string]int) (map[int][]string, error) {
	labels := make(map[int][]string, len(ids))
	expected := 1
	for _, id := range ids {
		for expected < id {
			if err := m.createPlaceholder(ctx, expected); err != nil {
				return nil, err
			}
			expected++
		}

		issue := issues[id]
		request := m.issueRequest(issue, milestones)
		created, resp, err := m.GithubClient.Issues.Create(ctx, m.owner, m.repo, request)
		if err = checkResponse(resp, err, http.StatusCreated); err != nil {
			return nil, errors.Wrapf(err, "could not create issue #%d", id)
		}
		if created.GetNumber() != id {
			return nil, &IdentityDriftError{Expected: id, Got: created.GetNumber()}
		}
		mlog.Info("Migrated issue", mlog.Int("issue", id))

		labels[id] = *request.Labels
		if err = m.record(ctx, id, false, *request.Labels); err != nil {
			return nil, err
		}
		m.summary.Issues++
		m.Metrics.IncreaseIssuesCreated(metrics.IssueKindMigrated)
		expected++
	}
	return labels, nil
}

// createPlaceholder consumes number on the target with a closed issue. The
// number is verified before the issue is closed.
func (m *Migrator) createPlaceholder(ctx context.Context, number int) error {
	created, resp, err := m.GithubClient.Issues.Create(ctx, m.owner, m.repo, &github.IssueRequest{
		Title: github.String(PlaceholderTitle),
		Body:  github.String(PlaceholderBody),
	})
	if err = checkResponse(resp, err, http.StatusCreated); err != nil {
		return errors.Wrapf(err, "could not create placeholder issue #%d", number)
	}
	if created.GetNumber() != number {
		return &IdentityDriftError{Expected: number, Got: created.GetNumber(), Placeholder: true}
	}

	_, resp, err = m.GithubClient.Issues.Edit(ctx, m.owner, m.repo, number, &github.IssueRequest{
		State: github.String(model.StateClosed),
	})
	if err = checkResponse(resp, err, http.StatusOK); err != nil {
		return errors.Wrapf(err, "could not close placeholder issue #%d", number)
	}
	mlog.Info("Created placeholder for deleted issue", mlog.Int("issue", number))

	if err = m.record(ctx, number, true, nil); err != nil {
		return err
	}
	m.summary.Placeholders++
	m.Metrics.IncreaseIssuesCreated(metrics.IssueKindPlaceholder)
	return nil
}

func (m *Migrator) issueRequest(issue *model.Issue, milestones map[string]int) *github.IssueRequest {
	labels := issue.Labels()
	request := &github.IssueRequest{
		Title:  github.String(issue.Title),
		Body:   github.String(issue.Content + m.issueFooter(issue)),
		Labels: &labels,
	}
	if number, ok := milestones[issue.Milestone]; ok && issue.Milestone != "" {
		request.Milestone = github.Int(number)
	}
	if assignee, ok := m.Users.Lookup(issue.Responsible); ok {
		request.Assignee = github.String(assignee)
	} else if m.Users != nil && issue.Responsible != "" {
		mlog.Warn("Responsible user is not in the mapping file, leaving the issue unassigned",
			mlog.Int("issue", issue.ID), mlog.String("user", issue.Responsible))
		m.summary.UnmappedResponsibles++
	}
	return request
}

func (m *Migrator) issueFooter(issue *model.Issue) string {
	return footerSeparator +
		fmt.Sprintf("- Imported from BitBucket: %s\n", m.Source.IssueURL(issue.ID)) +
		fmt.Sprintf("- Originally Reported By: %s\n", issue.Reporter()) +
		fmt.Sprintf("- Originally Created At: %s", issue.CreatedOn)
}

// record journals a created target issue when a store is configured.
// Placeholders need no finalization.
func (m *Migrator) record(ctx context.Context, number int, placeholder bool, labels []string) error {
	if m.Store == nil {
		return nil
	}
	err := m.Store.Journal().Save(ctx, &model.JournalEntry{
		TargetRepo:  m.Config.TargetRepository,
		Number:      number,
		SourceRepo:  m.Config.SourceRepository,
		Placeholder: placeholder,
		Labels:      labels,
		Finalized:   placeholder,
		CreatedAt:   time.Now().UTC(),
	})
	return errors.Wrapf(err, "could not journal issue #%d", number)
}
