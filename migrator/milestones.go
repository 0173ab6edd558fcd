// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"net/http"

	"github.com/google/go-github/v39/github"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const milestonesPerPage = 100

// resolveMilestones maps every source milestone name to a target milestone
// number, creating the milestones the target lacks.
func (m *Migrator) resolveMilestones(ctx context.Context) (map[string]int, error) {
	sourceMilestones, err := m.Source.ListMilestones(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not list source milestones")
	}

	numbers, err := m.targetMilestones(ctx)
	if err != nil {
		return nil, err
	}

	resolved := make(map[string]int, len(sourceMilestones))
	for _, milestone := range sourceMilestones {
		if milestone.Name == "" {
			continue
		}
		if number, ok := numbers[milestone.Name]; ok {
			resolved[milestone.Name] = number
			continue
		}

		mlog.Info("Creating milestone", mlog.String("milestone", milestone.Name))
		created, resp, err := m.GithubClient.Issues.CreateMilestone(ctx, m.owner, m.repo, &github.Milestone{
			Title: github.String(milestone.Name),
		})
		if err = checkResponse(resp, err, http.StatusCreated); err != nil {
			return nil, errors.Wrapf(err, "could not create milestone %q", milestone.Name)
		}
		numbers[milestone.Name] = created.GetNumber()
		resolved[milestone.Name] = created.GetNumber()
		m.summary.Milestones++
		m.Metrics.IncreaseMilestonesCreated()
	}

	return resolved, nil
}

// targetMilestones lists open and closed target milestones by title.
func (m *Migrator) targetMilestones(ctx context.Context) (map[string]int, error) {
	numbers := make(map[string]int)
	for page := 1; ; page++ {
		milestones, resp, err := m.GithubClient.Issues.ListMilestones(ctx, m.owner, m.repo, &github.MilestoneListOptions{
			State:       "all",
			ListOptions: github.ListOptions{Page: page, PerPage: milestonesPerPage},
		})
		if err = checkResponse(resp, err, http.StatusOK); err != nil {
			return nil, errors.Wrapf(err, "could not list target milestones page %d", page)
		}
		if len(milestones) == 0 {
			break
		}
		for _, milestone := range milestones {
			numbers[milestone.GetTitle()] = milestone.GetNumber()
		}
	}
	return numbers, nil
}
