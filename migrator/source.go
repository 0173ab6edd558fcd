// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

//go:generate mockgen -destination=mocks/source_mock.go -package=mocks github.com/mattermost/issue-migrator/migrator Source

import (
	"context"
	"sort"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/model"
)

// Source is the read-only tracker issues are migrated from.
type Source interface {
	ListIssues(ctx context.Context, start, limit int) ([]*model.Issue, error)
	ListMilestones(ctx context.Context) ([]*model.Milestone, error)
	ListComments(ctx context.Context, issueID int) ([]*model.Comment, error)
	IssueURL(id int) string
}

// fetchAllIssues pages through the source until it returns an empty page.
// The returned ids are strictly ascending.
func (m *Migrator) fetchAllIssues(ctx context.Context) (map[int]*model.Issue, []int, error) {
	issues := make(map[int]*model.Issue)
	ids := []int{}
	sorted := true

	start := 0
	for {
		page, err := m.Source.ListIssues(ctx, start, m.Config.SourcePageSize)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "could not list source issues at offset %d", start)
		}
		if len(page) == 0 {
			break
		}

		for _, issue := range page {
			if issue.ID < 1 {
				return nil, nil, errors.Errorf("source issue has invalid id %d", issue.ID)
			}
			if _, ok := issues[issue.ID]; ok {
				return nil, nil, errors.Errorf("source listed issue #%d twice", issue.ID)
			}
			if len(ids) > 0 && issue.ID < ids[len(ids)-1] {
				sorted = false
			}
			issues[issue.ID] = issue
			ids = append(ids, issue.ID)
		}
		start += len(page)
		mlog.Debug("Loaded source issues", mlog.Int("offset", start))
	}

	if !sorted {
		mlog.Warn("Source issues were not listed in ascending order, sorting them")
		sort.Ints(ids)
	}

	mlog.Info("Loaded source issues", mlog.Int("count", len(ids)))
	return issues, ids, nil
}
