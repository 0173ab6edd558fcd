// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/model"
)

// loadComments attaches the time sorted comment thread to every issue.
// Each id is claimed by exactly one worker, so no issue is written twice.
func (m *Migrator) loadComments(ctx context.Context, issues map[int]*model.Issue, ids []int) error {
	return drain(ctx, m.Config.Workers, newWorkQueue(ids), func(ctx context.Context, id int) error {
		comments, err := m.Source.ListComments(ctx, id)
		if err != nil {
			return errors.Wrapf(err, "could not load comments of issue #%d", id)
		}
		model.SortComments(comments)
		issues[id].Comments = comments
		mlog.Debug("Loaded comments", mlog.Int("issue", id), mlog.Int("count", len(comments)))
		return nil
	})
}
