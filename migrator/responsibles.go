// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"context"
	"sort"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"

	"github.com/mattermost/issue-migrator/model"
)

// Responsible is a source user that issues are assigned to, with the
// target user the mapping resolves it to, if any.
type Responsible struct {
	Username string
	MappedTo string
	Mapped   bool
}

// ListResponsibles reports the distinct responsible users of the source
// issues, sorted by name. It makes no target calls. Users missing from a
// configured mapping are logged as warnings.
func (m *Migrator) ListResponsibles(ctx context.Context) ([]Responsible, error) {
	issues, ids, err := m.fetchAllIssues(ctx)
	if err != nil {
		return nil, err
	}

	ordered := make([]*model.Issue, 0, len(ids))
	for _, id := range ids {
		ordered = append(ordered, issues[id])
	}
	usernames := responsibleUsernames(ordered)

	responsibles := make([]Responsible, 0, len(usernames))
	for _, username := range usernames {
		target, ok := m.Users.Lookup(username)
		responsibles = append(responsibles, Responsible{Username: username, MappedTo: target, Mapped: ok})
	}

	if m.Users != nil {
		for _, username := range m.Users.Missing(usernames) {
			mlog.Warn("User is not in the mapping file", mlog.String("user", username))
		}
	}
	return responsibles, nil
}

// responsibleUsernames returns the distinct non-empty responsible
// usernames, sorted.
func responsibleUsernames(issues []*model.Issue) []string {
	seen := make(map[string]struct{})
	usernames := []string{}
	for _, issue := range issues {
		if issue.Responsible == "" {
			continue
		}
		if _, ok := seen[issue.Responsible]; ok {
			continue
		}
		seen[issue.Responsible] = struct{}{}
		usernames = append(usernames, issue.Responsible)
	}
	sort.Strings(usernames)
	return usernames
}
