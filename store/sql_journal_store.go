// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/mattermost/issue-migrator/model"
)

type SQLJournalStore struct {
	*SQLStore
}

func newSQLJournalStore(sqlStore *SQLStore) JournalStore {
	return &SQLJournalStore{sqlStore}
}

func (s *SQLJournalStore) Save(ctx context.Context, entry *model.JournalEntry) error {
	if _, err := s.db.NamedExecContext(ctx,
		`INSERT INTO MigratedIssues
			(TargetRepo, Number, SourceRepo, Placeholder, Labels, Finalized, CreatedAt)
		VALUES
			(:TargetRepo, :Number, :SourceRepo, :Placeholder, :Labels, :Finalized, :CreatedAt)`, entry); err != nil {
		return errors.Wrapf(err, "could not save journal entry repo=%s number=%d", entry.TargetRepo, entry.Number)
	}
	return nil
}

func (s *SQLJournalStore) MarkFinalized(ctx context.Context, targetRepo string, number int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE MigratedIssues SET Finalized = 1 WHERE TargetRepo = ? AND Number = ?`, targetRepo, number)
	if err != nil {
		return errors.Wrapf(err, "could not finalize journal entry repo=%s number=%d", targetRepo, number)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Errorf("no journal entry for repo=%s number=%d", targetRepo, number)
	}
	return nil
}

func (s *SQLJournalStore) Count(ctx context.Context, targetRepo string) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM MigratedIssues WHERE TargetRepo = ?`, targetRepo); err != nil {
		return 0, errors.Wrapf(err, "could not count journal entries for repo=%s", targetRepo)
	}
	return count, nil
}

func (s *SQLJournalStore) List(ctx context.Context, targetRepo string) ([]*model.JournalEntry, error) {
	var entries []*model.JournalEntry
	if err := s.db.SelectContext(ctx, &entries,
		`SELECT
				TargetRepo, Number, SourceRepo, Placeholder, Labels, Finalized, CreatedAt
			FROM
				MigratedIssues
			WHERE
				TargetRepo = ?
			ORDER BY Number`, targetRepo); err != nil {
		return nil, errors.Wrapf(err, "could not list journal entries for repo=%s", targetRepo)
	}
	return entries, nil
}
