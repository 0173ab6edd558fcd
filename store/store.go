// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

//go:generate mockgen -destination=mocks/store_mock.go -package=mocks github.com/mattermost/issue-migrator/store Store,JournalStore,LockStore

import (
	"context"

	"github.com/mattermost/issue-migrator/model"
)

type Store interface {
	Journal() JournalStore
	// Mutex returns a database lock for key. It is not held until Lock
	// returns nil.
	Mutex(key string) (LockStore, error)
	Close() error
}

// JournalStore records the target issues a migration created.
type JournalStore interface {
	Save(ctx context.Context, entry *model.JournalEntry) error
	MarkFinalized(ctx context.Context, targetRepo string, number int) error
	Count(ctx context.Context, targetRepo string) (int, error)
	List(ctx context.Context, targetRepo string) ([]*model.JournalEntry, error)
}

type LockStore interface {
	Lock(ctx context.Context) error
	Unlock() error
}
