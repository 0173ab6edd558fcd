// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"sync"
	"time"

	ms "github.com/go-sql-driver/mysql"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const (
	// mutexTableName is the table holding one row per held lock
	mutexTableName = "db_lock"

	// mutexKeyPrefix namespaces the keys of this tool in a shared table
	mutexKeyPrefix = "issue-migrator:"

	minWaitInterval    = 1 * time.Second
	maxWaitInterval    = 1 * time.Minute
	pollWaitInterval   = 1 * time.Second
	jitterWaitInterval = minWaitInterval / 2

	// lockTTL is how long a lock survives without being refreshed
	lockTTL         = 15 * time.Second
	refreshInterval = lockTTL / 2

	mysqlDuplicateEntry = 1062
)

var errLockHeld = errors.New("lock is held by another migration")

// nextWaitInterval backs off on errors and polls otherwise.
func nextWaitInterval(last time.Duration, err error) time.Duration {
	next := last
	if next <= 0 {
		next = minWaitInterval
	}

	if err != nil && err != errLockHeld {
		next *= 2
		if next > maxWaitInterval {
			next = maxWaitInterval
		}
	} else {
		next = pollWaitInterval
	}

	next += time.Duration(rand.Int63n(int64(jitterWaitInterval)) - int64(jitterWaitInterval)/2) //nolint: gosec
	return next
}

// Mutex is a lock shared through the database, used so that two
// migrations never write into the same target repository. The row expires
// unless the holder keeps refreshing it, so a crashed run does not block
// forever.
type Mutex struct {
	key string
	db  *sql.DB

	// lock guards the refresh task state below, not the db row.
	lock        sync.Mutex
	stopRefresh chan struct{}
	refreshDone chan struct{}
}

func NewMutexStore(key string, db *sql.DB) (*Mutex, error) {
	if key == "" {
		return nil, errors.New("mutex key cannot be empty")
	}

	query := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (Id varchar(255) NOT NULL, ExpireAt bigint(20) NOT NULL, PRIMARY KEY (Id)) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4", mutexTableName)
	if _, err := db.Exec(query); err != nil {
		return nil, errors.Wrap(err, "could not create the lock table")
	}

	return &Mutex{key: mutexKeyPrefix + key, db: db}, nil
}

// tryLock makes a single attempt to take the row. An expired row left by
// another holder is taken over.
func (m *Mutex) tryLock(ctx context.Context) error {
	now := time.Now()
	query := fmt.Sprintf("INSERT INTO %s (Id, ExpireAt) VALUES (?, ?)", mutexTableName)
	_, err := m.db.ExecContext(ctx, query, m.key, now.Add(lockTTL).Unix())
	if err == nil {
		return nil
	}

	var mysqlErr *ms.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return errors.Wrap(err, "failed to insert lock row")
	}

	query = fmt.Sprintf("UPDATE %s SET ExpireAt = ? WHERE Id = ? AND ExpireAt < ?", mutexTableName)
	res, err := m.db.ExecContext(ctx, query, now.Add(lockTTL).Unix(), m.key, now.Unix())
	if err != nil {
		return errors.Wrap(err, "failed to take over expired lock")
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return errLockHeld
	}
	mlog.Warn("Took over an expired migration lock", mlog.String("key", m.key))
	return nil
}

func (m *Mutex) refresh(ctx context.Context) error {
	query := fmt.Sprintf("UPDATE %s SET ExpireAt = ? WHERE Id = ?", mutexTableName)
	if _, err := m.db.ExecContext(ctx, query, time.Now().Add(lockTTL).Unix(), m.key); err != nil {
		return errors.Wrap(err, "unable to refresh lock")
	}
	return nil
}

// Lock blocks until the lock is taken or ctx is done. The lock is held only
// if a nil error is returned.
func (m *Mutex) Lock(ctx context.Context) error {
	var waitInterval time.Duration
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(waitInterval):
		}

		err := m.tryLock(ctx)
		if err == nil {
			break
		}
		if err == errLockHeld {
			mlog.Info("Waiting for another migration to release the lock", mlog.String("key", m.key))
		} else {
			mlog.Debug("Failed to take the lock", mlog.String("key", m.key), mlog.Err(err))
		}
		waitInterval = nextWaitInterval(waitInterval, err)
	}

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		t := time.NewTicker(refreshInterval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				if err := m.refresh(context.Background()); err != nil {
					mlog.Error("Failed to refresh the migration lock", mlog.String("key", m.key), mlog.Err(err))
				}
			case <-stop:
				return
			}
		}
	}()

	m.lock.Lock()
	m.stopRefresh = stop
	m.refreshDone = done
	m.lock.Unlock()

	return nil
}

// Unlock releases the lock. If deleting the row fails it still expires.
func (m *Mutex) Unlock() error {
	m.lock.Lock()
	if m.stopRefresh == nil {
		m.lock.Unlock()
		return errors.New("mutex has not been acquired")
	}
	close(m.stopRefresh)
	<-m.refreshDone
	m.stopRefresh = nil
	m.refreshDone = nil
	m.lock.Unlock()

	query := fmt.Sprintf("DELETE FROM %s WHERE Id = ?", mutexTableName)
	if _, err := m.db.Exec(query, m.key); err != nil {
		return errors.Wrap(err, "failed to delete lock row")
	}
	return nil
}
