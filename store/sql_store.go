// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

import (
	"database/sql"
	"embed"

	_ "github.com/go-sql-driver/mysql" // Load MySQL Driver
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

type SQLStore struct {
	db      *sqlx.DB
	journal JournalStore
}

// New connects to the database and brings the schema up to date.
func New(driverName, dataSource string) (*SQLStore, error) {
	mlog.Info("connecting to the journal database", mlog.String("driver", driverName))
	db, err := sqlx.Connect(driverName, dataSource)
	if err != nil {
		return nil, errors.Wrap(err, "could not connect to the database")
	}

	if err = Migrate(db.DB, 0); err != nil {
		db.Close()
		return nil, err
	}

	return newSQLStore(db), nil
}

func newSQLStore(db *sqlx.DB) *SQLStore {
	// Columns are named like the struct fields.
	db.MapperFunc(func(s string) string { return s })
	ss := &SQLStore{db: db}
	ss.journal = newSQLJournalStore(ss)
	return ss
}

func (ss *SQLStore) Journal() JournalStore {
	return ss.journal
}

func (ss *SQLStore) Mutex(key string) (LockStore, error) {
	return NewMutexStore(key, ss.db.DB)
}

func (ss *SQLStore) Close() error {
	mlog.Info("closing db")
	return ss.db.Close()
}

// Migrate moves the schema to version, or to the latest version when
// version is 0.
func Migrate(db *sql.DB, version uint) error {
	dbDriver, err := mysql.WithInstance(db, &mysql.Config{})
	if err != nil {
		return errors.Wrap(err, "failed to create migration driver")
	}

	srcDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to create source instance")
	}

	m, err := migrate.NewWithInstance("iofs", srcDriver, "mysql", dbDriver)
	if err != nil {
		return errors.Wrap(err, "failed to create migrate instance")
	}

	if version == 0 {
		err = m.Up()
	} else {
		err = m.Migrate(version)
	}
	if err != nil && err != migrate.ErrNoChange {
		return errors.Wrap(err, "failed to migrate db")
	}
	return nil
}
