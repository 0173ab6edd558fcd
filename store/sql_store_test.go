// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package store

import (
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

const (
	defaultMysqlDSN         = "issuemigrator:issuemigrator@tcp(localhost:3306)/issue_migrator_test?charset=utf8mb4,utf8&readTimeout=30s&writeTimeout=30s&parseTime=true"
	defaultMysqlRootUser    = "root"
	defaultMysqlRootUserPWD = "root"
	defaultMysqlUser        = "issuemigrator"
	defaultMysqlUserPWD     = "issuemigrator"
	defaultMysqlDB          = "issue_migrator_test"
)

// getTestSQLStore creates a scratch database with the schema applied. The
// test is skipped when no MySQL server is reachable.
func getTestSQLStore(t *testing.T) *SQLStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping store test in short mode")
	}

	createTempDB(t, defaultMysqlDB, getEnv("MYSQL_USER", defaultMysqlUser))
	t.Log("created temporary database")

	cfg, err := mysql.ParseDSN(defaultMysqlDSN)
	require.NoError(t, err)

	cfg.User = getEnv("MYSQL_USER", defaultMysqlUser)
	cfg.Passwd = getEnv("MYSQL_PASSWORD", defaultMysqlUserPWD)
	cfg.Addr = getEnv("MYSQL_ADDR", cfg.Addr)
	cfg.DBName = defaultMysqlDB

	db, err := sqlx.Connect("mysql", cfg.FormatDSN())
	require.NoError(t, err)
	require.NoError(t, Migrate(db.DB, 0))

	t.Cleanup(func() {
		require.NoError(t, db.Close())
		t.Log("destroyed temporary database")
	})

	return newSQLStore(db)
}

func createTempDB(t *testing.T, dbName, dbUser string) {
	t.Helper()
	rootUser := getEnv("MYSQL_ROOT_USER", defaultMysqlRootUser)
	rootPwd := getEnv("MYSQL_ROOT_PASSWORD", defaultMysqlRootUserPWD)
	cfg, err := mysql.ParseDSN(defaultMysqlDSN)
	require.NoError(t, err)

	cfg.User = rootUser
	cfg.Passwd = rootPwd
	cfg.Addr = getEnv("MYSQL_ADDR", cfg.Addr)
	cfg.DBName = "mysql"

	db, err := sql.Open("mysql", cfg.FormatDSN())
	require.NoError(t, err)
	if err = db.Ping(); err != nil {
		db.Close()
		t.Skipf("mysql is not reachable: %s", err)
	}

	t.Cleanup(func() {
		if _, err2 := db.Exec(fmt.Sprintf("DROP DATABASE %s", dbName)); err2 != nil {
			panic(fmt.Sprintf("failed to drop temporary database: %s", err2))
		}
		db.Close()
	})

	_, err = db.Exec(fmt.Sprintf("CREATE DATABASE %s", dbName))
	require.NoError(t, err)

	_, err = db.Exec(fmt.Sprintf("GRANT ALL PRIVILEGES ON %s.* TO '%s'", dbName, dbUser))
	require.NoError(t, err)
}

func getEnv(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}

func TestMigrate(t *testing.T) {
	store := getTestSQLStore(t)

	t.Run("Should be a no-op when already up to date", func(t *testing.T) {
		require.NoError(t, Migrate(store.db.DB, 0))
	})

	t.Run("Should migrate down to a given version", func(t *testing.T) {
		require.NoError(t, Migrate(store.db.DB, 1))
		require.NoError(t, Migrate(store.db.DB, 2))
	})
}
