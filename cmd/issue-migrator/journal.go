// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql" // Load MySQL Driver
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/issue-migrator/migrator"
	"github.com/mattermost/issue-migrator/model"
	"github.com/mattermost/issue-migrator/store"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Manage the migration journal database",
}

var journalMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the journal schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		migrateVersion, err := cmd.Flags().GetInt("version")
		if err != nil {
			return err
		}
		return runJournalMigrations(migrateVersion)
	},
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the issues journaled for the target repository",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runJournalList(cmd)
	},
}

func init() {
	journalMigrateCmd.Flags().Int("version", 0, "Target schema version, 0 migrates to the latest one")
	journalCmd.AddCommand(journalMigrateCmd, journalListCmd)
}

func runJournalMigrations(migrateVersion int) error {
	if migrateVersion < 0 {
		return errors.Errorf("invalid migration version: %d", migrateVersion)
	}

	config, err := loadConfig(migrator.ModeJournal)
	if err != nil {
		return err
	}

	db, err := sql.Open(config.DriverName, config.DataSource)
	if err != nil {
		return err
	}
	defer db.Close()

	if err = store.Migrate(db, uint(migrateVersion)); err != nil {
		return err
	}
	mlog.Info("Journal migrated", mlog.Int("version", migrateVersion))
	return nil
}

func runJournalList(cmd *cobra.Command) error {
	config, err := loadConfig(migrator.ModeJournal)
	if err != nil {
		return err
	}
	if _, _, err = migrator.SplitRepository(config.TargetRepository); err != nil {
		return errors.Wrap(err, "invalid target repository")
	}

	st, err := store.New(config.DriverName, config.DataSource)
	if err != nil {
		return errors.Wrap(err, "unable to open the migration journal")
	}
	defer st.Close()

	entries, err := st.Journal().List(context.Background(), config.TargetRepository)
	if err != nil {
		return err
	}
	printJournal(cmd.OutOrStdout(), entries)
	return nil
}

// printJournal renders the journal of one target repository. Migrated
// issues that were never finalized are the ones a failed run left behind.
func printJournal(w io.Writer, entries []*model.JournalEntry) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"#", "Kind", "Finalized", "Labels", "Created at"})

	pending := 0
	for _, e := range entries {
		kind := "migrated"
		if e.Placeholder {
			kind = "placeholder"
		}
		if !e.Finalized {
			pending++
		}
		t.AppendRow(table.Row{e.Number, kind, e.Finalized, strings.Join(e.Labels, ", "), e.CreatedAt.Format(time.RFC3339)})
	}
	t.AppendFooter(table.Row{"", "", "", "Pending", pending})
	t.Render()
}
