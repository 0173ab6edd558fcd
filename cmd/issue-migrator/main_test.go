// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mattermost/issue-migrator/bitbucket"
	"github.com/mattermost/issue-migrator/migrator"
	"github.com/mattermost/issue-migrator/model"
)

func TestPrintResponsibles(t *testing.T) {
	var buf bytes.Buffer
	printResponsibles(&buf, []migrator.Responsible{
		{Username: "alice", MappedTo: "alice-gh", Mapped: true},
		{Username: "bob"},
	})

	out := buf.String()
	assert.Contains(t, out, "RESPONSIBLE")
	assert.Contains(t, out, "MAPPED TO")
	assert.Contains(t, out, "alice-gh")
	assert.Regexp(t, `bob\s+\|\s+-`, out)
}

func TestFailureFields(t *testing.T) {
	t.Run("Should only carry the error for plain failures", func(t *testing.T) {
		require.Len(t, failureFields(errors.New("boom")), 1)
	})

	t.Run("Should add the target response body", func(t *testing.T) {
		err := errors.Wrap(&migrator.UnexpectedStatusError{Expected: 201, Got: 422, Body: `{"message":"Validation Failed"}`}, "create issue 3")
		fields := failureFields(err)
		require.Len(t, fields, 2)
		assert.Equal(t, "response", fields[1].Key)
	})

	t.Run("Should add the source response body", func(t *testing.T) {
		err := errors.Wrap(&bitbucket.StatusError{Expected: 200, Got: 404, Body: "not found"}, "list issues")
		require.Len(t, failureFields(err), 2)
	})
}

func TestReportFailure(t *testing.T) {
	err := errors.Wrap(&migrator.UnexpectedStatusError{Expected: 201, Got: 422, Body: `{"message":"Validation Failed"}`}, "create issue 3")

	t.Run("Should write to the writer when no log target is enabled", func(t *testing.T) {
		var buf bytes.Buffer
		reportFailure(&buf, err, false)
		assert.Contains(t, buf.String(), "create issue 3")
		assert.Contains(t, buf.String(), `response: {"message":"Validation Failed"}`)
	})

	t.Run("Should leave the writer alone when the logger shows the error", func(t *testing.T) {
		var buf bytes.Buffer
		reportFailure(&buf, err, true)
		assert.Empty(t, buf.String())
	})
}

func TestPrintJournal(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	var buf bytes.Buffer
	printJournal(&buf, []*model.JournalEntry{
		{TargetRepo: "owner/target", Number: 1, Placeholder: true, Finalized: true, CreatedAt: created},
		{TargetRepo: "owner/target", Number: 2, Labels: model.StringArray{"bug", "ui"}, CreatedAt: created},
	})

	out := buf.String()
	assert.Contains(t, out, "placeholder")
	assert.Contains(t, out, "migrated")
	assert.Contains(t, out, "bug, ui")
	assert.Contains(t, out, "2024-03-01T10:00:00Z")
	assert.Regexp(t, `PENDING\s+\|\s+1`, out)
}

func TestCommands(t *testing.T) {
	names := []string{}
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "responsibles", "journal", "version"}, names)

	for _, flag := range []string{"bitbucket", "github", "github-user", "map-file"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(flag), flag)
	}
	assert.Equal(t, "b", rootCmd.PersistentFlags().Lookup("bitbucket").Shorthand)

	journal := []string{}
	for _, c := range journalCmd.Commands() {
		journal = append(journal, c.Name())
	}
	assert.ElementsMatch(t, []string{"migrate", "list"}, journal)
	assert.NotNil(t, rootCmd.Flags().Lookup("responsibles"))
}
