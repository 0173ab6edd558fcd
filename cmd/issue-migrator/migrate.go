// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mattermost/issue-migrator/bitbucket"
	"github.com/mattermost/issue-migrator/metrics"
	"github.com/mattermost/issue-migrator/migrator"
	"github.com/mattermost/issue-migrator/model"
	"github.com/mattermost/issue-migrator/store"
)

func runMigrate(cmd *cobra.Command) error {
	config, err := loadConfig(migrator.ModeMigrate)
	if err != nil {
		return err
	}
	if config.GithubAccessToken == "" && config.TargetPassword == "" {
		if config.TargetPassword, err = readPassword(config.TargetUsername); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	metricsProvider := metrics.NewPrometheusProvider()
	if config.MetricsServerPort != "" {
		metricsServer := metrics.NewServer(config.MetricsServerPort, true, metricsProvider.Handler())
		if err = metricsServer.Start(); err != nil {
			return err
		}
		defer metricsServer.Stop()
	}

	m, err := newMigrator(config, metricsProvider)
	if err != nil {
		return err
	}
	if config.DataSource != "" {
		st, err := store.New(config.DriverName, config.DataSource)
		if err != nil {
			return errors.Wrap(err, "unable to open the migration journal")
		}
		defer func() {
			if err := st.Close(); err != nil {
				mlog.Warn("Failed to close the migration journal", mlog.Err(err))
			}
		}()
		m.Store = st
	}

	mlog.Info("Starting migration",
		mlog.String("source", config.SourceRepository),
		mlog.String("target", config.TargetRepository),
		mlog.Int("workers", config.Workers),
	)
	summary, err := m.Run(ctx)
	if err != nil {
		return err
	}
	mlog.Info("Migration finished",
		mlog.Int("issues", summary.Issues),
		mlog.Int("placeholders", summary.Placeholders),
		mlog.Int("comments", summary.Comments),
		mlog.Int("status_updates", summary.StatusUpdates),
		mlog.Int("milestones", summary.Milestones),
		mlog.Int("unmapped_responsibles", summary.UnmappedResponsibles),
		mlog.String("elapsed", summary.Elapsed.String()),
	)
	return nil
}

func runResponsibles(cmd *cobra.Command) error {
	config, err := loadConfig(migrator.ModeResponsibles)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m, err := newMigrator(config, metrics.NewPrometheusProvider())
	if err != nil {
		return err
	}
	responsibles, err := m.ListResponsibles(ctx)
	if err != nil {
		return err
	}
	printResponsibles(cmd.OutOrStdout(), responsibles)
	return nil
}

// newMigrator wires the source reader, the user mapping and, outside the
// responsibles mode, the target client.
func newMigrator(config *migrator.Config, provider metrics.Provider) (*migrator.Migrator, error) {
	source := bitbucket.NewClient(
		config.SourceRepository,
		config.SourceAPIURL,
		config.SourceWebURL,
		metrics.NewTransport(http.DefaultTransport, provider, "bitbucket").Client(),
	)
	if config.SourceUsername != "" {
		source = source.WithCredentials(config.SourceUsername, config.SourcePassword)
	}

	var client *migrator.GithubClient
	if config.TargetRepository != "" && (config.GithubAccessToken != "" || config.TargetPassword != "") {
		var err error
		if client, err = migrator.NewGithubClient(config, provider); err != nil {
			return nil, err
		}
	}

	m, err := migrator.New(config, source, client, provider)
	if err != nil {
		return nil, err
	}
	if config.UserMappingFile != "" {
		if m.Users, err = model.LoadUserMapping(config.UserMappingFile); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func readPassword(user string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", errors.New("no github access token configured and stdin is not a terminal to prompt for a password")
	}
	fmt.Fprintf(os.Stderr, "GitHub password for user %s: ", user)
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", errors.Wrap(err, "unable to read password")
	}
	return string(password), nil
}

func printResponsibles(w io.Writer, responsibles []migrator.Responsible) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Responsible", "Mapped to"})
	for _, r := range responsibles {
		mapped := r.MappedTo
		if !r.Mapped {
			mapped = "-"
		}
		t.AppendRow(table.Row{r.Username, mapped})
	}
	t.Render()
}
