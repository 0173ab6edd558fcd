// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mattermost/issue-migrator/bitbucket"
	"github.com/mattermost/issue-migrator/migrator"
	"github.com/mattermost/issue-migrator/version"
)

var (
	configFile string
	v          = migrator.NewViper()

	// flushLogs is replaced once the configured logger is installed.
	flushLogs = func() {}
	// logTargets is false when the configured logger writes nowhere.
	logTargets = true
)

var rootCmd = &cobra.Command{
	Use:   "issue-migrator",
	Short: "Copy BitBucket issues into an empty GitHub repository keeping their numbers",
	Long: `issue-migrator reads every issue, comment and milestone of a BitBucket
repository and recreates them on GitHub. Deleted issues are filled with closed
placeholders so every issue keeps its number. The target repository must be
empty.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	Args:          cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		responsibles, err := cmd.Flags().GetBool("responsibles")
		if err != nil {
			return err
		}
		if responsibles {
			return runResponsibles(cmd)
		}
		return runMigrate(cmd)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run the migration (same as the root command)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMigrate(cmd)
	},
}

var responsiblesCmd = &cobra.Command{
	Use:   "responsibles",
	Short: "List responsible users and exit",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runResponsibles(cmd)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.Full())
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "Optional config file (json, yaml or toml)")
	flags.StringP("bitbucket", "b", "", "BitBucket repository")
	flags.StringP("github", "g", "", "GitHub repository")
	flags.StringP("github-user", "u", "", "GitHub user")
	flags.StringP("map-file", "m", "", "User mapping file (used to assign issue responsibles)")
	flags.Int("workers", migrator.DefaultWorkers, "Number of concurrent workers for comments and finalization")
	flags.String("metrics-port", "", "Serve prometheus metrics on this port while running")
	flags.String("data-source", "", "MySQL data source for the migration journal")

	_ = v.BindPFlag("SourceRepository", flags.Lookup("bitbucket"))
	_ = v.BindPFlag("TargetRepository", flags.Lookup("github"))
	_ = v.BindPFlag("TargetUsername", flags.Lookup("github-user"))
	_ = v.BindPFlag("UserMappingFile", flags.Lookup("map-file"))
	_ = v.BindPFlag("Workers", flags.Lookup("workers"))
	_ = v.BindPFlag("MetricsServerPort", flags.Lookup("metrics-port"))
	_ = v.BindPFlag("DataSource", flags.Lookup("data-source"))

	rootCmd.Flags().Bool("responsibles", false, "List responsible users and exit")

	rootCmd.AddCommand(migrateCmd, responsiblesCmd, journalCmd, versionCmd)
}

// loadConfig reads .env, the config file, the environment and the flags,
// in increasing order of precedence, then turns on logging.
func loadConfig(mode migrator.Mode) (*migrator.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "unable to load .env")
	}

	config, err := migrator.GetConfig(v, configFile)
	if err != nil {
		return nil, err
	}
	if err = config.Validate(mode); err != nil {
		return nil, err
	}

	logger, err := migrator.SetupLogging(config)
	if err != nil {
		return nil, err
	}
	flushLogs = func() { _ = logger.Shutdown() }
	logTargets = config.LogSettings.EnableConsole || config.LogSettings.EnableFile
	if configFile != "" {
		mlog.Info("Loaded config", mlog.String("filename", configFile))
	}
	return config, nil
}

// responseBody returns the raw body of a failed request, if any.
func responseBody(err error) string {
	var ghErr *migrator.UnexpectedStatusError
	var bbErr *bitbucket.StatusError
	switch {
	case errors.As(err, &ghErr):
		return ghErr.Body
	case errors.As(err, &bbErr):
		return bbErr.Body
	}
	return ""
}

// failureFields adds the raw response body of a failed request, if any.
func failureFields(err error) []mlog.Field {
	fields := []mlog.Field{mlog.Err(err)}
	if body := responseBody(err); body != "" {
		fields = append(fields, mlog.String("response", body))
	}
	return fields
}

// reportFailure logs err and, when no log target would show it, writes it
// to w as well.
func reportFailure(w io.Writer, err error, logged bool) {
	mlog.Error("issue-migrator failed", failureFields(err)...)
	if logged {
		return
	}
	fmt.Fprintf(w, "issue-migrator failed: %v\n", err)
	if body := responseBody(err); body != "" {
		fmt.Fprintf(w, "response: %s\n", body)
	}
}

func main() {
	err := rootCmd.Execute()
	if err != nil {
		reportFailure(os.Stderr, err, logTargets)
	}
	flushLogs()
	if err != nil {
		os.Exit(1)
	}
}
