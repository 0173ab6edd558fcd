// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/mattermost/issue-migrator/bitbucket"
)

const (
	EnvPrefix = "ISSUE_MIGRATOR"

	DefaultWorkers        = 10
	DefaultSourcePageSize = 50
)

// Mode selects which entry path a run takes.
type Mode int

const (
	// ModeMigrate runs the full migration against the target.
	ModeMigrate Mode = iota
	// ModeResponsibles only lists the source responsible users.
	ModeResponsibles
	// ModeJournal only touches the journal database.
	ModeJournal
)

type LogSettings struct {
	EnableConsole bool
	ConsoleJSON   bool
	ConsoleLevel  string
	EnableFile    bool
	FileJSON      bool
	FileLevel     string
	FileLocation  string
}

type Config struct {
	SourceRepository string
	SourceAPIURL     string
	SourceWebURL     string
	SourceUsername   string
	SourcePassword   string
	SourcePageSize   int

	TargetRepository  string
	TargetUsername    string
	TargetPassword    string
	GithubAccessToken string
	GithubBaseURL     string

	UserMappingFile string

	Workers                 int
	GithubRequestsPerSecond float64
	GithubCacheSize         int64
	MetricsServerPort       string

	DriverName string
	DataSource string

	LogSettings LogSettings
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SourceRepository", "")
	v.SetDefault("SourceAPIURL", bitbucket.DefaultAPIURL)
	v.SetDefault("SourceWebURL", bitbucket.DefaultWebURL)
	v.SetDefault("SourceUsername", "")
	v.SetDefault("SourcePassword", "")
	v.SetDefault("SourcePageSize", DefaultSourcePageSize)
	v.SetDefault("TargetRepository", "")
	v.SetDefault("TargetUsername", "")
	v.SetDefault("TargetPassword", "")
	v.SetDefault("GithubAccessToken", "")
	v.SetDefault("GithubBaseURL", "")
	v.SetDefault("UserMappingFile", "")
	v.SetDefault("Workers", DefaultWorkers)
	v.SetDefault("GithubRequestsPerSecond", 0)
	v.SetDefault("GithubCacheSize", 0)
	v.SetDefault("MetricsServerPort", "")
	v.SetDefault("DriverName", "mysql")
	v.SetDefault("DataSource", "")
	v.SetDefault("LogSettings.EnableConsole", true)
	v.SetDefault("LogSettings.ConsoleJSON", false)
	v.SetDefault("LogSettings.ConsoleLevel", "INFO")
	v.SetDefault("LogSettings.EnableFile", false)
	v.SetDefault("LogSettings.FileJSON", true)
	v.SetDefault("LogSettings.FileLevel", "DEBUG")
	v.SetDefault("LogSettings.FileLocation", "")
}

// NewViper returns a viper instance with the defaults and the environment
// bindings in place. Callers bind their flags before calling GetConfig.
func NewViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// GetConfig reads the optional config file into v and decodes the result.
// Flags bound to v win over environment variables, which win over the file.
func GetConfig(v *viper.Viper, fileName string) (*Config, error) {
	if v == nil {
		v = NewViper()
	}
	if fileName != "" {
		v.SetConfigFile(fileName)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read config file %s", fileName)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "unable to decode config")
	}
	return &config, nil
}

// Validate checks that every field needed by mode is present.
func (c *Config) Validate(mode Mode) error {
	if mode == ModeJournal {
		if c.DataSource == "" {
			return errors.New("a data source is required to manage the journal")
		}
		if c.DriverName != "mysql" {
			return errors.Errorf("unsupported journal driver %q", c.DriverName)
		}
		return nil
	}
	if _, _, err := SplitRepository(c.SourceRepository); err != nil {
		return errors.Wrap(err, "invalid source repository")
	}
	if c.SourcePageSize <= 0 {
		return errors.Errorf("source page size must be positive, got %d", c.SourcePageSize)
	}
	if mode == ModeResponsibles {
		return nil
	}

	if _, _, err := SplitRepository(c.TargetRepository); err != nil {
		return errors.Wrap(err, "invalid target repository")
	}
	if c.GithubAccessToken == "" && c.TargetUsername == "" {
		return errors.New("either a github access token or a target username is required")
	}
	if c.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.GithubRequestsPerSecond < 0 {
		return errors.New("github requests per second cannot be negative")
	}
	if c.DataSource != "" && c.DriverName != "mysql" {
		return errors.Errorf("unsupported journal driver %q", c.DriverName)
	}
	return nil
}

// SplitRepository splits an "owner/name" repository identifier.
func SplitRepository(repository string) (owner, name string, err error) {
	parts := strings.Split(repository, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Errorf("repository %q is not of the form owner/name", repository)
	}
	return parts[0], parts[1], nil
}
