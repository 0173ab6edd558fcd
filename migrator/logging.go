// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/mattermost/mattermost-server/v6/shared/mlog"
	"github.com/pkg/errors"
)

const logFilename = "issue-migrator.log"

// SetupLogging replaces the global logger with one built from the config.
// The caller shuts the returned logger down to flush pending records.
func SetupLogging(config *Config) (*mlog.Logger, error) {
	logger, err := mlog.NewLogger()
	if err != nil {
		return nil, errors.Wrap(err, "unable to create logger")
	}

	cfg, err := loggerConfiguration(config.LogSettings)
	if err != nil {
		return nil, err
	}
	if err = logger.ConfigureTargets(cfg, nil); err != nil {
		return nil, errors.Wrap(err, "unable to configure log targets")
	}

	mlog.InitGlobalLogger(logger)
	return logger, nil
}

func loggerConfiguration(s LogSettings) (mlog.LoggerConfiguration, error) {
	cfg := make(mlog.LoggerConfiguration)
	if s.EnableConsole {
		cfg["console"] = mlog.TargetCfg{
			Type:         "console",
			Format:       logFormat(s.ConsoleJSON),
			Options:      json.RawMessage(`{"out":"stdout"}`),
			Levels:       levelsFor(s.ConsoleLevel),
			MaxQueueSize: 1000,
		}
	}
	if s.EnableFile {
		options, err := json.Marshal(map[string]interface{}{
			"filename": logFileLocation(s.FileLocation),
			"max_size": 100,
			"compress": true,
		})
		if err != nil {
			return nil, errors.Wrap(err, "unable to encode file target options")
		}
		cfg["file"] = mlog.TargetCfg{
			Type:         "file",
			Format:       logFormat(s.FileJSON),
			Options:      options,
			Levels:       levelsFor(s.FileLevel),
			MaxQueueSize: 1000,
		}
	}
	return cfg, nil
}

func logFormat(asJSON bool) string {
	if asJSON {
		return "json"
	}
	return "plain"
}

func logFileLocation(location string) string {
	if location == "" {
		return logFilename
	}
	if filepath.Ext(location) == ".log" {
		return location
	}
	return filepath.Join(location, logFilename)
}

// levelsFor returns the named level and every level more severe than it.
// Unknown names fall back to info.
func levelsFor(name string) []mlog.Level {
	levels := []mlog.Level{mlog.LvlPanic, mlog.LvlFatal, mlog.LvlError}
	switch strings.ToLower(name) {
	case "error":
		return levels
	case "warn", "warning":
		return append(levels, mlog.LvlWarn)
	case "debug":
		return append(levels, mlog.LvlWarn, mlog.LvlInfo, mlog.LvlDebug)
	}
	return append(levels, mlog.LvlWarn, mlog.LvlInfo)
}
