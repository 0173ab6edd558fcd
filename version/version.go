// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package version

import (
	"fmt"
	"runtime"
	"time"
)

// dev is reported when the binary was built without ldflags.
const dev = "v0.1.0-dev"

// Provisioned by ldflags
var (
	version    string
	commitHash string
	buildDate  string
)

type Info struct {
	Version   string `json:"version"`
	Hash      string `json:"hash"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
}

func init() {
	if version == "" {
		version = dev
	}
	if commitHash == "" {
		commitHash = "unknown"
	}
	if buildDate == "" {
		buildDate = time.Now().UTC().Format(time.RFC3339)
	}
}

// Full returns the version, commit hash and build date.
func Full() *Info {
	return &Info{
		Version:   version,
		Hash:      commitHash,
		Date:      buildDate,
		GoVersion: runtime.Version(),
	}
}

// UserAgent identifies the migrator in outgoing requests.
func UserAgent() string {
	return "issue-migrator/" + version
}

func (i *Info) String() string {
	return fmt.Sprintf("issue-migrator %s (commit %s, built %s with %s)", i.Version, i.Hash, i.Date, i.GoVersion)
}
