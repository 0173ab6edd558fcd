// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFull(t *testing.T) {
	info := Full()
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Hash)
	assert.NotEmpty(t, info.Date)
	assert.Contains(t, info.String(), info.Version)
	assert.Contains(t, info.String(), info.GoVersion)
}

func TestUserAgent(t *testing.T) {
	assert.Equal(t, "issue-migrator/"+Full().Version, UserAgent())
}
