// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	t.Run("source layout with offset", func(t *testing.T) {
		ts, err := ParseTimestamp("2013-01-04 14:13:56+01:00")
		require.NoError(t, err)
		require.Equal(t, time.Date(2013, 1, 4, 13, 13, 56, 0, time.UTC), ts.Time)
		require.Equal(t, "2013-01-04 14:13:56+01:00", ts.String())
	})

	t.Run("RFC3339", func(t *testing.T) {
		ts, err := ParseTimestamp("2013-01-04T14:13:56Z")
		require.NoError(t, err)
		require.Equal(t, time.Date(2013, 1, 4, 14, 13, 56, 0, time.UTC), ts.Time)
	})

	t.Run("empty", func(t *testing.T) {
		ts, err := ParseTimestamp("")
		require.NoError(t, err)
		require.True(t, ts.IsZero())
		require.Equal(t, "", ts.String())
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseTimestamp("yesterday")
		require.Error(t, err)
	})
}

func TestTimestampJSON(t *testing.T) {
	var v struct {
		Created Timestamp `json:"created"`
		Missing Timestamp `json:"missing"`
	}
	err := json.Unmarshal([]byte(`{"created":"2013-01-04 14:13:56+00:00","missing":null}`), &v)
	require.NoError(t, err)
	require.Equal(t, 2013, v.Created.Year())
	require.True(t, v.Missing.IsZero())

	b, err := json.Marshal(v.Created)
	require.NoError(t, err)
	require.Equal(t, `"2013-01-04 14:13:56+00:00"`, string(b))
}
