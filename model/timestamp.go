// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"
)

// sourceTimeLayouts are tried in order when parsing source timestamps.
var sourceTimeLayouts = []string{
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05Z07:00",
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
}

// Timestamp keeps the raw source text, which is what provenance footers
// print, next to the parsed time used for ordering.
type Timestamp struct {
	time.Time
	Raw string
}

func ParseTimestamp(raw string) (Timestamp, error) {
	if raw == "" {
		return Timestamp{}, nil
	}
	for _, layout := range sourceTimeLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return Timestamp{Time: t.UTC(), Raw: raw}, nil
		}
	}
	return Timestamp{}, errors.Errorf("unrecognized timestamp %q", raw)
}

func (t Timestamp) String() string {
	if t.Raw != "" {
		return t.Raw
	}
	if t.IsZero() {
		return ""
	}
	return t.Time.Format(time.RFC3339)
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var raw *string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw == nil {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(*raw)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}
