// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"time"
)

// JournalEntry records one issue created on the target.
type JournalEntry struct {
	TargetRepo  string
	Number      int
	SourceRepo  string
	Placeholder bool
	Labels      StringArray
	Finalized   bool
	CreatedAt   time.Time
}

// Summary reports what a migration run did.
type Summary struct {
	Issues               int
	Placeholders         int
	Comments             int
	StatusUpdates        int
	Milestones           int
	// UnmappedResponsibles counts issues left unassigned because their
	// responsible user has no mapping.
	UnmappedResponsibles int
	Elapsed              time.Duration
}
