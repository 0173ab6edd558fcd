// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"sort"
)

// DefaultPriority is never turned into a label.
const DefaultPriority = "major"

// AnonymousAuthor is used when the source recorded no author.
const AnonymousAuthor = "Anonymous"

// Issue is a read-only snapshot of a source issue. Comments is attached once
// by the comment loader.
type Issue struct {
	ID          int
	Title       string
	Content     string
	Status      Status
	Priority    string
	Kind        string
	Component   string
	Milestone   string
	Responsible string
	ReportedBy  string
	CreatedOn   Timestamp
	Comments    []*Comment
}

type Comment struct {
	Author    string
	Content   string
	CreatedOn Timestamp
}

type Milestone struct {
	Name   string
	Number int
}

// Reporter returns the display name of the reporter or AnonymousAuthor.
func (o *Issue) Reporter() string {
	if o.ReportedBy == "" {
		return AnonymousAuthor
	}
	return o.ReportedBy
}

// Labels computes the target label set. It depends only on kind, priority
// and component.
func (o *Issue) Labels() []string {
	labels := []string{}
	if o.Kind != "" {
		labels = append(labels, o.Kind)
	}
	if o.Priority != "" && o.Priority != DefaultPriority {
		labels = append(labels, o.Priority)
	}
	if o.Component != "" {
		labels = append(labels, o.Component)
	}
	return labels
}

// SortComments orders comments ascending by creation time. Comments created
// at the same instant keep their source order.
func SortComments(comments []*Comment) {
	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].CreatedOn.Before(comments[j].CreatedOn.Time)
	})
}

func (c *Comment) AuthorName() string {
	if c.Author == "" {
		return AnonymousAuthor
	}
	return c.Author
}
