// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package bitbucket

import (
	"github.com/mattermost/issue-migrator/model"
)

type user struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type issueMetadata struct {
	Kind      string  `json:"kind"`
	Component *string `json:"component"`
	Milestone *string `json:"milestone"`
}

type issue struct {
	LocalID      int             `json:"local_id"`
	Title        string          `json:"title"`
	Content      string          `json:"content"`
	Status       string          `json:"status"`
	Priority     string          `json:"priority"`
	Metadata     issueMetadata   `json:"metadata"`
	Responsible  *user           `json:"responsible"`
	ReportedBy   *user           `json:"reported_by"`
	UTCCreatedOn model.Timestamp `json:"utc_created_on"`
}

type issuesPage struct {
	Count  int      `json:"count"`
	Issues []*issue `json:"issues"`
}

type comment struct {
	Content      string          `json:"content"`
	AuthorInfo   *user           `json:"author_info"`
	UTCCreatedOn model.Timestamp `json:"utc_created_on"`
}

type milestone struct {
	Name string `json:"name"`
}

func (i *issue) toModel() *model.Issue {
	status, _ := model.ParseStatus(i.Status)
	out := &model.Issue{
		ID:        i.LocalID,
		Title:     i.Title,
		Content:   i.Content,
		Status:    status,
		Priority:  i.Priority,
		Kind:      i.Metadata.Kind,
		Component: deref(i.Metadata.Component),
		Milestone: deref(i.Metadata.Milestone),
		CreatedOn: i.UTCCreatedOn,
	}
	if i.Responsible != nil {
		out.Responsible = i.Responsible.Username
	}
	if i.ReportedBy != nil {
		out.ReportedBy = i.ReportedBy.DisplayName
	}
	return out
}

func (c *comment) toModel() *model.Comment {
	out := &model.Comment{
		Content:   c.Content,
		CreatedOn: c.UTCCreatedOn,
	}
	if c.AuthorInfo != nil {
		out.Author = c.AuthorInfo.DisplayName
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
