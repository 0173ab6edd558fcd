// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package model

import (
	"fmt"
	"strings"
)

const (
	StateOpen   = "open"
	StateClosed = "closed"

	LabelOnHold = "on hold"
)

// Status is the source workflow status of an issue.
type Status string

const (
	StatusNew       Status = "new"
	StatusOpen      Status = "open"
	StatusResolved  Status = "resolved"
	StatusClosed    Status = "closed"
	StatusOnHold    Status = "on hold"
	StatusInvalid   Status = "invalid"
	StatusDuplicate Status = "duplicate"
	StatusWontfix   Status = "wontfix"
)

// ParseStatus normalizes a source status string. "on_hold" is accepted as an
// alias of "on hold".
func ParseStatus(s string) (Status, bool) {
	switch st := Status(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", " ")); st {
	case StatusNew, StatusOpen, StatusResolved, StatusClosed, StatusOnHold,
		StatusInvalid, StatusDuplicate, StatusWontfix:
		return st, true
	}
	return Status(s), false
}

// StatusAction is what the finalizer does to a target issue once its
// comments are replayed.
type StatusAction int

const (
	// ActionNone skips the update call entirely.
	ActionNone StatusAction = iota
	// ActionClose sets state=closed.
	ActionClose
	// ActionLabel adds the status as a label and leaves the state alone.
	ActionLabel
	// ActionCloseAndLabel sets state=closed and adds the status as a label.
	ActionCloseAndLabel
)

func (a StatusAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionClose:
		return "close"
	case ActionLabel:
		return "label"
	case ActionCloseAndLabel:
		return "close+label"
	}
	return fmt.Sprintf("StatusAction(%d)", int(a))
}

// Action maps the status onto its final-state action. ok is false for
// statuses outside the known set.
func (s Status) Action() (action StatusAction, ok bool) {
	switch s {
	case StatusNew, StatusOpen:
		return ActionNone, true
	case StatusResolved, StatusClosed:
		return ActionClose, true
	case StatusOnHold:
		return ActionLabel, true
	case StatusInvalid, StatusDuplicate, StatusWontfix:
		return ActionCloseAndLabel, true
	}
	return ActionNone, false
}

// StatusUpdate is the partial update applied to a target issue. Labels
// always carries the full set because target updates replace labels.
type StatusUpdate struct {
	State  string
	Labels []string
}

// Update derives the final-state update for an issue whose computed labels
// are given. A nil update means no call must be made.
func (s Status) Update(labels []string) (*StatusUpdate, error) {
	action, ok := s.Action()
	if !ok {
		return nil, fmt.Errorf("unknown status %q", string(s))
	}

	all := make([]string, 0, len(labels)+1)
	all = append(all, labels...)

	switch action {
	case ActionClose:
		return &StatusUpdate{State: StateClosed, Labels: all}, nil
	case ActionLabel:
		return &StatusUpdate{Labels: append(all, LabelOnHold)}, nil
	case ActionCloseAndLabel:
		return &StatusUpdate{State: StateClosed, Labels: append(all, string(s))}, nil
	}
	return nil, nil
}
