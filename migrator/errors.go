// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/go-github/v39/github"

	"github.com/mattermost/issue-migrator/model"
)

const maxErrorBody = 4096

// UnexpectedStatusError is returned when a target call answers with a
// status other than the one the operation expects. Body holds the raw
// response so the operator can see what the target said. Detail is the
// target's own explanation, when it gave one.
type UnexpectedStatusError struct {
	Method   string
	URL      string
	Expected int
	Got      int
	Detail   string
	Body     string
}

func (e *UnexpectedStatusError) Error() string {
	msg := fmt.Sprintf("%s %s: expected status %d, got %d", e.Method, e.URL, e.Expected, e.Got)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IdentityDriftError means the target assigned a number other than the
// source id. Already created issues cannot be renumbered.
type IdentityDriftError struct {
	Expected    int
	Got         int
	Placeholder bool
}

func (e *IdentityDriftError) Error() string {
	kind := "issue"
	if e.Placeholder {
		kind = "placeholder issue"
	}
	return fmt.Sprintf("%s was created as #%d instead of #%d; delete and recreate the target repository, then run the migration again", kind, e.Got, e.Expected)
}

type UnknownStatusError struct {
	IssueID int
	Status  model.Status
}

func (e *UnknownStatusError) Error() string {
	return fmt.Sprintf("issue #%d has unknown status %q", e.IssueID, string(e.Status))
}

// checkResponse validates the status of a target response. A go-github
// ErrorResponse carries its own response and is converted too.
func checkResponse(resp *github.Response, err error, expected int) error {
	if err != nil {
		if errResp, ok := err.(*github.ErrorResponse); ok && errResp.Response != nil {
			return newErrorResponseError(errResp, expected)
		}
		return err
	}
	if resp == nil {
		return nil
	}
	if resp.StatusCode != expected {
		return newUnexpectedStatusError(resp.Response, expected, "")
	}
	return nil
}

func newUnexpectedStatusError(resp *http.Response, expected int, body string) *UnexpectedStatusError {
	e := &UnexpectedStatusError{Expected: expected, Got: resp.StatusCode, Body: body}
	if resp.Request != nil {
		e.Method = resp.Request.Method
		e.URL = resp.Request.URL.String()
	}
	if e.Body == "" && resp.Body != nil {
		if b, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)); err == nil {
			e.Body = string(b)
		}
	}
	return e
}

// newErrorResponseError rebuilds the body go-github already consumed, so
// the per field errors of a rejected request are kept.
func newErrorResponseError(errResp *github.ErrorResponse, expected int) *UnexpectedStatusError {
	body, err := json.Marshal(errResp)
	if err != nil {
		body = []byte(errResp.Message)
	}
	e := newUnexpectedStatusError(errResp.Response, expected, string(body))

	details := []string{}
	if errResp.Message != "" {
		details = append(details, errResp.Message)
	}
	for _, fieldErr := range errResp.Errors {
		details = append(details, fieldErr.Error())
	}
	e.Detail = strings.Join(details, "; ")
	return e
}
