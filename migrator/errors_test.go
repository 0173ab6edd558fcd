// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-github/v39/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckResponse(t *testing.T) {
	t.Run("Should accept the expected status", func(t *testing.T) {
		require.NoError(t, checkResponse(response(http.MethodPost, http.StatusCreated), nil, http.StatusCreated))
	})

	t.Run("Should keep the raw body of an unexpected status", func(t *testing.T) {
		resp := &github.Response{Response: &http.Response{
			StatusCode: http.StatusAccepted,
			Body:       io.NopCloser(strings.NewReader(`{"message":"queued"}`)),
			Request:    &http.Request{Method: http.MethodPatch, URL: &url.URL{Scheme: "https", Host: "api.github.com", Path: "/repos/o/r/issues/1"}},
		}}
		err := checkResponse(resp, nil, http.StatusOK)
		var statusErr *UnexpectedStatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, `{"message":"queued"}`, statusErr.Body)
		assert.Equal(t, "https://api.github.com/repos/o/r/issues/1", statusErr.URL)
		assert.Equal(t, "PATCH https://api.github.com/repos/o/r/issues/1: expected status 200, got 202", statusErr.Error())
	})

	t.Run("Should keep the field errors of github error responses", func(t *testing.T) {
		ghErr := &github.ErrorResponse{
			Response: &http.Response{StatusCode: http.StatusUnprocessableEntity, Request: &http.Request{Method: http.MethodPost, URL: &url.URL{Path: "/x"}}},
			Message:  "Validation Failed",
			Errors:   []github.Error{{Resource: "Issue", Field: "assignee", Code: "invalid"}},
		}
		err := checkResponse(nil, ghErr, http.StatusCreated)
		var statusErr *UnexpectedStatusError
		require.True(t, errors.As(err, &statusErr))
		assert.Equal(t, http.StatusUnprocessableEntity, statusErr.Got)
		assert.Contains(t, statusErr.Body, `"message":"Validation Failed"`)
		assert.Contains(t, statusErr.Body, `"field":"assignee"`)
		assert.Contains(t, statusErr.Body, `"code":"invalid"`)
		assert.Contains(t, statusErr.Error(), "Validation Failed")
		assert.Contains(t, statusErr.Error(), "assignee")
	})

	t.Run("Should pass transport errors through", func(t *testing.T) {
		boom := errors.New("connection reset")
		require.ErrorIs(t, checkResponse(nil, boom, http.StatusOK), boom)
	})
}

func TestIdentityDriftError(t *testing.T) {
	err := &IdentityDriftError{Expected: 2, Got: 3, Placeholder: true}
	assert.Contains(t, err.Error(), "placeholder issue was created as #3 instead of #2")
}
