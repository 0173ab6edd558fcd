// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package migrator

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimitTransport throttles outgoing requests to the target. Waiting
// honours the request context.
type RateLimitTransport struct {
	limiter *rate.Limiter
	base    http.RoundTripper
}

func (t *RateLimitTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}

// NewRateLimitTransport allows limit requests per second with the given burst.
func NewRateLimitTransport(limit rate.Limit, burst int, base http.RoundTripper) *RateLimitTransport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &RateLimitTransport{limiter: rate.NewLimiter(limit, burst), base: base}
}
