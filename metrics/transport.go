// Copyright (c) 2017-present Mattermost, Inc. All Rights Reserved.
// See License.txt for license information.

package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"
)

// Transport observes every round trip against a tracker. Numeric path
// segments are collapsed so issue numbers do not explode label cardinality.
type Transport struct {
	Base    http.RoundTripper
	tracker string
	metrics Provider
}

func NewTransport(base http.RoundTripper, metrics Provider, tracker string) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{Base: base, tracker: tracker, metrics: metrics}
}

func (t *Transport) RoundTrip(req *http.Request) (resp *http.Response, err error) {
	start := time.Now()
	resp, err = t.Base.RoundTrip(req)
	elapsed := float64(time.Since(start)) / float64(time.Second)
	if resp == nil && err != nil {
		return resp, err
	}
	handler := normalizePath(req.URL.Path)
	statusCode := strconv.Itoa(resp.StatusCode)
	t.metrics.ObserveRequestDuration(t.tracker, req.Method, handler, statusCode, elapsed)

	if req.Method == http.MethodGet {
		if resp.Header.Get("X-From-Cache") == "1" {
			t.metrics.IncreaseCacheHits(t.tracker, req.Method, handler)
		} else {
			t.metrics.IncreaseCacheMisses(t.tracker, req.Method, handler)
		}
	}

	return resp, err
}

func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

func normalizePath(path string) string {
	parts := strings.Split(path, "/")
	for i, part := range parts {
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			parts[i] = ":number"
		}
	}
	return strings.Join(parts, "/")
}
