package api

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// CannedConnection serves fixed bodies keyed by a query parameter value, tests use it in place of ClientHost
type CannedConnection struct {
	// Key is the query parameter used to pick a body, empty serves Bodies[""] for every request
	Key    string
	Bodies map[string]string
	Status int
	Err    error

	mu       sync.Mutex
	requests []*url.URL
}

func (cc *CannedConnection) Request(ctx context.Context, endpoint *url.URL) (*http.Response, error) {
	cc.mu.Lock()
	cc.requests = append(cc.requests, endpoint)
	cc.mu.Unlock()

	if cc.Err != nil {
		return nil, cc.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	body := cc.Bodies[""]
	if cc.Key != "" {
		body = cc.Bodies[endpoint.Query().Get(cc.Key)]
	}

	status := cc.Status
	if status == 0 {
		status = http.StatusOK
	}

	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}, nil
}

func (cc *CannedConnection) Requests() []*url.URL {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return append([]*url.URL(nil), cc.requests...)
}
