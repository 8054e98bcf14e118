// Package testutil contains common utility functions for unit tests.
package testutil

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

// A FakeServer answers HTTP requests for a fixed set of documents
// without touching the network, and records the URLs requested.
type FakeServer struct {
	docs map[string][]byte

	mu        sync.Mutex
	requested []string
}

// FakeClient returns an HTTP client that replies to requests for the
// URLs in docs with the corresponding body, and to any other request
// with 404 Not Found.
func FakeClient(docs map[string][]byte) (*http.Client, *FakeServer) {
	srv := &FakeServer{docs: docs}
	return &http.Client{Transport: srv}, srv
}

// Requested returns the URLs requested so far, in order.
func (s *FakeServer) Requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requested...)
}

func (s *FakeServer) RoundTrip(req *http.Request) (*http.Response, error) {
	url := req.URL.String()
	s.mu.Lock()
	s.requested = append(s.requested, url)
	s.mu.Unlock()

	rsp := http.Response{
		Header:  make(http.Header),
		Request: req,
	}
	if body, ok := s.docs[url]; ok {
		rsp.StatusCode = http.StatusOK
		rsp.Body = io.NopCloser(bytes.NewReader(body))
	} else {
		rsp.StatusCode = http.StatusNotFound
		rsp.Body = io.NopCloser(strings.NewReader("404 not found"))
	}
	rsp.Status = fmt.Sprintf("%d %s", rsp.StatusCode, http.StatusText(rsp.StatusCode))
	return &rsp, nil
}
