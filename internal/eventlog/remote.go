package eventlog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"
)

// queueDepth bounds the number of events waiting for remote delivery.
// Overflow drops the newest event rather than blocking the pipeline.
const queueDepth = 256

// RemoteSink ships events to a search index, one JSON document per call.
// Delivery is fire-and-forget: a dedicated goroutine posts each document
// with a bounded timeout and discards every failure.
type RemoteSink struct {
	endpoint *url.URL
	client   *http.Client
	timeout  time.Duration
	queue    chan Event
	done     chan struct{}
	closed   atomic.Bool
}

// NewRemoteSink builds a sink posting to {baseURL}/{index}/_doc with the
// given per-event timeout.
func NewRemoteSink(baseURL, index string, timeout time.Duration) (*RemoteSink, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse search index url: %w", err)
	}
	endpoint := parsed.ResolveReference(&url.URL{Path: "/" + index + "/_doc"})

	s := &RemoteSink{
		endpoint: endpoint,
		timeout:  timeout,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   timeout,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   timeout,
				ResponseHeaderTimeout: timeout,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		queue: make(chan Event, queueDepth),
		done:  make(chan struct{}),
	}
	go s.deliver()
	return s, nil
}

// Write enqueues the event without blocking. A full queue or a closed sink
// drops the event; the caller never observes either.
func (s *RemoteSink) Write(_ context.Context, event Event) error {
	if s.closed.Load() {
		return nil
	}
	select {
	case s.queue <- event:
	default:
	}
	return nil
}

// Close stops accepting events, drains the queue, and waits for the
// delivery goroutine to finish.
func (s *RemoteSink) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	close(s.queue)
	<-s.done
	return nil
}

func (s *RemoteSink) deliver() {
	defer close(s.done)
	for event := range s.queue {
		s.send(event)
	}
}

func (s *RemoteSink) send(event Event) {
	payload, err := json.Marshal(event.Document())
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
}
