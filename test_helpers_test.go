package headerip

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"testing"
)

func mustNewExtractor(t *testing.T, opts ...Option) *Extractor {
	t.Helper()

	extractor, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	return extractor
}

// headersOf builds an http.Header from name/value pairs, preserving
// duplicate names as separate header lines.
func headersOf(t *testing.T, pairs ...string) http.Header {
	t.Helper()

	if len(pairs)%2 != 0 {
		t.Fatalf("headersOf requires name/value pairs, got %d items", len(pairs))
	}

	header := make(http.Header)
	for i := 0; i < len(pairs); i += 2 {
		header.Add(pairs[i], pairs[i+1])
	}

	return header
}

func newTestRequest(remoteAddr, path string) *http.Request {
	req := &http.Request{
		RemoteAddr: remoteAddr,
		Header:     make(http.Header),
	}

	if path != "" {
		req.URL = &url.URL{Path: path}
	}

	return req
}

type loggedWarning struct {
	Msg   string
	Attrs []any
}

// recordingLogger captures WarnContext calls for assertions.
type recordingLogger struct {
	mu       sync.Mutex
	warnings []loggedWarning
}

func (l *recordingLogger) WarnContext(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.warnings = append(l.warnings, loggedWarning{Msg: msg, Attrs: args})
}

func (l *recordingLogger) warningCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.warnings)
}

// recordingMetrics counts metric calls per label for assertions.
type recordingMetrics struct {
	mu        sync.Mutex
	successes map[string]int
	failures  map[string]int
	events    map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		successes: make(map[string]int),
		failures:  make(map[string]int),
		events:    make(map[string]int),
	}
}

func (m *recordingMetrics) RecordExtractionSuccess(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.successes[source]++
}

func (m *recordingMetrics) RecordExtractionFailure(source string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[source]++
}

func (m *recordingMetrics) RecordSecurityEvent(event string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event]++
}

func (m *recordingMetrics) successCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.successes[source]
}

func (m *recordingMetrics) failureCount(source string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures[source]
}

func (m *recordingMetrics) eventCount(event string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.events[event]
}
