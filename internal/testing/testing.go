// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/igx/internal/models"
)

// StubClassifier is a scripted test double for [services.Classifier].
//
// Results and Errors are keyed by username; unknown usernames resolve to a Closed result.
// When Gate is non-nil each call blocks until a value is received from it, and Started
// (if non-nil) receives the username as soon as the call begins.
type StubClassifier struct {
	Results map[string]models.ClassifierResult
	Errors  map[string]error
	Gate    chan struct{}
	Started chan string

	mu    sync.Mutex
	calls []string
}

func (s *StubClassifier) Classify(ctx context.Context, username string) (models.ClassifierResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, username)
	s.mu.Unlock()

	if s.Started != nil {
		s.Started <- username
	}
	if s.Gate != nil {
		<-s.Gate
	}

	if err, ok := s.Errors[username]; ok {
		return models.ClassifierResult{}, err
	}
	if res, ok := s.Results[username]; ok {
		return res, nil
	}
	return models.ClassifierResult{PageStatus: models.PageClosed, Notes: "stub"}, nil
}

func (s *StubClassifier) Name() string { return "stub" }

// Calls returns the usernames classified so far, in call order.
func (s *StubClassifier) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
