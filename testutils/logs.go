package testutils

import (
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"
)

// Logs captures the JSON lines written by a zerolog.Logger under test.
//
// It's safe to share between the goroutines of an httptest.Server and the
// test itself.
type Logs struct {
	mu      sync.Mutex
	builder strings.Builder
}

func NewLogs() (*Logs, *zerolog.Logger) {
	logs := &Logs{}
	return logs, logs.NewLogger()
}

func (tl *Logs) NewLogger() *zerolog.Logger {
	logger := zerolog.New(tl).Level(zerolog.DebugLevel)
	return &logger
}

func (tl *Logs) Write(p []byte) (int, error) {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.builder.Write(p)
}

func (tl *Logs) AssertContains(t *testing.T, message string) {
	t.Helper()
	assert.Assert(t, is.Contains(tl.Logs(), message))
}

func (tl *Logs) AssertDoesNotContain(t *testing.T, message string) {
	t.Helper()
	logs := tl.Logs()
	assert.Assert(
		t, !strings.Contains(logs, message), "found %q in:\n%s", message, logs,
	)
}

func (tl *Logs) Logs() string {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.builder.String()
}

func (tl *Logs) Reset() {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	tl.builder.Reset()
}
