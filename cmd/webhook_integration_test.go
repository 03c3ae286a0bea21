package cmd

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zinc-sig/figbed/internal/output"
)

func TestUpload_WithWebhook(t *testing.T) {
	dir := t.TempDir()
	good := writeTestFile(t, dir, "good.png", "ok")
	doomed := writeTestFile(t, dir, "doomed.png", "x")

	provider := newMemoryProvider()
	provider.onBuckets = func() { _ = os.Remove(doomed) }
	name := registerMemoryProvider(t, provider)

	var (
		received output.Report
		calls    int32
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := runFigbed(t, nil,
		"--upload-provider", name,
		"--webhook-url", server.URL,
		"--webhook-auth-type", "bearer",
		"--webhook-auth-token", "secret-token",
		"--webhook-retries", "0",
		good, doomed,
	)

	require.NoError(t, res.err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	assert.Equal(t, "url", received.Mode)
	assert.Equal(t, 1, received.Succeeded)
	assert.Equal(t, 1, received.Failed)
	require.Len(t, received.Files, 2)
	assert.Equal(t, good, received.Files[0].Path)
	assert.Equal(t, "open", received.Files[1].Stage)

	// Webhook delivery does not alter the normal output
	assert.Len(t, res.stdoutLines(), 1)
	assert.Len(t, res.stderrLines(), 1)
}

func TestUpload_WebhookRetry(t *testing.T) {
	provider := newMemoryProvider()
	name := registerMemoryProvider(t, provider)
	photo := writeTestFile(t, t.TempDir(), "photo.png", "x")

	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	res := runFigbed(t, nil,
		"--upload-provider", name,
		"--webhook-url", server.URL,
		"--webhook-retries", "2",
		"--webhook-retry-delay", "10ms",
		photo,
	)

	require.NoError(t, res.err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
	assert.Empty(t, res.stderr)
}

func TestUpload_WebhookFailureIsNotFatal(t *testing.T) {
	provider := newMemoryProvider()
	name := registerMemoryProvider(t, provider)
	photo := writeTestFile(t, t.TempDir(), "photo.png", "x")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	res := runFigbed(t, nil,
		"--upload-provider", name,
		"--webhook-url", server.URL,
		photo,
	)

	require.NoError(t, res.err)
	assert.Len(t, res.stdoutLines(), 1)
	assert.Contains(t, res.stderr, "webhook delivery failed")
	assert.Contains(t, res.stderr, "status 400")
}

func TestUpload_WebhookFromEnvironment(t *testing.T) {
	provider := newMemoryProvider()
	name := registerMemoryProvider(t, provider)
	photo := writeTestFile(t, t.TempDir(), "photo.png", "x")

	var apiKey atomic.Value
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey.Store(r.Header.Get("X-API-Key"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	t.Setenv("FIGBED_WEBHOOK", `{"url":"`+server.URL+`","auth_type":"api-key"}`)
	t.Setenv("FIGBED_WEBHOOK_AUTH_TOKEN", "env-key")

	res := runFigbed(t, nil, "--upload-provider", name, photo)

	require.NoError(t, res.err)
	assert.Equal(t, "env-key", apiKey.Load())
}
