package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.MessageHandled("extract")
	m.MessageHandled("extract")
	m.MessageHandled("summary")
	m.CollaboratorFailed("store")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Messages.WithLabelValues("extract")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Messages.WithLabelValues("summary")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CollaboratorFailures.WithLabelValues("store")))
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.MessageHandled("confirm")

	assert.Equal(t, 0.0, testutil.ToFloat64(b.Messages.WithLabelValues("confirm")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.MessageHandled("reject")
	m.ObserveRequest("200", 150*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), `mealbot_messages_total{intent="reject"} 1`)
	assert.Contains(t, string(body), `mealbot_webhook_request_duration_seconds_count{status="200"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
