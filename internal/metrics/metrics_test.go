package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_ObserveInvocation(t *testing.T) {
	m := NewManager()

	m.ObserveInvocation("single", 1, 2*time.Millisecond, nil)
	m.ObserveInvocation("sweep", 24, 3*time.Millisecond, nil)
	m.ObserveInvocation("sweep", 24, time.Millisecond, errors.New("bad row"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("single", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("sweep", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.invocations.WithLabelValues("sweep", StatusError)))
	assert.Equal(t, 48.0, testutil.ToFloat64(m.invocationRows.WithLabelValues("sweep")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.invocationDuration))
}

func TestManager_TriggersAndSessions(t *testing.T) {
	m := NewManager()

	m.ObserveTrigger(3.25, nil)
	m.ObserveTrigger(0, errors.New("model failed"))
	m.ObserveInputChange()
	m.ObserveInputChange()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.triggers.WithLabelValues(StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.triggers.WithLabelValues(StatusError)))
	assert.Equal(t, 3.25, testutil.ToFloat64(m.lastPrediction), "failed trigger keeps the last value")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.inputChanges))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
}

func TestManager_Handler(t *testing.T) {
	m := NewManager(WithNamespace("test"), WithSubsystem("fc"))
	m.ObserveInvocation("single", 1, time.Millisecond, nil)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `test_fc_model_invocations_total{kind="single",status="success"} 1`))
}

func TestNewManager_SeparateRegistries(t *testing.T) {
	// Two managers must not collide on registration.
	assert.NotPanics(t, func() {
		NewManager()
		NewManager()
	})
}
