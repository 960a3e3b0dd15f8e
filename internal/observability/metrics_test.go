package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("/api/agents", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/agents", "GET", 200, 30*time.Millisecond)
	m.RecordRequest("/api/users", "POST", 409, 20*time.Millisecond)
	m.RecordError("/api/users", "POST", "DUPLICATE_USERNAME")

	requests, errors, mean := m.Snapshot()
	assert.Equal(t, int64(2), requests["/api/agents|GET|200"])
	assert.Equal(t, int64(1), requests["/api/users|POST|409"])
	assert.Equal(t, int64(1), errors["/api/users|POST|DUPLICATE_USERNAME"])
	assert.Equal(t, 20*time.Millisecond, mean)
}

func TestMetricsSnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/health/live", "GET", 200, time.Millisecond)

	requests, _, _ := m.Snapshot()
	requests["/health/live|GET|200"] = 99

	fresh, _, _ := m.Snapshot()
	assert.Equal(t, int64(1), fresh["/health/live|GET|200"])
}

func TestMetricsNilReceiverSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/x", "GET", 200, 0)
	m.RecordError("/x", "GET", "INTERNAL_ERROR")
}
