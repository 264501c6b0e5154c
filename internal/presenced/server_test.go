package presenced

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/client/presence"
	"github.com/responderhq/fieldsync/internal/client/services"
	"github.com/responderhq/fieldsync/internal/schedulex"
)

func newTestServer(t *testing.T, clock schedulex.Clock) *httptest.Server {
	t.Helper()
	srv := NewServer(Load(), clock, nil)
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return ts
}

func postHeartbeat(t *testing.T, baseURL string, hb map[string]string) *http.Response {
	t.Helper()
	body, err := json.Marshal(hb)
	require.NoError(t, err)
	resp, err := http.Post(baseURL+"/api/heartbeat", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func getAttendees(t *testing.T, url string) []models.PresenceRecord {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body attendeesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.True(t, body.Success)
	return body.Attendees
}

func TestHeartbeatUpsertsRecord(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	clock := schedulex.NewFakeClock(start)
	ts := newTestServer(t, clock)

	resp := postHeartbeat(t, ts.URL, map[string]string{
		"userId": "u1", "name": "Alice", "role": "trainee", "ipAddress": "192.168.4.17",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	records := getAttendees(t, ts.URL+"/api/attendees")
	require.Len(t, records, 1)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "Alice", records[0].Name)
	assert.Equal(t, "192.168.4.17", records[0].IPAddress)
	assert.True(t, records[0].LastSeenAt.Equal(start))

	// second heartbeat refreshes lastSeenAt, no duplicate record
	clock.Advance(30 * time.Second)
	postHeartbeat(t, ts.URL, map[string]string{"userId": "u1", "name": "Alice", "role": "trainee", "ipAddress": "192.168.4.17"})

	records = getAttendees(t, ts.URL+"/api/attendees")
	require.Len(t, records, 1)
	assert.True(t, records[0].LastSeenAt.Equal(start.Add(30*time.Second)))
}

func TestHeartbeatValidation(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := postHeartbeat(t, ts.URL, map[string]string{"name": "Nobody"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	raw, err := http.Post(ts.URL+"/api/heartbeat", "application/json", bytes.NewReader([]byte("{broken")))
	require.NoError(t, err)
	defer raw.Body.Close()
	assert.Equal(t, http.StatusBadRequest, raw.StatusCode)
}

func TestAttendeesKeepsStaleRecords(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	clock := schedulex.NewFakeClock(start)
	ts := newTestServer(t, clock)

	postHeartbeat(t, ts.URL, map[string]string{"userId": "u1", "name": "Alice", "role": "trainee"})
	clock.Advance(10 * time.Minute)
	postHeartbeat(t, ts.URL, map[string]string{"userId": "u2", "name": "Bob", "role": "trainee"})

	// stale records stay in the full roster
	records := getAttendees(t, ts.URL+"/api/attendees")
	require.Len(t, records, 2)

	// and are filtered out with ?active=true
	records = getAttendees(t, ts.URL+"/api/attendees?active=true")
	require.Len(t, records, 1)
	assert.Equal(t, "u2", records[0].UserID)
}

func TestHealthAndMetrics(t *testing.T) {
	ts := newTestServer(t, nil)

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

type captureGateway struct {
	LastEventDayID string
	LastUserIDs    []string
}

func (g *captureGateway) BulkMarkPresent(ctx context.Context, eventDayID string, userIDs []string) (int, error) {
	g.LastEventDayID = eventDayID
	g.LastUserIDs = userIDs
	return len(userIDs), nil
}

func (g *captureGateway) SetAttendanceStatus(ctx context.Context, eventID string, open bool) error {
	return nil
}

// Full field flow: two trainees heartbeat, one goes silent, the trainer's
// snapshot three minutes in only yields the live one for reconciliation.
func TestPresenceToAttendanceFlow(t *testing.T) {
	start := time.Date(2026, 5, 10, 9, 0, 0, 0, time.UTC)
	clock := schedulex.NewFakeClock(start)
	ts := newTestServer(t, clock)

	postHeartbeat(t, ts.URL, map[string]string{"userId": "u1", "name": "Alice", "role": "trainee", "ipAddress": "192.168.4.17"})
	postHeartbeat(t, ts.URL, map[string]string{"userId": "u2", "name": "Bob", "role": "trainee", "ipAddress": "192.168.4.18"})

	// only u1 keeps beating
	clock.Advance(100 * time.Second)
	postHeartbeat(t, ts.URL, map[string]string{"userId": "u1", "name": "Alice", "role": "trainee", "ipAddress": "192.168.4.17"})

	clock.Advance(80 * time.Second) // t = 180s

	client := presence.NewClient(ts.URL, 2*time.Second)
	snapshot, err := client.FetchSnapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	active := presence.Active(snapshot, clock.Now())
	require.Len(t, active, 1)
	assert.Equal(t, "u1", active[0].UserID)

	gw := &captureGateway{}
	svc := services.NewAttendanceService(gw, nil)
	result, err := svc.Reconcile(context.Background(), "day-7", active)
	require.NoError(t, err)

	assert.Equal(t, "day-7", gw.LastEventDayID)
	assert.Equal(t, []string{"u1"}, gw.LastUserIDs)
	assert.Equal(t, 1, result.Submitted)
	assert.Equal(t, 1, result.Count)
}
