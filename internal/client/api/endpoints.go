package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/common"
)

// Event is the summary shape the dashboard and my-events endpoints return.
type Event struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
}

// Dashboard aggregates the trainee/trainer landing view.
type Dashboard struct {
	ActiveEvents   []Event `json:"activeEvents"`
	UpcomingEvents []Event `json:"upcomingEvents"`
}

// Profile fetches the authoritative identity and returns it; callers decide
// whether to refresh the local snapshot.
func (g *Gateway) Profile(ctx context.Context) (models.Identity, error) {
	var identity models.Identity
	if err := g.Do(ctx, http.MethodGet, "/auth/profile", nil, &identity); err != nil {
		return models.Identity{}, err
	}
	return identity, nil
}

// FetchDashboard loads the events dashboard.
func (g *Gateway) FetchDashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	if err := g.Do(ctx, http.MethodGet, "/events/dashboard", nil, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// MyEvents lists the events the signed-in user belongs to.
func (g *Gateway) MyEvents(ctx context.Context) ([]Event, error) {
	var events []Event
	if err := g.Do(ctx, http.MethodGet, "/events/my-events", nil, &events); err != nil {
		return nil, err
	}
	return events, nil
}

type attendanceStatusRequest struct {
	Open bool `json:"open"`
}

// SetAttendanceStatus lets a trainer open or close attendance collection
// for an event.
func (g *Gateway) SetAttendanceStatus(ctx context.Context, eventID string, open bool) error {
	path := fmt.Sprintf("/events/%s/attendance-status", eventID)
	return g.Do(ctx, http.MethodPost, path, attendanceStatusRequest{Open: open}, nil)
}

type bulkAttendanceRequest struct {
	UserIDs       []string `json:"userIds"`
	CheckInMethod string   `json:"checkInMethod"`
}

type bulkAttendanceResponse struct {
	Count int `json:"count"`
}

// BulkMarkPresent submits the distinct id set observed on the local network
// for an event day. The backend deduplicates already-present users, so the
// call is idempotent per user.
func (g *Gateway) BulkMarkPresent(ctx context.Context, eventDayID string, userIDs []string) (int, error) {
	path := fmt.Sprintf("/event-days/%s/attendance/bulk", eventDayID)
	req := bulkAttendanceRequest{UserIDs: userIDs, CheckInMethod: common.CheckInMethodHotspot}

	var resp bulkAttendanceResponse
	if err := g.Do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return 0, err
	}
	return resp.Count, nil
}
