package cli

import (
	"context"
	"fmt"

	"github.com/responderhq/fieldsync/internal/client/presence"
)

// Scan queries the LAN presence service and prints the attendees that are
// currently active, i.e. seen within the staleness threshold.
func (a *App) Scan(ctx context.Context) error {
	snapshot, err := a.presence.FetchSnapshot(ctx)
	if err != nil {
		printlnFn("Could not reach the presence service:", err.Error())
		return err
	}

	active := presence.Active(snapshot, a.clock.Now())
	if len(active) == 0 {
		printlnFn("No active attendees.")
		return nil
	}

	printlnFn(fmt.Sprintf("Active attendees (%d):", len(active)))
	for _, r := range active {
		printlnFn(fmt.Sprintf("  %s  %s  %s  %s", r.UserID, r.Name, r.Role, r.IPAddress))
	}
	return nil
}

// Sync takes a fresh presence snapshot and marks every active attendee
// present for the given event day with the hotspot check-in method.
func (a *App) Sync(ctx context.Context, eventDayID string) error {
	snapshot, err := a.presence.FetchSnapshot(ctx)
	if err != nil {
		printlnFn("Could not reach the presence service:", err.Error())
		return err
	}

	active := presence.Active(snapshot, a.clock.Now())
	result, err := a.attendance.Reconcile(ctx, eventDayID, active)
	if err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}

	if result.Submitted == 0 {
		printlnFn("No active attendees, nothing to sync.")
		return nil
	}
	printlnFn(fmt.Sprintf("Submitted %d attendee(s), server marked %d present.", result.Submitted, result.Count))
	return nil
}

// OpenAttendance opens attendance collection for an event.
func (a *App) OpenAttendance(ctx context.Context, eventID string) error {
	if err := a.attendance.SetCollectionOpen(ctx, eventID, true); err != nil {
		printlnFn("Could not open attendance:", err.Error())
		return err
	}
	printlnFn("Attendance collection opened.")
	return nil
}

// CloseAttendance closes attendance collection for an event.
func (a *App) CloseAttendance(ctx context.Context, eventID string) error {
	if err := a.attendance.SetCollectionOpen(ctx, eventID, false); err != nil {
		printlnFn("Could not close attendance:", err.Error())
		return err
	}
	printlnFn("Attendance collection closed.")
	return nil
}
