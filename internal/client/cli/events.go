package cli

import (
	"context"
	"fmt"

	"github.com/responderhq/fieldsync/internal/client/api"
)

// Dashboard fetches and prints the events dashboard.
func (a *App) Dashboard(ctx context.Context) error {
	d, err := a.gateway.FetchDashboard(ctx)
	if err != nil {
		printlnFn("Could not load dashboard:", err.Error())
		return err
	}

	printlnFn("Active events:")
	printEvents(d.ActiveEvents)
	printlnFn("Upcoming events:")
	printEvents(d.UpcomingEvents)
	return nil
}

// Events fetches and prints the events the signed-in user belongs to.
func (a *App) Events(ctx context.Context) error {
	events, err := a.gateway.MyEvents(ctx)
	if err != nil {
		printlnFn("Could not load events:", err.Error())
		return err
	}
	printEvents(events)
	return nil
}

func printEvents(events []api.Event) {
	if len(events) == 0 {
		printlnFn("  (none)")
		return
	}
	for _, e := range events {
		printlnFn(fmt.Sprintf("  %s  %s  [%s]", e.ID, e.Title, e.Status))
	}
}
