package cli

import (
	"context"
	"errors"

	"github.com/responderhq/fieldsync/internal/client/presence"
	"github.com/responderhq/fieldsync/internal/schedulex"
)

// BeaconStart begins announcing the signed-in trainee's liveness to the
// presence service. Trainers are refused; the service only tracks trainees.
func (a *App) BeaconStart(ctx context.Context) error {
	if a.identity == nil {
		printlnFn("Sign in first.")
		return nil
	}

	err := a.beacon.Start(ctx, *a.identity)
	switch {
	case errors.Is(err, presence.ErrNotEligible):
		printlnFn("The beacon is only available to trainees.")
		return err
	case errors.Is(err, schedulex.ErrAlreadyRunning):
		printlnFn("Beacon is already running.")
		return nil
	case err != nil:
		printlnFn("Could not start the beacon:", err.Error())
		return err
	}

	printlnFn("Beacon started.")
	return nil
}

// BeaconStop cancels future heartbeats.
func (a *App) BeaconStop(ctx context.Context) error {
	a.beacon.Stop()
	printlnFn("Beacon stopped.")
	return nil
}
