package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/responderhq/fieldsync/internal/client/api"
)

// ShowStatus prints the current session and beacon state: who is signed in,
// when the access token expires, and the outcome of the last heartbeat.
func (a *App) ShowStatus(ctx context.Context) error {
	if a.identity == nil {
		printlnFn("Not signed in.")
		return nil
	}

	printlnFn(fmt.Sprintf("Signed in: %s <%s> role=%s org=%s",
		a.identity.Name, a.identity.ID, a.identity.Role, a.identity.Organization))

	access, err := a.store.Access(ctx)
	if err != nil {
		return err
	}
	if exp, ok := api.TokenExpiry(access); ok {
		printlnFn(fmt.Sprintf("Access token expires: %s", exp.Format(time.RFC3339)))
	}

	if !a.beacon.Running() {
		printlnFn("Beacon: stopped")
		return nil
	}

	st := a.beacon.Status()
	switch {
	case st.LastAttempt.IsZero():
		printlnFn("Beacon: running (no heartbeat sent yet)")
	case st.Connected:
		printlnFn(fmt.Sprintf("Beacon: connected (last heartbeat %s)", st.LastAttempt.Format(time.RFC3339)))
	default:
		printlnFn(fmt.Sprintf("Beacon: disconnected (%s)", st.LastError.Error()))
	}
	return nil
}
