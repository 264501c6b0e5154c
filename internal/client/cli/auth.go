package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/responderhq/fieldsync/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) getStatus() string {
	if a.identity == nil {
		return ""
	}
	s := a.identity.Name
	if a.beacon.Running() {
		s += " [beacon]"
	}
	return fmt.Sprintf("(%s)", s)
}

// Login prompts the user for credentials, authenticates against the cloud
// backend, and keeps the returned identity as the in-memory session. The
// token pair is persisted by the auth service, so the session survives a
// restart. The password is securely wiped before returning.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	identity, err := a.auth.Login(ctx, email, string(password))
	if err != nil {
		printlnFn("Login failed:", err.Error())
		return err
	}

	a.identity = &identity
	printlnFn(fmt.Sprintf("Signed in as %s (%s)", identity.Name, identity.Role))
	return nil
}

// Logout stops the beacon, clears the persisted session, and drops the
// in-memory identity.
func (a *App) Logout(ctx context.Context) error {
	a.beacon.Stop()

	if err := a.auth.Logout(ctx); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}

	a.identity = nil
	printlnFn("Signed out.")
	return nil
}
