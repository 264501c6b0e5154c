// Package common defines shared constants and sentinel errors used across
// the FieldSync client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrUnauthenticated means no access token is present locally.
	// The caller must route the user to login; nothing is retried.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrSessionExpired means the refresh exchange itself failed
	// (invalid or expired refresh token). Local credentials are cleared
	// before this is returned.
	ErrSessionExpired = errors.New("session expired")

	// ErrLocalServiceUnreachable means the LAN presence service could not
	// be reached. It is a connectivity signal, never fatal.
	ErrLocalServiceUnreachable = errors.New("local presence service unreachable")
)
