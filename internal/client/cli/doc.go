// Package cli provides the interactive FieldSync command-line client.
//
// It wires configuration, the local credential store, the authenticated
// cloud gateway, the LAN presence client, and an interactive REPL used by
// operators in the field. Typical flow: sign in, start the beacon (trainee)
// or scan the roster and sync attendance (trainer).
//
// Key features:
//   - Login / Logout against the cloud backend
//   - Dashboard and event listing
//   - Presence roster scan over the training hotspot
//   - Bulk attendance sync for an event day
//   - Presence beacon control for trainees
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
