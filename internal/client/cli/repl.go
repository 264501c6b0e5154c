package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	ShowStatus(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Events(ctx context.Context) error
	Scan(ctx context.Context) error
	Sync(ctx context.Context, eventDayID string) error
	OpenAttendance(ctx context.Context, eventID string) error
	CloseAttendance(ctx context.Context, eventID string) error
	BeaconStart(ctx context.Context) error
	BeaconStop(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the FieldSync CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           — show available commands
//	  - login          — authenticate against the cloud backend
//	  - exit | quit    — leave the program
//
//	Logged in:
//	  - help           — show available commands
//	  - status         — session and beacon state
//	  - dashboard      — active and upcoming events
//	  - events         — the user's events
//	  - scan           — roster of currently active attendees on the LAN
//	  - sync <dayId>   — mark active attendees present for an event day
//	  - open <eventId> — open attendance collection for an event
//	  - close <eventId>— close attendance collection for an event
//	  - beacon on|off  — start/stop the presence beacon
//	  - logout         — clear the local session
//	  - exit | quit    — leave the program
//
// Any errors returned by command handlers are ignored here; handlers should
// log their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("fsync %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: status, dashboard, events, scan, sync <dayId>, open <eventId>, close <eventId>, beacon on|off, logout, exit")
			} else {
				printlnFn("Available commands: login, exit")
			}

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "status":
			_ = a.ShowStatus(ctx)

		case "dashboard":
			_ = a.Dashboard(ctx)

		case "events":
			_ = a.Events(ctx)

		case "scan":
			_ = a.Scan(ctx)

		case "sync":
			if len(args) == 0 {
				printlnFn("Usage: sync <eventDayId>")
				continue
			}
			_ = a.Sync(ctx, args[0])

		case "open":
			if len(args) == 0 {
				printlnFn("Usage: open <eventId>")
				continue
			}
			_ = a.OpenAttendance(ctx, args[0])

		case "close":
			if len(args) == 0 {
				printlnFn("Usage: close <eventId>")
				continue
			}
			_ = a.CloseAttendance(ctx, args[0])

		case "beacon":
			if len(args) == 0 {
				printlnFn("Usage: beacon on|off")
				continue
			}
			switch args[0] {
			case "on":
				_ = a.BeaconStart(ctx)
			case "off":
				_ = a.BeaconStop(ctx)
			default:
				printlnFn("Usage: beacon on|off")
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
