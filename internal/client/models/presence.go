package models

import "time"

// PresenceRecord is one device's last-known liveness observation as reported
// by the LAN presence service. Records are never deleted; absence of fresh
// heartbeats is the only departure signal.
type PresenceRecord struct {
	UserID     string    `json:"userId"`
	Name       string    `json:"name"`
	Role       string    `json:"role"`
	IPAddress  string    `json:"ipAddress"`
	LastSeenAt time.Time `json:"lastSeenAt"`
}

// ActiveAt reports whether the record is fresh enough to count as present:
// now - lastSeenAt must be strictly below the staleness threshold.
func (r PresenceRecord) ActiveAt(now time.Time, staleness time.Duration) bool {
	return now.Sub(r.LastSeenAt) < staleness
}
