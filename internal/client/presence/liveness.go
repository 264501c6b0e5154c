package presence

import (
	"time"

	"github.com/responderhq/fieldsync/internal/client/models"
)

// StalenessThreshold is the maximum age of a presence record before that
// participant is reported inactive. Two missed heartbeat intervals.
const StalenessThreshold = 120 * time.Second

// HeartbeatInterval is how often the beacon announces liveness.
const HeartbeatInterval = 60 * time.Second

// Active filters a snapshot down to records fresh at the given instant.
func Active(records []models.PresenceRecord, now time.Time) []models.PresenceRecord {
	active := make([]models.PresenceRecord, 0, len(records))
	for _, r := range records {
		if r.ActiveAt(now, StalenessThreshold) {
			active = append(active, r)
		}
	}
	return active
}
