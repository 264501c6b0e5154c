package services

import (
	"context"
	"fmt"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/logging"
)

// attendanceGateway is the authenticated cloud surface the reconciler needs.
// Satisfied by *api.Gateway.
type attendanceGateway interface {
	BulkMarkPresent(ctx context.Context, eventDayID string, userIDs []string) (int, error)
	SetAttendanceStatus(ctx context.Context, eventID string, open bool) error
}

// ReconcileResult reports one operator-initiated sync.
type ReconcileResult struct {
	// Submitted is how many distinct user ids were sent.
	Submitted int
	// Count is the server-reported number of marked participants. Zero when
	// nothing was sent.
	Count int
}

// AttendanceService folds locally observed presence into cloud attendance
// records and lets trainers toggle collection.
type AttendanceService interface {
	Reconcile(ctx context.Context, eventDayID string, snapshot []models.PresenceRecord) (ReconcileResult, error)
	SetCollectionOpen(ctx context.Context, eventID string, open bool) error
}

type attendanceService struct {
	gateway attendanceGateway
	log     logging.Logger
}

func NewAttendanceService(gateway attendanceGateway, log logging.Logger) AttendanceService {
	if log == nil {
		log = logging.Discard()
	}
	return &attendanceService{gateway: gateway, log: log}
}

// Reconcile extracts the distinct set of user ids from the snapshot
// (discarding entries with a missing id) and submits it to the bulk
// attendance endpoint for the event day. An empty set short-circuits
// without a network call. The same snapshot always produces the same
// payload; deduplication of already-present users is the server's job.
func (s *attendanceService) Reconcile(ctx context.Context, eventDayID string, snapshot []models.PresenceRecord) (ReconcileResult, error) {
	ids := distinctUserIDs(snapshot)
	if len(ids) == 0 {
		s.log.Info(ctx, "nothing to sync", "eventDayId", eventDayID)
		return ReconcileResult{}, nil
	}

	count, err := s.gateway.BulkMarkPresent(ctx, eventDayID, ids)
	if err != nil {
		// Cloud errors go up untouched; the operator retries.
		return ReconcileResult{Submitted: len(ids)}, err
	}

	s.log.Info(ctx, "attendance reconciled", "eventDayId", eventDayID, "submitted", len(ids), "count", count)
	return ReconcileResult{Submitted: len(ids), Count: count}, nil
}

func (s *attendanceService) SetCollectionOpen(ctx context.Context, eventID string, open bool) error {
	if err := s.gateway.SetAttendanceStatus(ctx, eventID, open); err != nil {
		return fmt.Errorf("setting attendance status: %w", err)
	}
	return nil
}

// distinctUserIDs preserves first-seen order.
func distinctUserIDs(snapshot []models.PresenceRecord) []string {
	seen := make(map[string]struct{}, len(snapshot))
	ids := make([]string, 0, len(snapshot))
	for _, r := range snapshot {
		if r.UserID == "" {
			continue
		}
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return ids
}
