// Package presenced implements the LAN presence service that runs on the
// training hotspot router. Trainee devices POST heartbeats; the trainer's
// device GETs the roster and decides client-side who is still active.
//
// State is intentionally in-memory only: the service restarts with the
// router and a roster older than one power cycle has no value.
package presenced

import (
	"encoding/json"
	"net/http"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/responderhq/fieldsync/internal/client/models"
	"github.com/responderhq/fieldsync/internal/logging"
	"github.com/responderhq/fieldsync/internal/schedulex"
)

type heartbeatRequest struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	IPAddress string `json:"ipAddress"`
}

type heartbeatResponse struct {
	Success bool `json:"success"`
}

type attendeesResponse struct {
	Success   bool                    `json:"success"`
	Attendees []models.PresenceRecord `json:"attendees"`
}

// Server tracks attendee liveness. Records are only ever inserted or
// refreshed, never deleted; consumers filter by lastSeenAt themselves.
type Server struct {
	cfg   Config
	clock schedulex.Clock
	log   logging.Logger

	mu     sync.RWMutex
	roster map[string]models.PresenceRecord

	registry        *prometheus.Registry
	heartbeatsTotal prometheus.Counter
	rosterSize      prometheus.Gauge
}

// NewServer builds a presence server. A nil clock uses the system clock,
// a nil logger discards output.
func NewServer(cfg Config, clock schedulex.Clock, log logging.Logger) *Server {
	if clock == nil {
		clock = schedulex.SystemClock()
	}
	if log == nil {
		log = logging.Discard()
	}

	registry := prometheus.NewRegistry()
	heartbeatsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "presenced_heartbeats_total",
		Help: "Number of heartbeats received.",
	})
	rosterSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "presenced_roster_size",
		Help: "Number of distinct attendees seen since startup.",
	})
	registry.MustRegister(heartbeatsTotal, rosterSize)

	return &Server{
		cfg:             cfg,
		clock:           clock,
		log:             log,
		roster:          make(map[string]models.PresenceRecord),
		registry:        registry,
		heartbeatsTotal: heartbeatsTotal,
		rosterSize:      rosterSize,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	r.Post("/api/heartbeat", s.handleHeartbeat)
	r.Get("/api/attendees", s.handleAttendees)

	return r
}

// handleHeartbeat upserts the sender's roster record and stamps it with the
// server's clock, so client clock skew never affects staleness decisions.
func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req heartbeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	if req.UserID == "" {
		writeError(w, http.StatusBadRequest, "missing_user_id")
		return
	}

	now := s.clock.Now().UTC()

	s.mu.Lock()
	s.roster[req.UserID] = models.PresenceRecord{
		UserID:     req.UserID,
		Name:       req.Name,
		Role:       req.Role,
		IPAddress:  req.IPAddress,
		LastSeenAt: now,
	}
	size := len(s.roster)
	s.mu.Unlock()

	s.heartbeatsTotal.Inc()
	s.rosterSize.Set(float64(size))

	s.log.Debug(r.Context(), "heartbeat", "userId", req.UserID, "ip", req.IPAddress)
	writeJSON(w, http.StatusOK, heartbeatResponse{Success: true})
}

// handleAttendees returns every record ever seen, stale ones included.
// Filtering by staleness is normally the caller's job; ?active=true applies
// the server's own staleness window for constrained consumers.
func (s *Server) handleAttendees(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	records := make([]models.PresenceRecord, 0, len(s.roster))
	for _, rec := range s.roster {
		records = append(records, rec)
	}
	s.mu.RUnlock()

	if r.URL.Query().Get("active") == "true" {
		now := s.clock.Now()
		active := records[:0]
		for _, rec := range records {
			if rec.ActiveAt(now, s.cfg.StalenessWindow) {
				active = append(active, rec)
			}
		}
		records = active
	}

	sort.Slice(records, func(i, j int) bool { return records[i].UserID < records[j].UserID })

	writeJSON(w, http.StatusOK, attendeesResponse{Success: true, Attendees: records})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"success": false, "error": code})
}
