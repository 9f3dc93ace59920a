package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ianus-labs/ianus/server/internal/ianus/service"
	"github.com/ianus-labs/ianus/server/internal/ianus/store"
	"github.com/ianus-labs/ianus/server/internal/ianus/types"
	"github.com/ianus-labs/ianus/server/internal/logger"
)

type Dependencies struct {
	Logger           *logger.Logger
	Addr             string
	Boundary         *service.Boundary
	HeartbeatService *service.HeartbeatService
	Reports          store.EnrollmentReporter
}

type Server struct {
	httpServer       *http.Server
	logger           *logger.Logger
	mux              *http.ServeMux
	boundary         *service.Boundary
	heartbeatService *service.HeartbeatService
	reports          store.EnrollmentReporter
}

func NewServer(d Dependencies) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger:           d.Logger,
		mux:              mux,
		boundary:         d.Boundary,
		heartbeatService: d.HeartbeatService,
		reports:          d.Reports,
	}

	mux.HandleFunc("POST /v1/scan", s.handleScan)
	mux.HandleFunc("POST /v1/heartbeat", s.handleHeartbeat)
	mux.HandleFunc("GET /v1/reports/unconfirmed", s.handleUnconfirmedReport)

	handler := loggingMiddleware(d.Logger, mux)

	s.httpServer = &http.Server{
		Addr:              d.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// handleScan is the scanner-facing access attempt endpoint.  Denials are
// 200s with granted=false; only malformed input, engine failures, and
// timeouts become error statuses.
func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var req types.ScanRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	slot, ok := types.ParseFingerSlot(req.FingerSlot)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_finger_slot", "finger_slot must name a finger")
		return
	}

	decision, err := s.boundary.Submit(r.Context(), req.Capture, slot, req.HardwareID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidDeviceID),
			errors.Is(err, service.ErrEmptyCapture),
			errors.Is(err, service.ErrInvalidSlot):
			writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		case errors.Is(err, service.ErrTemplateCreation):
			writeError(w, http.StatusUnprocessableEntity, "template_creation_failed", "capture unusable, rescan")
		case errors.Is(err, service.ErrIdentification):
			writeError(w, http.StatusUnprocessableEntity, "identification_failed", "identification failed, try again")
		case errors.Is(err, service.ErrDecisionTimeout):
			writeError(w, http.StatusGatewayTimeout, "decision_timeout", "decision did not complete in time")
		default:
			s.logger.Error("scan error", "error", err.Error())
			writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, types.ScanResponse{
		OK:         true,
		Granted:    decision.Granted,
		Reason:     string(decision.Reason),
		Message:    decision.Message,
		UserName:   decision.UserName,
		HardwareID: req.HardwareID,
		ServerTime: time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req types.HeartbeatRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	resp, err := s.heartbeatService.Record(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDeviceID) {
			writeError(w, http.StatusBadRequest, "invalid_hardware_id", err.Error())
			return
		}
		s.logger.Error("heartbeat error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// enrollmentRow is the wire shape of one audit row in reports.
type enrollmentRow struct {
	ID             string  `json:"id"`
	UserFirstName  string  `json:"user_first_name"`
	UserLastName   string  `json:"user_last_name"`
	FingerSlot     string  `json:"finger_slot"`
	HardwareID     string  `json:"hardware_id"`
	RoomNumber     *int    `json:"room_number"`
	BuildingNumber *int    `json:"building_number"`
	Confirmed      bool    `json:"confirmed"`
	Reason         string  `json:"reason"`
	DecidedAt      string  `json:"decided_at"`
}

func (s *Server) handleUnconfirmedReport(w http.ResponseWriter, r *http.Request) {
	since := time.Now().UTC().Add(-24 * time.Hour)
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_since", "since must be RFC3339")
			return
		}
		since = t.UTC()
	}

	limit := 100
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := s.reports.UnconfirmedSince(r.Context(), since, limit)
	if err != nil {
		s.logger.Error("unconfirmed report error", "error", err.Error())
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected server error")
		return
	}

	rows := make([]enrollmentRow, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, enrollmentRow{
			ID:             rec.ID.String(),
			UserFirstName:  rec.UserFirstName,
			UserLastName:   rec.UserLastName,
			FingerSlot:     string(rec.Slot),
			HardwareID:     rec.HardwareID,
			RoomNumber:     rec.RoomNumber,
			BuildingNumber: rec.BuildingNumber,
			Confirmed:      rec.Confirmed,
			Reason:         string(rec.Reason),
			DecidedAt:      rec.DecidedAt.Format(time.RFC3339Nano),
		})
	}

	writeJSON(w, http.StatusOK, rows)
}

// ── response helpers ─────────────────────────────────────────────────────────

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Error: code, Message: message})
}
