package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/pkg/logger"
)

// SimulationHandler serves Monte Carlo endpoints
// ⭐ SSOT: 시뮬레이션 API 핸들러는 이 구조체에서만
type SimulationHandler struct {
	analyzer *service.Analyzer
	profile  *profile.Profile
	runs     contracts.SimulationRepository // nil이면 조회 불가 (503)
	hub      *ProgressHub
	logger   *logger.Logger
}

// NewSimulationHandler creates a simulation handler
func NewSimulationHandler(analyzer *service.Analyzer, prof *profile.Profile,
	runs contracts.SimulationRepository, hub *ProgressHub, log *logger.Logger) *SimulationHandler {
	return &SimulationHandler{
		analyzer: analyzer,
		profile:  prof,
		runs:     runs,
		hub:      hub,
		logger:   log,
	}
}

// SimulateRequest is the POST body. 생략된 필드는 프로파일 값을 따른다
type SimulateRequest struct {
	Strategy       string    `json:"strategy"`
	Paths          int       `json:"paths,omitempty"`
	Length         int       `json:"length,omitempty"`
	Percentiles    []float64 `json:"percentiles,omitempty"`
	TargetMultiple float64   `json:"target_multiple,omitempty"`
	Seed           int64     `json:"seed,omitempty"`
}

// Create runs a simulation synchronously and returns the result
// POST /api/simulations
func (h *SimulationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Strategy == "" {
		respondError(w, http.StatusBadRequest, "strategy is required")
		return
	}

	cfg := h.profile.SimulationConfig()
	if req.Paths > 0 {
		cfg.Paths = req.Paths
	}
	if req.Length > 0 {
		cfg.Length = req.Length
	}
	if len(req.Percentiles) > 0 {
		cfg.Percentiles = req.Percentiles
	}
	if req.TargetMultiple > 0 {
		cfg.TargetMultiple = req.TargetMultiple
	}
	if req.Seed != 0 {
		cfg.Seed = req.Seed
	}

	// 진행 이벤트는 연결된 WebSocket 클라이언트 전원에게 브로드캐스트
	var progress func(completed, total int)
	if h.hub != nil {
		progress = func(completed, total int) {
			h.hub.Broadcast(ProgressEvent{
				Strategy:  req.Strategy,
				Completed: completed,
				Total:     total,
			})
		}
	}

	result, err := h.analyzer.SimulateTable(r.Context(), req.Strategy, h.profile, cfg, progress)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", req.Strategy).Error("Simulation failed")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Get fetches one stored simulation run
// GET /api/simulations/{id}
func (h *SimulationHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h.runs == nil {
		respondError(w, http.StatusServiceUnavailable, "Simulation storage is not configured")
		return
	}

	id := mux.Vars(r)["id"]
	run, err := h.runs.GetByRunID(r.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("run_id", id).Error("Failed to get simulation run")
		respondError(w, http.StatusInternalServerError, "Failed to retrieve simulation run")
		return
	}
	if run == nil {
		respondError(w, http.StatusNotFound, "Simulation run not found")
		return
	}

	respondJSON(w, http.StatusOK, run)
}
