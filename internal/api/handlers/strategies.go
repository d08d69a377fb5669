package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/profile"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/pkg/logger"
)

// StrategyHandler serves strategy analysis endpoints
// ⭐ SSOT: 전략 API 핸들러는 이 구조체에서만
type StrategyHandler struct {
	analyzer *service.Analyzer
	profile  *profile.Profile
	logger   *logger.Logger
}

// NewStrategyHandler creates a strategy handler.
// prof는 서버 기동 시 로드된 활성 프로파일
func NewStrategyHandler(analyzer *service.Analyzer, prof *profile.Profile, log *logger.Logger) *StrategyHandler {
	return &StrategyHandler{
		analyzer: analyzer,
		profile:  prof,
		logger:   log,
	}
}

// List returns the discoverable strategy names
// GET /api/strategies
func (h *StrategyHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.analyzer.Tables(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list strategies")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategies": tables,
		"count":      len(tables),
	})
}

// Metrics returns the full metrics summary for one strategy
// GET /api/strategies/{name}/metrics
func (h *StrategyHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	summary, err := h.analyzer.AnalyzeTable(r.Context(), name, h.profile)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to analyze strategy")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, summary)
}

// Equity returns the equity curve and drawdown series for charting
// GET /api/strategies/{name}/equity
func (h *StrategyHandler) Equity(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	summary, err := h.analyzer.AnalyzeTable(r.Context(), name, h.profile)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to analyze strategy")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategy":     summary.Strategy,
		"equity_curve": summary.EquityCurve,
		"drawdown":     summary.Drawdown,
	})
}

// Matrix returns the month×year P/L matrix
// GET /api/strategies/{name}/matrix
func (h *StrategyHandler) Matrix(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tt, err := h.analyzer.FetchTable(r.Context(), name)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to fetch strategy")
		respondDomainError(w, err)
		return
	}

	matrix := metrics.NewEngine().MonthlyMatrix(tt.Trades, h.profile.InitialCapital)
	respondJSON(w, http.StatusOK, matrix)
}

// Rolling returns the windowed Sortino series for charting
// GET /api/strategies/{name}/rolling?window=30
func (h *StrategyHandler) Rolling(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	window := 30
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "window must be a positive integer")
			return
		}
		window = parsed
	}

	tt, err := h.analyzer.FetchTable(r.Context(), name)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to fetch strategy")
		respondDomainError(w, err)
		return
	}

	points := metrics.NewEngine().RollingSortino(tt.Trades, h.profile.AnalysisConfig(), window)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategy":    name,
		"window_days": window,
		"points":      points,
	})
}

// Excursions returns the run-up / loss-severity breakdown of losers
// GET /api/strategies/{name}/excursions
func (h *StrategyHandler) Excursions(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tt, err := h.analyzer.FetchTable(r.Context(), name)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to fetch strategy")
		respondDomainError(w, err)
		return
	}

	analysis := metrics.NewEngine().AnalyzeExcursions(tt.Trades)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategy":  name,
		"excursion": analysis,
	})
}

// Projection returns the compounded year-by-year growth projection
// using the active profile's projection settings
// GET /api/strategies/{name}/projection
func (h *StrategyHandler) Projection(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	tt, err := h.analyzer.FetchTable(r.Context(), name)
	if err != nil {
		h.logger.WithError(err).WithField("strategy", name).Error("Failed to fetch strategy")
		respondDomainError(w, err)
		return
	}

	proj := h.profile.Projection
	years := metrics.NewEngine().Project(tt.Trades, h.profile.InitialCapital, proj.Mode, proj.TaxRate)
	if proj.Years > 0 && proj.Years < len(years) {
		years = years[:proj.Years]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"strategy": name,
		"mode":     proj.Mode,
		"tax_rate": proj.TaxRate,
		"years":    years,
	})
}

// Leaderboard returns every strategy ranked by net profit
// GET /api/leaderboard
func (h *StrategyHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := h.analyzer.Leaderboard(r.Context(), h.profile)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build leaderboard")
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, board)
}
