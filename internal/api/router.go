package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/argus/internal/api/handlers"
	"github.com/wonny/argus/pkg/database"
	"github.com/wonny/argus/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	strategies *handlers.StrategyHandler,
	simulations *handlers.SimulationHandler,
	hub *handlers.ProgressHub,
	db *database.DB, // nil 허용 (DB 없는 로컬 모드)
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler(db)).Methods("GET")

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Strategy endpoints
	api.HandleFunc("/strategies", strategies.List).Methods("GET")
	api.HandleFunc("/strategies/{name}/metrics", strategies.Metrics).Methods("GET")
	api.HandleFunc("/strategies/{name}/equity", strategies.Equity).Methods("GET")
	api.HandleFunc("/strategies/{name}/matrix", strategies.Matrix).Methods("GET")
	api.HandleFunc("/strategies/{name}/rolling", strategies.Rolling).Methods("GET")
	api.HandleFunc("/strategies/{name}/excursions", strategies.Excursions).Methods("GET")
	api.HandleFunc("/strategies/{name}/projection", strategies.Projection).Methods("GET")
	api.HandleFunc("/leaderboard", strategies.Leaderboard).Methods("GET")

	// Simulation endpoints
	api.HandleFunc("/simulations", simulations.Create).Methods("POST")
	api.HandleFunc("/simulations/{id}", simulations.Get).Methods("GET")

	// WebSocket progress stream
	r.HandleFunc("/ws/simulations/progress", hub.ServeWS).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log))
	r.Use(recoveryMiddleware(log))

	// CORS는 라우터 밖에서 감싼다 — preflight OPTIONS는 라우트에 매칭되지 않음
	return corsMiddleware(r)
}

// healthCheckHandler returns server health including a DB ping
func healthCheckHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]interface{}{
			"status":  "ok",
			"service": "argus-api",
		}

		if db != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				status["status"] = "degraded"
				status["database"] = "unreachable"
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(status)
				return
			}
			status["database"] = "ok"
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(status)
	}
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Call next handler
			next.ServeHTTP(w, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"duration": time.Since(start),
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// corsMiddleware allows the external dashboard origin
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
