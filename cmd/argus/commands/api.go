package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/api"
	"github.com/wonny/argus/internal/api/handlers"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

이 명령어는:
- HTTP API 서버 시작
- 전략 지표/시뮬레이션 엔드포인트 제공
- WebSocket 시뮬레이션 진행률 스트림 제공

Endpoints:
  GET  /health                          - Health check
  GET  /api/strategies                  - 전략 목록
  GET  /api/strategies/{name}/metrics   - 전략 전체 지표
  GET  /api/strategies/{name}/equity    - 자본 곡선 + 드로다운
  GET  /api/strategies/{name}/matrix    - 월×연 수익 매트릭스
  GET  /api/strategies/{name}/rolling   - 롤링 Sortino 시리즈
  GET  /api/strategies/{name}/excursions - 손실 트레이드 분석
  GET  /api/strategies/{name}/projection - 연간 복리 프로젝션
  GET  /api/leaderboard                 - 전략 순위표
  POST /api/simulations                 - 몬테카를로 시뮬레이션 실행
  GET  /api/simulations/{id}            - 저장된 시뮬레이션 조회
  GET  /ws/simulations/progress         - 진행률 WebSocket

Example:
  go run ./cmd/argus api
  go run ./cmd/argus api --port 8080`,
	RunE: runAPIServer,
}

var (
	apiPort string
)

func init() {
	rootCmd.AddCommand(apiCmd)

	// Flags
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: PORT 환경변수)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Argus API Server ===")

	d, err := initDeps(false)
	if err != nil {
		return err
	}
	defer d.Close()

	// Override port if flag is set
	if apiPort != "" {
		d.cfg.Port = apiPort
	}

	d.log.WithFields(map[string]interface{}{
		"port": d.cfg.Port,
		"env":  d.cfg.Env,
	}).Info("Initializing API server")

	// Handlers
	hub := handlers.NewProgressHub(d.log)
	strategyHandler := handlers.NewStrategyHandler(d.analyzer, d.profile, d.log)
	simulationHandler := handlers.NewSimulationHandler(d.analyzer, d.profile, d.simulations, hub, d.log)

	// Router + server
	router := api.NewRouter(strategyHandler, simulationHandler, hub, d.db, d.log)
	server := api.New(d.cfg, d.log, router)

	// Start server with graceful shutdown
	go func() {
		if err := server.Start(); err != nil {
			d.log.WithError(err).Fatal("Failed to start server")
		}
	}()

	d.log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", d.cfg.Port)
	if d.db == nil {
		fmt.Println("⚠️  Database not configured — simulation lookup disabled")
	}
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET  /health")
	fmt.Println("  GET  /api/strategies")
	fmt.Println("  GET  /api/strategies/{name}/metrics")
	fmt.Println("  GET  /api/strategies/{name}/equity")
	fmt.Println("  GET  /api/strategies/{name}/matrix")
	fmt.Println("  GET  /api/strategies/{name}/rolling")
	fmt.Println("  GET  /api/strategies/{name}/excursions")
	fmt.Println("  GET  /api/strategies/{name}/projection")
	fmt.Println("  GET  /api/leaderboard")
	fmt.Println("  POST /api/simulations")
	fmt.Println("  GET  /api/simulations/{id}")
	fmt.Println("  GET  /ws/simulations/progress")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	d.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	d.log.Info("Server stopped")
	return nil
}
