package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/wonny/argus/internal/metrics"
	"github.com/wonny/argus/internal/service"
	"github.com/wonny/argus/internal/simulation"
	"github.com/wonny/argus/pkg/logger"
)

// Generator writes rendered reports into an output directory
// ⭐ SSOT: 리포트 파일 배치는 여기서만
type Generator struct {
	dir    string
	now    func() time.Time // 테스트에서 고정 가능한 주입식 시계
	logger *logger.Logger
}

// NewGenerator creates a generator rooted at dir
func NewGenerator(dir string, log *logger.Logger) *Generator {
	return &Generator{
		dir:    dir,
		now:    func() time.Time { return time.Now().UTC() },
		logger: log.Component("report"),
	}
}

// WithClock sets a custom clock function for deterministic filenames
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// stamp formats the clock for filenames (초 단위 충돌은 덮어쓰기)
func (g *Generator) stamp() string {
	return g.now().Format("20060102_150405")
}

func (g *Generator) write(name, content string) (string, error) {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report dir: %w", err)
	}

	path := filepath.Join(g.dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	g.logger.WithField("path", path).Info("report written")
	return path, nil
}

// WriteAnalysis writes the full markdown report for one strategy.
// 시뮬레이션/매트릭스는 nil이면 해당 섹션을 생략
func (g *Generator) WriteAnalysis(summary *metrics.Summary, matrix *metrics.Matrix, sim *simulation.Result) (string, error) {
	content := RenderSummaryMarkdown(summary, g.now())
	if matrix != nil {
		content += RenderMatrixMarkdown(matrix)
	}
	if sim != nil {
		content += RenderSimulationMarkdown(sim)
	}

	name := fmt.Sprintf("analysis_%s_%s.md", summary.Strategy, g.stamp())
	return g.write(name, content)
}

// WriteLeaderboard writes the board as markdown and CSV, returning both paths
func (g *Generator) WriteLeaderboard(board *service.Board) (mdPath, csvPath string, err error) {
	stamp := g.stamp()

	mdPath, err = g.write(fmt.Sprintf("leaderboard_%s.md", stamp),
		RenderLeaderboardMarkdown(board, g.now()))
	if err != nil {
		return "", "", err
	}

	csvPath, err = g.write(fmt.Sprintf("leaderboard_%s.csv", stamp),
		RenderLeaderboardCSV(board))
	if err != nil {
		return "", "", err
	}

	return mdPath, csvPath, nil
}

// WriteMatrixCSV writes one strategy's month×year matrix as CSV
func (g *Generator) WriteMatrixCSV(strategy string, matrix *metrics.Matrix) (string, error) {
	name := fmt.Sprintf("matrix_%s_%s.csv", strategy, g.stamp())
	return g.write(name, RenderMatrixCSV(matrix))
}
