package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/logger"
)

// 전략 파일이 아닌 파생 산출물 이름 조각 (제외 규칙)
var excludedNameParts = []string{
	"MASTER", "Matrix", "Combined", "Processed", "Graph", "Heatmap",
}

// LocalSource serves trade tables from a directory of strategy CSVs.
// ⭐ SSOT: 로컬 파일 발견/제외 규칙은 여기서만
type LocalSource struct {
	dir    string
	logger *logger.Logger
}

// NewLocalSource creates a local CSV source
func NewLocalSource(dir string, log *logger.Logger) *LocalSource {
	return &LocalSource{dir: dir, logger: log}
}

// Name identifies the backend
func (s *LocalSource) Name() string {
	return "local"
}

// Tables scans the directory for strategy CSV files.
// 에디터 락 파일(~ 접두사)과 파생 산출물은 제외
func (s *LocalSource) Tables(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan data dir %s: %w", s.dir, err)
	}

	var tables []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.EqualFold(filepath.Ext(name), ".csv") {
			continue
		}
		if excludedFile(name) {
			continue
		}
		tables = append(tables, strings.TrimSuffix(name, filepath.Ext(name)))
	}

	sort.Strings(tables)
	return tables, nil
}

// Fetch loads and normalizes one strategy CSV
func (s *LocalSource) Fetch(ctx context.Context, table string) (*contracts.TradeTable, error) {
	path := filepath.Join(s.dir, table+".csv")

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
		}
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, report, err := ParseCSV(f, table)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"table":  table,
		"report": report.String(),
	}).Debug("Trade table loaded")

	return t, nil
}

// excludedFile applies the shared exclusion rules
func excludedFile(name string) bool {
	if strings.HasPrefix(name, "~") {
		return true
	}
	for _, part := range excludedNameParts {
		if strings.Contains(name, part) {
			return true
		}
	}
	return false
}
