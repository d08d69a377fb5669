package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/logger"
)

// HTMLSource serves trade tables from broker-statement HTML exports.
// 일부 브로커는 거래 내역을 HTML 표로만 내보냄 — CSV와 동일한 스키마로 정규화
type HTMLSource struct {
	dir    string
	logger *logger.Logger
}

// NewHTMLSource creates an HTML statement source
func NewHTMLSource(dir string, log *logger.Logger) *HTMLSource {
	return &HTMLSource{dir: dir, logger: log}
}

// Name identifies the backend
func (s *HTMLSource) Name() string {
	return "html"
}

// Tables scans the directory for statement HTML files (CSV와 같은 제외 규칙)
func (s *HTMLSource) Tables(ctx context.Context) ([]string, error) {
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
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".html" && ext != ".htm" {
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

// Fetch parses one statement file
func (s *HTMLSource) Fetch(ctx context.Context, table string) (*contracts.TradeTable, error) {
	var path string
	for _, ext := range []string{".html", ".htm"} {
		candidate := filepath.Join(s.dir, table+ext)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
			break
		}
	}
	if path == "" {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, table)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	t, report, err := ParseHTMLStatement(f, table)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"table":  table,
		"report": report.String(),
	}).Debug("HTML statement loaded")

	return t, nil
}

// ParseHTMLStatement extracts trades from the first table whose header
// row carries recognizable columns, using the same alias mapping and
// row validation as the CSV path.
func ParseHTMLStatement(r io.Reader, strategy string) (*contracts.TradeTable, *RowReport, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	var header []string
	var rows [][]string

	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		h, data := extractTable(table)
		if !usableHeader(h) {
			return true // 다음 테이블 시도
		}
		header = h
		rows = data
		return false
	})

	if header == nil {
		return nil, nil, fmt.Errorf("%w: no table with recognizable trade columns", ErrBadHeader)
	}

	// CSV 경로와 동일한 디코딩을 재사용
	var sb strings.Builder
	writeCSVLine(&sb, header)
	for _, row := range rows {
		writeCSVLine(&sb, row)
	}
	return ParseCSV(strings.NewReader(sb.String()), strategy)
}

// extractTable pulls the header (th, 또는 첫 tr의 td) and data rows
func extractTable(table *goquery.Selection) ([]string, [][]string) {
	var header []string
	var rows [][]string

	table.Find("tr").Each(func(i int, row *goquery.Selection) {
		ths := row.Find("th")
		if header == nil && ths.Length() > 0 {
			ths.Each(func(_ int, cell *goquery.Selection) {
				header = append(header, strings.TrimSpace(cell.Text()))
			})
			return
		}

		cells := row.Find("td")
		if cells.Length() == 0 {
			return
		}

		var record []string
		cells.Each(func(_ int, cell *goquery.Selection) {
			record = append(record, strings.TrimSpace(cell.Text()))
		})

		// th가 없는 테이블은 첫 td 행을 헤더로 사용
		if header == nil {
			header = record
			return
		}
		rows = append(rows, record)
	})

	return header, rows
}

// usableHeader checks for exit_time plus a P/L (or price) column
func usableHeader(header []string) bool {
	var hasTime, hasPL, hasPrices bool
	for _, h := range header {
		switch headerAliases[normalizeHeader(h)] {
		case "exit_time":
			hasTime = true
		case "profit_loss":
			hasPL = true
		case "entry_price":
			hasPrices = true
		}
	}
	return hasTime && (hasPL || hasPrices)
}

// writeCSVLine quotes each cell so embedded commas survive
func writeCSVLine(sb *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(`"` + strings.ReplaceAll(c, `"`, `""`) + `"`)
	}
	sb.WriteString("\n")
}
