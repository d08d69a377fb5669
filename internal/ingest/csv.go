package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/argus/internal/contracts"
)

// 헤더 별칭 → 표준 컬럼. 키는 normalizeHeader() 결과
// ⭐ SSOT: 컬럼 이름 정규화는 여기서만 — 엔진은 컬럼 존재를 재검증하지 않음
var headerAliases = map[string]string{
	// exit_time
	"exittime":  "exit_time",
	"closetime": "exit_time",
	"datetime":  "exit_time",
	"date":      "exit_time",
	"time":      "exit_time",

	// symbol
	"symbol":     "symbol",
	"ticker":     "symbol",
	"instrument": "symbol",

	// entry_price
	"entryprice": "entry_price",
	"openprice":  "entry_price",
	"entry":      "entry_price",

	// exit_price
	"exitprice":  "exit_price",
	"closeprice": "exit_price",
	"exit":       "exit_price",

	// size
	"size":      "size",
	"qty":       "size",
	"quantity":  "size",
	"contracts": "size",

	// profit_loss
	"profitloss": "profit_loss",
	"netpl":      "profit_loss",
	"netpnl":     "profit_loss",
	"netprofit":  "profit_loss",
	"pl":         "profit_loss",
	"pnl":        "profit_loss",
	"profit":     "profit_loss",

	// run_up (최대 유리 변동폭)
	"runup":              "run_up",
	"mfe":                "run_up",
	"maxrunup":           "run_up",
	"maxfavorable":       "run_up",
	"maxprofit":          "run_up",
	"highestprofit":      "run_up",
	"maxfavorableexcursion": "run_up",
}

// 지원하는 exit_time 포맷 (순서대로 시도)
var timeFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"2006.01.02",
}

// normalizeHeader lowers a header and strips separators so
// "Exit Time", "exit_time", "EXIT-TIME" all collapse to "exittime".
func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.NewReplacer(" ", "", "_", "", "-", "", "/", "", "&", "", "%", "", ".", "").Replace(h)
	return h
}

// ParseCSV decodes one strategy CSV into a normalized trade table.
//
// Required columns: exit_time plus either profit_loss or the
// (entry_price, exit_price, size) triple to derive it. Rows that fail
// validation are counted and skipped; zero valid rows is an error.
// 결과는 exit_time 오름차순 정렬.
func ParseCSV(r io.Reader, strategy string) (*contracts.TradeTable, *RowReport, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	// 컬럼 인덱스 매핑
	cols := make(map[string]int)
	for i, h := range header {
		if std, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, taken := cols[std]; !taken {
				cols[std] = i
			}
		}
	}

	timeIdx, hasTime := cols["exit_time"]
	_, hasPL := cols["profit_loss"]
	_, hasPrices := cols["entry_price"]
	if !hasTime || (!hasPL && !hasPrices) {
		return nil, nil, fmt.Errorf("%w: need exit_time and profit_loss (or price columns), got %v", ErrBadHeader, header)
	}

	report := &RowReport{}
	table := &contracts.TradeTable{Strategy: strategy}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			report.Seen++
			report.Reject("malformed_row")
			continue
		}
		report.Seen++

		trade, reason := parseRow(record, cols, timeIdx)
		if reason != "" {
			report.Reject(reason)
			continue
		}

		report.Kept++
		table.Trades = append(table.Trades, trade)
	}

	if table.Len() == 0 {
		return nil, report, fmt.Errorf("%w: %s (%s)", ErrNoValidRows, strategy, report)
	}

	table.SortByExitTime()
	return table, report, nil
}

// parseRow converts one CSV record; the reason names what rejected it
func parseRow(record []string, cols map[string]int, timeIdx int) (contracts.Trade, string) {
	var trade contracts.Trade

	field := func(name string) (string, bool) {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return "", false
		}
		return strings.TrimSpace(record[idx]), true
	}

	// exit_time (필수)
	raw, _ := field("exit_time")
	exitTime, ok := parseTime(raw)
	if !ok {
		return trade, "unparseable_exit_time"
	}
	trade.ExitTime = exitTime

	if s, ok := field("symbol"); ok {
		trade.Symbol = s
	}

	parseFloat := func(name string) (float64, bool) {
		s, ok := field(name)
		if !ok || s == "" {
			return 0, false
		}
		s = strings.ReplaceAll(s, ",", "")
		s = strings.TrimPrefix(s, "$")
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	}

	entry, hasEntry := parseFloat("entry_price")
	exit, hasExit := parseFloat("exit_price")
	size, hasSize := parseFloat("size")
	pl, hasPL := parseFloat("profit_loss")

	if hasEntry {
		if entry <= 0 {
			return trade, "non_positive_price"
		}
		trade.EntryPrice = entry
	}
	if hasExit {
		if exit <= 0 {
			return trade, "non_positive_price"
		}
		trade.ExitPrice = exit
	}
	if hasSize {
		trade.Size = size
	}

	// profit_loss 없으면 가격×수량으로 유도
	switch {
	case hasPL:
		trade.ProfitLoss = pl
	case hasEntry && hasExit && hasSize:
		trade.ProfitLoss = (exit - entry) * size
	default:
		return trade, "missing_profit_loss"
	}

	if v, ok := parseFloat("run_up"); ok {
		trade.RunUp = v
	}

	// 가격 컬럼이 아예 없는 소스도 유효 — IsValid는 존재하는 값만 검사
	if trade.EntryPrice == 0 {
		trade.EntryPrice = 1
	}
	if trade.ExitPrice == 0 {
		trade.ExitPrice = 1
	}

	if !trade.IsValid() {
		return trade, "invalid_row"
	}
	return trade, ""
}

// parseTime tries the supported formats in order
func parseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
