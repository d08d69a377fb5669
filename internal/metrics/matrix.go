package metrics

import (
	"sort"

	"github.com/wonny/argus/internal/contracts"
)

// YearRow is one row of the month×year P/L matrix
type YearRow struct {
	Year   int         `json:"year"`
	Months [12]float64 `json:"months"` // index 0 = January
	Total  float64     `json:"total"`
	ROIPct float64     `json:"roi_pct"` // 해당 연도 시작 자본 대비
}

// Matrix is the month×year seasonality breakdown.
// 표현(색상/차트)은 포함하지 않음 — 순수 산술 결과
type Matrix struct {
	Rows       []YearRow `json:"rows"`
	GrandTotal float64   `json:"grand_total"`
	TotalROI   float64   `json:"total_roi_pct"` // 초기 자본 대비
}

// MonthlyMatrix buckets per-trade P/L into calendar months.
// 연간 ROI는 그해 시작 시점의 (가산) 자본을 기준으로 계산
func (e *Engine) MonthlyMatrix(trades []contracts.Trade, initialCapital float64) *Matrix {
	if len(trades) == 0 || initialCapital <= 0 {
		return &Matrix{}
	}

	byYear := make(map[int]*YearRow)
	for _, t := range trades {
		y := t.ExitTime.Year()
		row, ok := byYear[y]
		if !ok {
			row = &YearRow{Year: y}
			byYear[y] = row
		}
		m := int(t.ExitTime.Month()) - 1
		row.Months[m] += t.ProfitLoss
		row.Total += t.ProfitLoss
	}

	years := make([]int, 0, len(byYear))
	for y := range byYear {
		years = append(years, y)
	}
	sort.Ints(years)

	matrix := &Matrix{Rows: make([]YearRow, 0, len(years))}
	equity := initialCapital
	for _, y := range years {
		row := byYear[y]
		if equity > 0 {
			row.ROIPct = row.Total / equity * 100
		}
		equity += row.Total
		matrix.GrandTotal += row.Total
		matrix.Rows = append(matrix.Rows, *row)
	}
	matrix.TotalROI = matrix.GrandTotal / initialCapital * 100

	return matrix
}
