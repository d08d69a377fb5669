package metrics

import (
	"encoding/json"
	"math"
)

// Status marks how a scalar metric resolved
// ⭐ SSOT: 지표 상태값 정의는 여기서만
type Status string

const (
	// StatusOK means the metric computed to a finite value
	StatusOK Status = "ok"

	// StatusUndefined means the metric has no meaningful value
	// (분산 0, 관측치 부족 등 — 에러가 아닌 정상 결과)
	StatusUndefined Status = "undefined"

	// StatusUnbounded means the denominator vanished on the favorable side
	// (손실 거래 없음 → profit factor 무한대)
	StatusUnbounded Status = "unbounded"
)

// Metric is a scalar result with an explicit sentinel status.
// 호출자는 "무한대/미정의"와 "계산 실패"를 항상 구분할 수 있음
type Metric struct {
	Value  float64
	Status Status
}

// Defined wraps a finite value; non-finite input collapses to undefined.
// NaN/Inf가 요약 전체로 퍼지는 것을 지표 단위에서 차단
func Defined(v float64) Metric {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Undefined()
	}
	return Metric{Value: v, Status: StatusOK}
}

// Undefined returns the "no meaningful value" sentinel
func Undefined() Metric {
	return Metric{Status: StatusUndefined}
}

// Unbounded returns the "infinite on the favorable side" sentinel
func Unbounded() Metric {
	return Metric{Status: StatusUnbounded}
}

// IsDefined reports whether the metric carries a usable value
func (m Metric) IsDefined() bool {
	return m.Status == StatusOK
}

// Ratio divides num by denom with the full sentinel guard set.
// 분모 0 → undefined, 비유한 입력 → undefined
func Ratio(num, denom float64) Metric {
	if math.IsNaN(num) || math.IsInf(num, 0) || math.IsNaN(denom) || math.IsInf(denom, 0) {
		return Undefined()
	}
	if denom == 0 {
		return Undefined()
	}
	return Defined(num / denom)
}

type metricJSON struct {
	Value  *float64 `json:"value"`
	Status Status   `json:"status"`
}

// MarshalJSON serializes undefined/unbounded metrics with a null value
// so dashboards can render "N/A" instead of zero.
func (m Metric) MarshalJSON() ([]byte, error) {
	out := metricJSON{Status: m.Status}
	if m.Status == StatusOK {
		v := m.Value
		out.Value = &v
	}
	if out.Status == "" {
		out.Status = StatusUndefined
	}
	return json.Marshal(out)
}

// UnmarshalJSON restores a metric from its wire form (캐시 왕복용)
func (m *Metric) UnmarshalJSON(data []byte) error {
	var in metricJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	m.Status = in.Status
	if in.Status == StatusOK && in.Value != nil {
		m.Value = *in.Value
	} else {
		m.Value = 0
	}
	return nil
}
