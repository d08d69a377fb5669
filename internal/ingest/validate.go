package ingest

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Boundary sentinel errors
var (
	ErrNoValidRows   = errors.New("ingest: no valid rows")
	ErrTableNotFound = errors.New("ingest: table not found")
	ErrBadHeader     = errors.New("ingest: unrecognizable header")
)

// RowReport counts what the normalization boundary kept and rejected.
// ⭐ SSOT: 행 검증 결과 집계는 여기서만
//
// The engines never see bad rows; this report is the only trace of them.
type RowReport struct {
	Seen    int            `json:"seen"`
	Kept    int            `json:"kept"`
	Rejects map[string]int `json:"rejects,omitempty"`
}

// Reject counts one skipped row under a reason
func (r *RowReport) Reject(reason string) {
	if r.Rejects == nil {
		r.Rejects = make(map[string]int)
	}
	r.Rejects[reason]++
}

// Rejected returns the total rejected row count
func (r *RowReport) Rejected() int {
	total := 0
	for _, n := range r.Rejects {
		total += n
	}
	return total
}

// String renders the report for debug logging (사유는 사전순으로 고정)
func (r *RowReport) String() string {
	if len(r.Rejects) == 0 {
		return fmt.Sprintf("seen=%d kept=%d", r.Seen, r.Kept)
	}

	reasons := make([]string, 0, len(r.Rejects))
	for reason := range r.Rejects {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)

	var sb strings.Builder
	fmt.Fprintf(&sb, "seen=%d kept=%d rejects=[", r.Seen, r.Kept)
	for i, reason := range reasons {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%d", reason, r.Rejects[reason])
	}
	sb.WriteString("]")
	return sb.String()
}
