package contracts

import (
	"context"
)

// Source provides normalized trade tables from a storage backend
// ⭐ SSOT: 데이터 소스 인터페이스는 여기서만 정의
//
// Implementations: local CSV folder, remote HTTP index, HTML statements.
// The engines depend only on this seam, never on a concrete backend.
type Source interface {
	// Name identifies the backend ("local", "remote", "html")
	Name() string

	// Tables lists the available strategy table names
	Tables(ctx context.Context) ([]string, error)

	// Fetch loads one normalized trade table, sorted by exit time.
	// 유효한 행이 하나도 없으면 에러
	Fetch(ctx context.Context, table string) (*TradeTable, error)
}
