package ingest

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/pkg/httputil"
	"github.com/wonny/argus/pkg/logger"
)

// RemoteSource serves trade tables from an HTTP object-store frontend.
//
// Layout: GET {base}/index → 줄바꿈으로 구분된 테이블 이름 목록,
// GET {base}/{table}.csv → 해당 전략의 CSV. 같은 디코딩 경로 재사용.
type RemoteSource struct {
	baseURL string
	client  *httputil.Client
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewRemoteSource creates a rate-limited remote source.
// requestsPerSec은 버킷 프런트엔드에 대한 정중함 한도
func NewRemoteSource(baseURL string, requestsPerSec float64, client *httputil.Client, log *logger.Logger) *RemoteSource {
	if requestsPerSec <= 0 {
		requestsPerSec = 5
	}
	return &RemoteSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSec), 1),
		logger:  log,
	}
}

// Name identifies the backend
func (s *RemoteSource) Name() string {
	return "remote"
}

// Tables fetches the remote index (줄바꿈 구분, 제외 규칙 동일 적용)
func (s *RemoteSource) Tables(ctx context.Context) ([]string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, err := s.client.GetBytes(ctx, s.baseURL+"/index")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch table index: %w", err)
	}

	var tables []string
	for _, line := range strings.Split(string(body), "\n") {
		name := strings.TrimSpace(line)
		if name == "" || excludedFile(name) {
			continue
		}
		tables = append(tables, strings.TrimSuffix(name, ".csv"))
	}

	sort.Strings(tables)
	return tables, nil
}

// Fetch downloads and normalizes one remote table
func (s *RemoteSource) Fetch(ctx context.Context, table string) (*contracts.TradeTable, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	u := s.baseURL + "/" + url.PathEscape(table) + ".csv"
	body, err := s.client.GetBytes(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("%w: %s (%v)", ErrTableNotFound, table, err)
	}

	t, report, err := ParseCSV(bytes.NewReader(body), table)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"table":  table,
		"url":    u,
		"report": report.String(),
	}).Debug("Remote trade table loaded")

	return t, nil
}
