package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "트레이드 테이블 일괄 적재",
	Long: `데이터 소스의 모든 트레이드 테이블을 발견해 PostgreSQL에 적재합니다.

이 명령어는:
- 소스(local/html/remote)의 테이블 목록 조회
- 각 테이블 파싱 + 검증 (무효 행은 사유별 집계)
- strategies / trades 테이블 upsert

Example:
  go run ./cmd/argus ingest
  DATA_MODE=remote DATA_BASE_URL=https://example.com/tables go run ./cmd/argus ingest`,
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Argus Ingest ===")

	d, err := initDeps(true)
	if err != nil {
		return err
	}
	defer d.Close()

	saved, err := d.analyzer.IngestAll(context.Background())
	if err != nil {
		PrintError(fmt.Sprintf("Ingest failed: %v", err))
		return err
	}

	PrintSuccess(fmt.Sprintf("Ingested %d tables", saved))
	return nil
}
