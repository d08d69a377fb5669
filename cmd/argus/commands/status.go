package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "환경/연결 상태 확인",
	Long: `환경 설정과 외부 연결 상태를 요약해 표시합니다.

표시 정보:
- 환경/데이터 소스 설정
- PostgreSQL 연결 및 풀 상태
- Redis 캐시 활성화 여부
- 발견 가능한 전략 테이블 수

Example:
  go run ./cmd/argus status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("=== Argus Status ===")
	fmt.Println()

	d, err := initDeps(false)
	if err != nil {
		return err
	}
	defer d.Close()

	// Environment
	fmt.Println("🌍 Environment")
	PrintSeparator()
	PrintKeyValue("Env", d.cfg.Env, 12)
	PrintKeyValue("Port", d.cfg.Port, 12)
	PrintKeyValue("Data mode", d.cfg.Data.Mode, 12)
	if d.cfg.Data.Mode == "remote" {
		PrintKeyValue("Base URL", d.cfg.Data.BaseURL, 12)
	} else {
		PrintKeyValue("Data dir", d.cfg.Data.Dir, 12)
	}
	PrintKeyValue("Report dir", d.cfg.ReportDir, 12)
	PrintKeyValue("Retention", fmt.Sprintf("%d days", d.cfg.RetentionDays), 12)
	PrintKeyValue("Profile", d.profile.Name, 12)
	fmt.Println()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Database
	fmt.Println("🗄️  PostgreSQL")
	PrintSeparator()
	if d.db == nil {
		PrintWarning("Not connected (persistence disabled)")
	} else {
		health, err := d.db.HealthCheck(ctx)
		if err != nil {
			PrintError(fmt.Sprintf("Unhealthy: %v", err))
		} else {
			PrintKeyValue("Status", "healthy", 12)
			PrintKeyValue("Ping", health.ResponseTime.String(), 12)
			PrintKeyValue("Conns", fmt.Sprintf("%d/%d (idle %d)",
				health.Stats.TotalConns, health.Stats.MaxConns, health.Stats.IdleConns), 12)
		}
	}
	fmt.Println()

	// Cache
	fmt.Println("⚡ Redis")
	PrintSeparator()
	if d.cache == nil {
		PrintWarning("Disabled (cache-first analysis off)")
	} else if err := d.redis.Ping(ctx); err != nil {
		PrintError(fmt.Sprintf("Unhealthy: %v", err))
	} else {
		PrintKeyValue("Status", "healthy", 12)
		PrintKeyValue("Host", d.cfg.Redis.Host+":"+d.cfg.Redis.Port, 12)
		PrintKeyValue("TTL", d.cfg.Redis.CacheTTL.String(), 12)
	}
	fmt.Println()

	// Data source
	fmt.Println("📂 Trade Tables")
	PrintSeparator()
	tables, err := d.analyzer.Tables(ctx)
	if err != nil {
		PrintError(fmt.Sprintf("Discovery failed: %v", err))
	} else {
		PrintKeyValue("Discovered", fmt.Sprintf("%d", len(tables)), 12)
		for _, t := range tables {
			fmt.Printf("   • %s\n", t)
		}
	}
	fmt.Println()

	return nil
}
