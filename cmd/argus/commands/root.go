package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	profilePath string
	outputMode  string
	verbose     bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "argus",
	Short: "Argus - 트레이딩 전략 성과 분석 엔진",
	Long: `Argus Unified CLI

트레이드 테이블(CSV/HTML)을 읽어 성과 지표를 계산하고,
몬테카를로 부트스트랩으로 미래 자본 곡선을 시뮬레이션합니다.

Usage:
  go run ./cmd/argus [command]

Examples:
  go run ./cmd/argus analyze my_strategy
  go run ./cmd/argus simulate my_strategy --paths 2000 --seed 42
  go run ./cmd/argus leaderboard
  go run ./cmd/argus api`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "분석 프로파일 YAML 경로 (기본: 내장 프로파일)")
	rootCmd.PersistentFlags().StringVarP(&outputMode, "output", "o", "text", "출력 형식 (text|json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
