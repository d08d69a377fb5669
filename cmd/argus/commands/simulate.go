package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/argus/internal/simulation"
)

// simulateCmd represents the simulate command
var simulateCmd = &cobra.Command{
	Use:   "simulate [table]",
	Short: "몬테카를로 부트스트랩 시뮬레이션",
	Long: `과거 트레이드 수익률을 복원 추출하여 미래 자본 경로를 시뮬레이션합니다.

출력:
- 터미널 자본 분포 (평균/중앙값/표준편차/최소/최대)
- 파산 확률 (초기 자본 미만으로 종료)
- 목표 도달 확률 (목표 배수 이상으로 종료)
- 시점별 퍼센타일 밴드

같은 --seed는 항상 같은 결과를 재현합니다 (0 = 시간 기반).

Example:
  go run ./cmd/argus simulate my_strategy
  go run ./cmd/argus simulate my_strategy --paths 5000 --length 100 --seed 42
  go run ./cmd/argus simulate my_strategy --target 3.0 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

var (
	simPaths       int
	simLength      int
	simSeed        int64
	simTarget      float64
	simPercentiles []float64
	simSave        bool
)

func init() {
	rootCmd.AddCommand(simulateCmd)

	simulateCmd.Flags().IntVar(&simPaths, "paths", 0, "시뮬레이션 경로 수 (기본: 프로파일 값)")
	simulateCmd.Flags().IntVar(&simLength, "length", 0, "경로당 트레이드 수 (기본: 프로파일 값)")
	simulateCmd.Flags().Int64Var(&simSeed, "seed", 0, "난수 시드 (0 = 시간 기반)")
	simulateCmd.Flags().Float64Var(&simTarget, "target", 0, "목표 배수 (기본: 프로파일 값)")
	simulateCmd.Flags().Float64SliceVar(&simPercentiles, "percentiles", nil, "퍼센타일 밴드 (기본: 5,50,95)")
	simulateCmd.Flags().BoolVar(&simSave, "save", false, "DB 저장 보장 (연결 실패 시 에러)")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	table := args[0]

	d, err := initDeps(simSave)
	if err != nil {
		return err
	}
	defer d.Close()

	cfg := d.profile.SimulationConfig()
	if simPaths > 0 {
		cfg.Paths = simPaths
	}
	if simLength > 0 {
		cfg.Length = simLength
	}
	if simSeed != 0 {
		cfg.Seed = simSeed
	}
	if simTarget > 0 {
		cfg.TargetMultiple = simTarget
	}
	if len(simPercentiles) > 0 {
		cfg.Percentiles = simPercentiles
	}

	// 텍스트 모드에서만 진행률 표시
	var progress func(completed, total int)
	if outputMode != "json" {
		progress = func(completed, total int) {
			if completed%(total/10+1) == 0 || completed == total {
				fmt.Printf("\r  Simulating... %d/%d paths", completed, total)
			}
		}
	}

	result, err := d.analyzer.SimulateTable(context.Background(), table, d.profile, cfg, progress)
	if err != nil {
		fmt.Println()
		PrintError(fmt.Sprintf("Simulation failed: %v", err))
		return err
	}

	if outputMode == "json" {
		return printJSON(result)
	}

	fmt.Println()
	printSimulation(result)
	return nil
}

func printSimulation(r *simulation.Result) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  🎲 Monte Carlo: %s\n", r.RunID)
	PrintSeparator()

	PrintKeyValue("Paths", fmt.Sprintf("%d × %d trades", r.Config.Paths, r.Config.Length), 18)
	PrintKeyValue("Mode", string(r.Config.Mode), 18)
	PrintKeyValue("Initial Capital", fmt.Sprintf("%.2f", r.Config.InitialCapital), 18)
	PrintKeyValue("Seed", fmt.Sprintf("%d", r.Config.Seed), 18)

	PrintSeparator()
	PrintKeyValue("Mean Terminal", fmt.Sprintf("%.2f", r.MeanTerminal), 18)
	PrintKeyValue("Median Terminal", fmt.Sprintf("%.2f", r.MedianTerminal), 18)
	PrintKeyValue("Std Dev", fmt.Sprintf("%.2f", r.StdDevTerminal), 18)
	PrintKeyValue("Min / Max", fmt.Sprintf("%.2f / %.2f", r.MinTerminal, r.MaxTerminal), 18)

	PrintSeparator()
	PrintKeyValue("P(ruin)", fmt.Sprintf("%.2f%%", r.RuinProbability*100), 18)
	PrintKeyValue("P(target ×"+fmt.Sprintf("%.1f", r.Config.TargetMultiple)+")",
		fmt.Sprintf("%.2f%%", r.TargetProbability*100), 18)

	// 밴드 종료값 요약
	PrintSeparator()
	for _, band := range r.Bands {
		last := band.Values[len(band.Values)-1]
		PrintKeyValue(fmt.Sprintf("P%.0f terminal", band.Percentile), fmt.Sprintf("%.2f", last), 18)
	}

	PrintDoubleSeparator()
	fmt.Println()
}
