package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/errors"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/scheduler"
	"github.com/rosterops/roster/pkg/stats"
)

// generateInput 是 generate 子命令读取的输入文件格式：一份完整配置
// 加上该月的节假日集合。
type generateInput struct {
	Config   model.Config `json:"config"`
	Holidays []string     `json:"holidays,omitempty"`
}

func newGenerateCmd() *cobra.Command {
	var configPath, outPath string
	var report bool
	var maxBacktracks int
	var holidaySourceURL, manualHolidays string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "根据员工名单与节假日生成一个月度排班表",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(configPath)
			if err != nil {
				return fmt.Errorf("读取配置文件失败: %w", err)
			}

			var input generateInput
			if err := json.Unmarshal(raw, &input); err != nil {
				return fmt.Errorf("解析配置文件失败: %w", err)
			}

			holidays, err := resolveHolidays(cmd.Context(), input, holidaySourceURL, manualHolidays)
			if err != nil {
				return fmt.Errorf("获取节假日失败: %w", err)
			}

			scheduler.SetMaxBacktrackAttempts(maxBacktracks)

			schedule, err := scheduler.GenerateSchedule(input.Config, holidays)
			if err != nil {
				return fmt.Errorf("[%s] %w", errors.GetCode(err), err)
			}

			out, err := json.MarshalIndent(schedule, "", "  ")
			if err != nil {
				return fmt.Errorf("序列化排班结果失败: %w", err)
			}

			if outPath == "" {
				fmt.Println(string(out))
			} else {
				if err := os.WriteFile(outPath, out, 0644); err != nil {
					return fmt.Errorf("写入排班结果失败: %w", err)
				}
				fmt.Fprintf(os.Stderr, "排班结果已写入 %s\n", outPath)
			}

			if report {
				cal := calendar.New(input.Config.Year, input.Config.Month, holidays)
				fairness := stats.NewFairnessAnalyzer().Analyze(schedule, cal)
				coverage := stats.NewCoverageAnalyzer().Analyze(schedule)
				fmt.Fprintln(os.Stderr)
				fmt.Fprintln(os.Stderr, stats.NewFairnessAnalyzer().GenerateFairnessReport(fairness))
				fmt.Fprintln(os.Stderr, stats.NewCoverageAnalyzer().GenerateCoverageReport(coverage))
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "输入配置文件路径（JSON，必填）")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "输出排班结果文件路径（默认输出到标准输出）")
	cmd.Flags().BoolVar(&report, "report", false, "同时在标准错误输出打印公平性与覆盖率报告")
	cmd.Flags().IntVar(&maxBacktracks, "max-backtracks", 10, "判定排班不可行前允许的最大回溯次数")
	cmd.Flags().StringVar(&holidaySourceURL, "holiday-source-url", "", "从该地址的 /holidays 接口远程获取节假日，优先于其余来源")
	cmd.Flags().StringVar(&manualHolidays, "holidays", "", "逗号分隔的节假日列表（YYYY-MM-DD,...），次优先于远程来源")
	cmd.MarkFlagRequired("config")

	return cmd
}

// resolveHolidays 按优先级解析本次生成要用的节假日集合：命令行指定的
// 远程节假日源 > 命令行手动列表 > 配置文件里内联的 holidays 字段。
// 三者都对应 calendar.Source 的不同实现，调用方可以自由替换数据来源，
// 核心生成器对此一无所知，只消费解析出的日期集合。
func resolveHolidays(ctx context.Context, input generateInput, sourceURL, manual string) ([]string, error) {
	if sourceURL != "" {
		src := calendar.NewHTTPSource(sourceURL, nil)
		return src.Holidays(ctx, input.Config.Year, input.Config.Month)
	}
	if manual != "" {
		src := calendar.NewManualSource(manual)
		return src.Holidays(ctx, input.Config.Year, input.Config.Month)
	}
	return input.Holidays, nil
}
