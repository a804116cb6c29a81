package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/export"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/stats"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "将已生成的排班结果导出为 iCalendar 或电子表格文件",
	}
	cmd.AddCommand(newExportICalCmd())
	cmd.AddCommand(newExportSpreadsheetCmd())
	return cmd
}

func loadSchedule(path string) (*model.Schedule, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取排班结果文件失败: %w", err)
	}
	schedule := &model.Schedule{}
	if err := json.Unmarshal(raw, schedule); err != nil {
		return nil, fmt.Errorf("解析排班结果文件失败: %w", err)
	}
	return schedule, nil
}

func newExportICalCmd() *cobra.Command {
	var schedulePath, employee, outDir string

	cmd := &cobra.Command{
		Use:   "ical",
		Short: "导出员工的 iCalendar (.ics) 值班日历",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("创建输出目录失败: %w", err)
			}

			if employee != "" {
				data, err := export.ICalendarName(schedule, employee)
				if err != nil {
					return fmt.Errorf("生成日历失败: %w", err)
				}
				path := filepath.Join(outDir, employee+".ics")
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("写入日历文件失败: %w", err)
				}
				fmt.Fprintf(os.Stderr, "已写入 %s\n", path)
				return nil
			}

			files, err := export.ICalendarAll(schedule)
			if err != nil {
				return fmt.Errorf("生成日历失败: %w", err)
			}
			for name, data := range files {
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("写入日历文件失败: %w", err)
				}
				fmt.Fprintf(os.Stderr, "已写入 %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "排班结果文件路径（generate 子命令的输出，必填）")
	cmd.Flags().StringVar(&employee, "employee", "", "只导出该员工的日历（省略则导出全员）")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "输出目录")
	cmd.MarkFlagRequired("schedule")

	return cmd
}

func newExportSpreadsheetCmd() *cobra.Command {
	var schedulePath, outDir string

	cmd := &cobra.Command{
		Use:   "spreadsheet",
		Short: "导出排班网格、公平性统计与班次图例三张CSV表",
		RunE: func(cmd *cobra.Command, args []string) error {
			schedule, err := loadSchedule(schedulePath)
			if err != nil {
				return err
			}

			cal := calendar.New(schedule.Config.Year, schedule.Config.Month, schedule.Holidays)
			fairness := stats.NewFairnessAnalyzer().Analyze(schedule, cal)

			sheet, err := export.BuildSpreadsheet(schedule, fairness)
			if err != nil {
				return fmt.Errorf("生成电子表格失败: %w", err)
			}

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("创建输出目录失败: %w", err)
			}

			files := map[string][]byte{
				"schedule_grid.csv": sheet.ScheduleGrid,
				"statistics.csv":    sheet.Statistics,
				"legend.csv":        sheet.Legend,
			}
			for name, data := range files {
				path := filepath.Join(outDir, name)
				if err := os.WriteFile(path, data, 0644); err != nil {
					return fmt.Errorf("写入 %s 失败: %w", name, err)
				}
				fmt.Fprintf(os.Stderr, "已写入 %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&schedulePath, "schedule", "s", "", "排班结果文件路径（generate 子命令的输出，必填）")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "输出目录")
	cmd.MarkFlagRequired("schedule")

	return cmd
}
