// Package stats 提供对已生成排班表的统计分析能力：逐日/逐班次/逐
// 城市的覆盖率报告，以及逐员工的公平性指标。
package stats

import (
	"fmt"

	"github.com/rosterops/roster/pkg/model"
)

// DayCoverage 单日覆盖情况
type DayCoverage struct {
	Date           string `json:"date"`
	MorningCovered bool   `json:"morning_covered"`
	EveningCovered bool   `json:"evening_covered"`
	NightCovered   bool   `json:"night_covered"`
	FullyCovered   bool   `json:"fully_covered"`
}

// UncoveredDay 标识某天缺失的强制班次
type UncoveredDay struct {
	Date    string            `json:"date"`
	Missing []model.ShiftType `json:"missing"`
}

// CoverageStatistics 整月覆盖率统计
type CoverageStatistics struct {
	TotalDays         int                        `json:"total_days"`
	FullyCoveredDays  int                        `json:"fully_covered_days"`
	OverallCoverage   float64                    `json:"overall_coverage"` // 百分比
	DailyCoverage     map[string]DayCoverage     `json:"daily_coverage"`
	ShiftTypeCoverage map[model.ShiftType]float64 `json:"shift_type_coverage"`
	CityCoverage      map[model.City]float64     `json:"city_coverage"`
	UncoveredDays     []UncoveredDay             `json:"uncovered_days"`
}

// CoverageAnalyzer 覆盖率分析器：对一份已生成的 Schedule 做逐日统计
type CoverageAnalyzer struct{}

// NewCoverageAnalyzer 创建覆盖率分析器
func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{}
}

// Analyze 分析排班表的覆盖率：莫斯科早/晚班与哈巴罗夫斯克夜班各自
// 的达成情况，以及全月每天三者是否同时齐备。
func (c *CoverageAnalyzer) Analyze(schedule *model.Schedule) *CoverageStatistics {
	stats := &CoverageStatistics{
		TotalDays:         len(schedule.Days),
		DailyCoverage:     make(map[string]DayCoverage, len(schedule.Days)),
		ShiftTypeCoverage: make(map[model.ShiftType]float64),
		CityCoverage:      make(map[model.City]float64),
	}
	if len(schedule.Days) == 0 {
		stats.OverallCoverage = 100
		return stats
	}

	morningOK, eveningOK, nightOK := 0, 0, 0

	for _, day := range schedule.Days {
		dc := DayCoverage{
			Date:           day.Date,
			MorningCovered: len(day.Morning) == 1,
			EveningCovered: len(day.Evening) == 1,
			NightCovered:   len(day.Night) == 1,
		}
		dc.FullyCovered = dc.MorningCovered && dc.EveningCovered && dc.NightCovered

		if dc.MorningCovered {
			morningOK++
		}
		if dc.EveningCovered {
			eveningOK++
		}
		if dc.NightCovered {
			nightOK++
		}
		if dc.FullyCovered {
			stats.FullyCoveredDays++
		} else {
			var missing []model.ShiftType
			if !dc.MorningCovered {
				missing = append(missing, model.ShiftMorning)
			}
			if !dc.EveningCovered {
				missing = append(missing, model.ShiftEvening)
			}
			if !dc.NightCovered {
				missing = append(missing, model.ShiftNight)
			}
			stats.UncoveredDays = append(stats.UncoveredDays, UncoveredDay{Date: day.Date, Missing: missing})
		}

		stats.DailyCoverage[day.Date] = dc
	}

	total := float64(len(schedule.Days))
	stats.OverallCoverage = float64(stats.FullyCoveredDays) / total * 100
	stats.ShiftTypeCoverage[model.ShiftMorning] = float64(morningOK) / total * 100
	stats.ShiftTypeCoverage[model.ShiftEvening] = float64(eveningOK) / total * 100
	stats.ShiftTypeCoverage[model.ShiftNight] = float64(nightOK) / total * 100
	stats.CityCoverage[model.CityMoscow] = average(stats.ShiftTypeCoverage[model.ShiftMorning], stats.ShiftTypeCoverage[model.ShiftEvening])
	stats.CityCoverage[model.CityKhabarovsk] = stats.ShiftTypeCoverage[model.ShiftNight]

	return stats
}

func average(a, b float64) float64 {
	return (a + b) / 2
}

// GenerateCoverageReport 生成人类可读的覆盖率报告文本
func (c *CoverageAnalyzer) GenerateCoverageReport(stats *CoverageStatistics) string {
	report := "=== 覆盖率分析报告 ===\n\n"

	report += "【整体覆盖情况】\n"
	report += fmt.Sprintf("  总天数: %d\n", stats.TotalDays)
	report += fmt.Sprintf("  完全覆盖天数: %d\n", stats.FullyCoveredDays)
	report += fmt.Sprintf("  整体覆盖率: %.1f%%\n\n", stats.OverallCoverage)

	report += "【按班次覆盖率】\n"
	report += fmt.Sprintf("  早班 (MORNING): %.1f%%\n", stats.ShiftTypeCoverage[model.ShiftMorning])
	report += fmt.Sprintf("  晚班 (EVENING): %.1f%%\n", stats.ShiftTypeCoverage[model.ShiftEvening])
	report += fmt.Sprintf("  夜班 (NIGHT): %.1f%%\n\n", stats.ShiftTypeCoverage[model.ShiftNight])

	if len(stats.UncoveredDays) > 0 {
		report += "【未覆盖天数】\n"
		for _, d := range stats.UncoveredDays {
			report += fmt.Sprintf("  - %s 缺: %v\n", d.Date, d.Missing)
		}
	}

	return report
}
