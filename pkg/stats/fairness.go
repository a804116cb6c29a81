package stats

import (
	"fmt"
	"math"
	"sort"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
)

// EmployeeStatistics 单个员工的月度统计，17 个指标，供导出器的统计
// 表使用。
type EmployeeStatistics struct {
	Name         string           `json:"name"`
	City         model.City       `json:"city"`
	ScheduleType model.ScheduleType `json:"schedule_type"`

	TotalWorking     int `json:"total_working"`
	EffectiveTarget  int `json:"effective_target"`
	Deviation        int `json:"deviation"` // total_working - effective_target

	CountMorning  int `json:"count_morning"`
	CountEvening  int `json:"count_evening"`
	CountNight    int `json:"count_night"`
	CountWorkday  int `json:"count_workday"`
	CountDayOff   int `json:"count_day_off"`
	CountVacation int `json:"count_vacation"`

	WeekendHolidayWorked int `json:"weekend_holiday_worked"`
	IsolatedOffDays      int `json:"isolated_off_days"`
	LongestWorkStreak    int `json:"longest_work_streak"`
	LongestOffStreak     int `json:"longest_off_streak"`

	FairnessScore float64 `json:"fairness_score"` // 0-100，偏差越小越高
}

// FairnessStatistics 整月的公平性统计：逐员工指标加上跨员工的聚合
// 离散度度量。
type FairnessStatistics struct {
	Employees []EmployeeStatistics `json:"employees"`

	WorkloadGini     float64 `json:"workload_gini"`
	WorkloadVariance float64 `json:"workload_variance"`
	WorkloadStdDev   float64 `json:"workload_std_dev"`
	AvgTotalWorking  float64 `json:"avg_total_working"`
	MaxTotalWorking  int     `json:"max_total_working"`
	MinTotalWorking  int     `json:"min_total_working"`

	OverallFairnessScore float64 `json:"overall_fairness_score"`
}

// FairnessAnalyzer 公平性分析器：对一份已生成的 Schedule 逐员工统计
// 班次分布、孤立休息日、连续工作/休息串长度，并用基尼系数/方差衡量
// 跨员工的工作量离散程度。
type FairnessAnalyzer struct{}

// NewFairnessAnalyzer 创建公平性分析器
func NewFairnessAnalyzer() *FairnessAnalyzer {
	return &FairnessAnalyzer{}
}

// Analyze 分析排班表的公平性
func (f *FairnessAnalyzer) Analyze(schedule *model.Schedule, cal *calendar.ProductionCalendar) *FairnessStatistics {
	if len(schedule.Config.Employees) == 0 {
		return &FairnessStatistics{OverallFairnessScore: 100}
	}

	stats := make([]EmployeeStatistics, 0, len(schedule.Config.Employees))
	for _, e := range schedule.Config.Employees {
		stats = append(stats, f.employeeStatistics(schedule, cal, e))
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Name < stats[j].Name })

	totals := make([]float64, len(stats))
	for i, s := range stats {
		totals[i] = float64(s.TotalWorking)
	}

	avg := mean(totals)
	variance := varianceOf(totals, avg)
	stdDev := math.Sqrt(variance)
	maxTotal, minTotal := rangeOf(totals)
	gini := giniCoefficient(totals)

	for i := range stats {
		stats[i].FairnessScore = fairnessScore(float64(stats[i].TotalWorking), avg)
	}

	return &FairnessStatistics{
		Employees:            stats,
		WorkloadGini:         gini,
		WorkloadVariance:     variance,
		WorkloadStdDev:       stdDev,
		AvgTotalWorking:      avg,
		MaxTotalWorking:      int(maxTotal),
		MinTotalWorking:      int(minTotal),
		OverallFairnessScore: overallScore(gini, stdDev, avg),
	}
}

func (f *FairnessAnalyzer) employeeStatistics(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee) EmployeeStatistics {
	series := make([]model.ShiftType, len(schedule.Days))
	for i, day := range schedule.Days {
		shift, ok := day.ShiftOf(e.Name)
		if !ok {
			shift = model.ShiftDayOff
		}
		series[i] = shift
	}

	s := EmployeeStatistics{Name: e.Name, City: e.City, ScheduleType: e.ScheduleType}

	for i, day := range schedule.Days {
		shift := series[i]
		switch shift {
		case model.ShiftMorning:
			s.CountMorning++
		case model.ShiftEvening:
			s.CountEvening++
		case model.ShiftNight:
			s.CountNight++
		case model.ShiftWorkday:
			s.CountWorkday++
		case model.ShiftDayOff:
			s.CountDayOff++
		case model.ShiftVacation:
			s.CountVacation++
		}
		if shift.IsDuty() && cal.IsNonWorking(day.Date) {
			s.WeekendHolidayWorked++
		}
	}
	s.TotalWorking = s.CountMorning + s.CountEvening + s.CountNight + s.CountWorkday

	businessDays := 0
	vacationDays := 0
	for _, day := range schedule.Days {
		if cal.IsBusinessDay(day.Date) {
			businessDays++
		}
		if e.OnVacation(day.Date) {
			vacationDays++
		}
	}
	target := businessDays * e.WorkloadPct / 100
	s.EffectiveTarget = target - vacationDays
	if s.EffectiveTarget < 0 {
		s.EffectiveTarget = 0
	}
	s.Deviation = s.TotalWorking - s.EffectiveTarget

	s.IsolatedOffDays = isolatedOffCount(series)
	s.LongestWorkStreak = longestStreak(series, isWorkingShift)
	s.LongestOffStreak = longestStreak(series, func(sh model.ShiftType) bool { return !isWorkingShift(sh) })

	return s
}

func isWorkingShift(s model.ShiftType) bool {
	return s.IsDuty() || s == model.ShiftWorkday
}

func isolatedOffCount(series []model.ShiftType) int {
	count := 0
	for i, s := range series {
		if s != model.ShiftDayOff {
			continue
		}
		before := i == 0 || isWorkingShift(series[i-1])
		after := i == len(series)-1 || isWorkingShift(series[i+1])
		if before && after {
			count++
		}
	}
	return count
}

func longestStreak(series []model.ShiftType, match func(model.ShiftType) bool) int {
	longest, current := 0, 0
	for _, s := range series {
		if match(s) {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 0
		}
	}
	return longest
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func varianceOf(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

func rangeOf(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// giniCoefficient 计算基尼系数（0=完全公平，1=完全不公平）
func giniCoefficient(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	gini := 0.0
	for i, v := range sorted {
		gini += (2*float64(i+1) - float64(n) - 1) * v
	}
	gini = gini / (float64(n) * sum)
	return math.Max(0, math.Min(1, gini))
}

// fairnessScore 把单个员工的总工作天数相对均值的偏差转换为 0-100 评分
func fairnessScore(total, avg float64) float64 {
	if avg == 0 {
		return 100
	}
	deviation := math.Abs(total-avg) / avg
	return math.Max(0, 100-deviation*200)
}

// overallScore 综合基尼系数与变异系数得到整体公平性评分
func overallScore(gini, stdDev, avg float64) float64 {
	giniScore := (1 - gini) * 100

	cvScore := 100.0
	if avg > 0 {
		cv := stdDev / avg
		cvScore = math.Max(0, 100-cv*200)
	}

	score := 0.7*giniScore + 0.3*cvScore
	return math.Max(0, math.Min(100, score))
}

// GenerateFairnessReport 生成人类可读的公平性报告文本
func (f *FairnessAnalyzer) GenerateFairnessReport(stats *FairnessStatistics) string {
	report := "=== 公平性分析报告 ===\n\n"
	report += "【整体公平性】\n"
	report += fmt.Sprintf("  基尼系数: %.3f\n", stats.WorkloadGini)
	report += fmt.Sprintf("  工作量标准差: %.2f\n", stats.WorkloadStdDev)
	report += fmt.Sprintf("  人均工作天数: %.1f\n", stats.AvgTotalWorking)
	report += fmt.Sprintf("  综合评分: %.1f\n\n", stats.OverallFairnessScore)

	report += "【员工偏差】\n"
	for _, e := range stats.Employees {
		report += fmt.Sprintf("  - %s: 工作 %d 天 (目标 %d, 偏差 %d)\n", e.Name, e.TotalWorking, e.EffectiveTarget, e.Deviation)
	}
	return report
}
