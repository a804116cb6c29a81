package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/stats"
)

// Spreadsheet 电子表格导出结果：三张表，各自是一个独立的 CSV 文档。
type Spreadsheet struct {
	ScheduleGrid []byte
	Statistics   []byte
	Legend       []byte
}

// BuildSpreadsheet 构造排班表的三工作表电子表格：完整排班网格、
// 逐员工的 17 项统计指标，以及班次图例。各表独立成一个 CSV 文档，
// 下游可按需单独写出或打包。
func BuildSpreadsheet(schedule *model.Schedule, fairness *stats.FairnessStatistics) (*Spreadsheet, error) {
	grid, err := scheduleGridCSV(schedule)
	if err != nil {
		return nil, fmt.Errorf("export: schedule grid: %w", err)
	}
	statistics, err := statisticsCSV(fairness)
	if err != nil {
		return nil, fmt.Errorf("export: statistics sheet: %w", err)
	}
	legend, err := legendCSV()
	if err != nil {
		return nil, fmt.Errorf("export: legend sheet: %w", err)
	}
	return &Spreadsheet{ScheduleGrid: grid, Statistics: statistics, Legend: legend}, nil
}

// scheduleGridCSV 生成第一张表：每行一个员工，每列一天，单元格是当天
// 的班次代码。
func scheduleGridCSV(schedule *model.Schedule) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	names := make([]string, 0, len(schedule.Config.Employees))
	for _, e := range schedule.Config.Employees {
		names = append(names, e.Name)
	}
	sort.Strings(names)

	header := []string{"Employee", "City", "Schedule Type"}
	for _, day := range schedule.Days {
		header = append(header, day.Date)
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	employeeByName := make(map[string]*model.Employee, len(schedule.Config.Employees))
	for _, e := range schedule.Config.Employees {
		employeeByName[e.Name] = e
	}

	for _, name := range names {
		e := employeeByName[name]
		row := []string{e.Name, string(e.City), string(e.ScheduleType)}
		for _, day := range schedule.Days {
			shift, ok := day.ShiftOf(name)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, string(shift))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// statisticsCSV 生成第二张表：逐员工的 17 项统计指标。
func statisticsCSV(fairness *stats.FairnessStatistics) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{
		"Employee", "City", "Schedule Type",
		"Total Working", "Effective Target", "Deviation",
		"Morning", "Evening", "Night", "Workday", "Day Off", "Vacation",
		"Weekend/Holiday Worked", "Isolated Off Days",
		"Longest Work Streak", "Longest Off Streak", "Fairness Score",
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, e := range fairness.Employees {
		row := []string{
			e.Name, string(e.City), string(e.ScheduleType),
			fmt.Sprintf("%d", e.TotalWorking),
			fmt.Sprintf("%d", e.EffectiveTarget),
			fmt.Sprintf("%d", e.Deviation),
			fmt.Sprintf("%d", e.CountMorning),
			fmt.Sprintf("%d", e.CountEvening),
			fmt.Sprintf("%d", e.CountNight),
			fmt.Sprintf("%d", e.CountWorkday),
			fmt.Sprintf("%d", e.CountDayOff),
			fmt.Sprintf("%d", e.CountVacation),
			fmt.Sprintf("%d", e.WeekendHolidayWorked),
			fmt.Sprintf("%d", e.IsolatedOffDays),
			fmt.Sprintf("%d", e.LongestWorkStreak),
			fmt.Sprintf("%d", e.LongestOffStreak),
			fmt.Sprintf("%.1f", e.FairnessScore),
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	summary := [][]string{
		{},
		{"Workload Gini", fmt.Sprintf("%.3f", fairness.WorkloadGini)},
		{"Workload Std Dev", fmt.Sprintf("%.2f", fairness.WorkloadStdDev)},
		{"Avg Total Working", fmt.Sprintf("%.1f", fairness.AvgTotalWorking)},
		{"Overall Fairness Score", fmt.Sprintf("%.1f", fairness.OverallFairnessScore)},
	}
	for _, row := range summary {
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}

// legendCSV 生成第三张表：班次代码与其含义、起止时间的对照表。
func legendCSV() ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"Code", "Meaning", "Start", "End"}); err != nil {
		return nil, err
	}

	rows := []struct {
		shift   model.ShiftType
		meaning string
	}{
		{model.ShiftMorning, "Moscow morning duty"},
		{model.ShiftEvening, "Moscow evening duty"},
		{model.ShiftNight, "Khabarovsk night duty"},
		{model.ShiftWorkday, "Ordinary workday (non-duty)"},
		{model.ShiftDayOff, "Day off"},
		{model.ShiftVacation, "Vacation"},
	}
	for _, r := range rows {
		start, end := r.shift.TimeRange()
		if err := w.Write([]string{string(r.shift), r.meaning, start, end}); err != nil {
			return nil, err
		}
	}

	w.Flush()
	return buf.Bytes(), w.Error()
}
