package postprocess

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// longOffRunLength 是触发 trim_long_off_blocks 的最短休息连续天数
const longOffRunLength = 4

// offRun 标识一个连续 DAY_OFF 区间 [start, end]（含两端，索引对应
// schedule.Days）
type offRun struct {
	start, end int
}

// trimLongOffBlocks 对每位 FLEXIBLE 非 duty_only 员工，找出长度 >= 4
// 的最长休息连续段，从段内挑一天转为 WORKDAY；若月内存在一个孤立
// 休息日及其工作邻居，则用二点交换让孤立休息日同时被配对消除，否则
// 单独转换该天，盈余留给随后的第二次 target_adjustment_pass 收敛。
func trimLongOffBlocks(schedule *model.Schedule, cal *calendar.ProductionCalendar, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	for _, e := range sortedEmployees(schedule.Config.Employees) {
		if e.ScheduleType != model.ScheduleFlexible || e.DutyOnly() {
			continue
		}

		series := employeeShiftSeries(schedule, e.Name)
		for _, run := range findOffRuns(series) {
			if run.end-run.start+1 < longOffRunLength {
				continue
			}
			trimOneRun(schedule, cal, e, series, run, ev)
		}
	}
}

func findOffRuns(series []model.ShiftType) []offRun {
	var runs []offRun
	start := -1
	for i, s := range series {
		if s == model.ShiftDayOff {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, offRun{start: start, end: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, offRun{start: start, end: len(series) - 1})
	}
	return runs
}

func trimOneRun(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee, series []model.ShiftType, run offRun, ev *swap.Evaluator) {
	trimIdx := -1
	for i := run.start; i <= run.end; i++ {
		date := schedule.Days[i].Date
		if swap.Pinned(schedule, swap.Cell{Date: date, Employee: e.Name}) {
			continue
		}
		if i > 0 && series[i-1] == model.ShiftEvening {
			continue
		}
		l := workRunBefore(series, i)
		r := workRunAfter(series, i)
		if l+1+r > e.MaxConsecutiveWorkPostprocess() {
			continue
		}
		trimIdx = i
		break
	}
	if trimIdx < 0 {
		return
	}
	trimDate := schedule.Days[trimIdx].Date
	trimCell := swap.Cell{Date: trimDate, Employee: e.Name}

	isoIdx, nbIdx := findIsolatedPairOutside(series, run)
	if isoIdx >= 0 {
		nbDate := schedule.Days[nbIdx].Date
		nbCell := swap.Cell{Date: nbDate, Employee: e.Name}
		if !swap.Pinned(schedule, nbCell) {
			if ev.ProposeSwap(schedule, trimCell, model.ShiftWorkday, nbCell, model.ShiftDayOff) {
				return
			}
		}
	}

	ev.Propose(schedule, trimCell, model.ShiftWorkday)
}

// findIsolatedPairOutside 在 run 范围之外寻找一个孤立休息日及其一个
// 工作邻居，返回 (isoIdx, neighbourIdx)；未找到返回 (-1, -1)
func findIsolatedPairOutside(series []model.ShiftType, run offRun) (int, int) {
	for i := range series {
		if i >= run.start && i <= run.end {
			continue
		}
		if !isolatedOff(series, i) {
			continue
		}
		if i > 0 && isWorking(series[i-1]) {
			return i, i - 1
		}
		if i < len(series)-1 && isWorking(series[i+1]) {
			return i, i + 1
		}
	}
	return -1, -1
}
