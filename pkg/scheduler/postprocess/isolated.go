package postprocess

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// isolatedRounds 是 minimize_isolated_off 迭代到不再有进展为止的
// 轮数上限
const isolatedRounds = 6

// minimizeIsolatedOff 贪心地消除孤立休息日：主路径为每个孤立休息日
// 找一个可延长的工作邻居与一个可被占用的补偿休息日，让班次在两者
// 间搬移；FLEXIBLE 员工在找不到补偿时走回退路径——把该孤立休息日
// 本身转为工作，再把另一个孤立休息日的工作邻居转为休息，使其配对，
// 净休息天数不变但一次性消除两个孤立点。循环直至一轮内没有进展。
func minimizeIsolatedOff(schedule *model.Schedule, cal *calendar.ProductionCalendar, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	for round := 0; round < isolatedRounds; round++ {
		changed := false
		for _, e := range sortedEmployees(schedule.Config.Employees) {
			if minimizeForEmployee(schedule, cal, e, ev) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
}

// minimizeForEmployee 对单个员工做一轮孤立休息日消除，返回是否有
// 任何改动
func minimizeForEmployee(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee, ev *swap.Evaluator) bool {
	flexible := e.ScheduleType == model.ScheduleFlexible
	progressed := false

	for {
		series := employeeShiftSeries(schedule, e.Name)
		idx := firstIsolated(series)
		if idx < 0 {
			return progressed
		}
		if tryExtendAndCompensate(schedule, cal, e, series, idx, flexible, ev) {
			progressed = true
			continue
		}
		if flexible && tryPairFallback(schedule, e, series, idx, ev) {
			progressed = true
			continue
		}
		return progressed
	}
}

func firstIsolated(series []model.ShiftType) int {
	for i := range series {
		if isolatedOff(series, i) {
			return i
		}
	}
	return -1
}

// tryExtendAndCompensate 是主路径：延长一个工作邻居、用另一个休息日
// 补偿
func tryExtendAndCompensate(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee, series []model.ShiftType, idx int, flexible bool, ev *swap.Evaluator) bool {
	for _, extendIdx := range []int{idx - 1, idx + 1} {
		if extendIdx < 0 || extendIdx >= len(series) || !isWorking(series[extendIdx]) {
			continue
		}
		extendDate := schedule.Days[extendIdx].Date
		extendCell := swap.Cell{Date: extendDate, Employee: e.Name}
		if swap.Pinned(schedule, extendCell) {
			continue
		}

		for compIdx := range series {
			if series[compIdx] != model.ShiftDayOff || compIdx == idx {
				continue
			}
			compDate := schedule.Days[compIdx].Date
			compCell := swap.Cell{Date: compDate, Employee: e.Name}
			if swap.Pinned(schedule, compCell) {
				continue
			}
			if !flexible && cal.IsNonWorking(compDate) {
				continue
			}
			workRun := workRunBefore(series, compIdx) + 1 + workRunAfter(series, compIdx)
			if workRun > e.MaxConsecutiveWorkPostprocess() {
				continue
			}
			if wouldCreateNewIsolation(series, compIdx) {
				continue
			}

			if ev.ProposeSwap(schedule, extendCell, model.ShiftDayOff, compCell, model.ShiftWorkday) {
				return true
			}
		}
	}
	return false
}

// tryPairFallback 是 FLEXIBLE 专属回退路径：把当前孤立点转为工作，
// 用另一个孤立点的工作邻居转为休息来配对它，净休息天数不变
func tryPairFallback(schedule *model.Schedule, e *model.Employee, series []model.ShiftType, idx int, ev *swap.Evaluator) bool {
	idxDate := schedule.Days[idx].Date
	idxCell := swap.Cell{Date: idxDate, Employee: e.Name}
	if swap.Pinned(schedule, idxCell) {
		return false
	}

	for targetIdx := range series {
		if targetIdx == idx || !isolatedOff(series, targetIdx) {
			continue
		}
		for _, nbIdx := range []int{targetIdx - 1, targetIdx + 1} {
			if nbIdx < 0 || nbIdx >= len(series) || !isWorking(series[nbIdx]) || nbIdx == idx {
				continue
			}
			nbDate := schedule.Days[nbIdx].Date
			nbCell := swap.Cell{Date: nbDate, Employee: e.Name}
			if swap.Pinned(schedule, nbCell) {
				continue
			}
			if ev.ProposeSwap(schedule, idxCell, model.ShiftWorkday, nbCell, model.ShiftDayOff) {
				return true
			}
		}
	}
	return false
}

// wouldCreateNewIsolation 模拟把 idx 转为 WORKDAY，检查是否会让某个
// 相邻的休息日因此变成新的孤立休息日
func wouldCreateNewIsolation(series []model.ShiftType, idx int) bool {
	next := append([]model.ShiftType{}, series...)
	next[idx] = model.ShiftWorkday

	for _, n := range []int{idx - 1, idx + 1} {
		if n < 0 || n >= len(series) {
			continue
		}
		if series[n] == model.ShiftDayOff && isolatedOff(next, n) && !isolatedOff(series, n) {
			return true
		}
	}
	return false
}
