package postprocess

import (
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// breakEveningIsolatedPattern 针对结构性模式 "EVENING -> 强制休息 ->
// 孤立休息日 -> 工作"：员工 A 在第 d 天上 EVENING，第 d+1 天因
// resting_after_evening 被迫休息，而该休息日恰好是孤立的（第 d+2 天
// A 又要工作）。做法：为 A 找一个第 d 天未休息、evening-capable 的
// 同城值班同事 B，把 A 第 d 天的 EVENING 与 B 第 d 天的班次互换——
// B 接手 EVENING，A 接手 B 原本的班次。只有当这次互换让 A 的孤立
// 休息日数量严格减少、且 B 的孤立休息日数量不超过 2 时才保留，否则
// 换回去。
func breakEveningIsolatedPattern(schedule *model.Schedule, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	cohort := eligibleCohort(schedule.Config.Employees, model.CityMoscow, model.ShiftEvening)

	for _, a := range sortedEmployees(schedule.Config.Employees) {
		if !cohort[a.Name] {
			continue
		}
		for {
			if !breakOnePattern(schedule, a, cohort, ev) {
				break
			}
		}
	}
}

func breakOnePattern(schedule *model.Schedule, a *model.Employee, cohort map[string]bool, ev *swap.Evaluator) bool {
	series := employeeShiftSeries(schedule, a.Name)
	d := findEveningIsolatedIdiom(series)
	if d < 0 {
		return false
	}

	date := schedule.Days[d].Date
	aCell := swap.Cell{Date: date, Employee: a.Name}
	if swap.Pinned(schedule, aCell) {
		return false
	}

	beforeA := countIsolated(schedule, a.Name)

	for _, b := range sortedEmployees(schedule.Config.Employees) {
		if b.Name == a.Name || !cohort[b.Name] {
			continue
		}
		bCell := swap.Cell{Date: date, Employee: b.Name}
		if swap.Pinned(schedule, bCell) {
			continue
		}
		bShift, ok := schedule.Days[d].ShiftOf(b.Name)
		if !ok || bShift == model.ShiftDayOff || bShift == model.ShiftVacation || bShift == model.ShiftEvening {
			continue
		}

		if !ev.ProposeSwap(schedule, aCell, bShift, bCell, model.ShiftEvening) {
			continue
		}

		afterA := countIsolated(schedule, a.Name)
		afterB := countIsolated(schedule, b.Name)
		if afterA < beforeA && afterB <= 2 {
			return true
		}

		ev.ProposeSwap(schedule, aCell, model.ShiftEvening, bCell, bShift)
	}
	return false
}

// findEveningIsolatedIdiom 返回符合 "EVENING -> 孤立休息日" 模式的
// EVENING 所在索引 d，未找到返回 -1
func findEveningIsolatedIdiom(series []model.ShiftType) int {
	for d := range series {
		if series[d] != model.ShiftEvening {
			continue
		}
		if d+1 >= len(series) || series[d+1] != model.ShiftDayOff {
			continue
		}
		if isolatedOff(series, d+1) {
			return d
		}
	}
	return -1
}
