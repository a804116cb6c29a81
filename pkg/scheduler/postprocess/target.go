package postprocess

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// targetMaxConsecutiveWork 是 target_adjustment_pass 使用的贪心阶段上限
// max_cw(e) = 5，即使员工在后处理阶段原本允许第六天（仅在消除孤立
// 休息日时），目标调整本身也只按 5 天收敛，避免为了凑数而额外制造
// 长工作串。
const targetMaxConsecutiveWork = 5

// targetAdjustmentPass 为每位员工把 total_working 调整到
// effective_target：盈余时从月末向前把 WORKDAY 转为 DAY_OFF，赤字时
// 从月初向后把 DAY_OFF 转为 WORKDAY。流水线调用它两次（trim_long_off_
// blocks 前后各一次），第二次负责收敛 trim 阶段留下的偏差（§9）。
func targetAdjustmentPass(schedule *model.Schedule, cal *calendar.ProductionCalendar, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	for _, e := range sortedEmployees(schedule.Config.Employees) {
		st := states[e.Name]
		if st == nil {
			continue
		}
		delta := st.TotalWorking - st.EffectiveTarget()
		switch {
		case delta > 0:
			shrinkSurplus(schedule, cal, e, delta, ev)
		case delta < 0:
			fillDeficit(schedule, cal, e, -delta, ev)
		}
	}
}

// shrinkSurplus 从月末向前遍历，把 WORKDAY 转为 DAY_OFF 直至消除盈余
func shrinkSurplus(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee, surplus int, ev *swap.Evaluator) {
	fullTime := e.ScheduleType == model.ScheduleFlexible && e.WorkloadPct == 100

	for surplus > 0 {
		series := employeeShiftSeries(schedule, e.Name)
		converted := false

		for i := len(series) - 1; i >= 0; i-- {
			if series[i] != model.ShiftWorkday {
				continue
			}
			date := schedule.Days[i].Date
			cell := swap.Cell{Date: date, Employee: e.Name}
			if cal.IsHoliday(date) || swap.Pinned(schedule, cell) {
				continue
			}
			if fullTime {
				l := workRunBefore(series, i)
				r := workRunAfter(series, i)
				if (l > 0 && l < MinWorkBetweenOffs) || (r > 0 && r < MinWorkBetweenOffs) {
					continue
				}
			}
			if ev.Propose(schedule, cell, model.ShiftDayOff) {
				surplus--
				converted = true
				break
			}
		}
		if !converted {
			return
		}
	}
}

// fillDeficit 从月初向后遍历，把 DAY_OFF 转为 WORKDAY 直至消除赤字；
// FLEXIBLE 员工优先转换孤立休息日。
func fillDeficit(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee, deficit int, ev *swap.Evaluator) {
	flexible := e.ScheduleType == model.ScheduleFlexible

	for deficit > 0 {
		series := employeeShiftSeries(schedule, e.Name)
		converted := false

		if flexible {
			for i := 0; i < len(series); i++ {
				if !isolatedOff(series, i) {
					continue
				}
				if tryFillDay(schedule, cal, e, i, series, ev) {
					deficit--
					converted = true
					break
				}
			}
			if converted {
				continue
			}
		}

		for i := 0; i < len(series); i++ {
			if series[i] != model.ShiftDayOff {
				continue
			}
			if tryFillDay(schedule, cal, e, i, series, ev) {
				deficit--
				converted = true
				break
			}
		}
		if !converted {
			return
		}
	}
}

// tryFillDay 尝试把索引 i 处的 DAY_OFF 转为 WORKDAY，校验非 FLEXIBLE
// 员工只能在生产日历工作日转换、未被 pin、转换后工作串 <= max_cw=5
func tryFillDay(schedule *model.Schedule, cal *calendar.ProductionCalendar, e *model.Employee, i int, series []model.ShiftType, ev *swap.Evaluator) bool {
	date := schedule.Days[i].Date
	cell := swap.Cell{Date: date, Employee: e.Name}

	if e.ScheduleType != model.ScheduleFlexible && cal.IsNonWorking(date) {
		return false
	}
	if swap.Pinned(schedule, cell) {
		return false
	}

	l := workRunBefore(series, i)
	r := workRunAfter(series, i)
	if l+1+r > targetMaxConsecutiveWork {
		return false
	}

	return ev.Propose(schedule, cell, model.ShiftWorkday)
}

// workRunBefore 返回索引 i 之前连续的工作天数（不含 i 本身）
func workRunBefore(series []model.ShiftType, i int) int {
	n := 0
	for j := i - 1; j >= 0 && isWorking(series[j]); j-- {
		n++
	}
	return n
}

// workRunAfter 返回索引 i 之后连续的工作天数（不含 i 本身）
func workRunAfter(series []model.ShiftType, i int) int {
	n := 0
	for j := i + 1; j < len(series) && isWorking(series[j]); j++ {
		n++
	}
	return n
}
