package postprocess

import (
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// dutyShiftRounds 是 balance_duty_shifts 重复扫描整月的轮数上限
const dutyShiftRounds = 3

// balanceDutyShifts 独立地对 MORNING、EVENING、NIGHT 三种强制班次
// 做同样的事：在各自的城市与资格同组（同样兼容该班次的值班员工）
// 内，把每位员工整月承担该班次的次数拉到 ±1 以内。机制：把超载者
// 当天的强制班次与欠载者当天的 WORKDAY 互换，任何违反上限/休息
// 规则/分组冲突的提议都由 swap.Evaluator 拒绝。
func balanceDutyShifts(schedule *model.Schedule, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	for _, shift := range []model.ShiftType{model.ShiftMorning, model.ShiftEvening, model.ShiftNight} {
		balanceOneDutyShift(schedule, shift, ev)
	}
}

func balanceOneDutyShift(schedule *model.Schedule, shift model.ShiftType, ev *swap.Evaluator) {
	city := model.CityMoscow
	if shift == model.ShiftNight {
		city = model.CityKhabarovsk
	}
	cohort := eligibleCohort(schedule.Config.Employees, city, shift)
	if len(cohort) < 2 {
		return
	}

	for round := 0; round < dutyShiftRounds; round++ {
		changed := false
		counts := shiftCounts(schedule, cohort, shift)

		for _, day := range schedule.Days {
			holders := namesFor(day, shift)
			for _, holder := range holders {
				if !cohort[holder] {
					continue
				}
				if swap.Pinned(schedule, swap.Cell{Date: day.Date, Employee: holder}) {
					continue
				}
				under := leastLoadedWorkday(schedule, cohort, counts, day.Date, holder)
				if under == "" {
					continue
				}
				if counts[holder]-counts[under] <= 1 {
					continue
				}
				if swap.Pinned(schedule, swap.Cell{Date: day.Date, Employee: under}) {
					continue
				}

				ok := ev.ProposeSwap(schedule,
					swap.Cell{Date: day.Date, Employee: holder}, model.ShiftWorkday,
					swap.Cell{Date: day.Date, Employee: under}, shift)
				if ok {
					counts[holder]--
					counts[under]++
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}
}

// eligibleCohort 返回给定城市中与 shift 兼容的值班员工姓名集合：
// MORNING 排除 evening_only，EVENING 排除 morning_only，NIGHT 为
// 该城市全部值班员工。
func eligibleCohort(employees []*model.Employee, city model.City, shift model.ShiftType) map[string]bool {
	out := make(map[string]bool)
	for _, e := range employees {
		if e.City != city || !e.OnDuty {
			continue
		}
		switch shift {
		case model.ShiftMorning:
			if e.EveningOnly {
				continue
			}
		case model.ShiftEvening:
			if e.MorningOnly {
				continue
			}
		}
		out[e.Name] = true
	}
	return out
}

func shiftCounts(schedule *model.Schedule, cohort map[string]bool, shift model.ShiftType) map[string]int {
	counts := make(map[string]int, len(cohort))
	for name := range cohort {
		counts[name] = 0
	}
	for _, day := range schedule.Days {
		for _, name := range namesFor(day, shift) {
			if _, ok := counts[name]; ok {
				counts[name]++
			}
		}
	}
	return counts
}

func namesFor(day *model.DaySchedule, shift model.ShiftType) []string {
	switch shift {
	case model.ShiftMorning:
		return day.Morning
	case model.ShiftEvening:
		return day.Evening
	case model.ShiftNight:
		return day.Night
	case model.ShiftWorkday:
		return day.Workday
	case model.ShiftDayOff:
		return day.DayOff
	case model.ShiftVacation:
		return day.Vacation
	default:
		return nil
	}
}

// leastLoadedWorkday 在同组里找到当天持有 WORKDAY 且该班次计数最低
// 的员工
func leastLoadedWorkday(schedule *model.Schedule, cohort map[string]bool, counts map[string]int, date, exclude string) string {
	day := schedule.DayByDate(date)
	if day == nil {
		return ""
	}
	best := ""
	bestCount := 1 << 30
	for _, name := range sortedNames(cohort) {
		if name == exclude {
			continue
		}
		onWorkday := false
		for _, n := range day.Workday {
			if n == name {
				onWorkday = true
				break
			}
		}
		if !onWorkday {
			continue
		}
		if counts[name] < bestCount {
			bestCount = counts[name]
			best = name
		}
	}
	return best
}
