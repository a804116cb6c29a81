package postprocess

import (
	"sort"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// weekendRounds 是 balance_weekend_work 重复扫描整月的轮数上限，
// 给每一轮产生的改进机会在下一轮被进一步均摊。
const weekendRounds = 3

// balanceWeekendWork 让同城市、FLEXIBLE、值班员工之间的周末/节假日
// 值班班次负担在 ±1 以内：把超载者在某个周末/节假日上承担的强制
// 值班班次转交给同组里当天休息的欠载者，超载者退为 WORKDAY（仍计
// 入当月工作天数，留给后续 target_adjustment_pass 收敛），任何会
// 破坏硬约束的提议都会被 swap.Evaluator 拒绝。
func balanceWeekendWork(schedule *model.Schedule, cal *calendar.ProductionCalendar, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	for round := 0; round < weekendRounds; round++ {
		changed := false
		for _, city := range []model.City{model.CityMoscow, model.CityKhabarovsk} {
			cohort := flexibleDutyCohort(schedule.Config.Employees, city)
			if len(cohort) < 2 {
				continue
			}
			counts := weekendDutyCounts(schedule, cal, cohort)

			for _, day := range schedule.Days {
				if !cal.IsNonWorking(day.Date) {
					continue
				}
				holders := dutyHoldersOnDate(day, city)
				for _, holder := range holders {
					if !cohort[holder] {
						continue
					}
					if swap.Pinned(schedule, swap.Cell{Date: day.Date, Employee: holder}) {
						continue
					}
					shift, _ := day.ShiftOf(holder)

					under := leastLoadedOff(schedule, cohort, counts, day.Date, holder)
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
		}
		if !changed {
			break
		}
	}
}

// flexibleDutyCohort 返回给定城市中 FLEXIBLE 值班员工姓名集合
func flexibleDutyCohort(employees []*model.Employee, city model.City) map[string]bool {
	out := make(map[string]bool)
	for _, e := range employees {
		if e.City == city && e.OnDuty && e.ScheduleType == model.ScheduleFlexible {
			out[e.Name] = true
		}
	}
	return out
}

// weekendDutyCounts 统计同组每位员工整月在周末/节假日承担强制值班
// 班次（MORNING/EVENING/NIGHT）的天数
func weekendDutyCounts(schedule *model.Schedule, cal *calendar.ProductionCalendar, cohort map[string]bool) map[string]int {
	counts := make(map[string]int, len(cohort))
	for name := range cohort {
		counts[name] = 0
	}
	for _, day := range schedule.Days {
		if !cal.IsNonWorking(day.Date) {
			continue
		}
		for name := range cohort {
			shift, ok := day.ShiftOf(name)
			if ok && shift.IsDuty() {
				counts[name]++
			}
		}
	}
	return counts
}

// dutyHoldersOnDate 返回给定城市在某天持有强制值班班次的员工姓名
func dutyHoldersOnDate(day *model.DaySchedule, city model.City) []string {
	switch city {
	case model.CityMoscow:
		var out []string
		out = append(out, day.Morning...)
		out = append(out, day.Evening...)
		return out
	case model.CityKhabarovsk:
		return append([]string{}, day.Night...)
	default:
		return nil
	}
}

// leastLoadedOff 在同组里找到当天休息（DAY_OFF）且周末值班计数最低
// 的员工，candidates 需排除 exclude 本人
func leastLoadedOff(schedule *model.Schedule, cohort map[string]bool, counts map[string]int, date, exclude string) string {
	best := ""
	bestCount := 1 << 30
	for _, name := range sortedNames(cohort) {
		if name == exclude {
			continue
		}
		day := schedule.DayByDate(date)
		if day == nil {
			continue
		}
		if !isDayOff(day, name) {
			continue
		}
		if counts[name] < bestCount {
			bestCount = counts[name]
			best = name
		}
	}
	return best
}

func isDayOff(day *model.DaySchedule, name string) bool {
	for _, n := range day.DayOff {
		if n == name {
			return true
		}
	}
	return false
}

func sortedNames(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for n := range set {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
