package postprocess

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// equalizeRounds 是 equalize_isolated_off 每个城市重复尝试的轮数上限
const equalizeRounds = 5

// maxIsolatedSpread 是可接受的 max_iso - min_iso 差值
const maxIsolatedSpread = 1

// maxIsolatedCeiling 是即使差值仍然较大也可以接受的孤立休息日绝对上限
const maxIsolatedCeiling = 2

// equalizeIsolatedOff 在同城同组的 FLEXIBLE 值班员工之间拉平孤立休息
// 日数量：反复找出孤立休息日最多与最少的两人，用一次两格交换（多的
// 一方某个孤立休息日转工作，少的一方某个工作日转休息）降低最大值，
// 每次尝试都经过合法性校验，不满足 "降低最大值" 的结果一律换回去。
func equalizeIsolatedOff(schedule *model.Schedule, cal *calendar.ProductionCalendar, states map[string]*model.EmployeeState, ev *swap.Evaluator) {
	for _, city := range []model.City{model.CityMoscow, model.CityKhabarovsk} {
		cohort := flexibleDutyCohort(schedule.Config.Employees, city)
		if len(cohort) < 2 {
			continue
		}
		equalizeCohort(schedule, cohort, ev)
	}
}

func equalizeCohort(schedule *model.Schedule, cohort map[string]bool, ev *swap.Evaluator) {
	for round := 0; round < equalizeRounds; round++ {
		counts := isolatedCounts(schedule, cohort)
		maxName, maxVal, minName, minVal := spread(counts)
		if maxName == "" || maxVal-minVal <= maxIsolatedSpread || maxVal <= maxIsolatedCeiling {
			return
		}
		if !trySwapEqualize(schedule, maxName, minName, maxVal, ev) {
			return
		}
	}
}

func isolatedCounts(schedule *model.Schedule, cohort map[string]bool) map[string]int {
	counts := make(map[string]int, len(cohort))
	for name := range cohort {
		counts[name] = countIsolated(schedule, name)
	}
	return counts
}

func spread(counts map[string]int) (maxName string, maxVal int, minName string, minVal int) {
	minVal = 1 << 30
	for _, name := range sortedNames(namesOf(counts)) {
		v := counts[name]
		if v > maxVal {
			maxVal = v
			maxName = name
		}
		if v < minVal {
			minVal = v
			minName = name
		}
	}
	return
}

func namesOf(counts map[string]int) map[string]bool {
	out := make(map[string]bool, len(counts))
	for name := range counts {
		out[name] = true
	}
	return out
}

func trySwapEqualize(schedule *model.Schedule, maxEmp, minEmp string, maxVal int, ev *swap.Evaluator) bool {
	maxSeries := employeeShiftSeries(schedule, maxEmp)
	minSeries := employeeShiftSeries(schedule, minEmp)

	for isoIdx := range maxSeries {
		if !isolatedOff(maxSeries, isoIdx) {
			continue
		}
		isoDate := schedule.Days[isoIdx].Date
		isoCell := swap.Cell{Date: isoDate, Employee: maxEmp}
		if swap.Pinned(schedule, isoCell) {
			continue
		}

		for workIdx := range minSeries {
			if minSeries[workIdx] != model.ShiftWorkday {
				continue
			}
			workDate := schedule.Days[workIdx].Date
			workCell := swap.Cell{Date: workDate, Employee: minEmp}
			if swap.Pinned(schedule, workCell) {
				continue
			}

			if !ev.ProposeSwap(schedule, isoCell, model.ShiftWorkday, workCell, model.ShiftDayOff) {
				continue
			}

			newMaxIso := countIsolated(schedule, maxEmp)
			newMinIso := countIsolated(schedule, minEmp)
			if newMaxIso < maxVal && newMinIso < maxVal {
				return true
			}
			ev.ProposeSwap(schedule, isoCell, model.ShiftDayOff, workCell, model.ShiftWorkday)
		}
	}
	return false
}
