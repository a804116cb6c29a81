// Package validator 提供排班验证功能
package validator

import (
	"fmt"

	"github.com/rosterops/roster/pkg/model"
)

// ViolationType 违反类型，对应规范中列举的不变量
type ViolationType string

const (
	ViolationCoverage           ViolationType = "coverage"             // 强制班次人数不为一
	ViolationDoubleAssignment   ViolationType = "double_assignment"    // 同日归属多个班次集合
	ViolationCityMismatch       ViolationType = "city_mismatch"        // 城市与班次不匹配
	ViolationRestAfterEvening   ViolationType = "rest_after_evening"   // 晚班次日违规
	ViolationRestAfterNight     ViolationType = "rest_after_night"     // 夜班次日违规
	ViolationMaxConsecutiveWork ViolationType = "max_consecutive_work" // 连续工作超限
	ViolationMaxConsecutiveOff  ViolationType = "max_consecutive_off"  // 连续休息超限
	ViolationVacationExclusive  ViolationType = "vacation_exclusive"   // 假期/黑名单日期被安排工作
	ViolationShiftRestriction   ViolationType = "shift_restriction"    // 早/晚班限制或班次上限
	ViolationGroupConflict      ViolationType = "group_conflict"       // 同组同日同班次
	ViolationPinMismatch        ViolationType = "pin_mismatch"         // pin 未被遵守
)

// Violation 单条违反记录
type Violation struct {
	Type     ViolationType `json:"type"`
	Date     string        `json:"date,omitempty"`
	Employee string        `json:"employee,omitempty"`
	Message  string        `json:"message"`
}

// InvariantChecker 对已生成的 Schedule 做全量不变量检查，用于后处理
// 阶段每次提议交换后的模拟校验（pkg/swap），是后处理阶段合法性判定
// 的唯一来源；贪心阶段的逐日构建不调用它。
type InvariantChecker struct{}

// NewInvariantChecker 创建一个不变量检查器
func NewInvariantChecker() *InvariantChecker {
	return &InvariantChecker{}
}

// Check 对整张排班表执行全部不变量检查，返回发现的全部违反项
func (c *InvariantChecker) Check(schedule *model.Schedule) []Violation {
	var violations []Violation

	employees := indexEmployees(schedule.Config.Employees)

	violations = append(violations, c.checkCoverageAndCity(schedule, employees)...)
	violations = append(violations, c.checkDoubleAssignment(schedule)...)
	violations = append(violations, c.checkRestRules(schedule, employees)...)
	violations = append(violations, c.checkStreaks(schedule, employees)...)
	violations = append(violations, c.checkVacationExclusivity(schedule, employees)...)
	violations = append(violations, c.checkShiftRestrictions(schedule, employees)...)
	violations = append(violations, c.checkGroupConflicts(schedule, employees)...)
	violations = append(violations, c.checkPins(schedule)...)

	return violations
}

// IsLegal 是 Check 的布尔简化版本，用于 propose/simulate/accept 场景
// 中快速判定一次模拟交换是否仍然合法。
func (c *InvariantChecker) IsLegal(schedule *model.Schedule) bool {
	return len(c.Check(schedule)) == 0
}

// checkCoverageAndCity 检查不变量 1 和 3：每日三个强制班次各恰好一人，
// 且 morning/evening 属于 MOSCOW、night 属于 KHABAROVSK。
func (c *InvariantChecker) checkCoverageAndCity(schedule *model.Schedule, employees map[string]*model.Employee) []Violation {
	var violations []Violation

	for _, day := range schedule.Days {
		if !day.IsCovered() {
			violations = append(violations, Violation{
				Type: ViolationCoverage,
				Date: day.Date,
				Message: fmt.Sprintf("morning=%d evening=%d night=%d（各应恰好为 1）",
					len(day.Morning), len(day.Evening), len(day.Night)),
			})
		}

		for _, name := range append(append([]string{}, day.Morning...), day.Evening...) {
			if e := employees[name]; e != nil && e.City != model.CityMoscow {
				violations = append(violations, Violation{
					Type: ViolationCityMismatch, Date: day.Date, Employee: name,
					Message: "莫斯科班次分配给了非莫斯科员工",
				})
			}
		}
		for _, name := range day.Night {
			if e := employees[name]; e != nil && e.City != model.CityKhabarovsk {
				violations = append(violations, Violation{
					Type: ViolationCityMismatch, Date: day.Date, Employee: name,
					Message: "夜班分配给了非哈巴罗夫斯克员工",
				})
			}
		}
	}

	return violations
}

// checkDoubleAssignment 检查不变量 2：同一员工同一天不得出现在多个
// 班次集合中。
func (c *InvariantChecker) checkDoubleAssignment(schedule *model.Schedule) []Violation {
	var violations []Violation

	for _, day := range schedule.Days {
		seen := make(map[string]int)
		for _, list := range [][]string{day.Morning, day.Evening, day.Night, day.Workday, day.DayOff, day.Vacation} {
			for _, name := range list {
				seen[name]++
			}
		}
		for name, count := range seen {
			if count > 1 {
				violations = append(violations, Violation{
					Type: ViolationDoubleAssignment, Date: day.Date, Employee: name,
					Message: fmt.Sprintf("同一天出现在 %d 个班次集合中", count),
				})
			}
		}
	}

	return violations
}

// checkRestRules 检查不变量 4 和 5：晚班/夜班之后的休息规则
func (c *InvariantChecker) checkRestRules(schedule *model.Schedule, employees map[string]*model.Employee) []Violation {
	var violations []Violation

	shiftsByEmployee := buildShiftIndex(schedule)

	for name := range employees {
		days := shiftsByEmployee[name]
		for i := 0; i < len(schedule.Days)-1; i++ {
			date := schedule.Days[i].Date
			next := schedule.Days[i+1].Date
			last, ok := days[date]
			if !ok {
				continue
			}
			nextShift, ok := days[next]
			if !ok {
				continue
			}
			if model.Forbidden(last, nextShift) {
				typ := ViolationRestAfterEvening
				if last == model.ShiftNight {
					typ = ViolationRestAfterNight
				}
				violations = append(violations, Violation{
					Type: typ, Date: next, Employee: name,
					Message: fmt.Sprintf("%s 之后不允许 %s", last, nextShift),
				})
			}
		}
	}

	return violations
}

// checkStreaks 检查不变量 6 和 7：连续工作/连续休息上限
func (c *InvariantChecker) checkStreaks(schedule *model.Schedule, employees map[string]*model.Employee) []Violation {
	var violations []Violation

	shiftsByEmployee := buildShiftIndex(schedule)

	for name, e := range employees {
		work, off := 0, 0
		maxWork, maxOff := 0, 0
		for _, day := range schedule.Days {
			shift, ok := shiftsByEmployee[name][day.Date]
			if !ok {
				work, off = 0, 0
				continue
			}
			if shift.IsDuty() || shift == model.ShiftWorkday {
				work++
				off = 0
			} else if shift == model.ShiftDayOff {
				off++
				work = 0
			} else {
				work, off = 0, 0
			}
			if work > maxWork {
				maxWork = work
			}
			if off > maxOff {
				maxOff = off
			}
		}

		limit := e.MaxConsecutiveWorkPostprocess()
		if maxWork > limit {
			violations = append(violations, Violation{
				Type: ViolationMaxConsecutiveWork, Employee: name,
				Message: fmt.Sprintf("连续工作 %d 天，超过上限 %d", maxWork, limit),
			})
		}
		if maxOff > e.MaxConsecutiveOff() {
			violations = append(violations, Violation{
				Type: ViolationMaxConsecutiveOff, Employee: name,
				Message: fmt.Sprintf("连续休息 %d 天，超过上限 %d", maxOff, e.MaxConsecutiveOff()),
			})
		}
	}

	return violations
}

// checkVacationExclusivity 检查不变量 8：假期或黑名单日期只能是
// vacation 或 day_off
func (c *InvariantChecker) checkVacationExclusivity(schedule *model.Schedule, employees map[string]*model.Employee) []Violation {
	var violations []Violation

	shiftsByEmployee := buildShiftIndex(schedule)

	for name, e := range employees {
		for _, day := range schedule.Days {
			if !e.OnVacation(day.Date) && !e.IsUnavailable(day.Date) {
				continue
			}
			shift, ok := shiftsByEmployee[name][day.Date]
			if ok && shift != model.ShiftVacation && shift != model.ShiftDayOff {
				violations = append(violations, Violation{
					Type: ViolationVacationExclusive, Date: day.Date, Employee: name,
					Message: fmt.Sprintf("假期/不可用日期却被安排 %s", shift),
				})
			}
		}
	}

	return violations
}

// checkShiftRestrictions 检查不变量 9：仅早班/仅晚班限制，以及
// max_*_shifts 月度上限
func (c *InvariantChecker) checkShiftRestrictions(schedule *model.Schedule, employees map[string]*model.Employee) []Violation {
	var violations []Violation

	counts := make(map[string]map[model.ShiftType]int)
	shiftsByEmployee := buildShiftIndex(schedule)
	for name, byDate := range shiftsByEmployee {
		counts[name] = make(map[model.ShiftType]int)
		for _, shift := range byDate {
			counts[name][shift]++
		}
	}

	for name, e := range employees {
		for date, shift := range shiftsByEmployee[name] {
			if e.MorningOnly && (shift == model.ShiftEvening || shift == model.ShiftNight) {
				violations = append(violations, Violation{Type: ViolationShiftRestriction, Date: date, Employee: name, Message: "仅早班员工被分配了晚班/夜班"})
			}
			if e.EveningOnly && (shift == model.ShiftMorning || shift == model.ShiftNight) {
				violations = append(violations, Violation{Type: ViolationShiftRestriction, Date: date, Employee: name, Message: "仅晚班员工被分配了早班/夜班"})
			}
		}

		if e.MaxMorning != nil && counts[name][model.ShiftMorning] > *e.MaxMorning {
			violations = append(violations, Violation{Type: ViolationShiftRestriction, Employee: name, Message: "超过 max_morning_shifts"})
		}
		if e.MaxEvening != nil && counts[name][model.ShiftEvening] > *e.MaxEvening {
			violations = append(violations, Violation{Type: ViolationShiftRestriction, Employee: name, Message: "超过 max_evening_shifts"})
		}
		if e.MaxNight != nil && counts[name][model.ShiftNight] > *e.MaxNight {
			violations = append(violations, Violation{Type: ViolationShiftRestriction, Employee: name, Message: "超过 max_night_shifts"})
		}
	}

	return violations
}

// checkGroupConflicts 检查不变量 10：同组员工不得同日同班次
func (c *InvariantChecker) checkGroupConflicts(schedule *model.Schedule, employees map[string]*model.Employee) []Violation {
	var violations []Violation

	for _, day := range schedule.Days {
		for _, list := range [][]string{day.Morning, day.Evening, day.Night, day.Workday} {
			seenGroups := make(map[string]string)
			for _, name := range list {
				e := employees[name]
				if e == nil || e.Group == "" {
					continue
				}
				if other, ok := seenGroups[e.Group]; ok {
					violations = append(violations, Violation{
						Type: ViolationGroupConflict, Date: day.Date, Employee: name,
						Message: fmt.Sprintf("与同组员工 %s 在同一班次", other),
					})
				}
				seenGroups[e.Group] = name
			}
		}
	}

	return violations
}

// checkPins 检查不变量 12：pin 必须原样出现
func (c *InvariantChecker) checkPins(schedule *model.Schedule) []Violation {
	var violations []Violation

	for _, pin := range schedule.Config.Pins {
		day := schedule.DayByDate(pin.Date)
		if day == nil {
			continue
		}
		shift, ok := day.ShiftOf(pin.Employee)
		if !ok || shift != pin.Shift {
			violations = append(violations, Violation{
				Type: ViolationPinMismatch, Date: pin.Date, Employee: pin.Employee,
				Message: fmt.Sprintf("pin 要求 %s 但实际为 %s", pin.Shift, shift),
			})
		}
	}

	return violations
}

// buildShiftIndex 把排班表转换为 employee -> date -> shift 的索引，
// 供需要随机访问某员工某日班次的检查复用。
func buildShiftIndex(schedule *model.Schedule) map[string]map[string]model.ShiftType {
	idx := make(map[string]map[string]model.ShiftType)
	for _, day := range schedule.Days {
		lists := []struct {
			shift model.ShiftType
			names []string
		}{
			{model.ShiftMorning, day.Morning},
			{model.ShiftEvening, day.Evening},
			{model.ShiftNight, day.Night},
			{model.ShiftWorkday, day.Workday},
			{model.ShiftDayOff, day.DayOff},
			{model.ShiftVacation, day.Vacation},
		}
		for _, l := range lists {
			for _, name := range l.names {
				if idx[name] == nil {
					idx[name] = make(map[string]model.ShiftType)
				}
				idx[name][day.Date] = l.shift
			}
		}
	}
	return idx
}

// indexEmployees 按姓名索引员工列表
func indexEmployees(employees []*model.Employee) map[string]*model.Employee {
	idx := make(map[string]*model.Employee, len(employees))
	for _, e := range employees {
		idx[e.Name] = e
	}
	return idx
}

