package scheduler

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/errors"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/rng"
)

// buildContext 携带 build_day 需要的全部只读/可变依赖
type buildContext struct {
	employees   []*model.Employee
	byName      map[string]*model.Employee
	states      map[string]*model.EmployeeState
	cal         *calendar.ProductionCalendar
	r           *rng.RNG
	allDates    []string
	dateIdx     int
	pinsForDate map[string][]model.Pin
}

// remainingDays 返回包括今天在内的剩余天数
func (bc *buildContext) remainingDays() int {
	return len(bc.allDates) - bc.dateIdx
}

// buildDay 为给定日期生成一份 DaySchedule，按 §4.3 的十一个步骤
// 顺序执行；任一强制步骤（3-5）候选池为空时返回
// InsufficientCoverage，由回溯器捕获。
func buildDay(bc *buildContext, date string) (*model.DaySchedule, error) {
	isHoliday := bc.cal.IsHoliday(date)
	day := model.NewDaySchedule(date, isHoliday)

	// 1. 应用 pin
	for _, pin := range bc.pinsForDate[date] {
		day.Assign(pin.Employee, pin.Shift)
	}

	assignedToday := func(name string) bool {
		_, ok := day.ShiftOf(name)
		return ok
	}

	// 2. 常驻值班占位：收集仅早/仅晚班的常驻员工，在下面两步中优先选取
	forcedMorning := make(map[string]bool)
	forcedEvening := make(map[string]bool)
	for _, e := range bc.employees {
		if !e.AlwaysOnDuty || e.City != model.CityMoscow || assignedToday(e.Name) {
			continue
		}
		st := bc.states[e.Name]
		if !CanWork(e, st, date, bc.cal) {
			continue
		}
		switch {
		case e.MorningOnly:
			forcedMorning[e.Name] = true
		case e.EveningOnly:
			forcedEvening[e.Name] = true
		}
	}

	// 2b. 值班员工请假占位：休假或黑名单中的值班员工必须先被标记为
	// VACATION/DAY_OFF，否则强制步骤（3-7）只会用 CanWork 把他们从候选
	// 池里排除，而没有任何步骤再给他们一个班——当天就会漏分配。
	for _, e := range bc.employees {
		if !e.OnDuty || assignedToday(e.Name) {
			continue
		}
		if e.OnVacation(date) {
			day.Assign(e.Name, model.ShiftVacation)
		} else if e.IsUnavailable(date) {
			day.Assign(e.Name, model.ShiftDayOff)
		}
	}

	// 3. 夜班（哈巴罗夫斯克）
	nightPool := bc.candidatesFor(date, day, model.CityKhabarovsk, func(e *model.Employee, st *model.EmployeeState) bool {
		return e.OnDuty && !assignedToday(e.Name) && CanWork(e, st, date, bc.cal) &&
			!RestingAfterEvening(st) && !RestingAfterNight(st) &&
			!ShiftCapReached(e, st, model.ShiftNight) && !GroupUsedToday(e, day, bc.byName)
	})
	picked := SelectForMandatory(nightPool, model.ShiftNight, bc.remainingDays(), 1, bc.r)
	if len(picked) == 0 {
		return nil, errors.InsufficientCoverage(date, string(model.ShiftNight))
	}
	day.Assign(picked[0].employee.Name, model.ShiftNight)

	// 4. 早班（莫斯科）
	morningPool := bc.candidatesFor(date, day, model.CityMoscow, func(e *model.Employee, st *model.EmployeeState) bool {
		return e.OnDuty && !e.EveningOnly && !assignedToday(e.Name) && CanWork(e, st, date, bc.cal) &&
			!RestingAfterEvening(st) && !RestingAfterNight(st) &&
			!ShiftCapReached(e, st, model.ShiftMorning) && !GroupUsedToday(e, day, bc.byName)
	})
	var morningForced []candidate
	for _, c := range morningPool {
		if forcedMorning[c.employee.Name] {
			morningForced = append(morningForced, c)
		}
	}
	eveningCapableOutside := false
	for _, c := range morningPool {
		if !forcedMorning[c.employee.Name] && !c.employee.MorningOnly {
			eveningCapableOutside = true
			break
		}
	}
	var morningPicked []candidate
	if len(morningForced) > 0 && eveningCapableOutside {
		morningPicked = SelectForMandatory(morningForced, model.ShiftMorning, bc.remainingDays(), 1, bc.r)
	} else {
		morningPicked = SelectForMandatory(morningPool, model.ShiftMorning, bc.remainingDays(), 1, bc.r)
	}
	if len(morningPicked) == 0 {
		return nil, errors.InsufficientCoverage(date, string(model.ShiftMorning))
	}
	day.Assign(morningPicked[0].employee.Name, model.ShiftMorning)

	// 5. 晚班（莫斯科）
	eveningPool := bc.candidatesFor(date, day, model.CityMoscow, func(e *model.Employee, st *model.EmployeeState) bool {
		return e.OnDuty && !e.MorningOnly && !assignedToday(e.Name) && CanWork(e, st, date, bc.cal) &&
			!RestingAfterNight(st) &&
			!ShiftCapReached(e, st, model.ShiftEvening) && !GroupUsedToday(e, day, bc.byName)
	})
	var eveningPicked []candidate
	var forced []candidate
	for _, c := range eveningPool {
		if forcedEvening[c.employee.Name] {
			forced = append(forced, c)
		}
	}
	var continuing []candidate
	for _, c := range eveningPool {
		if RestingAfterEvening(c.state) {
			continuing = append(continuing, c)
		}
	}
	var freshStreak []candidate
	for _, c := range eveningPool {
		if c.employee.ScheduleType == model.ScheduleFlexible && c.state.ConsecutiveWorking >= MinWorkBetweenOffs-1 {
			freshStreak = append(freshStreak, c)
		}
	}
	switch {
	case len(forced) > 0:
		eveningPicked = SelectForMandatory(forced, model.ShiftEvening, bc.remainingDays(), 1, bc.r)
	case len(continuing) > 0:
		eveningPicked = SelectForMandatory(continuing, model.ShiftEvening, bc.remainingDays(), 1, bc.r)
	case len(freshStreak) > 0:
		eveningPicked = SelectForMandatory(freshStreak, model.ShiftEvening, bc.remainingDays(), 1, bc.r)
	default:
		eveningPicked = SelectForMandatory(eveningPool, model.ShiftEvening, bc.remainingDays(), 1, bc.r)
	}
	if len(eveningPicked) == 0 {
		return nil, errors.InsufficientCoverage(date, string(model.ShiftEvening))
	}
	day.Assign(eveningPicked[0].employee.Name, model.ShiftEvening)

	// 6. 值班 WORKDAY 填充（莫斯科，仅非节假日）。贪心填充循环结束
	// 后，任何仍未分配的莫斯科值班员工（duty_only 未中选、已达到月度
	// 目标、碰到连续工作/休息上限、或当天是节假日而整段循环被跳过）
	// 显式记为 DAY_OFF，与下面步骤 7 对哈巴罗夫斯克的处理对称，避免
	// 漏分配。
	if !isHoliday {
		for {
			pool := bc.candidatesFor(date, day, model.CityMoscow, func(e *model.Employee, st *model.EmployeeState) bool {
				if assignedToday(e.Name) || DutyOnly(e) {
					return false
				}
				if !CanWork(e, st, date, bc.cal) || !st.NeedsMoreWork(bc.remainingDays()) {
					return false
				}
				if st.ConsecutiveWorking >= MaxConsecutiveWork(e) {
					return false
				}
				if RestingAfterEvening(st) || RestingAfterNight(st) {
					return false
				}
				if e.ScheduleType == model.ScheduleFlexible && st.ConsecutiveOff == 1 {
					return false
				}
				return true
			})
			if len(pool) == 0 {
				break
			}
			ranked := SelectByUrgency(pool, bc.remainingDays())
			next := bc.nextDate(date)
			if next != "" && bc.cal.IsHoliday(next) && !bc.enoughCoverageTomorrow(day, ranked[0].employee.Name, next) {
				break
			}
			day.Assign(ranked[0].employee.Name, model.ShiftWorkday)
		}
	}
	for _, e := range bc.employees {
		if e.City != model.CityMoscow || !e.OnDuty || assignedToday(e.Name) {
			continue
		}
		day.Assign(e.Name, model.ShiftDayOff)
	}

	// 7. 值班 WORKDAY 填充（哈巴罗夫斯克）
	for _, e := range bc.employees {
		if e.City != model.CityKhabarovsk || !e.OnDuty || assignedToday(e.Name) {
			continue
		}
		st := bc.states[e.Name]
		if !CanWork(e, st, date, bc.cal) {
			day.Assign(e.Name, model.ShiftDayOff)
			continue
		}
		if st.NeedsMoreWork(bc.remainingDays()) && !(e.ScheduleType == model.ScheduleFlexible && st.ConsecutiveOff == 1) &&
			!RestingAfterEvening(st) && !RestingAfterNight(st) {
			day.Assign(e.Name, model.ShiftWorkday)
		} else {
			day.Assign(e.Name, model.ShiftDayOff)
		}
	}

	// 8. 非值班分配
	for _, e := range bc.employees {
		if e.OnDuty || assignedToday(e.Name) {
			continue
		}
		if e.OnVacation(date) {
			day.Assign(e.Name, model.ShiftVacation)
			continue
		}
		if e.IsUnavailable(date) {
			day.Assign(e.Name, model.ShiftDayOff)
			continue
		}
		isBusinessDay := bc.cal.IsBusinessDay(date)
		if e.ScheduleType == model.ScheduleFlexible {
			isBusinessDay = true
		}
		if isBusinessDay {
			day.Assign(e.Name, model.ShiftWorkday)
		} else {
			day.Assign(e.Name, model.ShiftDayOff)
		}
	}

	// 9. 反孤立休息覆盖
	for _, name := range append([]string{}, day.DayOff...) {
		e := bc.byName[name]
		st := bc.states[name]
		if e == nil || st == nil {
			continue
		}
		if st.ConsecutiveOff >= MaxConsecutiveOff(e) && CanWork(e, st, date, bc.cal) && !RestingAfterEvening(st) &&
			(st.NeedsMoreWork(bc.remainingDays()) || e.ScheduleType == model.ScheduleFlexible) && !isHoliday {
			day.SetShift(name, model.ShiftWorkday)
		}
	}

	// 10. 反短工作覆盖
	for _, name := range append([]string{}, day.DayOff...) {
		e := bc.byName[name]
		st := bc.states[name]
		if e == nil || st == nil || e.ScheduleType != model.ScheduleFlexible {
			continue
		}
		if st.ConsecutiveWorking > 0 && st.ConsecutiveWorking < MinWorkBetweenOffs {
			day.SetShift(name, model.ShiftWorkday)
		}
	}

	// 11. 提交：更新全部员工状态
	for _, e := range bc.employees {
		shift, ok := day.ShiftOf(e.Name)
		if !ok {
			continue
		}
		bc.states[e.Name].Record(shift)
	}

	return day, nil
}

// candidatesFor 返回给定城市中满足 filter 的候选列表
func (bc *buildContext) candidatesFor(_ string, _ *model.DaySchedule, city model.City, filter func(*model.Employee, *model.EmployeeState) bool) []candidate {
	var out []candidate
	for _, e := range bc.employees {
		if e.City != city {
			continue
		}
		st := bc.states[e.Name]
		if filter(e, st) {
			out = append(out, candidate{employee: e, state: st})
		}
	}
	return out
}

// nextDate 返回调度范围内的下一个日期，超出范围返回空字符串
func (bc *buildContext) nextDate(date string) string {
	if bc.dateIdx+1 >= len(bc.allDates) {
		return ""
	}
	return bc.allDates[bc.dateIdx+1]
}

// enoughCoverageTomorrow 近似判断：若把 exclude 从明天的可用候选池
// 中去掉，莫斯科值班人数是否仍 >= 4 且至少一名晚班可用人选，避免
// 今天贪婪填满工作日而导致明天（节假日）覆盖不足。
func (bc *buildContext) enoughCoverageTomorrow(_ *model.DaySchedule, exclude string, tomorrow string) bool {
	moscowDuty := 0
	eveningCapable := 0
	for _, e := range bc.employees {
		if e.City != model.CityMoscow || !e.OnDuty || e.Name == exclude {
			continue
		}
		st := bc.states[e.Name]
		if !CanWork(e, st, tomorrow, bc.cal) {
			continue
		}
		moscowDuty++
		if !e.MorningOnly {
			eveningCapable++
		}
	}
	return moscowDuty >= 4 && eveningCapable >= 1
}
