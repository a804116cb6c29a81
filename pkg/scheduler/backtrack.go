package scheduler

import (
	"fmt"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/errors"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/rng"
	"github.com/rosterops/roster/pkg/scheduler/postprocess"
)

// GenerateSchedule 构建整月排班表：校验人员配置与 pin 后，逐日调用
// build_day，遇到覆盖不足时沿一个显式快照栈回溯（从不使用递归），
// 在最多 MaxBacktrackAttempts 次重试后仍不可行则报告 ScheduleInfeasible。
func GenerateSchedule(cfg model.Config, holidays []string) (*model.Schedule, error) {
	for _, e := range cfg.Employees {
		e.Compile()
		if err := e.Validate(); err != nil {
			return nil, errors.InvalidRoster(fmt.Sprintf("employee %s: %v", e.Name, err))
		}
	}

	if err := checkRosterPreconditions(cfg.Employees); err != nil {
		return nil, err
	}

	cal := calendar.New(cfg.Year, cfg.Month, holidays)
	dates := calendar.DaysInMonth(cfg.Year, cfg.Month)

	pinsForDate := make(map[string][]model.Pin)
	byName := make(map[string]*model.Employee, len(cfg.Employees))
	for _, e := range cfg.Employees {
		byName[e.Name] = e
	}
	for _, pin := range cfg.Pins {
		emp, ok := byName[pin.Employee]
		if !ok {
			return nil, errors.InvalidPin(pin.Date, pin.Employee, "未知员工")
		}
		if err := validatePinShift(emp, pin.Shift); err != nil {
			return nil, errors.InvalidPin(pin.Date, pin.Employee, err.Error())
		}
		pinsForDate[pin.Date] = append(pinsForDate[pin.Date], pin)
	}

	states := postprocess.InitialStates(cfg.Employees, cal, dates)
	for _, co := range cfg.CarryOvers {
		st, ok := states[co.Employee]
		if !ok {
			continue
		}
		st.ConsecutiveWorking = co.ConsecutiveWorking
		st.ConsecutiveOff = co.ConsecutiveOff
		st.LastShift = co.LastShift
	}

	bc := &buildContext{
		employees:   cfg.Employees,
		byName:      byName,
		states:      states,
		cal:         cal,
		r:           rng.New(cfg.Seed),
		allDates:    dates,
		pinsForDate: pinsForDate,
	}

	var built []*model.DaySchedule
	var snaps []map[string]model.EmployeeState
	initialSnap := snapshotStates(states)
	attempts := 0
	dayIdx := 0

	for dayIdx < len(dates) {
		bc.dateIdx = dayIdx
		day, err := buildDay(bc, dates[dayIdx])
		if err != nil {
			attempts++
			if attempts > MaxBacktrackAttempts {
				return nil, errors.ScheduleInfeasible(dates[dayIdx], "", "超出最大回溯次数仍无法满足覆盖要求")
			}

			unwind := MaxBacktrackDays
			if unwind > len(built) {
				unwind = len(built)
			}
			newLen := len(built) - unwind
			if newLen == 0 {
				restoreStates(states, initialSnap)
			} else {
				restoreStates(states, snaps[newLen-1])
			}
			built = built[:newLen]
			snaps = snaps[:newLen]
			dayIdx = newLen
			bc.r.Reseed(rng.BacktrackSeed(cfg.Seed, attempts, dayIdx))
			continue
		}

		snaps = append(snaps, snapshotStates(states))
		built = append(built, day)
		dayIdx++
	}

	schedule := model.NewSchedule(cfg, holidays)
	schedule.Days = built

	postprocess.Run(schedule, cal)

	return schedule, nil
}

func snapshotStates(states map[string]*model.EmployeeState) map[string]model.EmployeeState {
	out := make(map[string]model.EmployeeState, len(states))
	for name, st := range states {
		out[name] = st.Snapshot()
	}
	return out
}

func restoreStates(states map[string]*model.EmployeeState, snap map[string]model.EmployeeState) {
	for name, s := range snap {
		if st, ok := states[name]; ok {
			st.Restore(s)
		}
	}
}

// checkRosterPreconditions 校验人员配置在结构上足以覆盖每日强制班次：
// 莫斯科至少 4 名值班且含至少一名可早班、一名可晚班者；哈巴罗夫斯克
// 至少 2 名值班。
func checkRosterPreconditions(employees []*model.Employee) error {
	moscowDuty, morningCapable, eveningCapable, khabarovskDuty := 0, 0, 0, 0
	for _, e := range employees {
		if !e.OnDuty {
			continue
		}
		switch e.City {
		case model.CityMoscow:
			moscowDuty++
			if !e.EveningOnly {
				morningCapable++
			}
			if !e.MorningOnly {
				eveningCapable++
			}
		case model.CityKhabarovsk:
			khabarovskDuty++
		}
	}
	if moscowDuty < 4 || morningCapable < 1 || eveningCapable < 1 {
		return errors.InvalidRoster("莫斯科值班人员不足：需要至少 4 人，且含可早班与可晚班各一名")
	}
	if khabarovskDuty < 2 {
		return errors.InvalidRoster("哈巴罗夫斯克值班人员不足：需要至少 2 人")
	}
	return nil
}

// validatePinShift 校验一个 pin 的班次与员工所在城市/限制是否兼容
func validatePinShift(e *model.Employee, shift model.ShiftType) error {
	switch shift {
	case model.ShiftNight:
		if e.City != model.CityKhabarovsk {
			return fmt.Errorf("夜班只能分配给哈巴罗夫斯克员工")
		}
	case model.ShiftMorning:
		if e.City != model.CityMoscow {
			return fmt.Errorf("早班只能分配给莫斯科员工")
		}
		if e.EveningOnly {
			return fmt.Errorf("该员工仅限晚班，不能 pin 为早班")
		}
	case model.ShiftEvening:
		if e.City != model.CityMoscow {
			return fmt.Errorf("晚班只能分配给莫斯科员工")
		}
		if e.MorningOnly {
			return fmt.Errorf("该员工仅限早班，不能 pin 为晚班")
		}
	}
	return nil
}
