package model

import "time"

// EligibilityProfile 是排班资格的封闭求和类型，在构造时由
// morning_only / evening_only / always_on_duty 编译而来，取代逐一
// 重复判断三个布尔值。
type EligibilityProfile int

const (
	AnyShift EligibilityProfile = iota
	MorningOnly
	EveningOnly
	DutyOnlyAlways
)

// Employee 员工（构造后不可变）
type Employee struct {
	BaseModel
	Name          string       `json:"name" db:"name"`
	City          City         `json:"city" db:"city"`
	ScheduleType  ScheduleType `json:"schedule_type" db:"schedule_type"`
	OnDuty        bool         `json:"on_duty" db:"on_duty"`
	AlwaysOnDuty  bool         `json:"always_on_duty" db:"always_on_duty"`   // 仅 MOSCOW
	MorningOnly   bool         `json:"morning_only" db:"morning_only"`       // 与 EveningOnly 互斥
	EveningOnly   bool         `json:"evening_only" db:"evening_only"`       // 与 MorningOnly 互斥
	Vacations     []DateRange  `json:"vacations,omitempty" db:"vacations"`   // 有序、互不重叠
	Unavailable   []string     `json:"unavailable_dates,omitempty" db:"unavailable_dates"`
	MaxMorning    *int         `json:"max_morning_shifts,omitempty" db:"max_morning_shifts"`
	MaxEvening    *int         `json:"max_evening_shifts,omitempty" db:"max_evening_shifts"`
	MaxNight      *int         `json:"max_night_shifts,omitempty" db:"max_night_shifts"`
	PreferredShift ShiftType   `json:"preferred_shift,omitempty" db:"preferred_shift"`
	WorkloadPct   int          `json:"workload_pct" db:"workload_pct"` // [1,100]
	DaysOffWeekly []time.Weekday `json:"days_off_weekly,omitempty" db:"days_off_weekly"`
	MaxConsecutiveWorking *int `json:"max_consecutive_working,omitempty" db:"max_consecutive_working"`
	Group         string       `json:"group,omitempty" db:"group"`

	profile EligibilityProfile
}

// NewEmployee 构造员工并编译其 EligibilityProfile
func NewEmployee(name string, city City, scheduleType ScheduleType) *Employee {
	e := &Employee{
		BaseModel:    NewBaseModel(),
		Name:         name,
		City:         city,
		ScheduleType: scheduleType,
		WorkloadPct:  100,
	}
	e.Compile()
	return e
}

// Compile 依据三个公开标志重新计算内部的 EligibilityProfile，构造
// 或反序列化之后必须调用一次。
func (e *Employee) Compile() {
	switch {
	case e.AlwaysOnDuty:
		e.profile = DutyOnlyAlways
	case e.MorningOnly:
		e.profile = MorningOnly
	case e.EveningOnly:
		e.profile = EveningOnly
	default:
		e.profile = AnyShift
	}
}

// Profile 返回已编译的 EligibilityProfile
func (e *Employee) Profile() EligibilityProfile {
	return e.profile
}

// DutyOnly 检查员工是否为值班员工且从不承担普通 WORKDAY
func (e *Employee) DutyOnly() bool {
	return e.OnDuty && (e.MorningOnly || e.EveningOnly || e.AlwaysOnDuty)
}

// Validate 检查不变量：morning_only 与 evening_only 不可同时为真；
// always_on_duty 仅限 MOSCOW；值班员工必须至少兼容一个强制班次。
func (e *Employee) Validate() error {
	if e.MorningOnly && e.EveningOnly {
		return ErrMutuallyExclusiveShiftRestriction
	}
	if e.AlwaysOnDuty && e.City != CityMoscow {
		return ErrAlwaysOnDutyNotMoscow
	}
	if e.OnDuty {
		compatibleWithNight := e.City == CityKhabarovsk
		compatibleWithMoscowDuty := e.City == CityMoscow && !(e.MorningOnly && e.EveningOnly)
		if !compatibleWithNight && !compatibleWithMoscowDuty {
			return ErrDutyEmployeeIncompatible
		}
	}
	return nil
}

// OnVacation 检查给定日期是否落在任一假期区间内
func (e *Employee) OnVacation(date string) bool {
	for _, vr := range e.Vacations {
		if vr.Contains(date) {
			return true
		}
	}
	return false
}

// IsUnavailable 检查给定日期是否在黑名单集合中
func (e *Employee) IsUnavailable(date string) bool {
	for _, d := range e.Unavailable {
		if d == date {
			return true
		}
	}
	return false
}

// HasWeeklyOff 检查给定星期是否属于员工的固定周休
func (e *Employee) HasWeeklyOff(wd time.Weekday) bool {
	for _, d := range e.DaysOffWeekly {
		if d == wd {
			return true
		}
	}
	return false
}

// MaxConsecutiveWork 返回贪心阶段允许的最大连续工作天数，默认 5，
// 上限固定为 5（max_cw）。
func (e *Employee) MaxConsecutiveWork() int {
	cw := 5
	if e.MaxConsecutiveWorking != nil && *e.MaxConsecutiveWorking < cw {
		cw = *e.MaxConsecutiveWorking
	}
	return cw
}

// MaxConsecutiveWorkPostprocess 返回后处理阶段允许的最大连续工作
// 天数（max_cw_postprocess）：FLEXIBLE 值班非 duty_only 员工为 6，
// 其余为 5。
func (e *Employee) MaxConsecutiveWorkPostprocess() int {
	if e.ScheduleType == ScheduleFlexible && e.OnDuty && !e.DutyOnly() {
		return 6
	}
	return 5
}

// MaxConsecutiveOff 返回允许的最大连续休息天数（max_co），固定为 3
func (e *Employee) MaxConsecutiveOff() int {
	return 3
}
