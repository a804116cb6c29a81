// Package scheduler 实现月度值班表生成的贪心构建与带回溯的
// 调度核心：候选资格判定、公平选择、逐日构建、回溯重试，以及驱动
// 十二步后处理流水线的编排函数。
package scheduler

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
)

// MinWorkBetweenOffs 是两个休息日之间要求的最短工作天数
const MinWorkBetweenOffs = 3

// MaxBacktrackDays 是一次回溯最多拆回的天数
const MaxBacktrackDays = 3

// MaxBacktrackAttempts 是总共允许的回溯次数，耗尽后判定为不可行。
// 默认值是算法本身的常量，但运行环境可以通过 SetMaxBacktrackAttempts
// 收紧或放宽它（例如长期运行的服务希望更快地对明显不可行的名单报错）。
var MaxBacktrackAttempts = 10

// SetMaxBacktrackAttempts 覆盖默认的回溯次数上限，n<=0 时不生效。
func SetMaxBacktrackAttempts(n int) {
	if n > 0 {
		MaxBacktrackAttempts = n
	}
}

// CanWork 判定员工在给定日期是否具备基本工作资格：不在假期/黑名单
// 内；尚未达到贪心阶段的最大连续工作天数；FIVE_TWO 员工只能在生产
// 日历的工作日工作；不在其固定周休内。
func CanWork(e *model.Employee, st *model.EmployeeState, date string, cal *calendar.ProductionCalendar) bool {
	if e.OnVacation(date) || e.IsUnavailable(date) {
		return false
	}
	if st.ConsecutiveWorking >= e.MaxConsecutiveWork() {
		return false
	}
	if e.ScheduleType == model.ScheduleFiveTwo && cal.IsNonWorking(date) {
		return false
	}
	if e.HasWeeklyOff(model.Weekday(date)) {
		return false
	}
	return true
}

// RestingAfterEvening 判定员工是否处于晚班之后的休息约束中
func RestingAfterEvening(st *model.EmployeeState) bool {
	return st.LastShift == model.ShiftEvening
}

// RestingAfterNight 判定员工是否处于夜班之后的强制休息中
func RestingAfterNight(st *model.EmployeeState) bool {
	return st.LastShift == model.ShiftNight
}

// DutyOnly 判定员工是否为值班专属员工（从不承担普通 WORKDAY）
func DutyOnly(e *model.Employee) bool {
	return e.DutyOnly()
}

// MaxConsecutiveWork 返回贪心阶段允许的最大连续工作天数（max_cw）
func MaxConsecutiveWork(e *model.Employee) int {
	return e.MaxConsecutiveWork()
}

// MaxConsecutiveWorkPostprocess 返回后处理阶段允许的最大连续工作
// 天数（max_cw_postprocess）
func MaxConsecutiveWorkPostprocess(e *model.Employee) int {
	return e.MaxConsecutiveWorkPostprocess()
}

// MaxConsecutiveOff 返回允许的最大连续休息天数（max_co），恒为 3
func MaxConsecutiveOff(e *model.Employee) int {
	return e.MaxConsecutiveOff()
}

// ShiftCapReached 检查员工是否已达到某个强制班次的月度上限
func ShiftCapReached(e *model.Employee, st *model.EmployeeState, shift model.ShiftType) bool {
	switch shift {
	case model.ShiftMorning:
		return e.MaxMorning != nil && st.CountMorning >= *e.MaxMorning
	case model.ShiftEvening:
		return e.MaxEvening != nil && st.CountEvening >= *e.MaxEvening
	case model.ShiftNight:
		return e.MaxNight != nil && st.CountNight >= *e.MaxNight
	default:
		return false
	}
}

// GroupUsedToday 检查今天是否已有该员工所在分组的成员被分配
func GroupUsedToday(e *model.Employee, day *model.DaySchedule, employees map[string]*model.Employee) bool {
	if e.Group == "" {
		return false
	}
	for _, list := range [][]string{day.Morning, day.Evening, day.Night, day.Workday} {
		for _, name := range list {
			if other := employees[name]; other != nil && other.Group == e.Group && other.Name != e.Name {
				return true
			}
		}
	}
	return false
}
