// Package postprocess 实现 §4.4 的十二步后处理流水线：在贪心阶段
// 产出一份合法但未必公平的排班表之后，这里的每个遍次都以
// "提议 -> 模拟 -> 接受或拒绝" 的方式调整个别单元格，借助
// pkg/swap 共享的同一个不变量检查器作为唯一合法性来源，从不自行
// 判定一次交换是否破坏硬约束。
package postprocess

import (
	"sort"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
)

// MinWorkBetweenOffs 是两个休息日之间要求的最短工作天数，与贪心
// 阶段 (pkg/scheduler.MinWorkBetweenOffs) 取相同的值；在这里重新
// 声明是为了不让本包反向依赖 pkg/scheduler（它依赖本包驱动流水线），
// 避免循环导入。
const MinWorkBetweenOffs = 3

// InitialStates 按 §3 的公式为整月排班构造初始 EmployeeState 集合：
// target_working_days = 生产日历工作日数 * workload_pct / 100，
// vacation_days 为本月落在假期区间内的天数。供贪心阶段构造起始状态，
// 以及本包在每个改变了分配的遍次之后重放状态时复用同一套公式。
func InitialStates(employees []*model.Employee, cal *calendar.ProductionCalendar, dates []string) map[string]*model.EmployeeState {
	businessDays := 0
	for _, d := range dates {
		if cal.IsBusinessDay(d) {
			businessDays++
		}
	}

	states := make(map[string]*model.EmployeeState, len(employees))
	for _, e := range employees {
		vacationDays := 0
		for _, d := range dates {
			if e.OnVacation(d) {
				vacationDays++
			}
		}
		target := businessDays * e.WorkloadPct / 100
		states[e.Name] = model.NewEmployeeState(target, vacationDays)
	}
	return states
}

// RecomputeStates 从一张已提交的 Schedule 重放出每个员工的运行状态：
// target/vacation_days 保持不变，但 consecutive_working/off、
// last_shift 与各班次计数器按日期顺序重放 schedule.Days 的实际分配
// 重新计算。流水线在每个改变了分配的阶段之后调用它，保证后续遍次
// 看到的状态与排班表一致。
func RecomputeStates(schedule *model.Schedule, cal *calendar.ProductionCalendar) map[string]*model.EmployeeState {
	dates := make([]string, len(schedule.Days))
	for i, d := range schedule.Days {
		dates[i] = d.Date
	}

	states := InitialStates(schedule.Config.Employees, cal, dates)
	for _, co := range schedule.Config.CarryOvers {
		if st, ok := states[co.Employee]; ok {
			st.ConsecutiveWorking = co.ConsecutiveWorking
			st.ConsecutiveOff = co.ConsecutiveOff
			st.LastShift = co.LastShift
		}
	}

	for _, day := range schedule.Days {
		for _, e := range schedule.Config.Employees {
			shift, ok := day.ShiftOf(e.Name)
			if !ok {
				continue
			}
			states[e.Name].Record(shift)
		}
	}
	return states
}

// sortedEmployees 返回按姓名升序排列的员工切片，让遍次在 map 迭代
// 顺序无法保证确定性的地方也能取得稳定的遍历顺序。
func sortedEmployees(employees []*model.Employee) []*model.Employee {
	out := make([]*model.Employee, len(employees))
	copy(out, employees)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// isolatedOff 检查员工在给定索引处是否持有一个"孤立休息日"：当天为
// DAY_OFF，且月历内两侧相邻日都在工作（IsDuty 或 WORKDAY）。位于月
// 首/月末、只有一侧邻居的日子按该侧判断。
func isolatedOff(shifts []model.ShiftType, idx int) bool {
	if shifts[idx] != model.ShiftDayOff {
		return false
	}
	workingBefore := idx == 0 || isWorking(shifts[idx-1])
	workingAfter := idx == len(shifts)-1 || isWorking(shifts[idx+1])
	return workingBefore && workingAfter
}

func isWorking(s model.ShiftType) bool {
	return s.IsDuty() || s == model.ShiftWorkday
}

// employeeShiftSeries 返回员工在 schedule.Days 上逐日的班次序列，
// 未分配（不应发生，但稳妥起见）的日子记为 DAY_OFF。
func employeeShiftSeries(schedule *model.Schedule, name string) []model.ShiftType {
	out := make([]model.ShiftType, len(schedule.Days))
	for i, day := range schedule.Days {
		shift, ok := day.ShiftOf(name)
		if !ok {
			shift = model.ShiftDayOff
		}
		out[i] = shift
	}
	return out
}

// countIsolated 统计员工在整月中孤立休息日的个数
func countIsolated(schedule *model.Schedule, name string) int {
	series := employeeShiftSeries(schedule, name)
	count := 0
	for i := range series {
		if isolatedOff(series, i) {
			count++
		}
	}
	return count
}
