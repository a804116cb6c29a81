package model

// EmployeeState 是每个员工在单次 generate_schedule 调用期间持有的
// 可变运行计数器，记录截至目前的班次历史，决定下一天允许做什么。
type EmployeeState struct {
	ConsecutiveWorking int
	ConsecutiveOff     int
	LastShift          ShiftType

	TotalWorking       int
	TargetWorkingDays  int
	VacationDays       int

	CountNight   int
	CountMorning int
	CountEvening int
	CountWorkday int
}

// NewEmployeeState 构造一个员工状态，effective target 由调用方在
// 生成前根据工作量百分比与假期天数算好传入。
func NewEmployeeState(targetWorkingDays, vacationDays int) *EmployeeState {
	return &EmployeeState{
		TargetWorkingDays: targetWorkingDays,
		VacationDays:      vacationDays,
	}
}

// Snapshot 返回当前状态的一份值拷贝，用于回溯前保存
func (s *EmployeeState) Snapshot() EmployeeState {
	return *s
}

// Restore 将状态恢复为给定的快照
func (s *EmployeeState) Restore(snap EmployeeState) {
	*s = snap
}

// EffectiveTarget 返回 target_working_days 减去 vacation_days
func (s *EmployeeState) EffectiveTarget() int {
	t := s.TargetWorkingDays - s.VacationDays
	if t < 0 {
		return 0
	}
	return t
}

// NeedsMoreWork 检查在剩余天数内员工是否仍然欠缺工作量
func (s *EmployeeState) NeedsMoreWork(remainingDays int) bool {
	return s.TotalWorking < s.EffectiveTarget() && remainingDays > 0
}

// Urgency 返回 select_by_urgency 使用的紧迫度：
// (effective_target - total_working) / max(remaining_days, 1)
func (s *EmployeeState) Urgency(remainingDays int) float64 {
	if remainingDays < 1 {
		remainingDays = 1
	}
	return float64(s.EffectiveTarget()-s.TotalWorking) / float64(remainingDays)
}

// Count 返回给定班次类型截至目前的累计次数，非计数类班次返回 0
func (s *EmployeeState) Count(shift ShiftType) int {
	switch shift {
	case ShiftNight:
		return s.CountNight
	case ShiftMorning:
		return s.CountMorning
	case ShiftEvening:
		return s.CountEvening
	case ShiftWorkday:
		return s.CountWorkday
	default:
		return 0
	}
}

// Record 记录一次班次分配：更新计数器并按休息规则重置/递增连续天数
func (s *EmployeeState) Record(shift ShiftType) {
	switch shift {
	case ShiftNight:
		s.CountNight++
		s.TotalWorking++
	case ShiftMorning:
		s.CountMorning++
		s.TotalWorking++
	case ShiftEvening:
		s.CountEvening++
		s.TotalWorking++
	case ShiftWorkday:
		s.CountWorkday++
		s.TotalWorking++
	}

	if shift.IsDuty() || shift == ShiftWorkday {
		s.ConsecutiveWorking++
		s.ConsecutiveOff = 0
	} else {
		s.ConsecutiveOff++
		s.ConsecutiveWorking = 0
	}

	s.LastShift = shift
}
