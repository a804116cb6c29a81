// Package swap 提供月度排班后处理阶段通用的"提议-模拟-接受"换班
// 机制，供十二个后处理遍次共享，避免每个遍次各自实现一套合法性
// 判断。
package swap

import (
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/validator"
)

// Cell 标识排班表中的一个 (日期, 员工) 坐标
type Cell struct {
	Date     string
	Employee string
}

// Evaluator 换班评估器：所有后处理遍次复用同一个 InvariantChecker
// 作为唯一的合法性判定来源。
type Evaluator struct {
	checker *validator.InvariantChecker
}

// NewEvaluator 创建换班评估器
func NewEvaluator() *Evaluator {
	return &Evaluator{checker: validator.NewInvariantChecker()}
}

// Pinned 检查给定坐标是否被 pin 锁定，被锁定的单元格不可参与任何交换
func Pinned(schedule *model.Schedule, cell Cell) bool {
	for _, pin := range schedule.Config.Pins {
		if pin.Date == cell.Date && pin.Employee == cell.Employee {
			return true
		}
	}
	return false
}

// Propose 尝试把单个单元格改为 newShift：先应用变更，再用
// InvariantChecker 模拟校验，不合法则整体回滚。返回是否被接受。
func (e *Evaluator) Propose(schedule *model.Schedule, cell Cell, newShift model.ShiftType) bool {
	if Pinned(schedule, cell) {
		return false
	}

	day := schedule.DayByDate(cell.Date)
	if day == nil {
		return false
	}

	before := *day
	day.SetShift(cell.Employee, newShift)

	if e.checker.IsLegal(schedule) {
		return true
	}

	*day = before
	return false
}

// ProposeSwap 尝试在两个坐标之间互换班次（cell.Employee 在 shiftA
// 上、other.Employee 在 shiftB 上，交换后变为相反），典型用于同一
// 天两名员工之间互换，或同一员工两天之间的搬移。不合法则整体回滚。
func (e *Evaluator) ProposeSwap(schedule *model.Schedule, a Cell, shiftA model.ShiftType, b Cell, shiftB model.ShiftType) bool {
	if Pinned(schedule, a) || Pinned(schedule, b) {
		return false
	}

	dayA := schedule.DayByDate(a.Date)
	dayB := schedule.DayByDate(b.Date)
	if dayA == nil || dayB == nil {
		return false
	}

	beforeA := *dayA
	// 同一天时需要在同一份快照上操作，避免用过期快照覆盖彼此的修改
	sameDay := a.Date == b.Date
	var beforeB model.DaySchedule
	if !sameDay {
		beforeB = *dayB
	}

	dayA.SetShift(a.Employee, shiftA)
	dayB.SetShift(b.Employee, shiftB)

	if e.checker.IsLegal(schedule) {
		return true
	}

	*dayA = beforeA
	if !sameDay {
		*dayB = beforeB
	}
	return false
}
