package postprocess

import (
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/swap"
)

// Run 执行固定顺序的十二步流水线（§4.4）。顺序本身是规范的一部分：
// trim_long_off_blocks 之后短暂偏离 target 是预期行为，由第二次
// target_adjustment_pass 收敛，调整顺序会让总工作量偏差留存下来，
// 见 §9 的第二条开放问题决定。每一步都只在提议的交换通过
// swap.Evaluator 的全量不变量模拟后才会落地，流水线本身从不直接
// 判定合法性。
func Run(schedule *model.Schedule, cal *calendar.ProductionCalendar) {
	ev := swap.NewEvaluator()

	states := RecomputeStates(schedule, cal)
	balanceWeekendWork(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	balanceDutyShifts(schedule, states, ev)

	states = RecomputeStates(schedule, cal)
	targetAdjustmentPass(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	trimLongOffBlocks(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	targetAdjustmentPass(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	minimizeIsolatedOff(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	breakEveningIsolatedPattern(schedule, states, ev)

	states = RecomputeStates(schedule, cal)
	minimizeIsolatedOff(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	equalizeIsolatedOff(schedule, cal, states, ev)

	states = RecomputeStates(schedule, cal)
	minimizeIsolatedOff(schedule, cal, states, ev)
}
