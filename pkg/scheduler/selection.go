package scheduler

import (
	"sort"

	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/rng"
)

// candidate 把一个员工与其运行状态捆在一起，供排序/选择函数使用
type candidate struct {
	employee *model.Employee
	state    *model.EmployeeState
}

// SelectFair 按 state.count[shift] 升序排序，preferred_shift 匹配者
// 优先，其余通过 RNG 打乱决定相对顺序，取前 count 名。
func SelectFair(candidates []candidate, shift model.ShiftType, count int, r *rng.RNG) []candidate {
	pool := make([]candidate, len(candidates))
	copy(pool, candidates)

	r.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	sort.SliceStable(pool, func(i, j int) bool {
		ci, cj := pool[i].state.Count(shift), pool[j].state.Count(shift)
		if ci != cj {
			return ci < cj
		}
		pi := pool[i].employee.PreferredShift == shift
		pj := pool[j].employee.PreferredShift == shift
		if pi != pj {
			return pi
		}
		return false
	})

	if count >= len(pool) {
		return pool
	}
	return pool[:count]
}

// SelectForMandatory 把候选池划分为"仍欠工作量"与其余两部分；若
// 欠工作量的一部分人数足够，优先从中用 SelectFair 选取，否则退回
// 整个候选池。
func SelectForMandatory(candidates []candidate, shift model.ShiftType, remainingDays, count int, r *rng.RNG) []candidate {
	var needy []candidate
	for _, c := range candidates {
		if c.state.NeedsMoreWork(remainingDays) {
			needy = append(needy, c)
		}
	}
	if len(needy) >= count {
		return SelectFair(needy, shift, count, r)
	}
	return SelectFair(candidates, shift, count, r)
}

// SelectByUrgency 按紧迫度 (effective_target - total_working) /
// max(remaining_days, 1) 降序排序
func SelectByUrgency(candidates []candidate, remainingDays int) []candidate {
	pool := make([]candidate, len(candidates))
	copy(pool, candidates)

	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].state.Urgency(remainingDays) > pool[j].state.Urgency(remainingDays)
	})
	return pool
}
