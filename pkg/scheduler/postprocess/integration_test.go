package postprocess_test

import (
	"testing"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/scheduler"
	"github.com/rosterops/roster/pkg/validator"
)

// buildTestRoster 构造一个满足 checkRosterPreconditions 的最小人员
// 配置：4 名莫斯科值班员工（含一名仅早班、一名仅晚班）、2 名哈巴罗
// 夫斯克值班员工，外加若干普通 WORKDAY 员工撑满覆盖。
func buildTestRoster() []*model.Employee {
	employees := []*model.Employee{
		model.NewEmployee("莫罗佐夫", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("科兹洛夫", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("索科洛娃", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("伊万诺夫", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("彼得罗夫", model.CityKhabarovsk, model.ScheduleFlexible),
		model.NewEmployee("西多罗夫", model.CityKhabarovsk, model.ScheduleFlexible),
		model.NewEmployee("库兹涅佐娃", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("沃尔科夫", model.CityMoscow, model.ScheduleFlexible),
	}
	for _, e := range employees[:6] {
		e.OnDuty = true
	}
	employees[2].MorningOnly = true // 索科洛娃仅早班
	employees[3].EveningOnly = true // 伊万诺夫仅晚班
	for _, e := range employees {
		e.Compile()
	}
	return employees
}

func TestPipelinePreservesLegality(t *testing.T) {
	cfg := model.Config{
		Year:      2026,
		Month:     3,
		Seed:      42,
		Employees: buildTestRoster(),
	}

	schedule, err := scheduler.GenerateSchedule(cfg, nil)
	if err != nil {
		t.Fatalf("GenerateSchedule() 失败: %v", err)
	}

	checker := validator.NewInvariantChecker()
	if violations := checker.Check(schedule); len(violations) > 0 {
		t.Fatalf("后处理流水线结束后仍存在 %d 条不变量违反: %+v", len(violations), violations)
	}

	if len(schedule.Days) != len(calendar.DaysInMonth(2026, 3)) {
		t.Errorf("生成的天数 = %d, want %d", len(schedule.Days), len(calendar.DaysInMonth(2026, 3)))
	}
}

func TestPipelineRespectsPins(t *testing.T) {
	employees := buildTestRoster()
	cfg := model.Config{
		Year:      2026,
		Month:     3,
		Seed:      7,
		Employees: employees,
		Pins: []model.Pin{
			{Date: "2026-03-10", Employee: "彼得罗夫", Shift: model.ShiftNight},
		},
	}

	schedule, err := scheduler.GenerateSchedule(cfg, nil)
	if err != nil {
		t.Fatalf("GenerateSchedule() 失败: %v", err)
	}

	day := schedule.DayByDate("2026-03-10")
	if day == nil {
		t.Fatal("找不到 2026-03-10")
	}
	shift, ok := day.ShiftOf("彼得罗夫")
	if !ok || shift != model.ShiftNight {
		t.Errorf("被 pin 的班次在后处理后改变了: got %v, want NIGHT", shift)
	}
}
