package validator

import (
	"testing"

	"github.com/rosterops/roster/pkg/model"
)

func buildTestSchedule() *model.Schedule {
	ivanov := &model.Employee{Name: "Ivanov", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	petrov := &model.Employee{Name: "Petrov", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	smirnov := &model.Employee{Name: "Smirnov", City: model.CityKhabarovsk, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	kozlov := &model.Employee{Name: "Kozlov", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	popov := &model.Employee{Name: "Popov", City: model.CityKhabarovsk, OnDuty: true, ScheduleType: model.ScheduleFlexible}

	cfg := model.Config{Employees: []*model.Employee{ivanov, petrov, smirnov, kozlov, popov}}
	s := model.NewSchedule(cfg, nil)

	d1 := model.NewDaySchedule("2026-03-01", false)
	d1.Assign("Ivanov", model.ShiftMorning)
	d1.Assign("Petrov", model.ShiftEvening)
	d1.Assign("Smirnov", model.ShiftNight)
	d1.Assign("Kozlov", model.ShiftWorkday)
	d1.Assign("Popov", model.ShiftDayOff)

	d2 := model.NewDaySchedule("2026-03-02", false)
	d2.Assign("Ivanov", model.ShiftMorning)
	d2.Assign("Petrov", model.ShiftDayOff)
	d2.Assign("Smirnov", model.ShiftDayOff)
	d2.Assign("Kozlov", model.ShiftEvening)
	d2.Assign("Popov", model.ShiftNight)

	s.Days = []*model.DaySchedule{d1, d2}
	return s
}

func TestInvariantChecker_Check_空无违反(t *testing.T) {
	checker := NewInvariantChecker()
	s := buildTestSchedule()

	violations := checker.Check(s)
	if len(violations) != 0 {
		t.Errorf("期望无违反项, got %v", violations)
	}
}

func TestInvariantChecker_checkCoverageAndCity(t *testing.T) {
	s := buildTestSchedule()
	s.Days[0].Night = []string{"Smirnov", "Ivanov"} // 制造覆盖违反

	checker := NewInvariantChecker()
	violations := checker.Check(s)

	found := false
	for _, v := range violations {
		if v.Type == ViolationCoverage {
			found = true
		}
	}
	if !found {
		t.Error("期望检测到覆盖违反")
	}
}

func TestInvariantChecker_checkRestRules_晚班次日早班违规(t *testing.T) {
	s := buildTestSchedule()
	s.Days[1].SetShift("Petrov", model.ShiftMorning) // Petrov 晚班次日排早班

	checker := NewInvariantChecker()
	violations := checker.Check(s)

	found := false
	for _, v := range violations {
		if v.Type == ViolationRestAfterEvening {
			found = true
		}
	}
	if !found {
		t.Error("期望检测到晚班休息规则违反")
	}
}

func TestInvariantChecker_checkPins(t *testing.T) {
	s := buildTestSchedule()
	s.Config.Pins = []model.Pin{{Date: "2026-03-01", Employee: "Ivanov", Shift: model.ShiftNight}}

	checker := NewInvariantChecker()
	violations := checker.Check(s)

	found := false
	for _, v := range violations {
		if v.Type == ViolationPinMismatch {
			found = true
		}
	}
	if !found {
		t.Error("期望检测到 pin 不匹配")
	}
}

func TestInvariantChecker_IsLegal(t *testing.T) {
	checker := NewInvariantChecker()
	s := buildTestSchedule()

	if !checker.IsLegal(s) {
		t.Error("合法排班表应返回 true")
	}

	s.Days[0].Night = append(s.Days[0].Night, "Ivanov")
	if checker.IsLegal(s) {
		t.Error("非法排班表应返回 false")
	}
}
