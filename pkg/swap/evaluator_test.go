package swap

import (
	"testing"

	"github.com/rosterops/roster/pkg/model"
)

func buildSwapTestSchedule() *model.Schedule {
	ivanov := &model.Employee{Name: "Ivanov", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	petrov := &model.Employee{Name: "Petrov", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	smirnov := &model.Employee{Name: "Smirnov", City: model.CityKhabarovsk, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	kozlov := &model.Employee{Name: "Kozlov", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible}
	popov := &model.Employee{Name: "Popov", City: model.CityKhabarovsk, OnDuty: true, ScheduleType: model.ScheduleFlexible}

	cfg := model.Config{Employees: []*model.Employee{ivanov, petrov, smirnov, kozlov, popov}}
	s := model.NewSchedule(cfg, nil)

	d1 := model.NewDaySchedule("2026-03-01", false)
	d1.Assign("Ivanov", model.ShiftMorning)
	d1.Assign("Petrov", model.ShiftWorkday)
	d1.Assign("Smirnov", model.ShiftNight)
	d1.Assign("Kozlov", model.ShiftEvening)
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

func TestEvaluator_Propose_Accepted(t *testing.T) {
	s := buildSwapTestSchedule()
	e := NewEvaluator()

	ok := e.Propose(s, Cell{Date: "2026-03-01", Employee: "Petrov"}, model.ShiftDayOff)
	if !ok {
		t.Fatal("合法的单点提议应被接受")
	}
	shift, _ := s.DayByDate("2026-03-01").ShiftOf("Petrov")
	if shift != model.ShiftDayOff {
		t.Errorf("提议接受后 Petrov 的班次 = %s, want DAY_OFF", shift)
	}
}

func TestEvaluator_Propose_RejectedAndRolledBack(t *testing.T) {
	s := buildSwapTestSchedule()
	e := NewEvaluator()

	// 把莫斯科早班分配给哈巴罗夫斯克员工，违反城市不变量
	ok := e.Propose(s, Cell{Date: "2026-03-01", Employee: "Smirnov"}, model.ShiftMorning)
	if ok {
		t.Fatal("违反城市不变量的提议不应被接受")
	}

	shift, _ := s.DayByDate("2026-03-01").ShiftOf("Smirnov")
	if shift != model.ShiftNight {
		t.Errorf("被拒绝后应回滚为原班次 NIGHT, got %s", shift)
	}
}

func TestEvaluator_Propose_Pinned(t *testing.T) {
	s := buildSwapTestSchedule()
	s.Config.Pins = []model.Pin{{Date: "2026-03-01", Employee: "Petrov", Shift: model.ShiftWorkday}}

	e := NewEvaluator()
	ok := e.Propose(s, Cell{Date: "2026-03-01", Employee: "Petrov"}, model.ShiftDayOff)
	if ok {
		t.Error("被 pin 锁定的单元格不应接受任何提议")
	}
}

func TestEvaluator_ProposeSwap_Accepted(t *testing.T) {
	s := buildSwapTestSchedule()
	e := NewEvaluator()

	// 把 Petrov 的休息日从第二天挪到第一天
	ok := e.ProposeSwap(s,
		Cell{Date: "2026-03-01", Employee: "Petrov"}, model.ShiftDayOff,
		Cell{Date: "2026-03-02", Employee: "Petrov"}, model.ShiftWorkday,
	)
	if !ok {
		t.Fatal("合法的两点交换应被接受")
	}

	d1Shift, _ := s.DayByDate("2026-03-01").ShiftOf("Petrov")
	d2Shift, _ := s.DayByDate("2026-03-02").ShiftOf("Petrov")
	if d1Shift != model.ShiftDayOff || d2Shift != model.ShiftWorkday {
		t.Errorf("交换后 Petrov = (%s, %s), want (DAY_OFF, WORKDAY)", d1Shift, d2Shift)
	}
}
