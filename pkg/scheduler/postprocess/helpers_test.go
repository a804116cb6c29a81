package postprocess

import (
	"testing"

	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/model"
)

func TestIsolatedOff(t *testing.T) {
	w := model.ShiftWorkday
	o := model.ShiftDayOff
	ev := model.ShiftEvening

	tests := []struct {
		name   string
		series []model.ShiftType
		idx    int
		want   bool
	}{
		{"两侧都在工作，孤立", []model.ShiftType{w, o, w}, 1, true},
		{"前一天也休息，不孤立", []model.ShiftType{o, o, w}, 1, false},
		{"后一天也休息，不孤立", []model.ShiftType{w, o, o}, 1, false},
		{"月初只看后一天", []model.ShiftType{o, w}, 0, true},
		{"月末只看前一天", []model.ShiftType{w, o}, 1, true},
		{"EVENING 算作工作", []model.ShiftType{ev, o, w}, 1, true},
		{"当天不是休息日，不算孤立", []model.ShiftType{w, w, w}, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isolatedOff(tt.series, tt.idx); got != tt.want {
				t.Errorf("isolatedOff() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWorkRunBeforeAfter(t *testing.T) {
	w := model.ShiftWorkday
	o := model.ShiftDayOff
	series := []model.ShiftType{w, w, o, w, w, w, o}

	if got := workRunBefore(series, 2); got != 2 {
		t.Errorf("workRunBefore(2) = %d, want 2", got)
	}
	if got := workRunAfter(series, 2); got != 3 {
		t.Errorf("workRunAfter(2) = %d, want 3", got)
	}
	if got := workRunBefore(series, 0); got != 0 {
		t.Errorf("workRunBefore(0) = %d, want 0", got)
	}
	if got := workRunAfter(series, 6); got != 0 {
		t.Errorf("workRunAfter(6) = %d, want 0", got)
	}
}

func TestFindOffRuns(t *testing.T) {
	w := model.ShiftWorkday
	o := model.ShiftDayOff

	series := []model.ShiftType{w, o, o, o, o, w, o, w}
	runs := findOffRuns(series)

	if len(runs) != 2 {
		t.Fatalf("findOffRuns() returned %d runs, want 2", len(runs))
	}
	if runs[0] != (offRun{start: 1, end: 4}) {
		t.Errorf("runs[0] = %+v, want {1 4}", runs[0])
	}
	if runs[1] != (offRun{start: 6, end: 6}) {
		t.Errorf("runs[1] = %+v, want {6 6}", runs[1])
	}
}

func TestFindIsolatedPairOutside(t *testing.T) {
	w := model.ShiftWorkday
	o := model.ShiftDayOff

	// index 0 是孤立休息日（月初，边界视为工作），索引 2..5 是待收缩
	// 的长休息段
	series := []model.ShiftType{o, w, o, o, o, o, w}
	run := offRun{start: 2, end: 5}

	isoIdx, nbIdx := findIsolatedPairOutside(series, run)
	if isoIdx != 0 {
		t.Fatalf("isoIdx = %d, want 0", isoIdx)
	}
	if nbIdx != 1 {
		t.Errorf("nbIdx = %d, want 1", nbIdx)
	}
}

func TestWouldCreateNewIsolation(t *testing.T) {
	w := model.ShiftWorkday
	o := model.ShiftDayOff

	tests := []struct {
		name   string
		series []model.ShiftType
		idx    int
		want   bool
	}{
		{
			name:   "把休息日转工作后让左边的休息日变孤立",
			series: []model.ShiftType{o, o, w},
			idx:    1,
			want:   true,
		},
		{
			name:   "左边本来就不是休息日，不受影响",
			series: []model.ShiftType{w, w, w},
			idx:    1,
			want:   false,
		},
		{
			name:   "左边休息日在转换前已经孤立，不算新增",
			series: []model.ShiftType{o, w, o},
			idx:    1,
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := wouldCreateNewIsolation(tt.series, tt.idx); got != tt.want {
				t.Errorf("wouldCreateNewIsolation() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFindEveningIsolatedIdiom(t *testing.T) {
	ev := model.ShiftEvening
	w := model.ShiftWorkday
	o := model.ShiftDayOff

	tests := []struct {
		name   string
		series []model.ShiftType
		want   int
	}{
		{"典型的晚班后孤立休息", []model.ShiftType{w, ev, o, w}, 1},
		{"晚班后紧跟的休息不孤立，不命中", []model.ShiftType{w, ev, o, o}, -1},
		{"没有晚班，不命中", []model.ShiftType{w, w, o, w}, -1},
		{"晚班在月末，没有次日可判定", []model.ShiftType{w, w, ev}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := findEveningIsolatedIdiom(tt.series); got != tt.want {
				t.Errorf("findEveningIsolatedIdiom() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestSpread(t *testing.T) {
	counts := map[string]int{"甲": 4, "乙": 1, "丙": 2}
	maxName, maxVal, minName, minVal := spread(counts)

	if maxName != "甲" || maxVal != 4 {
		t.Errorf("max = (%s, %d), want (甲, 4)", maxName, maxVal)
	}
	if minName != "乙" || minVal != 1 {
		t.Errorf("min = (%s, %d), want (乙, 1)", minName, minVal)
	}
}

func TestRecomputeStates(t *testing.T) {
	cfg := model.Config{
		Year:  2026,
		Month: 3,
		Employees: []*model.Employee{
			{Name: "伊万诺夫", City: model.CityMoscow, OnDuty: true, ScheduleType: model.ScheduleFlexible, WorkloadPct: 100},
		},
	}
	cal := calendar.New(2026, 3, nil)

	schedule := model.NewSchedule(cfg, nil)
	days := []struct {
		date  string
		shift model.ShiftType
	}{
		{"2026-03-01", model.ShiftWorkday},
		{"2026-03-02", model.ShiftWorkday},
		{"2026-03-03", model.ShiftDayOff},
	}
	for _, d := range days {
		day := model.NewDaySchedule(d.date, false)
		day.Assign("伊万诺夫", d.shift)
		schedule.Days = append(schedule.Days, day)
	}

	states := RecomputeStates(schedule, cal)
	st := states["伊万诺夫"]
	if st == nil {
		t.Fatal("RecomputeStates() 未返回伊万诺夫的状态")
	}
	if st.TotalWorking != 2 {
		t.Errorf("TotalWorking = %d, want 2", st.TotalWorking)
	}
	if st.ConsecutiveOff != 1 {
		t.Errorf("ConsecutiveOff = %d, want 1", st.ConsecutiveOff)
	}
	if st.LastShift != model.ShiftDayOff {
		t.Errorf("LastShift = %v, want DAY_OFF", st.LastShift)
	}
}

func TestCountIsolated(t *testing.T) {
	cfg := model.Config{
		Year:  2026,
		Month: 3,
		Employees: []*model.Employee{
			{Name: "彼得罗夫"},
		},
	}
	schedule := model.NewSchedule(cfg, nil)
	shifts := []model.ShiftType{model.ShiftWorkday, model.ShiftDayOff, model.ShiftWorkday, model.ShiftDayOff, model.ShiftDayOff, model.ShiftWorkday}
	for i, s := range shifts {
		day := model.NewDaySchedule(calendar.DaysInMonth(2026, 3)[i], false)
		day.Assign("彼得罗夫", s)
		schedule.Days = append(schedule.Days, day)
	}

	if got := countIsolated(schedule, "彼得罗夫"); got != 1 {
		t.Errorf("countIsolated() = %d, want 1", got)
	}
}
