package calendar

import "testing"

func TestProductionCalendar_IsBusinessDay(t *testing.T) {
	c := New(2026, 3, []string{"2026-03-09"}) // 周一设为节假日

	tests := []struct {
		date string
		want bool
	}{
		{"2026-03-02", true},  // 普通周一
		{"2026-03-07", false}, // 周六
		{"2026-03-08", false}, // 周日
		{"2026-03-09", false}, // 节假日
	}

	for _, tt := range tests {
		if got := c.IsBusinessDay(tt.date); got != tt.want {
			t.Errorf("IsBusinessDay(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestProductionCalendar_IsNonWorking(t *testing.T) {
	c := New(2026, 3, []string{"2026-03-09"})

	if !c.IsNonWorking("2026-03-07") {
		t.Error("周六应为非工作日")
	}
	if !c.IsNonWorking("2026-03-09") {
		t.Error("节假日应为非工作日")
	}
	if c.IsNonWorking("2026-03-02") {
		t.Error("普通工作日不应为非工作日")
	}
}

func TestProductionCalendar_IsConsecutive(t *testing.T) {
	c := New(2026, 3, nil)
	if !c.IsConsecutive("2026-03-01", "2026-03-02") {
		t.Error("相邻日期应判定为连续")
	}
	if c.IsConsecutive("2026-03-01", "2026-03-03") {
		t.Error("间隔日期不应判定为连续")
	}
}

func TestDaysInMonth(t *testing.T) {
	days := DaysInMonth(2026, 2)
	if len(days) != 28 {
		t.Fatalf("2026年2月应有28天, got %d", len(days))
	}
	if days[0] != "2026-02-01" || days[len(days)-1] != "2026-02-28" {
		t.Errorf("月份边界不正确: 首日 %s, 末日 %s", days[0], days[len(days)-1])
	}
}

func TestManualSource_Holidays(t *testing.T) {
	s := NewManualSource("2026-03-08,2026-03-09")

	dates, err := s.Holidays(nil, 2026, 3)
	if err != nil {
		t.Fatalf("Holidays() 返回错误: %v", err)
	}
	if len(dates) != 2 {
		t.Fatalf("期望解析出 2 个日期, got %d", len(dates))
	}
	if dates[0] != "2026-03-08" || dates[1] != "2026-03-09" {
		t.Errorf("解析结果不正确: %v", dates)
	}
}

func TestManualSource_Empty(t *testing.T) {
	s := NewManualSource("")
	dates, err := s.Holidays(nil, 2026, 3)
	if err != nil {
		t.Fatalf("Holidays() 返回错误: %v", err)
	}
	if len(dates) != 0 {
		t.Errorf("空字符串应解析为零个日期, got %d", len(dates))
	}
}

func TestManualSource_InvalidDate(t *testing.T) {
	s := NewManualSource("not-a-date")
	if _, err := s.Holidays(nil, 2026, 3); err == nil {
		t.Error("非法日期应返回错误")
	}
}
