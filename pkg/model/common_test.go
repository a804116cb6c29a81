package model

import "testing"

func TestNewBaseModel(t *testing.T) {
	bm := NewBaseModel()

	if bm.ID.String() == "" {
		t.Error("NewBaseModel() 应该生成非空 ID")
	}
	if bm.CreatedAt.IsZero() {
		t.Error("NewBaseModel() 应该设置 CreatedAt")
	}
	if bm.UpdatedAt.IsZero() {
		t.Error("NewBaseModel() 应该设置 UpdatedAt")
	}
}

func TestDateRange_Contains(t *testing.T) {
	tests := []struct {
		name  string
		dr    DateRange
		date  string
		want  bool
	}{
		{"范围内的日期", DateRange{"2026-03-10", "2026-03-15"}, "2026-03-12", true},
		{"起始日期", DateRange{"2026-03-10", "2026-03-15"}, "2026-03-10", true},
		{"结束日期", DateRange{"2026-03-10", "2026-03-15"}, "2026-03-15", true},
		{"范围外的日期-之前", DateRange{"2026-03-10", "2026-03-15"}, "2026-03-09", false},
		{"范围外的日期-之后", DateRange{"2026-03-10", "2026-03-15"}, "2026-03-16", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dr.Contains(tt.date); got != tt.want {
				t.Errorf("Contains(%s) = %v, want %v", tt.date, got, tt.want)
			}
		})
	}
}

func TestDateRange_Days(t *testing.T) {
	dr := DateRange{StartDate: "2026-03-10", EndDate: "2026-03-12"}
	days := dr.Days()

	want := []string{"2026-03-10", "2026-03-11", "2026-03-12"}
	if len(days) != len(want) {
		t.Fatalf("Days() 返回 %d 天，期望 %d 天", len(days), len(want))
	}
	for i, d := range days {
		if d != want[i] {
			t.Errorf("Days()[%d] = %s, want %s", i, d, want[i])
		}
	}
}

func TestNextDate_PreviousDate(t *testing.T) {
	if got := NextDate("2026-02-28"); got != "2026-03-01" {
		t.Errorf("NextDate(2026-02-28) = %s, want 2026-03-01", got)
	}
	if got := PreviousDate("2026-03-01"); got != "2026-02-28" {
		t.Errorf("PreviousDate(2026-03-01) = %s, want 2026-02-28", got)
	}
}

func TestIsWeekend(t *testing.T) {
	tests := []struct {
		date string
		want bool
	}{
		{"2026-03-07", true},  // 周六
		{"2026-03-08", true},  // 周日
		{"2026-03-09", false}, // 周一
	}

	for _, tt := range tests {
		if got := IsWeekend(tt.date); got != tt.want {
			t.Errorf("IsWeekend(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}
