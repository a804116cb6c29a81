package stats

import (
	"testing"

	"github.com/rosterops/roster/pkg/model"
)

func TestCoverageAnalyzer_Analyze(t *testing.T) {
	cfg := model.Config{Year: 2026, Month: 3}
	schedule := model.NewSchedule(cfg, nil)

	fullyCovered := model.NewDaySchedule("2026-03-02", false)
	fullyCovered.Assign("甲", model.ShiftMorning)
	fullyCovered.Assign("乙", model.ShiftEvening)
	fullyCovered.Assign("丙", model.ShiftNight)

	missingNight := model.NewDaySchedule("2026-03-03", false)
	missingNight.Assign("甲", model.ShiftMorning)
	missingNight.Assign("乙", model.ShiftEvening)

	schedule.Days = []*model.DaySchedule{fullyCovered, missingNight}

	analyzer := NewCoverageAnalyzer()
	result := analyzer.Analyze(schedule)

	if result.TotalDays != 2 {
		t.Fatalf("TotalDays = %d, want 2", result.TotalDays)
	}
	if result.FullyCoveredDays != 1 {
		t.Errorf("FullyCoveredDays = %d, want 1", result.FullyCoveredDays)
	}
	if result.OverallCoverage != 50 {
		t.Errorf("OverallCoverage = %f, want 50", result.OverallCoverage)
	}
	if len(result.UncoveredDays) != 1 {
		t.Fatalf("UncoveredDays 长度 = %d, want 1", len(result.UncoveredDays))
	}
	if result.UncoveredDays[0].Date != "2026-03-03" {
		t.Errorf("UncoveredDays[0].Date = %s, want 2026-03-03", result.UncoveredDays[0].Date)
	}
	if len(result.UncoveredDays[0].Missing) != 1 || result.UncoveredDays[0].Missing[0] != model.ShiftNight {
		t.Errorf("UncoveredDays[0].Missing = %v, want [NIGHT]", result.UncoveredDays[0].Missing)
	}

	if result.ShiftTypeCoverage[model.ShiftMorning] != 100 {
		t.Errorf("ShiftTypeCoverage[MORNING] = %f, want 100", result.ShiftTypeCoverage[model.ShiftMorning])
	}
	if result.ShiftTypeCoverage[model.ShiftNight] != 50 {
		t.Errorf("ShiftTypeCoverage[NIGHT] = %f, want 50", result.ShiftTypeCoverage[model.ShiftNight])
	}
}

func TestCoverageAnalyzer_EmptySchedule(t *testing.T) {
	cfg := model.Config{Year: 2026, Month: 3}
	schedule := model.NewSchedule(cfg, nil)

	result := NewCoverageAnalyzer().Analyze(schedule)
	if result.OverallCoverage != 100 {
		t.Errorf("OverallCoverage = %f, want 100 for an empty schedule", result.OverallCoverage)
	}
}

func TestCoverageAnalyzer_GenerateCoverageReport(t *testing.T) {
	cfg := model.Config{Year: 2026, Month: 3}
	schedule := model.NewSchedule(cfg, nil)
	day := model.NewDaySchedule("2026-03-02", false)
	day.Assign("甲", model.ShiftMorning)
	day.Assign("乙", model.ShiftEvening)
	day.Assign("丙", model.ShiftNight)
	schedule.Days = []*model.DaySchedule{day}

	analyzer := NewCoverageAnalyzer()
	result := analyzer.Analyze(schedule)
	report := analyzer.GenerateCoverageReport(result)

	if report == "" {
		t.Fatal("GenerateCoverageReport() 返回空字符串")
	}
}
