package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rosterops/roster/internal/handler"
	"github.com/rosterops/roster/internal/repository"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/scheduler"
)

func buildStatsTestRun(t *testing.T, repo *fakeRunRepository) *repository.ScheduleRun {
	t.Helper()
	cfg := model.Config{Year: 2026, Month: 3, Seed: 9, Employees: buildTestRoster()}
	schedule, err := scheduler.GenerateSchedule(cfg, nil)
	if err != nil {
		t.Fatalf("GenerateSchedule() 失败: %v", err)
	}
	run := &repository.ScheduleRun{Year: cfg.Year, Month: cfg.Month, Feasible: true, Config: cfg, Schedule: schedule}
	if err := repo.Create(context.Background(), run); err != nil {
		t.Fatalf("Create() 失败: %v", err)
	}
	return run
}

func TestReportsHandler_Fairness(t *testing.T) {
	repo := newFakeRunRepository()
	run := buildStatsTestRun(t, repo)
	h := handler.NewReportsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+run.ID.String()+"/fairness", nil)
	w := httptest.NewRecorder()
	h.Fairness(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if w.Body.Len() == 0 {
		t.Error("公平性报告不应为空")
	}
}

func TestReportsHandler_Coverage(t *testing.T) {
	repo := newFakeRunRepository()
	run := buildStatsTestRun(t, repo)
	h := handler.NewReportsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+run.ID.String()+"/coverage", nil)
	w := httptest.NewRecorder()
	h.Coverage(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestReportsHandler_ICalendar_RequiresEmployee(t *testing.T) {
	repo := newFakeRunRepository()
	run := buildStatsTestRun(t, repo)
	h := handler.NewReportsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+run.ID.String()+"/ical", nil)
	w := httptest.NewRecorder()
	h.ICalendar(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, want 400 (缺少 employee 参数)", w.Code)
	}
}

func TestReportsHandler_ICalendar(t *testing.T) {
	repo := newFakeRunRepository()
	run := buildStatsTestRun(t, repo)
	h := handler.NewReportsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+run.ID.String()+"/ical?employee=莫罗佐夫", nil)
	w := httptest.NewRecorder()
	h.ICalendar(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "text/calendar; charset=utf-8" {
		t.Errorf("Content-Type = %q, want text/calendar", got)
	}
}

func TestReportsHandler_Spreadsheet(t *testing.T) {
	repo := newFakeRunRepository()
	run := buildStatsTestRun(t, repo)
	h := handler.NewReportsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+run.ID.String()+"/spreadsheet", nil)
	w := httptest.NewRecorder()
	h.Spreadsheet(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		ScheduleGrid string `json:"schedule_grid"`
		Statistics   string `json:"statistics"`
		Legend       string `json:"legend"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if resp.ScheduleGrid == "" || resp.Statistics == "" || resp.Legend == "" {
		t.Error("三张表都不应为空")
	}
}

func TestReportsHandler_NotFound(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewReportsHandler(repo)

	req := httptest.NewRequest(http.MethodGet, "/schedules/00000000-0000-0000-0000-000000000000/fairness", nil)
	w := httptest.NewRecorder()
	h.Fairness(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码 = %d, want 404", w.Code)
	}
}
