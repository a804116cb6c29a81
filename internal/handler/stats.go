// Package handler 提供API处理器
package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rosterops/roster/internal/repository"
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/errors"
	"github.com/rosterops/roster/pkg/export"
	"github.com/rosterops/roster/pkg/stats"
)

// ReportsHandler 基于一次已持久化的排班运行记录，提供公平性/覆盖率
// 报告与导出文件（iCalendar、三张CSV表）。
type ReportsHandler struct {
	runs repository.ScheduleRunRepositoryInterface
}

// NewReportsHandler 创建报告处理器
func NewReportsHandler(runs repository.ScheduleRunRepositoryInterface) *ReportsHandler {
	return &ReportsHandler{runs: runs}
}

// Fairness 处理 GET /schedules/{id}/fairness：返回纯文本公平性报告
func (h *ReportsHandler) Fairness(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r, "/fairness")
	if !ok {
		return
	}
	cal := calendar.New(run.Year, run.Month, run.Schedule.Holidays)
	report := stats.NewFairnessAnalyzer().Analyze(run.Schedule, cal)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(stats.NewFairnessAnalyzer().GenerateFairnessReport(report)))
}

// Coverage 处理 GET /schedules/{id}/coverage：返回纯文本覆盖率报告
func (h *ReportsHandler) Coverage(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r, "/coverage")
	if !ok {
		return
	}
	analyzer := stats.NewCoverageAnalyzer()
	report := analyzer.Analyze(run.Schedule)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(analyzer.GenerateCoverageReport(report)))
}

// ICalendar 处理 GET /schedules/{id}/ical?employee=NAME：返回单个员工
// 的 .ics 文件；省略 employee 时返回 400。
func (h *ReportsHandler) ICalendar(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r, "/ical")
	if !ok {
		return
	}

	employee := r.URL.Query().Get("employee")
	if employee == "" {
		respondError(w, errors.New(errors.CodeInvalidRoster, "缺少 employee 查询参数"))
		return
	}

	data, err := export.ICalendarName(run.Schedule, employee)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "生成日历失败"))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=\""+employee+".ics\"")
	w.Write(data)
}

// spreadsheetResponse 是 Spreadsheet 导出结果的 JSON 封装：三份CSV
// 文档各自作为一个字符串字段，供前端分别下载或渲染。
type spreadsheetResponse struct {
	ScheduleGrid string `json:"schedule_grid"`
	Statistics   string `json:"statistics"`
	Legend       string `json:"legend"`
}

// Spreadsheet 处理 GET /schedules/{id}/spreadsheet：返回三张CSV表
func (h *ReportsHandler) Spreadsheet(w http.ResponseWriter, r *http.Request) {
	run, ok := h.loadRun(w, r, "/spreadsheet")
	if !ok {
		return
	}

	cal := calendar.New(run.Year, run.Month, run.Schedule.Holidays)
	fairness := stats.NewFairnessAnalyzer().Analyze(run.Schedule, cal)

	sheet, err := export.BuildSpreadsheet(run.Schedule, fairness)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "生成电子表格失败"))
		return
	}

	respondJSON(w, http.StatusOK, spreadsheetResponse{
		ScheduleGrid: string(sheet.ScheduleGrid),
		Statistics:   string(sheet.Statistics),
		Legend:       string(sheet.Legend),
	})
}

// loadRun 从 URL 路径中解析运行记录ID并加载已生成的排班表；suffix 是
// 该端点在路径末尾追加的子路径（如 "/fairness"），用于从完整路径中
// 剥离出中间的ID段。
func (h *ReportsHandler) loadRun(w http.ResponseWriter, r *http.Request, suffix string) (*repository.ScheduleRun, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	if h.runs == nil {
		respondError(w, errors.New(errors.CodeInternal, "排班运行记录不可用：未连接数据库"))
		return nil, false
	}

	idStr := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/schedules/"), suffix)
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, errors.New(errors.CodeInvalidRoster, "无效的运行记录ID: "+idStr))
		return nil, false
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "查询排班运行记录失败"))
		return nil, false
	}
	if run == nil || run.Schedule == nil {
		http.NotFound(w, r)
		return nil, false
	}
	return run, true
}
