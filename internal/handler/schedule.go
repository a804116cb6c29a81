// Package handler 提供API处理器
package handler

import (
	"encoding/json"
	goerrors "errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rosterops/roster/internal/metrics"
	"github.com/rosterops/roster/internal/repository"
	"github.com/rosterops/roster/pkg/calendar"
	"github.com/rosterops/roster/pkg/errors"
	"github.com/rosterops/roster/pkg/logger"
	"github.com/rosterops/roster/pkg/model"
	"github.com/rosterops/roster/pkg/scheduler"
	"github.com/rosterops/roster/pkg/stats"
)

// GenerateRequest 是 POST /schedules 的请求体：一份完整的排班配置，
// 加上该月的节假日集合（核心从不自己获取节假日）。
type GenerateRequest struct {
	Config   model.Config `json:"config"`
	Holidays []string     `json:"holidays,omitempty"`
}

// GenerateResponse 是排班生成成功后的响应
type GenerateResponse struct {
	Success  bool            `json:"success"`
	RunID    string          `json:"run_id"`
	Schedule *model.Schedule `json:"schedule"`
	Duration string          `json:"duration"`
}

// ScheduleHandler 处理排班生成与查询请求
type ScheduleHandler struct {
	runs    repository.ScheduleRunRepositoryInterface
	log     *logger.RosterLogger
	timeout time.Duration
}

// NewScheduleHandler 创建排班处理器。runs 为 nil 时仍可生成排班，
// 只是不会持久化运行记录——供没有数据库连接的场景使用（测试、CLI 共用核心）。
// timeout<=0 表示不设超时，直接阻塞到生成完成。
func NewScheduleHandler(runs repository.ScheduleRunRepositoryInterface, timeout time.Duration) *ScheduleHandler {
	return &ScheduleHandler{runs: runs, log: logger.NewRosterLogger(), timeout: timeout}
}

// Generate 处理 POST /schedules：解析配置，调用核心生成器，持久化
// 本次运行，返回生成的排班表。
func (h *ScheduleHandler) Generate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, errors.New(errors.CodeInvalidRoster, "请求体不是合法的JSON: "+err.Error()))
		return
	}

	h.log.StartGeneration(req.Config.Month, req.Config.Year, len(req.Config.Employees), req.Config.Seed)
	start := time.Now()

	schedule, genErr := h.runGenerate(req)
	duration := time.Since(start)

	run := &repository.ScheduleRun{
		Year:   req.Config.Year,
		Month:  req.Config.Month,
		Seed:   req.Config.Seed,
		Config: req.Config,
	}

	if genErr != nil {
		metrics.RecordScheduleGeneration(false, duration, 0)
		run.Feasible = false
		run.FailureNote = genErr.Error()
		h.persist(r, run)
		respondError(w, asAppError(genErr))
		return
	}

	h.log.GenerationComplete(duration, 0)
	metrics.RecordScheduleGeneration(true, duration, 0)

	cal := calendar.New(req.Config.Year, req.Config.Month, req.Holidays)
	fairness := stats.NewFairnessAnalyzer().Analyze(schedule, cal)
	coverage := stats.NewCoverageAnalyzer().Analyze(schedule)
	metrics.SetFairnessGini(fairness.WorkloadGini)
	metrics.SetCoverageRate(coverage.OverallCoverage)
	metrics.SetIsolatedOffDays(sumIsolatedOffDays(fairness))

	run.Feasible = true
	run.Schedule = schedule
	h.persist(r, run)

	respondJSON(w, http.StatusOK, GenerateResponse{
		Success:  true,
		RunID:    run.ID.String(),
		Schedule: schedule,
		Duration: duration.String(),
	})
}

// runGenerate 调用核心生成器。核心本身不感知超时，这里用一个请求级的
// 截止时间兜一层——排班算法的回溯预算是进程级设置（见
// pkg/scheduler/eligibility.go 的 MaxBacktrackAttempts，启动时经
// SetMaxBacktrackAttempts 设定），不随单个请求而变，但一次生成仍可能因为名单规模或极端约束组合跑得比预期久，HTTP
// 层需要能对外及时返回超时而不是无限挂起。
func (h *ScheduleHandler) runGenerate(req GenerateRequest) (*model.Schedule, error) {
	if h.timeout <= 0 {
		return scheduler.GenerateSchedule(req.Config, req.Holidays)
	}

	type result struct {
		schedule *model.Schedule
		err      error
	}
	done := make(chan result, 1)
	go func() {
		schedule, err := scheduler.GenerateSchedule(req.Config, req.Holidays)
		done <- result{schedule, err}
	}()

	select {
	case r := <-done:
		return r.schedule, r.err
	case <-time.After(h.timeout):
		return nil, errors.New(errors.CodeScheduleInfeasible, "排班生成超时")
	}
}

// GetByID 处理 GET /schedules/{id}：按运行记录 ID 取回一次历史生成结果
func (h *ScheduleHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if h.runs == nil {
		respondError(w, errors.New(errors.CodeInternal, "排班运行记录不可用：未连接数据库"))
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/schedules/")
	id, err := uuid.Parse(idStr)
	if err != nil {
		respondError(w, errors.New(errors.CodeInvalidRoster, "无效的运行记录ID: "+idStr))
		return
	}

	run, err := h.runs.GetByID(r.Context(), id)
	if err != nil {
		respondError(w, errors.Wrap(err, errors.CodeInternal, "查询排班运行记录失败"))
		return
	}
	if run == nil {
		http.NotFound(w, r)
		return
	}

	respondJSON(w, http.StatusOK, run)
}

func (h *ScheduleHandler) persist(r *http.Request, run *repository.ScheduleRun) {
	if h.runs == nil {
		return
	}
	if err := h.runs.Create(r.Context(), run); err != nil {
		logger.Error().Err(err).Msg("写入排班运行记录失败")
	}
}

func sumIsolatedOffDays(f *stats.FairnessStatistics) int {
	total := 0
	for _, e := range f.Employees {
		total += e.IsolatedOffDays
	}
	return total
}

// asAppError 将核心返回的错误规整为 *errors.AppError，供 HTTP 层统一响应
func asAppError(err error) *errors.AppError {
	var appErr *errors.AppError
	if goerrors.As(err, &appErr) {
		return appErr
	}
	return errors.Wrap(err, errors.CodeInternal, "排班生成失败")
}

// respondJSON 以JSON格式写入响应
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError 返回错误响应
func respondError(w http.ResponseWriter, err *errors.AppError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.HTTPStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   true,
		"code":    err.Code,
		"message": err.Message,
		"details": err.Details,
	})
}
