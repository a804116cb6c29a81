package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rosterops/roster/internal/handler"
	"github.com/rosterops/roster/internal/repository"
	"github.com/rosterops/roster/pkg/model"
)

// fakeRunRepository 是 ScheduleRunRepositoryInterface 的内存实现，供
// handler 测试使用，不依赖数据库连接。
type fakeRunRepository struct {
	mu   sync.Mutex
	runs map[uuid.UUID]*repository.ScheduleRun
}

func newFakeRunRepository() *fakeRunRepository {
	return &fakeRunRepository{runs: make(map[uuid.UUID]*repository.ScheduleRun)}
}

func (f *fakeRunRepository) Create(ctx context.Context, run *repository.ScheduleRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*repository.ScheduleRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.runs[id], nil
}

func (f *fakeRunRepository) List(ctx context.Context, filter repository.ListFilter) ([]*repository.ScheduleRun, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*repository.ScheduleRun, 0, len(f.runs))
	for _, r := range f.runs {
		out = append(out, r)
	}
	return out, len(out), nil
}

func (f *fakeRunRepository) GetLatest(ctx context.Context, year, month int) (*repository.ScheduleRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.runs {
		if r.Year == year && r.Month == month {
			return r, nil
		}
	}
	return nil, nil
}

// buildTestRoster 构造一个满足值班人员最低编制要求的名单：4 名莫斯
// 科值班员工（含一名仅早班、一名仅晚班）、2 名哈巴罗夫斯克值班员工。
func buildTestRoster() []*model.Employee {
	employees := []*model.Employee{
		model.NewEmployee("莫罗佐夫", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("科兹洛夫", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("索科洛娃", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("伊万诺夫", model.CityMoscow, model.ScheduleFlexible),
		model.NewEmployee("彼得罗夫", model.CityKhabarovsk, model.ScheduleFlexible),
		model.NewEmployee("西多罗夫", model.CityKhabarovsk, model.ScheduleFlexible),
	}
	for _, e := range employees {
		e.OnDuty = true
	}
	employees[2].MorningOnly = true
	employees[3].EveningOnly = true
	for _, e := range employees {
		e.Compile()
	}
	return employees
}

func TestScheduleHandler_Generate_Success(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewScheduleHandler(repo, 0)

	body, _ := json.Marshal(handler.GenerateRequest{
		Config: model.Config{Year: 2026, Month: 3, Seed: 42, Employees: buildTestRoster()},
	})

	req := httptest.NewRequest(http.MethodPost, "/schedules", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body=%s", w.Code, w.Body.String())
	}

	var resp handler.GenerateResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if !resp.Success || resp.Schedule == nil {
		t.Fatalf("响应 success=%v schedule=%v, want success=true 且有排班结果", resp.Success, resp.Schedule)
	}
	if resp.RunID == "" {
		t.Error("RunID 不应为空")
	}

	id, err := uuid.Parse(resp.RunID)
	if err != nil {
		t.Fatalf("RunID 不是合法的UUID: %v", err)
	}
	stored, _ := repo.GetByID(context.Background(), id)
	if stored == nil || !stored.Feasible {
		t.Error("成功生成的运行记录应被持久化且标记为可行")
	}
}

func TestScheduleHandler_Generate_InvalidRoster(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewScheduleHandler(repo, 0)

	// 仅一名莫斯科值班员工，结构上不可能覆盖早/晚班各一人
	employees := []*model.Employee{
		model.NewEmployee("莫罗佐夫", model.CityMoscow, model.ScheduleFlexible),
	}
	employees[0].OnDuty = true
	employees[0].Compile()

	body, _ := json.Marshal(handler.GenerateRequest{
		Config: model.Config{Year: 2026, Month: 3, Seed: 1, Employees: employees},
	})

	req := httptest.NewRequest(http.MethodPost, "/schedules", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var errResp map[string]interface{}
	json.Unmarshal(w.Body.Bytes(), &errResp)
	if errResp["code"] != "INVALID_ROSTER" {
		t.Errorf("错误码 = %v, want INVALID_ROSTER", errResp["code"])
	}

	runs, total, _ := repo.List(context.Background(), repository.DefaultListFilter())
	if total != 1 || runs[0].Feasible {
		t.Error("不可行的运行记录也应被持久化，并标记为不可行")
	}
}

func TestScheduleHandler_Generate_Timeout(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewScheduleHandler(repo, time.Nanosecond)

	body, _ := json.Marshal(handler.GenerateRequest{
		Config: model.Config{Year: 2026, Month: 3, Seed: 42, Employees: buildTestRoster()},
	})

	req := httptest.NewRequest(http.MethodPost, "/schedules", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("状态码 = %d, want 422 (超时应判定为不可行), body=%s", w.Code, w.Body.String())
	}

	runs, total, _ := repo.List(context.Background(), repository.DefaultListFilter())
	if total != 1 || runs[0].Feasible {
		t.Error("超时的运行记录也应被持久化，并标记为不可行")
	}
}

func TestScheduleHandler_Generate_MalformedJSON(t *testing.T) {
	h := handler.NewScheduleHandler(nil, 0)

	req := httptest.NewRequest(http.MethodPost, "/schedules", bytes.NewReader([]byte("{not json")))
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, want 400", w.Code)
	}
}

func TestScheduleHandler_Generate_WrongMethod(t *testing.T) {
	h := handler.NewScheduleHandler(nil, 0)

	req := httptest.NewRequest(http.MethodGet, "/schedules", nil)
	w := httptest.NewRecorder()
	h.Generate(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("状态码 = %d, want 405", w.Code)
	}
}

func TestScheduleHandler_GetByID(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewScheduleHandler(repo, 0)

	schedule := model.NewSchedule(model.Config{Year: 2026, Month: 3}, nil)
	run := &repository.ScheduleRun{Year: 2026, Month: 3, Feasible: true, Schedule: schedule}
	repo.Create(context.Background(), run)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+run.ID.String(), nil)
	w := httptest.NewRecorder()
	h.GetByID(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("状态码 = %d, want 200, body=%s", w.Code, w.Body.String())
	}
}

func TestScheduleHandler_GetByID_NotFound(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewScheduleHandler(repo, 0)

	req := httptest.NewRequest(http.MethodGet, "/schedules/"+uuid.New().String(), nil)
	w := httptest.NewRecorder()
	h.GetByID(w, req)

	if w.Code != http.StatusNotFound {
		t.Fatalf("状态码 = %d, want 404", w.Code)
	}
}

func TestScheduleHandler_GetByID_InvalidID(t *testing.T) {
	repo := newFakeRunRepository()
	h := handler.NewScheduleHandler(repo, 0)

	req := httptest.NewRequest(http.MethodGet, "/schedules/not-a-uuid", nil)
	w := httptest.NewRecorder()
	h.GetByID(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("状态码 = %d, want 400", w.Code)
	}
}
