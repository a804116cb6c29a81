// Package repository 提供数据访问层
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rosterops/roster/pkg/model"
)

// ScheduleRun 是一次 generate_schedule 调用的持久化记录：输入配置、
// 种子与结果排班表，供审计与幂等查询使用。排班核心本身不依赖持久化
// 即可运行；这张表只在 API 层接到请求时写入。
type ScheduleRun struct {
	ID          uuid.UUID      `json:"id"`
	Year        int            `json:"year"`
	Month       int            `json:"month"`
	Seed        int64          `json:"seed"`
	Feasible    bool           `json:"feasible"`
	Config      model.Config   `json:"config"`
	Schedule    *model.Schedule `json:"schedule,omitempty"`
	FailureNote string         `json:"failure_note,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// ScheduleRunRepositoryInterface 排班运行记录仓储接口
type ScheduleRunRepositoryInterface interface {
	Create(ctx context.Context, run *ScheduleRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*ScheduleRun, error)
	List(ctx context.Context, filter ListFilter) ([]*ScheduleRun, int, error)
	GetLatest(ctx context.Context, year, month int) (*ScheduleRun, error)
}

// ScheduleRunRepository 排班运行记录仓储实现
type ScheduleRunRepository struct {
	db DB
}

// NewScheduleRunRepository 创建排班运行记录仓储
func NewScheduleRunRepository(db DB) *ScheduleRunRepository {
	return &ScheduleRunRepository{db: db}
}

// Create 写入一次排班生成的结果
func (r *ScheduleRunRepository) Create(ctx context.Context, run *ScheduleRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	run.CreatedAt = time.Now()

	configJSON, err := json.Marshal(run.Config)
	if err != nil {
		return fmt.Errorf("序列化排班配置失败: %w", err)
	}
	var scheduleJSON []byte
	if run.Schedule != nil {
		scheduleJSON, err = json.Marshal(run.Schedule)
		if err != nil {
			return fmt.Errorf("序列化排班结果失败: %w", err)
		}
	}

	query := `
		INSERT INTO schedule_runs (
			id, year, month, seed, feasible, config, schedule, failure_note, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err = r.db.ExecContext(ctx, query,
		run.ID, run.Year, run.Month, run.Seed, run.Feasible,
		configJSON, scheduleJSON, run.FailureNote, run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("写入排班运行记录失败: %w", err)
	}

	return nil
}

// GetByID 根据ID获取排班运行记录
func (r *ScheduleRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*ScheduleRun, error) {
	query := `
		SELECT id, year, month, seed, feasible, config, schedule, failure_note, created_at
		FROM schedule_runs
		WHERE id = $1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, id))
}

// List 列出排班运行记录，按创建时间倒序
func (r *ScheduleRunRepository) List(ctx context.Context, filter ListFilter) ([]*ScheduleRun, int, error) {
	var conditions []string
	var args []interface{}
	argNum := 1

	if filter.StartDate != "" {
		conditions = append(conditions, fmt.Sprintf("created_at >= $%d", argNum))
		args = append(args, filter.StartDate)
		argNum++
	}
	if filter.EndDate != "" {
		conditions = append(conditions, fmt.Sprintf("created_at <= $%d", argNum))
		args = append(args, filter.EndDate)
		argNum++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM schedule_runs %s", whereClause)
	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("统计排班运行记录数量失败: %w", err)
	}

	orderBy, orderDir := filter.OrderBy, filter.OrderDir
	if orderBy == "" {
		orderBy = "created_at"
	}
	if orderDir == "" {
		orderDir = "desc"
	}

	query := fmt.Sprintf(`
		SELECT id, year, month, seed, feasible, config, schedule, failure_note, created_at
		FROM schedule_runs %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, whereClause, orderBy, orderDir, argNum, argNum+1)

	args = append(args, filter.Limit, filter.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("查询排班运行记录失败: %w", err)
	}
	defer rows.Close()

	var runs []*ScheduleRun
	for rows.Next() {
		run, err := r.scanRunFromRows(rows)
		if err != nil {
			return nil, 0, err
		}
		runs = append(runs, run)
	}

	return runs, total, nil
}

// GetLatest 获取给定年月最近一次的排班运行记录
func (r *ScheduleRunRepository) GetLatest(ctx context.Context, year, month int) (*ScheduleRun, error) {
	query := `
		SELECT id, year, month, seed, feasible, config, schedule, failure_note, created_at
		FROM schedule_runs
		WHERE year = $1 AND month = $2
		ORDER BY created_at DESC
		LIMIT 1
	`
	return r.scanRun(r.db.QueryRowContext(ctx, query, year, month))
}

func (r *ScheduleRunRepository) scanRun(row *sql.Row) (*ScheduleRun, error) {
	run := &ScheduleRun{}
	var configJSON, scheduleJSON []byte

	err := row.Scan(
		&run.ID, &run.Year, &run.Month, &run.Seed, &run.Feasible,
		&configJSON, &scheduleJSON, &run.FailureNote, &run.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("扫描排班运行记录失败: %w", err)
	}

	if err := unmarshalRun(run, configJSON, scheduleJSON); err != nil {
		return nil, err
	}
	return run, nil
}

func (r *ScheduleRunRepository) scanRunFromRows(rows *sql.Rows) (*ScheduleRun, error) {
	run := &ScheduleRun{}
	var configJSON, scheduleJSON []byte

	err := rows.Scan(
		&run.ID, &run.Year, &run.Month, &run.Seed, &run.Feasible,
		&configJSON, &scheduleJSON, &run.FailureNote, &run.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("扫描排班运行记录失败: %w", err)
	}

	if err := unmarshalRun(run, configJSON, scheduleJSON); err != nil {
		return nil, err
	}
	return run, nil
}

func unmarshalRun(run *ScheduleRun, configJSON, scheduleJSON []byte) error {
	if len(configJSON) > 0 {
		if err := json.Unmarshal(configJSON, &run.Config); err != nil {
			return fmt.Errorf("解析排班配置失败: %w", err)
		}
	}
	if len(scheduleJSON) > 0 {
		run.Schedule = &model.Schedule{}
		if err := json.Unmarshal(scheduleJSON, run.Schedule); err != nil {
			return fmt.Errorf("解析排班结果失败: %w", err)
		}
	}
	return nil
}
