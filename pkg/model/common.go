// Package model 定义排班引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// City 城市
type City string

const (
	CityMoscow     City = "MOSCOW"
	CityKhabarovsk City = "KHABAROVSK"
)

// BaseModel 基础模型（包含通用字段）
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 创建新的基础模型
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DateRange 日期范围，闭区间 [StartDate, EndDate]
type DateRange struct {
	StartDate string `json:"start_date"` // YYYY-MM-DD
	EndDate   string `json:"end_date"`   // YYYY-MM-DD
}

// Contains 检查日期（YYYY-MM-DD）是否落在范围内
func (dr DateRange) Contains(date string) bool {
	return date >= dr.StartDate && date <= dr.EndDate
}

// Days 枚举范围内的全部日期字符串
func (dr DateRange) Days() []string {
	start, err1 := time.Parse("2006-01-02", dr.StartDate)
	end, err2 := time.Parse("2006-01-02", dr.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return nil
	}
	days := make([]string, 0, int(end.Sub(start).Hours()/24)+1)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d.Format("2006-01-02"))
	}
	return days
}

// NextDate 返回给定日期（YYYY-MM-DD）的下一天
func NextDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, 1).Format("2006-01-02")
}

// PreviousDate 返回给定日期（YYYY-MM-DD）的前一天
func PreviousDate(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, -1).Format("2006-01-02")
}

// Weekday 返回给定日期（YYYY-MM-DD）的星期几，解析失败时返回 time.Sunday
func Weekday(date string) time.Weekday {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Sunday
	}
	return d.Weekday()
}

// IsWeekend 检查日期是否为周六或周日
func IsWeekend(date string) bool {
	wd := Weekday(date)
	return wd == time.Saturday || wd == time.Sunday
}
