// Package calendar 提供生产日历（工作日/周末/节假日）查询，是核心
// 调度器的外部协作者之一：核心只接收一个不可变的节假日集合，从不
// 自己发起网络请求。
package calendar

import (
	"time"

	"github.com/rosterops/roster/pkg/model"
)

// ProductionCalendar 是某一年某一月的生产日历：周末加上节假日集合
type ProductionCalendar struct {
	year     int
	month    int
	holidays map[string]bool
}

// New 用给定的节假日日期集合构造生产日历
func New(year, month int, holidays []string) *ProductionCalendar {
	set := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		set[h] = true
	}
	return &ProductionCalendar{year: year, month: month, holidays: set}
}

// IsHoliday 检查给定日期是否在节假日集合中
func (c *ProductionCalendar) IsHoliday(date string) bool {
	return c.holidays[date]
}

// IsBusinessDay 检查给定日期既非周末也非节假日
func (c *ProductionCalendar) IsBusinessDay(date string) bool {
	return !model.IsWeekend(date) && !c.IsHoliday(date)
}

// IsNonWorking 检查给定日期是周末或节假日
func (c *ProductionCalendar) IsNonWorking(date string) bool {
	return model.IsWeekend(date) || c.IsHoliday(date)
}

// Holidays 返回节假日日期的切片（顺序不保证）
func (c *ProductionCalendar) Holidays() []string {
	out := make([]string, 0, len(c.holidays))
	for d := range c.holidays {
		out = append(out, d)
	}
	return out
}

// NextDate 返回给定日期的下一天
func (c *ProductionCalendar) NextDate(date string) string {
	return model.NextDate(date)
}

// PrevDate 返回给定日期的前一天
func (c *ProductionCalendar) PrevDate(date string) string {
	return model.PreviousDate(date)
}

// IsConsecutive 检查 a、b 两个日期是否为日历上相邻的两天
func (c *ProductionCalendar) IsConsecutive(a, b string) bool {
	return model.NextDate(a) == b
}

// DaysInMonth 枚举该年月的全部日期字符串，按升序排列
func DaysInMonth(year, month int) []string {
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	return model.DateRange{
		StartDate: start.Format("2006-01-02"),
		EndDate:   end.Format("2006-01-02"),
	}.Days()
}
