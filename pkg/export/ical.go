// Package export 将已生成的 Schedule 渲染为外部可消费的格式：
// iCalendar 日历文件与电子表格（CSV 三工作表）。
package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rosterops/roster/pkg/model"
)

const icsDateTimeLayout = "20060102T150405"

// ICalendarName 生成某个员工的 .ics 日历文本，每个值班班次一个
// VEVENT，使用 ShiftType.TimeRange() 给出的权威起止时间。EVENING 的
// 24:00 结束时间按次日 00:00 处理；NIGHT（00:00-08:00）落在当天之内。
func ICalendarName(schedule *model.Schedule, employeeName string) ([]byte, error) {
	loc, err := resolveLocation(schedule.Config.Timezone)
	if err != nil {
		return nil, fmt.Errorf("export: resolve timezone: %w", err)
	}

	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//RosterOps//Roster//EN\r\n")
	b.WriteString(fmt.Sprintf("X-WR-CALNAME:%s 排班表 %04d-%02d\r\n", employeeName, schedule.Config.Year, schedule.Config.Month))
	b.WriteString("CALSCALE:GREGORIAN\r\n")
	b.WriteString("METHOD:PUBLISH\r\n")

	for _, day := range schedule.Days {
		shift, ok := day.ShiftOf(employeeName)
		if !ok || !shift.IsDuty() {
			continue
		}
		start, end, err := shiftBounds(day.Date, shift, loc)
		if err != nil {
			return nil, fmt.Errorf("export: shift bounds for %s on %s: %w", employeeName, day.Date, err)
		}

		b.WriteString("BEGIN:VEVENT\r\n")
		b.WriteString(fmt.Sprintf("UID:%s-%s-%s@rosterops\r\n", employeeName, day.Date, shift))
		b.WriteString(fmt.Sprintf("DTSTART:%s\r\n", start.UTC().Format(icsDateTimeLayout)+"Z"))
		b.WriteString(fmt.Sprintf("DTEND:%s\r\n", end.UTC().Format(icsDateTimeLayout)+"Z"))
		b.WriteString(fmt.Sprintf("SUMMARY:%s 值班 (%s)\r\n", employeeName, shift))
		b.WriteString(fmt.Sprintf("DESCRIPTION:%s 在 %s 的 %s 班\r\n", employeeName, day.Date, shift))
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	return []byte(b.String()), nil
}

// ICalendarAll 为排班表中的每个值班员工各生成一份日历，返回
// 文件名到内容的映射，供调用方逐个写出。
func ICalendarAll(schedule *model.Schedule) (map[string][]byte, error) {
	names := make([]string, 0, len(schedule.Config.Employees))
	for _, e := range schedule.Config.Employees {
		if e.OnDuty {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)

	out := make(map[string][]byte, len(names))
	for _, name := range names {
		data, err := ICalendarName(schedule, name)
		if err != nil {
			return nil, err
		}
		out[name+".ics"] = data
	}
	return out, nil
}

func resolveLocation(tz string) (*time.Location, error) {
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.UTC, nil
	}
	return loc, nil
}

// shiftBounds 把班次在某日期内的起止时刻解析为具体的 time.Time，
// 处理 EVENING 的 24:00 结束时间（次日零点）；其余班次起止都在同一天。
func shiftBounds(date string, shift model.ShiftType, loc *time.Location) (time.Time, time.Time, error) {
	startStr, endStr := shift.TimeRange()
	if startStr == "" {
		return time.Time{}, time.Time{}, fmt.Errorf("shift %s has no fixed time range", shift)
	}

	start, err := parseClockOnDate(date, startStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	endDate := date
	if endStr == "24:00" {
		endStr = "00:00"
		endDate = model.NextDate(date)
	}
	end, err := parseClockOnDate(endDate, endStr, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	return start, end, nil
}

func parseClockOnDate(date, clock string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
}
