package model

// Pin 是调度器必须原样遵守的强制分配
type Pin struct {
	Date     string    `json:"date"`
	Employee string    `json:"employee"`
	Shift    ShiftType `json:"shift"`
}

// CarryOver 是上个月末尾的连续天数计数器，用于跨月边界延续约束
type CarryOver struct {
	Employee           string    `json:"employee"`
	ConsecutiveWorking int       `json:"consecutive_working"`
	ConsecutiveOff     int       `json:"consecutive_off"`
	LastShift          ShiftType `json:"last_shift"`
}

// Config 是 generate_schedule 的输入配置
type Config struct {
	Month      int         `json:"month"`
	Year       int         `json:"year"`
	Seed       int64       `json:"seed"`
	Employees  []*Employee `json:"employees"`
	Pins       []Pin       `json:"pins,omitempty"`
	CarryOvers []CarryOver `json:"carry_over,omitempty"`
	Timezone   string      `json:"timezone,omitempty"`
}

// DaySchedule 是一天内全部班次分配的聚合
type DaySchedule struct {
	Date      string   `json:"date"`
	IsHoliday bool     `json:"is_holiday"`
	Morning   []string `json:"morning"`
	Evening   []string `json:"evening"`
	Night     []string `json:"night"`
	Workday   []string `json:"workday"`
	DayOff    []string `json:"day_off"`
	Vacation  []string `json:"vacation"`
}

// NewDaySchedule 构造某一天的空分配表
func NewDaySchedule(date string, isHoliday bool) *DaySchedule {
	return &DaySchedule{Date: date, IsHoliday: isHoliday}
}

// IsCovered 检查 morning/evening/night 是否各恰好一人
func (d *DaySchedule) IsCovered() bool {
	return len(d.Morning) == 1 && len(d.Evening) == 1 && len(d.Night) == 1
}

// Assign 将员工追加到给定班次对应的名单中
func (d *DaySchedule) Assign(name string, shift ShiftType) {
	switch shift {
	case ShiftMorning:
		d.Morning = append(d.Morning, name)
	case ShiftEvening:
		d.Evening = append(d.Evening, name)
	case ShiftNight:
		d.Night = append(d.Night, name)
	case ShiftWorkday:
		d.Workday = append(d.Workday, name)
	case ShiftDayOff:
		d.DayOff = append(d.DayOff, name)
	case ShiftVacation:
		d.Vacation = append(d.Vacation, name)
	}
}

// ShiftOf 返回员工在这一天被分配到的班次，若未分配则返回空字符串对应的零值
func (d *DaySchedule) ShiftOf(name string) (ShiftType, bool) {
	lists := []struct {
		shift ShiftType
		names []string
	}{
		{ShiftMorning, d.Morning},
		{ShiftEvening, d.Evening},
		{ShiftNight, d.Night},
		{ShiftWorkday, d.Workday},
		{ShiftDayOff, d.DayOff},
		{ShiftVacation, d.Vacation},
	}
	for _, l := range lists {
		for _, n := range l.names {
			if n == name {
				return l.shift, true
			}
		}
	}
	return "", false
}

// SetShift 将员工从当前分配中移除（如有）并设为新班次，用于后处理
// 阶段的提议-模拟-接受交换机制。
func (d *DaySchedule) SetShift(name string, shift ShiftType) {
	d.remove(name)
	d.Assign(name, shift)
}

func (d *DaySchedule) remove(name string) {
	d.Morning = removeName(d.Morning, name)
	d.Evening = removeName(d.Evening, name)
	d.Night = removeName(d.Night, name)
	d.Workday = removeName(d.Workday, name)
	d.DayOff = removeName(d.DayOff, name)
	d.Vacation = removeName(d.Vacation, name)
}

func removeName(names []string, target string) []string {
	out := names[:0:0]
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// Schedule 是一个月的完整排班结果
type Schedule struct {
	BaseModel
	Config   Config         `json:"config"`
	Holidays []string       `json:"holidays"`
	Days     []*DaySchedule `json:"days"`
}

// NewSchedule 构造一个空的月度排班结果
func NewSchedule(cfg Config, holidays []string) *Schedule {
	return &Schedule{
		BaseModel: NewBaseModel(),
		Config:    cfg,
		Holidays:  holidays,
	}
}

// DayByDate 按日期查找某天的 DaySchedule
func (s *Schedule) DayByDate(date string) *DaySchedule {
	for _, d := range s.Days {
		if d.Date == date {
			return d
		}
	}
	return nil
}

// DayIndex 返回给定日期在 Days 中的索引，未找到返回 -1
func (s *Schedule) DayIndex(date string) int {
	for i, d := range s.Days {
		if d.Date == date {
			return i
		}
	}
	return -1
}
