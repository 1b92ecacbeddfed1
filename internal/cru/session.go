package cru

// Session is one decoded session line. Optional fields are nil when absent;
// Day, StartTime and EndTime are either all set or all nil.
type Session struct {
	Section     string  `json:"section"`
	Index       string  `json:"index"`
	Type        string  `json:"type"`
	Capacity    int     `json:"capacity"`
	ScheduleRaw string  `json:"schedule_raw"`
	Day         *string `json:"day,omitempty"`
	StartTime   *string `json:"start_time,omitempty"`
	EndTime     *string `json:"end_time,omitempty"`
	Week        *string `json:"week,omitempty"`
	Room        string  `json:"room"`
	Raw         string  `json:"raw"`
	Line        int     `json:"line"`
}

// HasSchedule reports whether the time fields were decoded.
func (s *Session) HasSchedule() bool {
	return s.Day != nil
}

// fields is the bundle produced by the grammar engine for one session.
type fields struct {
	index       string
	sessionType string
	capacity    int
	scheduleRaw string
	schedule    Schedule
	decoded     bool
	week        string
	hasWeek     bool
	room        string
}

func buildSession(section string, line SessionLine, f fields) *Session {
	s := &Session{
		Section:     section,
		Index:       f.index,
		Type:        f.sessionType,
		Capacity:    f.capacity,
		ScheduleRaw: f.scheduleRaw,
		Room:        f.room,
		Raw:         line.Text,
		Line:        line.Number,
	}
	if f.decoded {
		s.Day = ptr(f.schedule.Day)
		s.StartTime = ptr(f.schedule.Start)
		s.EndTime = ptr(f.schedule.End)
	}
	if f.hasWeek {
		s.Week = ptr(f.week)
	}
	return s
}

func ptr(s string) *string { return &s }
