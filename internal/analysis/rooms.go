package analysis

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"
)

var (
	ErrEmptyRoom    = errors.New("room identifier must not be empty")
	ErrRoomNotFound = errors.New("room does not exist")
)

// Weekdays are the day codes covered by free-slot computation.
var Weekdays = []string{"L", "MA", "ME", "J", "V"}

const (
	firstHour = 8
	lastHour  = 19 // last slot starts at 19:00
)

func roomSessions(sessions []*cru.Session, room string) ([]*cru.Session, error) {
	room = strings.TrimSpace(room)
	if room == "" {
		return nil, ErrEmptyRoom
	}
	var out []*cru.Session
	for _, s := range sessions {
		if s.Room == room {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, room)
	}
	return out, nil
}

// MaxCapacity is the largest capacity declared for a session in room.
func MaxCapacity(sessions []*cru.Session, room string) (int, error) {
	held, err := roomSessions(sessions, room)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, s := range held {
		if s.Capacity > max {
			max = s.Capacity
		}
	}
	return max, nil
}

// DaySlots lists the free one-hour slots of a day by starting hour.
type DaySlots struct {
	Day   string `json:"day"`
	Hours []int  `json:"hours"`
}

// FreeSlots computes the free hours of room for each weekday. A session
// blocks every hour slot its time range overlaps; sessions without decoded
// times or outside the weekdays are ignored.
func FreeSlots(sessions []*cru.Session, room string) ([]DaySlots, error) {
	held, err := roomSessions(sessions, room)
	if err != nil {
		return nil, err
	}

	busy := make(map[string]map[int]bool, len(Weekdays))
	for _, s := range held {
		if !s.HasSchedule() {
			continue
		}
		start, ok1 := minutes(*s.StartTime)
		end, ok2 := minutes(*s.EndTime)
		if !ok1 || !ok2 {
			continue
		}
		day := *s.Day
		if busy[day] == nil {
			busy[day] = make(map[int]bool)
		}
		for h := firstHour; h <= lastHour; h++ {
			if start < (h+1)*60 && end > h*60 {
				busy[day][h] = true
			}
		}
	}

	out := make([]DaySlots, 0, len(Weekdays))
	for _, day := range Weekdays {
		slots := DaySlots{Day: day, Hours: []int{}}
		for h := firstHour; h <= lastHour; h++ {
			if !busy[day][h] {
				slots.Hours = append(slots.Hours, h)
			}
		}
		out = append(out, slots)
	}
	return out, nil
}

// minutes converts "H:MM" or "HH:MM" to minutes after midnight.
func minutes(clock string) (int, bool) {
	h, m, ok := strings.Cut(clock, ":")
	if !ok {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return hh*60 + mm, true
}
