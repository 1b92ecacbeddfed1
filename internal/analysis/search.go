package analysis

import (
	"strconv"
	"strings"

	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"
)

// Search returns the sessions whose fields contain needle, ignoring case.
func Search(sessions []*cru.Session, needle string) []*cru.Session {
	needle = strings.ToLower(needle)
	var out []*cru.Session
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(searchText(s)), needle) {
			out = append(out, s)
		}
	}
	return out
}

// FilterByDay returns the sessions whose decoded day contains day, ignoring case.
func FilterByDay(sessions []*cru.Session, day string) []*cru.Session {
	day = strings.ToLower(day)
	var out []*cru.Session
	for _, s := range sessions {
		if strings.Contains(strings.ToLower(deref(s.Day)), day) {
			out = append(out, s)
		}
	}
	return out
}

func searchText(s *cru.Session) string {
	return strings.Join([]string{
		s.Raw, s.Section, s.Index, s.Type, strconv.Itoa(s.Capacity),
		s.ScheduleRaw, deref(s.Day), deref(s.Week), s.Room,
	}, " ")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// PreviewRow is the condensed view of a session shown by listings.
type PreviewRow struct {
	Section  string  `json:"section"`
	Index    string  `json:"index"`
	Type     string  `json:"type"`
	Capacity int     `json:"capacity"`
	Schedule string  `json:"schedule"`
	Day      *string `json:"day"`
	Week     *string `json:"week"`
	Room     string  `json:"room"`
}

// Preview returns at most n rows from the head of sessions; n <= 0 means all.
func Preview(sessions []*cru.Session, n int) []PreviewRow {
	if n <= 0 || n > len(sessions) {
		n = len(sessions)
	}
	rows := make([]PreviewRow, 0, n)
	for _, s := range sessions[:n] {
		rows = append(rows, PreviewRow{
			Section:  s.Section,
			Index:    s.Index,
			Type:     s.Type,
			Capacity: s.Capacity,
			Schedule: s.ScheduleRaw,
			Day:      s.Day,
			Week:     s.Week,
			Room:     s.Room,
		})
	}
	return rows
}

// MatchLines renders matches the way the search command prints them.
func MatchLines(sessions []*cru.Session) []string {
	lines := make([]string, 0, len(sessions))
	for _, s := range sessions {
		lines = append(lines, s.Section+", "+s.Raw)
	}
	return lines
}
