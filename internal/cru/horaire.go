package cru

// Schedule is a decoded "H=" value such as "MA 14:00-16:00".
type Schedule struct {
	Day   string
	Start string
	End   string
}

// DecodeHoraire decodes a day code followed by a time range. It reports false,
// with a zero Schedule, when raw does not follow the
// "<D|DD> <H:MM|HH:MM>-<H:MM|HH:MM>" shape.
func DecodeHoraire(raw string) (Schedule, bool) {
	s := horaireScanner{src: raw}

	day := s.run(isUpper, 2)
	if len(day) == 0 {
		return Schedule{}, false
	}
	if len(s.run(isBlank, len(raw))) == 0 {
		return Schedule{}, false
	}
	start, ok := s.clock()
	if !ok || !s.accept('-') {
		return Schedule{}, false
	}
	end, ok := s.clock()
	if !ok || !s.done() {
		return Schedule{}, false
	}

	return Schedule{Day: day, Start: start, End: end}, true
}

type horaireScanner struct {
	src string
	pos int
}

// run consumes up to max bytes matching pred and returns them.
func (s *horaireScanner) run(pred func(byte) bool, max int) string {
	start := s.pos
	for s.pos < len(s.src) && s.pos-start < max && pred(s.src[s.pos]) {
		s.pos++
	}
	return s.src[start:s.pos]
}

func (s *horaireScanner) accept(c byte) bool {
	if s.pos < len(s.src) && s.src[s.pos] == c {
		s.pos++
		return true
	}
	return false
}

// clock consumes H:MM or HH:MM.
func (s *horaireScanner) clock() (string, bool) {
	start := s.pos
	if len(s.run(isDigit, 2)) == 0 || !s.accept(':') || len(s.run(isDigit, 2)) != 2 {
		return "", false
	}
	return s.src[start:s.pos], true
}

func (s *horaireScanner) done() bool { return s.pos == len(s.src) }

func isBlank(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
