package cru

import "strings"

// DefaultBoilerplate lists the prefixes of known non-data lines found in
// CRU exports (report headers, pagination, verification banners).
var DefaultBoilerplate = []string{"EDT.CRU", "Vérifier", "Comportement", "Seance", "Page"}

// SessionLine is a raw session line and its 1-based position in the document.
type SessionLine struct {
	Number int
	Text   string
}

// Section groups the session lines following a "+NAME" marker.
type Section struct {
	Name  string
	Line  int
	Lines []SessionLine
}

type lineKind int

const (
	lineIgnored lineKind = iota
	lineSection
	lineSession
)

type segmentState int

const (
	stateStart segmentState = iota
	stateInSection
)

// Segment splits doc into sections using the default boilerplate set.
func Segment(doc string) []Section {
	return segment(doc, DefaultBoilerplate)
}

func segment(doc string, boilerplate []string) []Section {
	var (
		sections []Section
		current  Section
		state    = stateStart
	)

	flush := func() {
		if state == stateInSection {
			sections = append(sections, current)
		}
	}

	for i, text := range splitLines(doc) {
		line := strings.TrimSpace(text)
		switch classifyLine(line, boilerplate) {
		case lineSection:
			flush()
			current = Section{Name: line[1:], Line: i + 1}
			state = stateInSection
		case lineSession:
			if state == stateInSection {
				current.Lines = append(current.Lines, SessionLine{Number: i + 1, Text: text})
			}
		}
	}
	flush()

	return sections
}

// splitLines splits on "\r\n" or "\n", keeping every other byte of a line.
func splitLines(doc string) []string {
	lines := strings.Split(doc, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func classifyLine(line string, boilerplate []string) lineKind {
	if line == "" {
		return lineIgnored
	}
	for _, prefix := range boilerplate {
		if strings.HasPrefix(line, prefix) {
			return lineIgnored
		}
	}
	if isSectionMarker(line) {
		return lineSection
	}
	if isSessionLine(line) {
		return lineSession
	}
	return lineIgnored
}

// isSectionMarker recognizes "+" followed by an uppercase letter or digit.
func isSectionMarker(line string) bool {
	if len(line) < 2 || line[0] != '+' {
		return false
	}
	c := line[1]
	return isUpper(c) || isDigit(c)
}

// isSessionLine recognizes "digits , letter digit" at the start of line.
func isSessionLine(line string) bool {
	i := 0
	for i < len(line) && isDigit(line[i]) {
		i++
	}
	if i == 0 || i+2 >= len(line) || line[i] != ',' {
		return false
	}
	return isLetter(line[i+1]) && isDigit(line[i+2])
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isUpper(c byte) bool  { return c >= 'A' && c <= 'Z' }
func isLetter(c byte) bool { return isUpper(c) || (c >= 'a' && c <= 'z') }
