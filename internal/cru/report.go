package cru

import (
	"fmt"
	"strings"
)

// Diagnostic records one session that failed structural decoding.
type Diagnostic struct {
	Section   string   `json:"section"`
	Line      int      `json:"line"`
	Raw       string   `json:"raw"`
	Code      int      `json:"code"`
	Message   string   `json:"message"`
	Remaining []string `json:"remaining"`
	Err       error    `json:"-"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("line %d [%s]: %s (remaining: %s)", d.Line, d.Section, d.Message, strings.Join(d.Remaining, " "))
}

func (p *Parser) report(section string, line SessionLine, c *cursor, err error) {
	d := Diagnostic{
		Section:   section,
		Line:      line.Number,
		Raw:       line.Text,
		Code:      ErrorCode(err),
		Message:   err.Error(),
		Remaining: c.remaining(),
		Err:       err,
	}
	p.result.Diagnostics = append(p.result.Diagnostics, d)
	p.logger.Printf("Parsing Error ! on %s -- msg : %s", strings.Join(d.Remaining, ","), d.Message)
}
