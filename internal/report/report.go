package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/alexiszott/GL02-Projet-Fork/internal/analysis"
	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorValid = lipgloss.Color("#10B981")
	colorError = lipgloss.Color("#EF4444")
	colorMuted = lipgloss.Color("#6B7280")

	ValidStyle = lipgloss.NewStyle().
			Foreground(colorValid).
			Bold(true)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(colorError).
			Bold(true)

	MutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Verdict prints whether doc is a valid CRU file and how much was decoded.
func Verdict(w io.Writer, doc *catalog.Document) {
	if doc.ErrorCount() == 0 {
		fmt.Fprintln(w, ValidStyle.Render("The .cru file is a valid cru file"))
	} else {
		fmt.Fprintln(w, ErrorStyle.Render(fmt.Sprintf("The .cru file contains error (%d)", doc.ErrorCount())))
	}
	fmt.Fprintf(w, "Parsed entries: %d\n", len(doc.Sessions))
}

// Diagnostics prints one line per decoding failure.
func Diagnostics(w io.Writer, diags []cru.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "  %s %s\n", ErrorStyle.Render(fmt.Sprintf("line %d", d.Line)), d.Message)
		fmt.Fprintf(w, "    %s\n", MutedStyle.Render(d.Raw))
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Slots prints the free hours of each day.
func Slots(w io.Writer, room string, slots []analysis.DaySlots) {
	fmt.Fprintf(w, "Free slots for %s:\n", room)
	for _, s := range slots {
		hours := make([]string, len(s.Hours))
		for i, h := range s.Hours {
			hours[i] = fmt.Sprintf("%02d:00", h)
		}
		if len(hours) == 0 {
			hours = []string{MutedStyle.Render("none")}
		}
		fmt.Fprintf(w, "  %-3s %s\n", s.Day, strings.Join(hours, " "))
	}
}

// Impact prints the sessions touched by a change set.
func Impact(w io.Writer, r *analysis.ImpactReport) {
	fmt.Fprintf(w, "  -> %d sessions modified\n", len(r.Affected))
	for _, s := range r.Affected {
		fmt.Fprintf(w, "     %s %s\n", s.Section, MutedStyle.Render(s.Raw))
	}
	if len(r.Broken) > 0 {
		fmt.Fprintf(w, "  -> %s\n", ErrorStyle.Render(fmt.Sprintf("%d modified lines no longer decode", len(r.Broken))))
		Diagnostics(w, r.Broken)
	}
}
