package analysis

import (
	"path/filepath"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"
	"github.com/alexiszott/GL02-Projet-Fork/internal/git"
)

// ImpactReport summarizes the sessions touched by file changes.
type ImpactReport struct {
	// Sessions whose source line was modified.
	Affected []*cru.Session
	// Sessions that failed to decode on a modified line.
	Broken []cru.Diagnostic
	// Changed files the catalog does not know about.
	Untracked []string
}

// Analyzer performs impact analysis on a catalog.
type Analyzer struct {
	c *catalog.Catalog
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(c *catalog.Catalog) *Analyzer {
	return &Analyzer{c: c}
}

// AnalyzeImpact maps changed lines to the sessions parsed from them.
func (a *Analyzer) AnalyzeImpact(changes []git.ChangedFile) (*ImpactReport, error) {
	report := &ImpactReport{
		Affected: []*cru.Session{},
		Broken:   []cru.Diagnostic{},
	}

	for _, change := range changes {
		doc := a.c.Document(filepath.Clean(change.Path))
		if doc == nil {
			report.Untracked = append(report.Untracked, change.Path)
			continue
		}

		lines := make(map[int]bool, len(change.ChangedLines))
		for _, l := range change.ChangedLines {
			lines[l] = true
		}

		for _, s := range doc.Sessions {
			if lines[s.Line] {
				report.Affected = append(report.Affected, s)
			}
		}
		for _, d := range doc.Diagnostics {
			if lines[d.Line] {
				report.Broken = append(report.Broken, d)
			}
		}
	}

	return report, nil
}
