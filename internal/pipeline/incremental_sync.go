package pipeline

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/alexiszott/GL02-Projet-Fork/internal/analysis"
	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/crawler"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"
	"github.com/alexiszott/GL02-Projet-Fork/internal/git"
	"github.com/alexiszott/GL02-Projet-Fork/internal/index"
	"github.com/alexiszott/GL02-Projet-Fork/internal/report"
	"github.com/alexiszott/GL02-Projet-Fork/internal/storage"
)

// IncrementalSync keeps the session database in step with the CRU files
// changed since HEAD.
type IncrementalSync struct {
	DBPath     string
	DataRoot   string
	FileName   string
	ParserOpts []cru.Option
	Out        io.Writer

	changes func(baseRef string) ([]git.ChangedFile, error)
}

type updatePlan struct {
	Changes    []git.ChangedFile
	FullResync bool
}

func NewIncrementalSync(dbPath string) *IncrementalSync {
	return &IncrementalSync{
		DBPath:   dbPath,
		DataRoot: ".",
		FileName: "edt.cru",
		Out:      os.Stdout,
		changes:  git.GetChangedFiles,
	}
}

func (s *IncrementalSync) Run(ctx context.Context, force bool) error {
	cr := crawler.NewCrawler(s.FileName, s.ParserOpts...)

	plan, err := s.detectChangesStage(cr, force)
	if err != nil {
		return err
	}
	if len(plan.Changes) == 0 && !plan.FullResync {
		fmt.Fprintln(s.Out, "✅ No changes detected.")
		return nil
	}

	store, err := storage.NewSQLiteStore(s.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	if plan.FullResync {
		return s.fullResyncStage(ctx, cr, store)
	}

	if err := s.documentUpdateStage(ctx, cr, store, plan.Changes); err != nil {
		return err
	}

	c, err := store.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	s.impactAnalysisStage(c, plan.Changes)
	return nil
}

func (s *IncrementalSync) detectChangesStage(cr *crawler.Crawler, force bool) (*updatePlan, error) {
	changes, err := s.changes("HEAD")
	if err != nil {
		return nil, fmt.Errorf("failed to get git changes: %w", err)
	}
	changes = git.FilterFiles(changes, cr.Matches)

	fullResync := force && len(changes) == 0
	if fullResync {
		fmt.Fprintln(s.Out, "🧭 No git changes detected. Running full sync from current data (--force).")
	} else if len(changes) > 0 {
		fmt.Fprintf(s.Out, "📝 Detected %d changed timetables.\n", len(changes))
	}

	return &updatePlan{
		Changes:    changes,
		FullResync: fullResync,
	}, nil
}

func (s *IncrementalSync) fullResyncStage(ctx context.Context, cr *crawler.Crawler, store storage.DocumentStore) error {
	start := time.Now()
	c, err := index.NewIndexer(cr).BuildCatalog(ctx, s.DataRoot)
	if err != nil {
		return fmt.Errorf("full sync failed: %w", err)
	}
	if err := store.SaveCatalog(ctx, c); err != nil {
		return fmt.Errorf("failed to save catalog: %w", err)
	}
	fmt.Fprintf(s.Out, "📊 Full rebuild completed in %v. Documents=%d Sessions=%d Errors=%d\n",
		time.Since(start), len(c.Documents), len(c.Sessions()), c.ErrorCount())
	return nil
}

func (s *IncrementalSync) documentUpdateStage(ctx context.Context, cr *crawler.Crawler, store storage.DocumentStore, changes []git.ChangedFile) error {
	updated, removed := 0, 0
	for _, change := range changes {
		path := filepath.Clean(change.Path)

		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := store.DeleteDocument(ctx, path); err != nil {
				return fmt.Errorf("failed to delete %s: %w", path, err)
			}
			removed++
			continue
		}

		doc, err := cr.ParseFile(path)
		if err != nil {
			log.Printf("⚠️ Failed to parse file %s: %v", path, err)
			continue
		}
		if err := store.SaveDocument(ctx, doc); err != nil {
			return fmt.Errorf("failed to save %s: %w", path, err)
		}
		updated++
	}

	fmt.Fprintf(s.Out, "📊 Update: %d documents reparsed, %d removed.\n", updated, removed)
	return nil
}

func (s *IncrementalSync) impactAnalysisStage(c *catalog.Catalog, changes []git.ChangedFile) {
	fmt.Fprintln(s.Out, "🔍 Analyzing impact...")
	r, err := analysis.NewAnalyzer(c).AnalyzeImpact(changes)
	if err != nil {
		log.Printf("Analysis warning: %v", err)
		return
	}
	report.Impact(s.Out, r)
}
