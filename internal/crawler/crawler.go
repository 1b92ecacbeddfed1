package crawler

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"

	"golang.org/x/sync/errgroup"
)

// Crawler scans a directory tree for CRU files.
type Crawler struct {
	fileName   string
	parserOpts []cru.Option
	ignored    []string
	workers    int
	logger     *log.Logger
}

// NewCrawler creates a crawler selecting files named fileName, or every
// "*.cru" file when fileName is empty. parserOpts apply to each document's
// parser.
func NewCrawler(fileName string, parserOpts ...cru.Option) *Crawler {
	return &Crawler{
		fileName:   fileName,
		parserOpts: parserOpts,
		ignored:    []string{".git", "vendor", "node_modules"},
		workers:    runtime.NumCPU(),
		logger:     log.Default(),
	}
}

// SetWorkers bounds the number of files parsed concurrently.
func (c *Crawler) SetWorkers(n int) {
	if n > 0 {
		c.workers = n
	}
}

// SetLogger replaces the logger used for skipped files.
func (c *Crawler) SetLogger(l *log.Logger) {
	if l != nil {
		c.logger = l
	}
}

// Matches reports whether path names a file the crawler selects.
func (c *Crawler) Matches(path string) bool {
	name := filepath.Base(path)
	if c.fileName == "" {
		return strings.EqualFold(filepath.Ext(name), ".cru")
	}
	return name == c.fileName
}

// ParseFile reads and parses a single CRU file.
func (c *Crawler) ParseFile(path string) (*catalog.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	res := cru.NewParser(c.parserOpts...).Parse(string(data))
	return catalog.NewDocument(path, res), nil
}

// ScanDirectory walks root, parses every matching file with its own parser,
// and streams the documents to onDoc in lexical path order. Files that
// cannot be read are logged and skipped.
func (c *Crawler) ScanDirectory(ctx context.Context, root string, onDoc func(*catalog.Document)) error {
	paths, err := c.findFiles(root)
	if err != nil {
		return err
	}

	docs := make([]*catalog.Document, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := c.ParseFile(path)
			if err != nil {
				// Log and continue instead of failing the whole scan
				c.logger.Printf("⚠️ Skipping %s: %v", path, err)
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Stream results back
	for _, doc := range docs {
		if doc != nil {
			onDoc(doc)
		}
	}
	return nil
}

func (c *Crawler) findFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Skip ignored directories
		if d.IsDir() {
			for _, ign := range c.ignored {
				if d.Name() == ign {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if c.Matches(path) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", root, err)
	}
	return paths, nil
}
