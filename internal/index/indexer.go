package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/crawler"
)

// Indexer orchestrates timetable discovery and catalog management.
type Indexer struct {
	crawler *crawler.Crawler
}

// NewIndexer creates a new indexer.
func NewIndexer(c *crawler.Crawler) *Indexer {
	return &Indexer{
		crawler: c,
	}
}

// BuildCatalog scans root and collects every parsed document.
func (i *Indexer) BuildCatalog(ctx context.Context, root string) (*catalog.Catalog, error) {
	c := catalog.NewCatalog()

	if err := i.crawler.ScanDirectory(ctx, root, c.AddDocument); err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	return c, nil
}

// SaveCatalog writes the catalog as indented JSON.
func (i *Indexer) SaveCatalog(c *catalog.Catalog, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create catalog file: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}
	return nil
}

// LoadCatalog reads a catalog written by SaveCatalog. The file is checked
// against the catalog schema before decoding.
func (i *Indexer) LoadCatalog(path string) (*catalog.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}

	if err := ValidateCatalogJSON(raw); err != nil {
		return nil, err
	}

	c := catalog.NewCatalog()
	if err := json.Unmarshal(raw, c); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	// Important: Rebuild internal indices that aren't serialized
	c.RebuildIndices()

	return c, nil
}
