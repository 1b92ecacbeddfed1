package storage

import (
	"context"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"
)

// Store combines document persistence and session lookups.
type Store interface {
	DocumentStore
	SessionFinder
	Close() error
}

// DocumentStore defines operations for persisting parsed documents.
type DocumentStore interface {
	// SaveDocument replaces the stored snapshot of one document.
	SaveDocument(ctx context.Context, doc *catalog.Document) error

	// SaveCatalog replaces the whole stored collection with c.
	SaveCatalog(ctx context.Context, c *catalog.Catalog) error

	// DeleteDocument removes the document stored for path, if any.
	DeleteDocument(ctx context.Context, path string) error

	// LoadCatalog rebuilds the catalog from storage.
	LoadCatalog(ctx context.Context) (*catalog.Catalog, error)
}

// SessionFinder defines direct session queries.
type SessionFinder interface {
	// FindSessionsByRoom returns all sessions held in room.
	FindSessionsByRoom(ctx context.Context, room string) ([]*cru.Session, error)

	// FindSessionsByFile returns the sessions of the document at path.
	FindSessionsByFile(ctx context.Context, path string) ([]*cru.Session, error)
}
