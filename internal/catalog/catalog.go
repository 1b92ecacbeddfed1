package catalog

import (
	"fmt"
	"sort"
	"time"

	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"

	"github.com/google/uuid"
)

// Document is one parsed CRU file.
type Document struct {
	ID          string           `json:"id"`
	Path        string           `json:"path"`
	Sessions    []*cru.Session   `json:"sessions"`
	Diagnostics []cru.Diagnostic `json:"diagnostics"`
	ParsedAt    time.Time        `json:"parsed_at"`
}

// NewDocument wraps a parse result for the file at path.
func NewDocument(path string, res *cru.Result) *Document {
	return &Document{
		ID:          DocumentID(path),
		Path:        path,
		Sessions:    res.Sessions,
		Diagnostics: res.Diagnostics,
		ParsedAt:    time.Now().UTC(),
	}
}

// ErrorCount is the number of session lines that failed to decode.
func (d *Document) ErrorCount() int {
	return len(d.Diagnostics)
}

// DocumentID derives a stable identifier from a file path.
func DocumentID(path string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("cru:"+path)).String()
}

// SessionID identifies a session within its document by source line.
func SessionID(doc *Document, s *cru.Session) string {
	return fmt.Sprintf("%s:%d", doc.ID, s.Line)
}

// Catalog holds the documents of a timetable collection.
type Catalog struct {
	Documents map[string]*Document `json:"documents"`

	// Paths in insertion order.
	order []string
	// Room -> sessions, rebuilt on change.
	roomIndex map[string][]*cru.Session
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		Documents: make(map[string]*Document),
		roomIndex: make(map[string][]*cru.Session),
	}
}

// AddDocument adds or replaces the document stored under doc.Path.
func (c *Catalog) AddDocument(doc *Document) {
	if doc == nil {
		return
	}
	if _, exists := c.Documents[doc.Path]; exists {
		c.Documents[doc.Path] = doc
		c.RebuildIndices()
		return
	}
	c.Documents[doc.Path] = doc
	c.order = append(c.order, doc.Path)
	for _, s := range doc.Sessions {
		c.roomIndex[s.Room] = append(c.roomIndex[s.Room], s)
	}
}

// RemoveDocument drops the document at path. It reports whether one existed.
func (c *Catalog) RemoveDocument(path string) bool {
	if _, ok := c.Documents[path]; !ok {
		return false
	}
	delete(c.Documents, path)
	c.RebuildIndices()
	return true
}

// Document returns the document at path, or nil.
func (c *Catalog) Document(path string) *Document {
	return c.Documents[path]
}

// Ordered returns the documents in insertion order.
func (c *Catalog) Ordered() []*Document {
	docs := make([]*Document, 0, len(c.order))
	for _, p := range c.order {
		if d, ok := c.Documents[p]; ok {
			docs = append(docs, d)
		}
	}
	return docs
}

// Sessions returns every session, documents in insertion order and
// sessions in source order.
func (c *Catalog) Sessions() []*cru.Session {
	var out []*cru.Session
	for _, d := range c.Ordered() {
		out = append(out, d.Sessions...)
	}
	return out
}

// SessionsByRoom returns the sessions held in room.
func (c *Catalog) SessionsByRoom(room string) []*cru.Session {
	return c.roomIndex[room]
}

// Rooms returns the sorted list of known rooms.
func (c *Catalog) Rooms() []string {
	rooms := make([]string, 0, len(c.roomIndex))
	for r := range c.roomIndex {
		rooms = append(rooms, r)
	}
	sort.Strings(rooms)
	return rooms
}

// ErrorCount sums decoding failures over all documents.
func (c *Catalog) ErrorCount() int {
	n := 0
	for _, d := range c.Documents {
		n += d.ErrorCount()
	}
	return n
}

// RebuildIndices recomputes the insertion order and room index. Call it
// after modifying Documents directly or after decoding a catalog.
func (c *Catalog) RebuildIndices() {
	kept := c.order[:0]
	seen := make(map[string]bool, len(c.Documents))
	for _, p := range c.order {
		if _, ok := c.Documents[p]; ok && !seen[p] {
			kept = append(kept, p)
			seen[p] = true
		}
	}
	var missing []string
	for p := range c.Documents {
		if !seen[p] {
			missing = append(missing, p)
		}
	}
	sort.Strings(missing)
	c.order = append(kept, missing...)

	c.roomIndex = make(map[string][]*cru.Session)
	for _, d := range c.Ordered() {
		for _, s := range d.Sessions {
			c.roomIndex[s.Room] = append(c.roomIndex[s.Room], s)
		}
	}
}
