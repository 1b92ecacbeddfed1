package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			path TEXT UNIQUE,
			parsed_at TEXT
		);`,
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			document_id TEXT,
			position INTEGER,
			section TEXT,
			idx TEXT,
			type TEXT,
			capacity INTEGER,
			schedule_raw TEXT,
			day TEXT,
			start_time TEXT,
			end_time TEXT,
			week TEXT,
			room TEXT,
			raw TEXT,
			line INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS diagnostics (
			document_id TEXT,
			position INTEGER,
			section TEXT,
			line INTEGER,
			raw TEXT,
			code INTEGER,
			message TEXT,
			remaining JSON,
			PRIMARY KEY (document_id, position)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_room ON sessions(room);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_document ON sessions(document_id);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

const sessionColumns = "s.section, s.idx, s.type, s.capacity, s.schedule_raw, s.day, s.start_time, s.end_time, s.week, s.room, s.raw, s.line"

// --- DocumentStore Implementation ---

func (s *SQLiteStore) SaveDocument(ctx context.Context, doc *catalog.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByPath(ctx, tx, doc.Path); err != nil {
		return err
	}
	if err := insertDocument(ctx, tx, doc); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStore) SaveCatalog(ctx context.Context, c *catalog.Catalog) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Snapshot semantics: documents absent from c are dropped.
	for _, q := range []string{"DELETE FROM diagnostics", "DELETE FROM sessions", "DELETE FROM documents"} {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			return err
		}
	}

	for _, doc := range c.Ordered() {
		if err := insertDocument(ctx, tx, doc); err != nil {
			return fmt.Errorf("failed to save %s: %w", doc.Path, err)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) DeleteDocument(ctx context.Context, path string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := deleteByPath(ctx, tx, path); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteByPath(ctx context.Context, tx *sql.Tx, path string) error {
	queries := []string{
		"DELETE FROM sessions WHERE document_id IN (SELECT id FROM documents WHERE path = ?)",
		"DELETE FROM diagnostics WHERE document_id IN (SELECT id FROM documents WHERE path = ?)",
		"DELETE FROM documents WHERE path = ?",
	}
	for _, q := range queries {
		if _, err := tx.ExecContext(ctx, q, path); err != nil {
			return err
		}
	}
	return nil
}

func insertDocument(ctx context.Context, tx *sql.Tx, doc *catalog.Document) error {
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO documents (id, path, parsed_at) VALUES (?, ?, ?)",
		doc.ID, doc.Path, doc.ParsedAt.UTC().Format(time.RFC3339Nano)); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sessions (id, document_id, position, section, idx, type, capacity, schedule_raw, day, start_time, end_time, week, room, raw, line)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, ses := range doc.Sessions {
		if _, err := stmt.ExecContext(ctx, catalog.SessionID(doc, ses), doc.ID, i,
			ses.Section, ses.Index, ses.Type, ses.Capacity, ses.ScheduleRaw,
			ses.Day, ses.StartTime, ses.EndTime, ses.Week, ses.Room, ses.Raw, ses.Line); err != nil {
			return err
		}
	}

	diagStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO diagnostics (document_id, position, section, line, raw, code, message, remaining)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer diagStmt.Close()

	for i, d := range doc.Diagnostics {
		remaining, _ := json.Marshal(d.Remaining)
		if _, err := diagStmt.ExecContext(ctx, doc.ID, i, d.Section, d.Line, d.Raw, d.Code, d.Message, remaining); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	c := catalog.NewCatalog()

	// 1. Load Documents
	rows, err := s.db.QueryContext(ctx, "SELECT id, path, parsed_at FROM documents ORDER BY path")
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	var docs []*catalog.Document
	byID := make(map[string]*catalog.Document)
	for rows.Next() {
		var doc catalog.Document
		var parsedAt string
		if err := rows.Scan(&doc.ID, &doc.Path, &parsedAt); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		doc.ParsedAt, _ = time.Parse(time.RFC3339Nano, parsedAt)
		doc.Sessions = []*cru.Session{}
		doc.Diagnostics = []cru.Diagnostic{}
		docs = append(docs, &doc)
		byID[doc.ID] = &doc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// 2. Load Sessions
	sesRows, err := s.db.QueryContext(ctx, "SELECT s.document_id, "+sessionColumns+" FROM sessions s ORDER BY s.document_id, s.position")
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer sesRows.Close()

	for sesRows.Next() {
		var docID string
		ses, err := scanSession(sesRows, &docID)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if doc, ok := byID[docID]; ok {
			doc.Sessions = append(doc.Sessions, ses)
		}
	}
	if err := sesRows.Err(); err != nil {
		return nil, err
	}

	// 3. Load Diagnostics
	diagRows, err := s.db.QueryContext(ctx, "SELECT document_id, section, line, raw, code, message, remaining FROM diagnostics ORDER BY document_id, position")
	if err != nil {
		return nil, fmt.Errorf("failed to query diagnostics: %w", err)
	}
	defer diagRows.Close()

	for diagRows.Next() {
		var docID string
		var d cru.Diagnostic
		var remaining []byte
		if err := diagRows.Scan(&docID, &d.Section, &d.Line, &d.Raw, &d.Code, &d.Message, &remaining); err != nil {
			return nil, fmt.Errorf("failed to scan diagnostic: %w", err)
		}
		if len(remaining) > 0 {
			_ = json.Unmarshal(remaining, &d.Remaining)
		}
		if doc, ok := byID[docID]; ok {
			doc.Diagnostics = append(doc.Diagnostics, d)
		}
	}
	if err := diagRows.Err(); err != nil {
		return nil, err
	}

	for _, doc := range docs {
		c.AddDocument(doc)
	}
	return c, nil
}

// --- SessionFinder Implementation ---

func (s *SQLiteStore) FindSessionsByRoom(ctx context.Context, room string) ([]*cru.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions s
		JOIN documents d ON d.id = s.document_id
		WHERE s.room = ? ORDER BY d.path, s.position`, room)
}

func (s *SQLiteStore) FindSessionsByFile(ctx context.Context, path string) ([]*cru.Session, error) {
	return s.querySessions(ctx, `
		SELECT `+sessionColumns+` FROM sessions s
		JOIN documents d ON d.id = s.document_id
		WHERE d.path = ? ORDER BY s.position`, path)
}

func (s *SQLiteStore) querySessions(ctx context.Context, query string, arg any) ([]*cru.Session, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []*cru.Session
	for rows.Next() {
		ses, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, ses)
	}
	return sessions, rows.Err()
}

// scanSession reads sessionColumns, preceded by any extra destinations.
func scanSession(rows *sql.Rows, extra ...any) (*cru.Session, error) {
	var ses cru.Session
	dest := append(extra,
		&ses.Section, &ses.Index, &ses.Type, &ses.Capacity, &ses.ScheduleRaw,
		&ses.Day, &ses.StartTime, &ses.EndTime, &ses.Week, &ses.Room, &ses.Raw, &ses.Line)
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	return &ses, nil
}
