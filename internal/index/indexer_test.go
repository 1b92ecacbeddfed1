package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexiszott/GL02-Projet-Fork/internal/crawler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexer_BuildSaveLoad(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "AB"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "AB", "edt.cru"),
		[]byte("+AP03\n1,D1,P=25,H=L 10:00-12:00,F1,S=B103//\n2,D1,P=25,H=LUNDI,S=B104//\n3,D1,25,H=L 8:00-9:00,S=B1\n"), 0o644))

	idx := NewIndexer(crawler.NewCrawler("edt.cru"))

	c, err := idx.BuildCatalog(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, c.Sessions(), 2)

	out := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, idx.SaveCatalog(c, out))

	loaded, err := idx.LoadCatalog(out)
	require.NoError(t, err)

	sessions := loaded.Sessions()
	require.Len(t, sessions, 2)
	assert.Equal(t, "AP03", sessions[0].Section)
	require.NotNil(t, sessions[0].Week)
	assert.Equal(t, "1", *sessions[0].Week)
	assert.Nil(t, sessions[1].Day)
	assert.Equal(t, "LUNDI", sessions[1].ScheduleRaw)
	assert.Len(t, loaded.SessionsByRoom("B103"), 1, "room index is rebuilt after decoding")
	assert.Equal(t, 1, loaded.ErrorCount())
}

func TestIndexer_Errors(t *testing.T) {
	idx := NewIndexer(crawler.NewCrawler("edt.cru"))

	_, err := idx.BuildCatalog(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.ErrorContains(t, err, "scan failed")

	_, err = idx.LoadCatalog(filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = idx.LoadCatalog(bad)
	assert.ErrorContains(t, err, "failed to decode catalog")
}

func TestValidateCatalogJSON(t *testing.T) {
	t.Run("Empty catalog", func(t *testing.T) {
		assert.NoError(t, ValidateCatalogJSON([]byte(`{"documents":{}}`)))
	})

	t.Run("Missing documents", func(t *testing.T) {
		assert.ErrorContains(t, ValidateCatalogJSON([]byte(`{}`)), "schema validation failed")
	})

	t.Run("Session without room", func(t *testing.T) {
		raw := `{"documents":{"a.cru":{"id":"x","path":"a.cru","diagnostics":[],"sessions":[
			{"section":"AP03","index":"1","type":"D1","capacity":25,"schedule_raw":"L 8:00-9:00","raw":"r","line":2}]}}}`
		assert.ErrorContains(t, ValidateCatalogJSON([]byte(raw)), "schema validation failed")
	})

	t.Run("Rejected on load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"documents":{"a.cru":{"path":"a.cru"}}}`), 0o644))
		_, err := NewIndexer(crawler.NewCrawler("edt.cru")).LoadCatalog(path)
		assert.ErrorContains(t, err, "schema validation failed")
	})
}
