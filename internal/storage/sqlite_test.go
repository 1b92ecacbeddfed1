package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alexiszott/GL02-Projet-Fork/internal/catalog"
	"github.com/alexiszott/GL02-Projet-Fork/internal/cru"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testDocument(path, doc string) *catalog.Document {
	return catalog.NewDocument(path, cru.Parse(doc))
}

func TestSQLiteStore_SaveCatalog_SnapshotSync(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	a := testDocument("a/edt.cru", "+AP01\n1,C1,P=30,H=L 8:00-10:00,F1,S=B103//\n2,C1,30,H=L 8:00-10:00,S=B103\n")
	b := testDocument("b/edt.cru", "+CL02\n1,T1,P=20,H=MA LATE,S=A101\n")

	c1 := catalog.NewCatalog()
	c1.AddDocument(a)
	c1.AddDocument(b)
	require.NoError(t, store.SaveCatalog(ctx, c1))

	// New snapshot drops a and adds c.
	c := testDocument("c/edt.cru", "+ME03\n1,D1,P=12,H=V 9:00-12:00,S=A101\n")
	c2 := catalog.NewCatalog()
	c2.AddDocument(b)
	c2.AddDocument(c)
	require.NoError(t, store.SaveCatalog(ctx, c2))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)

	assert.Len(t, loaded.Documents, 2)
	assert.Nil(t, loaded.Document(a.Path))
	require.NotNil(t, loaded.Document(b.Path))
	assert.Equal(t, b.ID, loaded.Document(b.Path).ID)
	assert.Len(t, loaded.SessionsByRoom("A101"), 2)
	assert.Zero(t, loaded.ErrorCount())
}

func TestSQLiteStore_RoundTripFields(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	doc := testDocument("a/edt.cru", "+AP01\n1,C1,P=30,H=L 8:00-10:00,F1,S=B103//\n2,T1,P=24,H=LUNDI,S=B104\n3,C1,30,H=L 8:00-10:00,S=B103\n")
	require.NoError(t, store.SaveDocument(ctx, doc))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	got := loaded.Document(doc.Path)
	require.NotNil(t, got)

	t.Run("Sessions", func(t *testing.T) {
		require.Len(t, got.Sessions, 2)
		assert.Equal(t, doc.Sessions[0], got.Sessions[0])
		assert.Equal(t, doc.Sessions[1], got.Sessions[1])
		assert.Nil(t, got.Sessions[1].Day)
		assert.Nil(t, got.Sessions[1].Week)
	})

	t.Run("Diagnostics", func(t *testing.T) {
		require.Len(t, got.Diagnostics, 1)
		d := got.Diagnostics[0]
		assert.Equal(t, 4, d.Line)
		assert.Equal(t, cru.CodeUnexpectedSymbol, d.Code)
		assert.Equal(t, doc.Diagnostics[0].Remaining, d.Remaining)
		assert.Equal(t, doc.Diagnostics[0].Message, d.Message)
	})

	t.Run("ParsedAt", func(t *testing.T) {
		assert.True(t, doc.ParsedAt.Equal(got.ParsedAt))
	})
}

func TestSQLiteStore_SaveDocumentReplaces(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("a/edt.cru", "+AP01\n1,C1,P=30,H=L 8:00-10:00,S=B103\n2,C1,P=30,H=MA 8:00-10:00,S=B103\n")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("a/edt.cru", "+AP01\n1,C1,P=30,H=L 8:00-10:00,S=B103\n")))
	require.NoError(t, store.SaveDocument(ctx, testDocument("b/edt.cru", "+AP02\n1,C1,P=99,H=J 8:00-10:00,S=B103\n")))

	byFile, err := store.FindSessionsByFile(ctx, "a/edt.cru")
	require.NoError(t, err)
	assert.Len(t, byFile, 1)

	byRoom, err := store.FindSessionsByRoom(ctx, "B103")
	require.NoError(t, err)
	require.Len(t, byRoom, 2)
	assert.Equal(t, "AP01", byRoom[0].Section)
	assert.Equal(t, 99, byRoom[1].Capacity)

	require.NoError(t, store.DeleteDocument(ctx, "a/edt.cru"))
	byRoom, err = store.FindSessionsByRoom(ctx, "B103")
	require.NoError(t, err)
	assert.Len(t, byRoom, 1)

	require.NoError(t, store.DeleteDocument(ctx, "never/stored.cru"))
}

func TestSQLiteStore_EmptySnapshotClearsData(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveDocument(ctx, testDocument("x/edt.cru", "+X1\n1,C1,P=1,H=L 8:00-9:00,S=B1\n")))
	require.NoError(t, store.SaveCatalog(ctx, catalog.NewCatalog()))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, loaded.Documents)
	assert.Empty(t, loaded.Sessions())
}
