package changeset

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/monoship/monoship/internal/model"
)

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	store := NewStore(t.TempDir())

	cs, err := New("pkg-a", model.BumpMinor, "adds a new widget", "jane", "feat/widget")
	require.NoError(t, err)
	cs.Environments = map[string]struct{}{"staging": {}}
	cs.CommitRefs = []string{"abc1234"}

	require.NoError(t, store.Save(cs))

	loaded, err := store.Load(cs.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cs.ID, loaded.ID)
	assert.Equal(t, cs.Package, loaded.Package)
	assert.Equal(t, cs.Bump, loaded.Bump)
	assert.Equal(t, cs.Summary, loaded.Summary)
	assert.Equal(t, cs.Author, loaded.Author)
	assert.Equal(t, cs.Branch, loaded.Branch)
	assert.Equal(t, model.ChangesetPending, loaded.Status)
	assert.Contains(t, loaded.Environments, "staging")
	assert.Equal(t, []string{"abc1234"}, loaded.CommitRefs)
}

func TestLoad_ByShortID(t *testing.T) {
	store := NewStore(t.TempDir())
	cs, err := New("pkg-a", model.BumpPatch, "fix a bug", "jane", "main")
	require.NoError(t, err)
	require.NoError(t, store.Save(cs))

	loaded, err := store.Load(cs.ShortID())
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, cs.ID, loaded.ID)
}

func TestLoad_NotFoundReturnsNil(t *testing.T) {
	store := NewStore(t.TempDir())
	loaded, err := store.Load("nonexistent")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestList_EmptyDirectoryIsNotAnError(t *testing.T) {
	store := NewStore(t.TempDir() + "/does-not-exist")
	list, err := store.List(Filter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestList_SortedByCreatedAtDescending(t *testing.T) {
	store := NewStore(t.TempDir())

	older, err := New("pkg-a", model.BumpPatch, "old change", "jane", "main")
	require.NoError(t, err)
	older.CreatedAt = time.Now().UTC().Add(-time.Hour)
	older.ID, err = GenerateID(older.CreatedAt)
	require.NoError(t, err)

	newer, err := New("pkg-a", model.BumpPatch, "new change", "jane", "main")
	require.NoError(t, err)

	require.NoError(t, store.Save(older))
	require.NoError(t, store.Save(newer))

	list, err := store.List(Filter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)
}

func TestList_ConjunctiveFilters(t *testing.T) {
	store := NewStore(t.TempDir())

	a, err := New("pkg-a", model.BumpMinor, "a", "jane", "main")
	require.NoError(t, err)
	a.Environments = map[string]struct{}{"prod": {}}
	require.NoError(t, store.Save(a))

	b, err := New("pkg-b", model.BumpMinor, "b", "bob", "main")
	require.NoError(t, err)
	require.NoError(t, store.Save(b))

	list, err := store.List(Filter{Package: "pkg-a", Author: "jane", Environment: "prod"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, a.ID, list[0].ID)

	list, err = store.List(Filter{Package: "pkg-a", Author: "bob"})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestDelete(t *testing.T) {
	store := NewStore(t.TempDir())
	cs, err := New("pkg-a", model.BumpPatch, "x", "jane", "main")
	require.NoError(t, err)
	require.NoError(t, store.Save(cs))

	ok, err := store.Delete(cs.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	loaded, err := store.Load(cs.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestDelete_NotFound(t *testing.T) {
	store := NewStore(t.TempDir())
	ok, err := store.Delete("nonexistent")
	require.NoError(t, err)
	assert.False(t, ok)
}
