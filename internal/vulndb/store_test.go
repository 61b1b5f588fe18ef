package vulndb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hazreport/internal/kv"
	"hazreport/internal/model"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	return reopenStore(t, path), path
}

func reopenStore(t *testing.T, path string) *Store {
	t.Helper()
	db, err := kv.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	ns, err := db.Namespace("vuln")
	require.NoError(t, err)
	s, err := Open(context.Background(), ns)
	require.NoError(t, err)
	return s
}

func TestOpen_SeedsDefaults(t *testing.T) {
	s, _ := openTestStore(t)

	require.NotEmpty(t, s.Entries())
	entry, ok := s.Get("SQL注入漏洞")
	require.True(t, ok, "default entry missing")
	assert.NotEmpty(t, entry.ProblemDescription)
	assert.NotEmpty(t, entry.VulModifyRepair)
}

func TestAdd_RejectsDuplicateAndBlank(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	entry := model.VulnEntry{VulName: "目录遍历", ProblemDescription: "d", VulModifyRepair: "r"}
	ok, err := s.Add(ctx, entry)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = s.Add(ctx, entry)
	require.NoError(t, err)
	assert.False(t, ok, "duplicate name must not be added")

	ok, err = s.Add(ctx, model.VulnEntry{VulName: "   "})
	require.NoError(t, err)
	assert.False(t, ok, "blank name must not be added")
}

func TestUpsert_ReplacesEntirely(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	ok, err := s.Upsert(ctx, model.VulnEntry{VulName: "弱口令", ProblemDescription: "new desc", VulModifyRepair: "new fix"})
	require.NoError(t, err)
	require.True(t, ok, "replacing an existing entry must report replaced")

	got, found := s.Get("弱口令")
	require.True(t, found)
	assert.Equal(t, "new desc", got.ProblemDescription)
	assert.Equal(t, "new fix", got.VulModifyRepair)

	// Count stays one: upsert replaced, not appended.
	count := 0
	for _, e := range s.Entries() {
		if e.VulName == "弱口令" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestUpsert_AppendReportsNotReplaced(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	replaced, err := s.Upsert(ctx, model.VulnEntry{VulName: "新漏洞", ProblemDescription: "desc"})
	require.NoError(t, err)
	assert.False(t, replaced, "appending a new entry must not report replaced")

	_, found := s.Get("新漏洞")
	assert.True(t, found)
}

func TestRemove(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	ok, err := s.Remove(ctx, "弱口令")
	require.NoError(t, err)
	require.True(t, ok)
	_, found := s.Get("弱口令")
	assert.False(t, found)

	ok, err = s.Remove(ctx, "弱口令")
	require.NoError(t, err)
	assert.False(t, ok, "removing an absent name reports false")
}

func TestRename_SingleCommit(t *testing.T) {
	s, path := openTestStore(t)
	ctx := context.Background()

	ok, err := s.Rename(ctx, "弱口令", model.VulnEntry{
		VulName:            "默认口令",
		ProblemDescription: "renamed",
		VulModifyRepair:    "renamed fix",
	})
	require.NoError(t, err)
	require.True(t, ok)

	_, found := s.Get("弱口令")
	assert.False(t, found, "old name still present")
	got, found := s.Get("默认口令")
	require.True(t, found, "new name missing")
	assert.Equal(t, "renamed", got.ProblemDescription)

	// Durable: a fresh store sees exactly the renamed record.
	s2 := reopenStore(t, path)
	_, found = s2.Get("弱口令")
	assert.False(t, found)
	_, found = s2.Get("默认口令")
	assert.True(t, found)
}

func TestRename_TargetTaken(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	ok, err := s.Rename(ctx, "弱口令", model.VulnEntry{VulName: "未授权访问"})
	require.NoError(t, err)
	assert.False(t, ok, "rename onto an existing name must be refused")
	_, found := s.Get("弱口令")
	assert.True(t, found, "source entry must survive a refused rename")
}

func TestReset_RestoresDefaults(t *testing.T) {
	s, _ := openTestStore(t)
	ctx := context.Background()

	_, err := s.Remove(ctx, "SQL注入漏洞")
	require.NoError(t, err)
	_, err = s.Add(ctx, model.VulnEntry{VulName: "自定义漏洞"})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	defaults, err := Defaults()
	require.NoError(t, err)
	assert.Equal(t, defaults, s.Entries())
}

func TestPersistFailure_EntriesUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := kv.Open(path)
	require.NoError(t, err)
	ns, err := db.Namespace("vuln")
	require.NoError(t, err)
	ctx := context.Background()
	s, err := Open(ctx, ns)
	require.NoError(t, err)
	before := s.Entries()

	db.Close() // force persist failures

	ok, err := s.Upsert(ctx, model.VulnEntry{VulName: "新漏洞"})
	require.Error(t, err)
	assert.True(t, kv.IsPersistError(err))
	assert.False(t, ok)
	assert.Equal(t, before, s.Entries(), "in-memory list changed despite failed persist")
}
