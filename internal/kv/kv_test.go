package kv

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		db, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		db.Close()
	}
}

func TestNamespace_SharedHandle(t *testing.T) {
	db := openTestDB(t)

	ns1, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}
	ns2, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("second Namespace() failed: %v", err)
	}
	if ns1 != ns2 {
		t.Error("expected the same handle for repeated opens of one namespace")
	}
}

func TestNamespace_SetGetDeleteKeys(t *testing.T) {
	db := openTestDB(t)
	ns, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}

	if _, ok := ns.Get("a"); ok {
		t.Error("Get on empty namespace should report absent")
	}

	ns.Set("b", []byte("2"))
	ns.Set("a", []byte("1"))

	v, ok := ns.Get("a")
	if !ok || string(v) != "1" {
		t.Errorf("Get(a) = %q, %v; want 1, true", v, ok)
	}

	keys := ns.Keys()
	if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
		t.Errorf("Keys() = %v, want [a b]", keys)
	}

	ns.Delete("a")
	if _, ok := ns.Get("a"); ok {
		t.Error("Get after Delete should report absent")
	}
}

func TestPersist_DurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	binary := []byte{0x89, 0x50, 0x4E, 0x47, 0x00, 0x01, 0xFE, 0xFF}

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	ns, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}
	ns.Set("Site-A", binary)
	if err := ns.Persist(context.Background()); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()
	ns2, err := db2.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() after reopen failed: %v", err)
	}
	v, ok := ns2.Get("Site-A")
	if !ok {
		t.Fatal("persisted key missing after reopen")
	}
	if string(v) != string(binary) {
		t.Errorf("value not preserved byte-for-byte: got % x", v)
	}
}

func TestPersist_UnpersistedMutationsNotDurable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	ns, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}
	ns.Set("staged", []byte("x"))
	db.Close() // discard pending

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()
	ns2, err := db2.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() after reopen failed: %v", err)
	}
	if _, ok := ns2.Get("staged"); ok {
		t.Error("unpersisted mutation survived reopen")
	}
}

func TestPersist_RenamePairIsAtomic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	ns, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}
	ns.Set("old", []byte("doc"))
	if err := ns.Persist(context.Background()); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}

	// Stage both halves of a rename, then flush once.
	ns.Set("new", []byte("doc"))
	ns.Delete("old")
	if err := ns.Persist(context.Background()); err != nil {
		t.Fatalf("rename Persist() failed: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()
	ns2, err := db2.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() after reopen failed: %v", err)
	}
	if _, ok := ns2.Get("old"); ok {
		t.Error("old key still present after rename")
	}
	if _, ok := ns2.Get("new"); !ok {
		t.Error("new key missing after rename")
	}
}

func TestPersist_FailureRestoresWorkingCopy(t *testing.T) {
	db := openTestDB(t)
	ns, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}
	ns.Set("Site-A", []byte("v1"))
	ns.Set("Site-B", []byte("old"))
	if err := ns.Persist(context.Background()); err != nil {
		t.Fatalf("Persist() failed: %v", err)
	}

	// Stage an overwrite, a fresh key and a delete, then fail the flush.
	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	ns.Set("Site-A", []byte("v2"))
	ns.Set("Ghost", []byte("boo"))
	ns.Delete("Site-B")

	err = ns.Persist(canceled)
	if err == nil {
		t.Fatal("Persist() with canceled context should fail")
	}
	if !IsPersistError(err) {
		t.Errorf("error %v is not a PersistError", err)
	}

	if v, ok := ns.Get("Site-A"); !ok || string(v) != "v1" {
		t.Errorf("Site-A = %q, want last persisted value v1", v)
	}
	if _, ok := ns.Get("Ghost"); ok {
		t.Error("aborted write still visible in working copy")
	}
	if v, ok := ns.Get("Site-B"); !ok || string(v) != "old" {
		t.Error("aborted delete not restored in working copy")
	}
}

func TestPersist_AbortedMutationDoesNotRideLaterFlush(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	ns, err := db.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}

	canceled, cancel := context.WithCancel(context.Background())
	cancel()
	ns.Set("Ghost", []byte("boo"))
	if err := ns.Persist(canceled); err == nil {
		t.Fatal("Persist() with canceled context should fail")
	}

	ns.Set("Real", []byte("ok"))
	if err := ns.Persist(context.Background()); err != nil {
		t.Fatalf("Persist() after failed flush: %v", err)
	}
	db.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer db2.Close()
	ns2, err := db2.Namespace("projects")
	if err != nil {
		t.Fatalf("Namespace() after reopen failed: %v", err)
	}
	if _, ok := ns2.Get("Ghost"); ok {
		t.Error("aborted mutation was durably committed by a later flush")
	}
	if v, ok := ns2.Get("Real"); !ok || string(v) != "ok" {
		t.Error("successful mutation missing after reopen")
	}
}

func TestGetJSON_SetJSON(t *testing.T) {
	db := openTestDB(t)
	ns, err := db.Namespace("settings")
	if err != nil {
		t.Fatalf("Namespace() failed: %v", err)
	}

	type doc struct {
		Items []string `json:"items"`
	}
	if err := ns.SetJSON("settings", doc{Items: []string{"SQL注入", "XSS"}}); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}

	var got doc
	ok, err := ns.GetJSON("settings", &got)
	if err != nil || !ok {
		t.Fatalf("GetJSON = %v, %v", ok, err)
	}
	if len(got.Items) != 2 || got.Items[0] != "SQL注入" {
		t.Errorf("round trip mismatch: %+v", got)
	}

	var missing doc
	ok, err = ns.GetJSON("absent", &missing)
	if err != nil {
		t.Fatalf("GetJSON absent key errored: %v", err)
	}
	if ok {
		t.Error("GetJSON absent key should report not found")
	}
}
