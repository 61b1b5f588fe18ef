package kv

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// DB is the shared SQLite database holding all kv namespaces.
type DB struct {
	db *sql.DB

	mu         sync.Mutex
	namespaces map[string]*Namespace
}

// Open creates or opens the kv database at the given path.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - 5-second busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &DB{db: db, namespaces: make(map[string]*Namespace)}, nil
}

// Close closes the database connection. Pending, unpersisted mutations in
// any namespace are discarded.
func (d *DB) Close() error {
	if d.db == nil {
		return nil
	}
	return d.db.Close()
}

// Namespace returns the shared handle for the named namespace, creating and
// loading it on first use. Subsequent calls return the same handle.
func (d *DB) Namespace(name string) (*Namespace, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if ns, ok := d.namespaces[name]; ok {
		return ns, nil
	}

	ns := &Namespace{
		name:    name,
		db:      d.db,
		values:  make(map[string][]byte),
		pending: make(map[string]pendingOp),
	}
	if err := ns.load(); err != nil {
		return nil, fmt.Errorf("load namespace %q: %w", name, err)
	}
	d.namespaces[name] = ns
	return ns, nil
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// pendingOp is one staged mutation awaiting Persist, carrying the
// last-persisted state of its key so a failed Persist can restore it.
type pendingOp struct {
	value  []byte
	delete bool

	prev    []byte
	prevSet bool
}

// Namespace is the handle for one key-value namespace. All methods are safe
// for concurrent use, but durability ordering across callers is only
// guaranteed when mutating calls are serialized (the stores above this layer
// hold their own mutation lock for the full mutate+persist cycle).
type Namespace struct {
	name string
	db   *sql.DB

	mu      sync.Mutex
	values  map[string][]byte
	pending map[string]pendingOp
}

// Name returns the namespace name.
func (n *Namespace) Name() string { return n.name }

func (n *Namespace) load() error {
	rows, err := n.db.Query(`SELECT key, value FROM kv WHERE namespace = ?`, n.name)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return err
		}
		n.values[key] = value
	}
	return rows.Err()
}

// Get returns the working-copy value for key. The second return is false
// when the key is absent.
func (n *Namespace) Get(key string) ([]byte, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	v, ok := n.values[key]
	return v, ok
}

// GetJSON decodes the value for key into out. Returns (false, nil) when the
// key is absent.
func (n *Namespace) GetJSON(key string, out any) (bool, error) {
	data, ok := n.Get(key)
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return true, fmt.Errorf("decode %s/%s: %w", n.name, key, err)
	}
	return true, nil
}

// Set stages a write in the working copy. Not durable until Persist.
func (n *Namespace) Set(key string, value []byte) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stage(key, pendingOp{value: value})
	n.values[key] = value
}

// SetJSON encodes v and stages it under key.
func (n *Namespace) SetJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s/%s: %w", n.name, key, err)
	}
	n.Set(key, data)
	return nil
}

// Delete stages a removal in the working copy. Not durable until Persist.
func (n *Namespace) Delete(key string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stage(key, pendingOp{delete: true})
	delete(n.values, key)
}

// stage records op for key, preserving the last-persisted state across
// restagings of the same key. Callers must hold mu and must stage before
// mutating values.
func (n *Namespace) stage(key string, op pendingOp) {
	if staged, ok := n.pending[key]; ok {
		op.prev, op.prevSet = staged.prev, staged.prevSet
	} else {
		op.prev, op.prevSet = n.values[key]
	}
	n.pending[key] = op
}

// Keys returns all working-copy keys in sorted order.
func (n *Namespace) Keys() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	keys := make([]string, 0, len(n.values))
	for k := range n.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Persist flushes all pending mutations in one transaction. On success the
// pending set is cleared; on failure the staged mutations are discarded and
// the working copy restored to the last persisted state, so an aborted
// operation can never ride along with a later flush. The error is a
// *PersistError.
func (n *Namespace) Persist(ctx context.Context) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.pending) == 0 {
		return nil
	}

	tx, err := n.db.BeginTx(ctx, nil)
	if err != nil {
		n.discardLocked()
		return &PersistError{Namespace: n.name, Err: fmt.Errorf("begin tx: %w", err)}
	}
	defer tx.Rollback() // No-op if committed

	for key, op := range n.pending {
		if op.delete {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM kv WHERE namespace = ? AND key = ?`, n.name, key)
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO kv (namespace, key, value) VALUES (?, ?, ?)
				ON CONFLICT(namespace, key) DO UPDATE SET value = excluded.value
			`, n.name, key, op.value)
		}
		if err != nil {
			n.discardLocked()
			return &PersistError{Namespace: n.name, Err: fmt.Errorf("flush key %q: %w", key, err)}
		}
	}

	if err := tx.Commit(); err != nil {
		n.discardLocked()
		return &PersistError{Namespace: n.name, Err: fmt.Errorf("commit: %w", err)}
	}

	n.pending = make(map[string]pendingOp)
	return nil
}

// discardLocked drops all staged mutations and restores the working copy to
// the last persisted state. Callers must hold mu.
func (n *Namespace) discardLocked() {
	for key, op := range n.pending {
		if op.prevSet {
			n.values[key] = op.prev
		} else {
			delete(n.values, key)
		}
	}
	n.pending = make(map[string]pendingOp)
}
