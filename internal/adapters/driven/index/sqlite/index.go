// Package sqlite implements the persistent vector index on SQLite.
//
// Entries live in a single collection; embeddings are stored as
// little-endian float32 blobs and searched with brute-force cosine
// similarity. The index owns its storage files and can destroy and
// reconstruct them as one operation.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/lodestone-ai/lodestone/internal/core/domain"
	"github.com/lodestone-ai/lodestone/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// CollectionName is the single collection holding all document chunks.
const CollectionName = "knowledge_base"

// Reconstruction probe bounds after Destroy.
const (
	reconstructAttempts = 5
	reconstructBackoff  = 50 * time.Millisecond
)

const schema = `
CREATE TABLE IF NOT EXISTS collections (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS entries (
	id TEXT PRIMARY KEY,
	collection_id INTEGER NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
	content TEXT NOT NULL,
	metadata TEXT NOT NULL,
	embedding BLOB NOT NULL,
	dims INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_entries_collection ON entries(collection_id);
`

// Index is a SQLite-backed vector index.
//
// A read-write mutex serialises destructive operations (Clear, Destroy)
// against Search, Upsert and Count, so no caller ever observes the
// collection mid-destroy or a closed handle.
type Index struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// New creates an index stored at dataDir/index.db. The directory is
// created on Open, not here.
func New(dataDir string) *Index {
	return &Index{path: filepath.Join(dataDir, "index.db")}
}

// Path returns the database file path.
func (ix *Index) Path() string {
	return ix.path
}

// Open opens the database and applies the schema. Calling Open on an
// already open index is a no-op.
func (ix *Index) Open(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db != nil {
		return nil
	}
	db, err := ix.openDB(ctx)
	if err != nil {
		return err
	}
	ix.db = db
	return nil
}

// Upsert inserts or replaces entries, creating the collection if needed.
func (ix *Index) Upsert(ctx context.Context, entries []driven.Entry) error {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return domain.ErrIndexCorrupt
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO collections (name) VALUES (?)`, CollectionName); err != nil {
		return fmt.Errorf("creating collection: %w", err)
	}

	var collectionID int64
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM collections WHERE name = ?`, CollectionName).Scan(&collectionID); err != nil {
		return fmt.Errorf("resolving collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO entries (id, collection_id, content, metadata, embedding, dims)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		metadataJSON, err := json.Marshal(e.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, e.ID, collectionID, e.Text,
			string(metadataJSON), float32SliceToBytes(e.Embedding), len(e.Embedding)); err != nil {
			return fmt.Errorf("upserting entry %s: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Search returns the k entries nearest to the query vector by cosine
// similarity. A missing collection is reported via IndexMissing.
func (ix *Index) Search(ctx context.Context, query []float32, k int) (driven.SearchResult, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return driven.SearchResult{}, domain.ErrIndexCorrupt
	}

	collectionID, err := ix.collectionID(ctx, ix.db)
	if errors.Is(err, domain.ErrIndexMissing) {
		return driven.SearchResult{IndexMissing: true}, nil
	}
	if err != nil {
		return driven.SearchResult{}, err
	}

	rows, err := ix.db.QueryContext(ctx, `
		SELECT id, content, metadata, embedding
		FROM entries WHERE collection_id = ?
	`, collectionID)
	if err != nil {
		return driven.SearchResult{}, fmt.Errorf("querying entries: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var id, content, metadataJSON string
		var blob []byte
		if err := rows.Scan(&id, &content, &metadataJSON, &blob); err != nil {
			return driven.SearchResult{}, fmt.Errorf("scanning entry: %w", err)
		}

		var meta domain.ChunkMetadata
		if err := json.Unmarshal([]byte(metadataJSON), &meta); err != nil {
			return driven.SearchResult{}, fmt.Errorf("unmarshaling metadata: %w", err)
		}

		matches = append(matches, domain.Match{
			Chunk: domain.Chunk{ID: id, Text: content, Metadata: meta},
			Score: cosineSimilarity(query, bytesToFloat32Slice(blob)),
		})
	}
	if err := rows.Err(); err != nil {
		return driven.SearchResult{}, fmt.Errorf("iterating entries: %w", err)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if k > 0 && len(matches) > k {
		matches = matches[:k]
	}
	return driven.SearchResult{Matches: matches}, nil
}

// Clear deletes all entries but keeps the collection row.
func (ix *Index) Clear(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return domain.ErrIndexCorrupt
	}

	collectionID, err := ix.collectionID(ctx, ix.db)
	if errors.Is(err, domain.ErrIndexMissing) {
		return nil
	}
	if err != nil {
		return err
	}

	if _, err := ix.db.ExecContext(ctx,
		`DELETE FROM entries WHERE collection_id = ?`, collectionID); err != nil {
		return fmt.Errorf("clearing entries: %w", err)
	}
	return nil
}

// Destroy closes the database, removes its files and reconstructs an
// empty index. Reconstruction retries with doubling backoff; if every
// attempt fails the index is left unusable and domain.ErrIndexCorrupt
// is returned.
func (ix *Index) Destroy(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db != nil {
		if err := ix.db.Close(); err != nil {
			return fmt.Errorf("closing database: %w", err)
		}
		ix.db = nil
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(ix.path + suffix); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", ix.path+suffix, err)
		}
	}

	backoff := reconstructBackoff
	var lastErr error
	for attempt := 0; attempt < reconstructAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}

		db, err := ix.openDB(ctx)
		if err != nil {
			lastErr = err
			continue
		}
		ix.db = db
		return nil
	}
	return fmt.Errorf("%w: reconstruction failed: %v", domain.ErrIndexCorrupt, lastErr)
}

// Count returns the number of entries. A missing collection yields 0
// and domain.ErrIndexMissing.
func (ix *Index) Count(ctx context.Context) (int, error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if ix.db == nil {
		return 0, domain.ErrIndexCorrupt
	}

	collectionID, err := ix.collectionID(ctx, ix.db)
	if err != nil {
		return 0, err
	}

	var count int
	if err := ix.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM entries WHERE collection_id = ?`, collectionID).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}
	return count, nil
}

// Close closes the database connection.
func (ix *Index) Close() error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.db == nil {
		return nil
	}
	err := ix.db.Close()
	ix.db = nil
	return err
}

// openDB opens the database file, verifies the connection and applies
// the schema.
func (ix *Index) openDB(ctx context.Context) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(ix.path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", ix.path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return db, nil
}

// collectionID resolves the collection row, mapping absence to
// domain.ErrIndexMissing.
func (ix *Index) collectionID(ctx context.Context, db *sql.DB) (int64, error) {
	var id int64
	err := db.QueryRowContext(ctx,
		`SELECT id FROM collections WHERE name = ?`, CollectionName).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.ErrIndexMissing
	}
	if err != nil {
		return 0, fmt.Errorf("resolving collection: %w", err)
	}
	return id, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-norm vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
