// Package sqlite persists knowledge-base snapshots as a single SQLite
// database file per snapshot directory.
//
// Snapshots are written whole: the writer stages a complete database in
// a temporary file and atomically renames it over the final path, so a
// concurrent reader never observes a half-written snapshot.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/curio-labs/curio-cli/internal/core/domain"
	"github.com/curio-labs/curio-cli/internal/core/ports/driven"
)

// SnapshotFile is the database filename inside a snapshot directory.
const SnapshotFile = "knowledge.db"

// schemaVersion is bumped when the snapshot layout changes.
const schemaVersion = 1

// Ensure SnapshotStore implements the interface.
var _ driven.SnapshotStore = (*SnapshotStore)(nil)

// SnapshotStore reads and writes knowledge-base snapshots.
type SnapshotStore struct{}

// NewSnapshotStore creates a snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{}
}

const schema = `
CREATE TABLE meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE documents (
	seq        INTEGER PRIMARY KEY,
	id         TEXT NOT NULL UNIQUE,
	text       TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	created_at DATETIME NOT NULL
);
CREATE TABLE chunks (
	seq         INTEGER PRIMARY KEY,
	id          TEXT NOT NULL UNIQUE,
	document_id TEXT NOT NULL REFERENCES documents(id),
	text        TEXT NOT NULL,
	position    INTEGER NOT NULL,
	embedding   BLOB NOT NULL,
	metadata    TEXT NOT NULL
);
`

// Write persists a snapshot into dir, creating the directory if absent.
func (s *SnapshotStore) Write(ctx context.Context, dir string, snap *Snapshot) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".knowledge-*.db")
	if err != nil {
		return fmt.Errorf("creating staging file: %w", err)
	}
	tmpPath := tmp.Name()
	tmp.Close()
	// The staging file is removed on any failure below.
	defer os.Remove(tmpPath)

	if err := s.writeDatabase(ctx, tmpPath, snap); err != nil {
		return err
	}

	if err := os.Rename(tmpPath, filepath.Join(dir, SnapshotFile)); err != nil {
		return fmt.Errorf("finalising snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) writeDatabase(ctx context.Context, path string, snap *Snapshot) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("opening staging database: %w", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	meta := map[string]string{
		"schema_version":  fmt.Sprintf("%d", schemaVersion),
		"next_doc_seq":    fmt.Sprintf("%d", snap.NextDocSeq),
		"embedding_model": snap.EmbeddingModel,
		"dimensions":      fmt.Sprintf("%d", snap.Dimensions),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return fmt.Errorf("writing meta %s: %w", key, err)
		}
	}

	docStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (seq, id, text, metadata, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing document insert: %w", err)
	}
	defer docStmt.Close()

	for i, doc := range snap.Documents {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling document metadata: %w", err)
		}
		if _, err := docStmt.ExecContext(ctx, i, doc.ID, doc.Text,
			string(metadataJSON), doc.CreatedAt.UTC()); err != nil {
			return fmt.Errorf("writing document %s: %w", doc.ID, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (seq, id, document_id, text, position, embedding, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer chunkStmt.Close()

	for i, chunk := range snap.Chunks {
		metadataJSON, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling chunk metadata: %w", err)
		}
		if _, err := chunkStmt.ExecContext(ctx, i, chunk.ID, chunk.DocumentID,
			chunk.Text, chunk.Position, float32SliceToBytes(chunk.Embedding),
			string(metadataJSON)); err != nil {
			return fmt.Errorf("writing chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// Read loads a snapshot from dir.
func (s *SnapshotStore) Read(ctx context.Context, dir string) (*Snapshot, error) {
	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSnapshotNotFound, dir)
		}
		return nil, fmt.Errorf("checking snapshot directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrSnapshotNotFound, dir)
	}

	path := filepath.Join(dir, SnapshotFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			// A directory without a snapshot reads as "no data".
			return &Snapshot{}, nil
		}
		return nil, fmt.Errorf("checking snapshot file: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSnapshotCorrupt, err)
	}
	defer db.Close()

	snap := &Snapshot{}
	if err := s.readMeta(ctx, db, snap); err != nil {
		return nil, err
	}
	if err := s.readDocuments(ctx, db, snap); err != nil {
		return nil, err
	}
	if err := s.readChunks(ctx, db, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *SnapshotStore) readMeta(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	rows, err := db.QueryContext(ctx, "SELECT key, value FROM meta")
	if err != nil {
		return fmt.Errorf("%w: reading meta: %v", domain.ErrSnapshotCorrupt, err)
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return fmt.Errorf("%w: scanning meta: %v", domain.ErrSnapshotCorrupt, err)
		}
		meta[key] = value
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating meta: %v", domain.ErrSnapshotCorrupt, err)
	}

	var version int
	if _, err := fmt.Sscanf(meta["schema_version"], "%d", &version); err != nil {
		return fmt.Errorf("%w: missing schema version", domain.ErrSnapshotCorrupt)
	}
	if version > schemaVersion {
		return fmt.Errorf("%w: schema version %d newer than supported %d",
			domain.ErrSnapshotCorrupt, version, schemaVersion)
	}

	fmt.Sscanf(meta["next_doc_seq"], "%d", &snap.NextDocSeq) //nolint:errcheck
	fmt.Sscanf(meta["dimensions"], "%d", &snap.Dimensions)   //nolint:errcheck
	snap.EmbeddingModel = meta["embedding_model"]
	return nil
}

func (s *SnapshotStore) readDocuments(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, text, metadata, created_at FROM documents ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("%w: reading documents: %v", domain.ErrSnapshotCorrupt, err)
	}
	defer rows.Close()

	for rows.Next() {
		var doc domain.Document
		var metadataJSON string
		var createdAt time.Time
		if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON, &createdAt); err != nil {
			return fmt.Errorf("%w: scanning document: %v", domain.ErrSnapshotCorrupt, err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return fmt.Errorf("%w: document metadata: %v", domain.ErrSnapshotCorrupt, err)
		}
		doc.CreatedAt = createdAt
		snap.Documents = append(snap.Documents, doc)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating documents: %v", domain.ErrSnapshotCorrupt, err)
	}
	return nil
}

func (s *SnapshotStore) readChunks(ctx context.Context, db *sql.DB, snap *Snapshot) error {
	rows, err := db.QueryContext(ctx, `
		SELECT id, document_id, text, position, embedding, metadata
		FROM chunks ORDER BY seq
	`)
	if err != nil {
		return fmt.Errorf("%w: reading chunks: %v", domain.ErrSnapshotCorrupt, err)
	}
	defer rows.Close()

	docIDs := make(map[string]bool, len(snap.Documents))
	for _, doc := range snap.Documents {
		docIDs[doc.ID] = true
	}

	for rows.Next() {
		var chunk domain.Chunk
		var embeddingBlob []byte
		var metadataJSON string
		if err := rows.Scan(&chunk.ID, &chunk.DocumentID, &chunk.Text,
			&chunk.Position, &embeddingBlob, &metadataJSON); err != nil {
			return fmt.Errorf("%w: scanning chunk: %v", domain.ErrSnapshotCorrupt, err)
		}
		if err := json.Unmarshal([]byte(metadataJSON), &chunk.Metadata); err != nil {
			return fmt.Errorf("%w: chunk metadata: %v", domain.ErrSnapshotCorrupt, err)
		}
		// Referential integrity: every chunk needs its source document.
		if !docIDs[chunk.DocumentID] {
			return fmt.Errorf("%w: chunk %s references missing document %s",
				domain.ErrSnapshotCorrupt, chunk.ID, chunk.DocumentID)
		}
		chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
		snap.Chunks = append(snap.Chunks, chunk)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: iterating chunks: %v", domain.ErrSnapshotCorrupt, err)
	}
	return nil
}

// Snapshot aliases the port type for brevity inside this package.
type Snapshot = driven.Snapshot

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
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
