package sqlite

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/fwojciec/roster"
)

// Compile-time interface verification.
var _ roster.EmbeddingService = (*EmbeddingService)(nil)

// EmbeddingService implements roster.EmbeddingService using SQLite. Vectors
// are stored as little-endian float32 blobs.
type EmbeddingService struct {
	db *DB
}

// NewEmbeddingService creates a new EmbeddingService.
func NewEmbeddingService(db *DB) *EmbeddingService {
	return &EmbeddingService{db: db}
}

// ReplaceEmbeddings removes all stored embeddings and stores the given ones
// in a single transaction. Every embedding must belong to a stored profile.
func (s *EmbeddingService) ReplaceEmbeddings(ctx context.Context, embeddings []*roster.Embedding) error {
	for _, e := range embeddings {
		if e.ProfileID == "" {
			return roster.Errorf(roster.EINVALID, "embedding profile ID required")
		}
		if len(e.Vector) == 0 {
			return roster.Errorf(roster.EINVALID, "embedding for profile %s has no vector", e.ProfileID)
		}
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM embeddings"); err != nil {
		return err
	}
	for _, e := range embeddings {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO embeddings (profile_id, model, vector, text) VALUES (?, ?, ?, ?)
		`, e.ProfileID, e.Model, encodeVector(e.Vector), e.Text); err != nil {
			return fmt.Errorf("store embedding for profile %s: %w", e.ProfileID, err)
		}
	}
	return tx.Commit()
}

// FindEmbeddings returns all stored embeddings in profile order.
func (s *EmbeddingService) FindEmbeddings(ctx context.Context) ([]*roster.Embedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.profile_id, e.model, e.vector, e.text
		FROM embeddings e
		JOIN profiles p ON p.id = e.profile_id
		ORDER BY p.position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	embeddings := []*roster.Embedding{}
	for rows.Next() {
		var e roster.Embedding
		var blob []byte
		if err := rows.Scan(&e.ProfileID, &e.Model, &blob, &e.Text); err != nil {
			return nil, err
		}
		if e.Vector, err = decodeVector(blob); err != nil {
			return nil, err
		}
		embeddings = append(embeddings, &e)
	}
	return embeddings, rows.Err()
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, roster.Errorf(roster.EINTERNAL, "corrupt embedding vector of %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
