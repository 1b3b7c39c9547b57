package persist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/roadnet/editor/internal/snapshot"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// SnapshotRow is the summary line of a stored snapshot.
type SnapshotRow struct {
	ID           string
	Name         string
	CreatedAt    time.Time
	NodeCount    int32
	SegmentCount int32
	RoadCount    int32
}

type SnapshotRepo struct {
	db *DB
}

func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Save writes s and all of its records in one transaction.
func (r *SnapshotRepo) Save(ctx context.Context, s *snapshot.Snapshot) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("snapshot begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO snapshots (id, name, created_at, node_count, segment_count, road_count)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		s.ID, s.Name, s.CreatedAt, len(s.Nodes), len(s.Segments), len(s.Roads),
	); err != nil {
		return fmt.Errorf("insert snapshot %s: %w", s.ID, err)
	}

	batch := &pgx.Batch{}
	for _, n := range s.Nodes {
		batch.Queue(`INSERT INTO snapshot_nodes (snapshot_id, key, x, y) VALUES ($1, $2, $3, $4)`,
			s.ID, int64(n.Key), n.X, n.Y)
	}
	for _, rd := range s.Roads {
		batch.Queue(`INSERT INTO snapshot_roads (snapshot_id, key, name, segments) VALUES ($1, $2, $3, $4)`,
			s.ID, int64(rd.Key), rd.Name, toInt64s(rd.Segments))
	}
	for _, seg := range s.Segments {
		var road *int64
		if seg.Road != nil {
			k := int64(*seg.Road)
			road = &k
		}
		batch.Queue(`INSERT INTO snapshot_segments (snapshot_id, key, node_a, node_b, road) VALUES ($1, $2, $3, $4, $5)`,
			s.ID, int64(seg.Key), int64(seg.A), int64(seg.B), road)
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert snapshot %s records: %w", s.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("snapshot commit: %w", err)
	}
	r.db.log.Debug("snapshot saved",
		zap.String("id", s.ID),
		zap.Int("nodes", len(s.Nodes)),
		zap.Int("segments", len(s.Segments)),
		zap.Int("roads", len(s.Roads)))
	return nil
}

// List returns the newest snapshots first, at most limit of them.
func (r *SnapshotRepo) List(ctx context.Context, limit int) ([]SnapshotRow, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT id::text, name, created_at, node_count, segment_count, road_count
		 FROM snapshots ORDER BY created_at DESC LIMIT $1`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	var result []SnapshotRow
	for rows.Next() {
		var row SnapshotRow
		if err := rows.Scan(&row.ID, &row.Name, &row.CreatedAt,
			&row.NodeCount, &row.SegmentCount, &row.RoadCount); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

// Load reads a full snapshot back. Records come back in key order.
func (r *SnapshotRepo) Load(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	s := &snapshot.Snapshot{}
	err := r.db.Pool.QueryRow(ctx,
		`SELECT id::text, name, created_at FROM snapshots WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", id, err)
	}

	nodeRows, err := r.db.Pool.Query(ctx,
		`SELECT key, x, y FROM snapshot_nodes WHERE snapshot_id = $1 ORDER BY key`, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot nodes: %w", err)
	}
	defer nodeRows.Close()
	for nodeRows.Next() {
		var key int64
		var n snapshot.NodeRecord
		if err := nodeRows.Scan(&key, &n.X, &n.Y); err != nil {
			return nil, err
		}
		n.Key = uint64(key)
		s.Nodes = append(s.Nodes, n)
	}
	if err := nodeRows.Err(); err != nil {
		return nil, err
	}

	segRows, err := r.db.Pool.Query(ctx,
		`SELECT key, node_a, node_b, road FROM snapshot_segments WHERE snapshot_id = $1 ORDER BY key`, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot segments: %w", err)
	}
	defer segRows.Close()
	for segRows.Next() {
		var key, a, b int64
		var road *int64
		if err := segRows.Scan(&key, &a, &b, &road); err != nil {
			return nil, err
		}
		seg := snapshot.SegmentRecord{Key: uint64(key), A: uint64(a), B: uint64(b)}
		if road != nil {
			k := uint64(*road)
			seg.Road = &k
		}
		s.Segments = append(s.Segments, seg)
	}
	if err := segRows.Err(); err != nil {
		return nil, err
	}

	roadRows, err := r.db.Pool.Query(ctx,
		`SELECT key, name, segments FROM snapshot_roads WHERE snapshot_id = $1 ORDER BY key`, id)
	if err != nil {
		return nil, fmt.Errorf("load snapshot roads: %w", err)
	}
	defer roadRows.Close()
	for roadRows.Next() {
		var key int64
		var segs []int64
		var rd snapshot.RoadRecord
		if err := roadRows.Scan(&key, &rd.Name, &segs); err != nil {
			return nil, err
		}
		rd.Key = uint64(key)
		rd.Segments = toUint64s(segs)
		s.Roads = append(s.Roads, rd)
	}
	return s, roadRows.Err()
}

// Delete removes a snapshot and, through the foreign keys, its records.
func (r *SnapshotRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM snapshots WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrSnapshotNotFound, id)
	}
	return nil
}

// Keys are stored as the bit pattern of the uint64 handle key.

func toInt64s(keys []uint64) []int64 {
	out := make([]int64, len(keys))
	for i, k := range keys {
		out[i] = int64(k)
	}
	return out
}

func toUint64s(keys []int64) []uint64 {
	out := make([]uint64, len(keys))
	for i, k := range keys {
		out[i] = uint64(k)
	}
	return out
}
