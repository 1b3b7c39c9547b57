package persist

import (
	"context"
	"fmt"
	"time"
)

// JournalEntry is one line of the edit journal: something the editor did or
// refused to do during a session.
type JournalEntry struct {
	Kind       string // "road_built", "rejected", "state"
	Detail     string
	RecordedAt time.Time
}

type JournalRepo struct {
	db      *DB
	session string
}

// NewJournalRepo writes entries under the given session id.
func NewJournalRepo(db *DB, session string) *JournalRepo {
	return &JournalRepo{db: db, session: session}
}

func (r *JournalRepo) Session() string { return r.session }

// Write appends a batch of entries in a single transaction. Nothing is
// written if any insert fails.
func (r *JournalRepo) Write(ctx context.Context, entries []JournalEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("journal begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO edit_journal (session, kind, detail, recorded_at)
			 VALUES ($1, $2, $3, $4)`,
			r.session, e.Kind, e.Detail, e.RecordedAt,
		); err != nil {
			return fmt.Errorf("journal insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}

// MarkProcessed flags every entry of this session as processed.
func (r *JournalRepo) MarkProcessed(ctx context.Context) error {
	_, err := r.db.Pool.Exec(ctx,
		`UPDATE edit_journal SET processed = TRUE WHERE session = $1 AND processed = FALSE`,
		r.session,
	)
	return err
}

// Entries returns the journal of this session in write order.
func (r *JournalRepo) Entries(ctx context.Context) ([]JournalEntry, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT kind, detail, recorded_at FROM edit_journal WHERE session = $1 ORDER BY id`,
		r.session,
	)
	if err != nil {
		return nil, fmt.Errorf("journal entries: %w", err)
	}
	defer rows.Close()

	var result []JournalEntry
	for rows.Next() {
		var e JournalEntry
		if err := rows.Scan(&e.Kind, &e.Detail, &e.RecordedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
