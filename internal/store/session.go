package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// SessionRecord represents a finished recognition session stored in the database.
type SessionRecord struct {
	ID         string    `json:"id"`
	Transcript string    `json:"transcript"`
	SignCount  int       `json:"sign_count"`
	StartedAt  time.Time `json:"started_at"`
	EndedAt    time.Time `json:"ended_at"`
}

// SessionRepository provides CRUD operations for session transcripts.
type SessionRepository struct {
	db *sql.DB
}

// Sessions returns the session repository for this store.
func (s *Store) Sessions() *SessionRepository {
	return &SessionRepository{db: s.db}
}

// Create inserts a finished session into the database.
func (r *SessionRepository) Create(rec *SessionRecord) error {
	_, err := r.db.Exec(
		`INSERT INTO sessions (id, transcript, sign_count, started_at, ended_at)
		 VALUES (?, ?, ?, ?, ?)`,
		rec.ID, rec.Transcript, rec.SignCount, rec.StartedAt, rec.EndedAt,
	)
	return err
}

// GetByID retrieves a session by its ID.
func (r *SessionRepository) GetByID(id string) (*SessionRecord, error) {
	rec := &SessionRecord{}

	err := r.db.QueryRow(
		`SELECT id, transcript, sign_count, started_at, ended_at
		 FROM sessions WHERE id = ?`,
		id,
	).Scan(&rec.ID, &rec.Transcript, &rec.SignCount, &rec.StartedAt, &rec.EndedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return rec, nil
}

// List retrieves all sessions, most recently ended first.
func (r *SessionRepository) List() ([]*SessionRecord, error) {
	rows, err := r.db.Query(
		`SELECT id, transcript, sign_count, started_at, ended_at
		 FROM sessions ORDER BY ended_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*SessionRecord
	for rows.Next() {
		rec := &SessionRecord{}
		if err := rows.Scan(&rec.ID, &rec.Transcript, &rec.SignCount, &rec.StartedAt, &rec.EndedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// Delete removes a session from the database by its ID.
func (r *SessionRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}
