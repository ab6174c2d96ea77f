package store

import (
	"database/sql"
	"errors"
	"time"
)

// Phrase represents a spoken-phrase override for a sign token.
type Phrase struct {
	Sign      string    `json:"sign"`
	Phrase    string    `json:"phrase"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhraseRepository provides CRUD operations for phrase overrides.
type PhraseRepository struct {
	db *sql.DB
}

// Phrases returns the phrase repository for this store.
func (s *Store) Phrases() *PhraseRepository {
	return &PhraseRepository{db: s.db}
}

// Set inserts or updates the phrase override for a sign.
func (r *PhraseRepository) Set(sign, phrase string) error {
	_, err := r.db.Exec(
		`INSERT INTO phrases (sign, phrase, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(sign) DO UPDATE SET phrase = excluded.phrase, updated_at = CURRENT_TIMESTAMP`,
		sign, phrase,
	)
	return err
}

// Get retrieves the phrase override for a sign.
func (r *PhraseRepository) Get(sign string) (*Phrase, error) {
	p := &Phrase{}

	err := r.db.QueryRow(
		`SELECT sign, phrase, updated_at FROM phrases WHERE sign = ?`,
		sign,
	).Scan(&p.Sign, &p.Phrase, &p.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return p, nil
}

// List retrieves all phrase overrides ordered by sign.
func (r *PhraseRepository) List() ([]*Phrase, error) {
	rows, err := r.db.Query(`SELECT sign, phrase, updated_at FROM phrases ORDER BY sign`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var phrases []*Phrase
	for rows.Next() {
		p := &Phrase{}
		if err := rows.Scan(&p.Sign, &p.Phrase, &p.UpdatedAt); err != nil {
			return nil, err
		}
		phrases = append(phrases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return phrases, nil
}

// Delete removes the phrase override for a sign.
func (r *PhraseRepository) Delete(sign string) error {
	result, err := r.db.Exec(`DELETE FROM phrases WHERE sign = ?`, sign)
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
