package store

// runMigrations executes all database migrations.
func (s *Store) runMigrations() error {
	migrations := []string{
		// Sessions table - stores finished recognition session transcripts
		`CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			transcript TEXT NOT NULL,
			sign_count INTEGER NOT NULL DEFAULT 0,
			started_at DATETIME NOT NULL,
			ended_at DATETIME NOT NULL
		)`,

		// Phrases table - stores spoken-phrase overrides per sign token
		`CREATE TABLE IF NOT EXISTS phrases (
			sign TEXT PRIMARY KEY,
			phrase TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		// Settings table - stores application settings as key-value pairs
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		)`,

		// Index for session history queries
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
