package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/calbridge/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/calbridge/internal/core/domain"
	"github.com/custodia-labs/calbridge/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// token and mapping store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.calbridge/data/calbridge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".calbridge", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "calbridge.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// TokenStore returns a TokenStore interface backed by this store.
func (s *Store) TokenStore() driven.TokenStore {
	return &tokenStore{store: s}
}

// MappingStore returns a MappingStore interface backed by this store.
func (s *Store) MappingStore() driven.MappingStore {
	return &mappingStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Token Store ====================

// tokenStore implements driven.TokenStore.
type tokenStore struct {
	store *Store
}

var _ driven.TokenStore = (*tokenStore)(nil)

// Save stores the token, replacing any previous record.
func (s *tokenStore) Save(ctx context.Context, token domain.OAuthToken) error {
	var expiry any
	if !token.Expiry.IsZero() {
		expiry = token.Expiry.UTC()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO tokens (id, access_token, expiry, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access_token = excluded.access_token,
			expiry = excluded.expiry,
			updated_at = excluded.updated_at
	`, token.AccessToken, expiry, time.Now().UTC())

	if err != nil {
		return fmt.Errorf("saving token: %w", err)
	}
	return nil
}

// Get retrieves the stored token.
func (s *tokenStore) Get(ctx context.Context) (*domain.OAuthToken, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT access_token, expiry FROM tokens WHERE id = 1
	`)

	var token domain.OAuthToken
	var expiry sql.NullTime
	if err := row.Scan(&token.AccessToken, &expiry); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNoToken
		}
		return nil, fmt.Errorf("scanning token: %w", err)
	}

	if expiry.Valid {
		token.Expiry = expiry.Time
	}

	return &token, nil
}

// Delete removes the stored token. Deleting an absent record is not an
// error.
func (s *tokenStore) Delete(ctx context.Context) error {
	_, err := s.store.db.ExecContext(ctx, "DELETE FROM tokens WHERE id = 1")
	if err != nil {
		return fmt.Errorf("deleting token: %w", err)
	}
	return nil
}

// ==================== Mapping Store ====================

// mappingStore implements driven.MappingStore.
type mappingStore struct {
	store *Store
}

var _ driven.MappingStore = (*mappingStore)(nil)

// Save stores a mapping. Saving an existing card id overwrites it.
func (s *mappingStore) Save(ctx context.Context, mapping domain.EventMapping) error {
	now := time.Now().UTC()
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO mappings (card_id, event_id, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(card_id) DO UPDATE SET
			event_id = excluded.event_id,
			updated_at = excluded.updated_at
	`, mapping.CardID, mapping.EventID, now, now)

	if err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}
	return nil
}

// Get retrieves the remote event id for a card.
func (s *mappingStore) Get(ctx context.Context, cardID string) (string, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT event_id FROM mappings WHERE card_id = ?
	`, cardID)

	var eventID string
	if err := row.Scan(&eventID); err != nil {
		if err == sql.ErrNoRows {
			return "", domain.ErrNotFound
		}
		return "", fmt.Errorf("scanning mapping: %w", err)
	}

	return eventID, nil
}

// List returns all known mappings.
func (s *mappingStore) List(ctx context.Context) ([]domain.EventMapping, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT card_id, event_id FROM mappings
	`)
	if err != nil {
		return nil, fmt.Errorf("querying mappings: %w", err)
	}
	defer rows.Close()

	var mappings []domain.EventMapping //nolint:prealloc // size unknown from query
	for rows.Next() {
		var m domain.EventMapping
		if err := rows.Scan(&m.CardID, &m.EventID); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}
		mappings = append(mappings, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}
