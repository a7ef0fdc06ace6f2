package cache

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

// SQLiteCache is a SQLite implementation of the CacheRepository interface
type SQLiteCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewSQLiteCache creates a new SQLite cache
func NewSQLiteCache(dbPath string, logger *zap.Logger, cleanupFreq time.Duration) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_cache (
			text_hash TEXT PRIMARY KEY,
			verdict TEXT,
			confidence INTEGER,
			explanation TEXT,
			highlighted_content TEXT,
			suspicious_elements INTEGER,
			senders_domains TEXT,
			degraded BOOLEAN,
			last_seen TIMESTAMP,
			expires_at TIMESTAMP
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	// Index on expires_at for faster cleanup
	_, err = db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_expires_at ON analysis_cache(expires_at)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	cache := &SQLiteCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached entry for a text hash
func (c *SQLiteCache) Get(ctx context.Context, textHash string) (*core.CacheEntry, error) {
	var verdict, explanation, highlighted, domains, lastSeen, expiresAt string
	var confidence, suspicious int
	var degraded bool

	err := c.db.QueryRowContext(ctx, `
		SELECT verdict, confidence, explanation, highlighted_content, suspicious_elements, senders_domains, degraded, last_seen, expires_at
		FROM analysis_cache
		WHERE text_hash = ? AND expires_at > ?
	`, textHash, time.Now().UTC().Format(time.RFC3339)).Scan(
		&verdict, &confidence, &explanation, &highlighted, &suspicious, &domains, &degraded, &lastSeen, &expiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	seen, err := time.Parse(time.RFC3339, lastSeen)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_seen timestamp: %w", err)
	}
	expires, err := time.Parse(time.RFC3339, expiresAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse expires_at timestamp: %w", err)
	}

	return &core.CacheEntry{
		TextHash:           textHash,
		Verdict:            core.Verdict(verdict),
		Confidence:         confidence,
		Explanation:        explanation,
		HighlightedContent: highlighted,
		SuspiciousElements: suspicious,
		SendersDomains:     splitDomains(domains),
		Degraded:           degraded,
		LastSeen:           seen,
		ExpiresAt:          expires,
	}, nil
}

// Set stores a cache entry
func (c *SQLiteCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO analysis_cache
			(text_hash, verdict, confidence, explanation, highlighted_content, suspicious_elements, senders_domains, degraded, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.TextHash, string(entry.Verdict), entry.Confidence, entry.Explanation,
		entry.HighlightedContent, entry.SuspiciousElements, joinDomains(entry.SendersDomains), entry.Degraded,
		entry.LastSeen.UTC().Format(time.RFC3339), entry.ExpiresAt.UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// joinDomains flattens a domain list into a single column value.
func joinDomains(domains []string) string {
	return strings.Join(domains, ",")
}

func splitDomains(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

// Delete removes a cache entry
func (c *SQLiteCache) Delete(ctx context.Context, textHash string) error {
	_, err := c.db.ExecContext(ctx, `
		DELETE FROM analysis_cache
		WHERE text_hash = ?
	`, textHash)

	if err != nil {
		return fmt.Errorf("failed to delete cache entry: %w", err)
	}
	return nil
}

// Cleanup removes expired entries
func (c *SQLiteCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM analysis_cache
		WHERE expires_at <= ?
	`, time.Now().UTC().Format(time.RFC3339))

	if err != nil {
		return fmt.Errorf("failed to clean up expired entries: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		c.logger.Warn("Failed to get rows affected during cleanup", zap.Error(err))
	} else {
		c.logger.Debug("Cleaned up expired cache entries", zap.Int64("expired_count", rowsAffected))
	}

	return nil
}

// startCleanupTask starts a background task to clean up expired entries
func (c *SQLiteCache) startCleanupTask() {
	ticker := time.NewTicker(c.cleanupFreq)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := c.Cleanup(context.Background()); err != nil {
				c.logger.Error("Failed to clean up cache", zap.Error(err))
			}
		case <-c.stopCh:
			return
		}
	}
}

// Stop stops the background cleanup task and closes the database connection
func (c *SQLiteCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close SQLite database", zap.Error(err))
	}
}
