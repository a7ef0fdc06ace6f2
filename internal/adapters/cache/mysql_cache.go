package cache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/deepcatch/deepcatch/internal/core"
)

// MySQLCache is a MySQL implementation of the CacheRepository interface
type MySQLCache struct {
	db          *sql.DB
	logger      *zap.Logger
	cleanupFreq time.Duration
	stopCh      chan struct{}
}

// NewMySQLCache creates a new MySQL cache
func NewMySQLCache(dsn string, logger *zap.Logger, cleanupFreq time.Duration) (*MySQLCache, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to MySQL database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS analysis_cache (
			text_hash VARCHAR(64) PRIMARY KEY,
			verdict VARCHAR(16),
			confidence INT,
			explanation TEXT,
			highlighted_content MEDIUMTEXT,
			suspicious_elements INT,
			senders_domains TEXT,
			degraded BOOLEAN,
			last_seen TIMESTAMP,
			expires_at TIMESTAMP,
			INDEX idx_expires_at (expires_at)
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	cache := &MySQLCache{
		db:          db,
		logger:      logger,
		cleanupFreq: cleanupFreq,
		stopCh:      make(chan struct{}),
	}

	go cache.startCleanupTask()

	return cache, nil
}

// Get retrieves a cached entry for a text hash
func (c *MySQLCache) Get(ctx context.Context, textHash string) (*core.CacheEntry, error) {
	var entry core.CacheEntry
	var verdict, domains string
	var lastSeen, expiresAt time.Time

	err := c.db.QueryRowContext(ctx, `
		SELECT text_hash, verdict, confidence, explanation, highlighted_content, suspicious_elements, senders_domains, degraded, last_seen, expires_at
		FROM analysis_cache
		WHERE text_hash = ? AND expires_at > NOW()
	`, textHash).Scan(&entry.TextHash, &verdict, &entry.Confidence, &entry.Explanation,
		&entry.HighlightedContent, &entry.SuspiciousElements, &domains, &entry.Degraded, &lastSeen, &expiresAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to query cache: %w", err)
	}

	entry.Verdict = core.Verdict(verdict)
	entry.SendersDomains = splitDomains(domains)
	entry.LastSeen = lastSeen
	entry.ExpiresAt = expiresAt

	return &entry, nil
}

// Set stores a cache entry
func (c *MySQLCache) Set(ctx context.Context, entry *core.CacheEntry) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO analysis_cache
			(text_hash, verdict, confidence, explanation, highlighted_content, suspicious_elements, senders_domains, degraded, last_seen, expires_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			verdict = VALUES(verdict),
			confidence = VALUES(confidence),
			explanation = VALUES(explanation),
			highlighted_content = VALUES(highlighted_content),
			suspicious_elements = VALUES(suspicious_elements),
			senders_domains = VALUES(senders_domains),
			degraded = VALUES(degraded),
			last_seen = VALUES(last_seen),
			expires_at = VALUES(expires_at)
	`, entry.TextHash, string(entry.Verdict), entry.Confidence, entry.Explanation,
		entry.HighlightedContent, entry.SuspiciousElements, joinDomains(entry.SendersDomains),
		entry.Degraded, entry.LastSeen, entry.ExpiresAt)

	if err != nil {
		return fmt.Errorf("failed to insert cache entry: %w", err)
	}
	return nil
}

// Delete removes a cache entry
func (c *MySQLCache) Delete(ctx context.Context, textHash string) error {
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
func (c *MySQLCache) Cleanup(ctx context.Context) error {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM analysis_cache
		WHERE expires_at <= NOW()
	`)

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
func (c *MySQLCache) startCleanupTask() {
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
func (c *MySQLCache) Stop() {
	close(c.stopCh)
	if err := c.db.Close(); err != nil {
		c.logger.Error("Failed to close MySQL database", zap.Error(err))
	}
}
