package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"workspace-migrator/internal/migration/domain/model"
)

// RedisOwnershipLedger remembers resolved owner tags across linker runs in
// Redis hashes, keyed per collection and source record. Ownership is
// first-write-wins: a tag recorded here is reused verbatim on later runs,
// even when it came from the random-fallback tier.
type RedisOwnershipLedger struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisOwnershipLedger creates a Redis-backed ownership ledger.
func NewRedisOwnershipLedger(client *redis.Client, logger *zap.Logger) *RedisOwnershipLedger {
	return &RedisOwnershipLedger{
		client: client,
		logger: logger,
	}
}

func ledgerKey(collection, recordID string) string {
	return fmt.Sprintf("ownership:%s:%s", collection, recordID)
}

// Get returns the recorded owner for a record, if any.
func (l *RedisOwnershipLedger) Get(ctx context.Context, collection, recordID string) (model.OwnerTag, bool, error) {
	value, err := l.client.HGet(ctx, ledgerKey(collection, recordID), "owner").Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read ownership ledger: %w", err)
	}

	owner := model.OwnerTag(value)
	if !owner.Valid() {
		l.logger.Warn("ownership ledger holds unknown tag, ignoring",
			zap.String("collection", collection),
			zap.String("record_id", recordID),
			zap.String("owner", value))
		return "", false, nil
	}
	return owner, true, nil
}

// Record stores a newly resolved owner, keeping the first write: HSetNX on
// the owner field so a concurrent or later run never overwrites it.
func (l *RedisOwnershipLedger) Record(ctx context.Context, collection, recordID string, owner model.OwnerTag, tier string) error {
	key := ledgerKey(collection, recordID)

	set, err := l.client.HSetNX(ctx, key, "owner", string(owner)).Result()
	if err != nil {
		return fmt.Errorf("write ownership ledger: %w", err)
	}
	if !set {
		// First write wins; keep the existing tag and its provenance.
		return nil
	}

	if err := l.client.HSet(ctx, key, map[string]interface{}{
		"tier":        tier,
		"resolved_at": time.Now().UTC().Format(time.RFC3339),
	}).Err(); err != nil {
		return fmt.Errorf("write ownership ledger metadata: %w", err)
	}

	l.logger.Debug("ownership recorded",
		zap.String("collection", collection),
		zap.String("record_id", recordID),
		zap.String("owner", string(owner)),
		zap.String("tier", tier))
	return nil
}

// NewRedisClient creates a Redis client for the ledger with connection
// timeouts suited to a batch process.
func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
}
