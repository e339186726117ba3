package repository

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revogacaoPrefix = "token:revogado:"

// RevogacaoRepository keeps the ids of tokens revoked before their expiry.
// Entries only need to live until the token would have expired anyway.
type RevogacaoRepository interface {
	Revogar(ctx context.Context, tokenID string, expiraEm time.Time) error
	EstaRevogado(ctx context.Context, tokenID string) (bool, error)
}

// NewRevogacaoRepository returns a Redis-backed store, or an in-process one when rdb is nil.
func NewRevogacaoRepository(rdb *redis.Client) RevogacaoRepository {
	if rdb == nil {
		return NewMemoryRevogacaoRepository()
	}
	return &redisRevogacaoRepo{rdb: rdb, now: time.Now}
}

type redisRevogacaoRepo struct {
	rdb *redis.Client
	now func() time.Time
}

func (r *redisRevogacaoRepo) Revogar(ctx context.Context, tokenID string, expiraEm time.Time) error {
	ttl := expiraEm.Sub(r.now())
	if ttl <= 0 {
		return nil
	}
	return r.rdb.Set(ctx, revogacaoPrefix+tokenID, 1, ttl).Err()
}

func (r *redisRevogacaoRepo) EstaRevogado(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, revogacaoPrefix+tokenID).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ── In-memory fallback ────────────────────────────────────────────────────────

type memoryRevogacaoRepo struct {
	mu      sync.Mutex
	entries map[string]time.Time
	now     func() time.Time
}

func NewMemoryRevogacaoRepository() RevogacaoRepository {
	return &memoryRevogacaoRepo{entries: make(map[string]time.Time), now: time.Now}
}

func (r *memoryRevogacaoRepo) Revogar(_ context.Context, tokenID string, expiraEm time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	now := r.now()
	for id, exp := range r.entries {
		if !now.Before(exp) {
			delete(r.entries, id)
		}
	}
	if expiraEm.After(now) {
		r.entries[tokenID] = expiraEm
	}
	return nil
}

func (r *memoryRevogacaoRepo) EstaRevogado(_ context.Context, tokenID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	exp, ok := r.entries[tokenID]
	return ok && r.now().Before(exp), nil
}
