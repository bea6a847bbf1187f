package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/recipegraph-backend/internal/domain/recipes"
	"github.com/yungbote/recipegraph-backend/internal/platform/logger"
)

type Resolver interface {
	Resolve(ctx context.Context, phrase string) (*recipes.ResolvedConcept, error)
}

// Store is the slice of a key/value cache the resolver cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Close() error
}

type CacheConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
	Prefix   string
}

type redisStore struct {
	rdb *goredis.Client
}

// NewStore connects and pings; an unreachable server is a startup error.
func NewStore(cfg CacheConfig) (Store, error) {
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &redisStore{rdb: rdb}, nil
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.rdb.Set(ctx, key, value, ttl).Err()
}

func (s *redisStore) Close() error { return s.rdb.Close() }

type cachedResult struct {
	Hit     bool                     `json:"hit"`
	Concept *recipes.ResolvedConcept `json:"concept,omitempty"`
}

// CachingResolver remembers hits and misses of next. Errors from next are
// never cached; errors from the store fall through to next.
type CachingResolver struct {
	next   Resolver
	store  Store
	ttl    time.Duration
	prefix string
	log    *logger.Logger
}

func NewCachingResolver(log *logger.Logger, next Resolver, store Store, cfg CacheConfig) *CachingResolver {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "recipegraph:resolve:"
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	return &CachingResolver{
		next:   next,
		store:  store,
		ttl:    ttl,
		prefix: prefix,
		log:    log.With("service", "ResolverCache"),
	}
}

func (c *CachingResolver) Resolve(ctx context.Context, phrase string) (*recipes.ResolvedConcept, error) {
	key := c.prefix + phrase
	if raw, ok, err := c.store.Get(ctx, key); err != nil {
		c.log.Warn("resolver cache read failed (continuing)", "phrase", phrase, "error", err)
	} else if ok {
		var cr cachedResult
		if err := json.Unmarshal([]byte(raw), &cr); err == nil {
			if !cr.Hit {
				return nil, nil
			}
			if cr.Concept != nil {
				return cr.Concept, nil
			}
		}
		c.log.Warn("resolver cache entry unreadable (ignoring)", "phrase", phrase)
	}

	concept, err := c.next.Resolve(ctx, phrase)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(cachedResult{Hit: concept != nil, Concept: concept})
	if err == nil {
		if setErr := c.store.Set(ctx, key, string(raw), c.ttl); setErr != nil {
			c.log.Warn("resolver cache write failed (continuing)", "phrase", phrase, "error", setErr)
		}
	}
	return concept, nil
}
