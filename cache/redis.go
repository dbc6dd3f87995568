package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	ProductsKey   = "products:all"
	CategoriesKey = "categories:all"
	OrdersAllKey  = "orders:all"
)

const (
	ProductsTTL   = 5 * time.Minute
	CategoriesTTL = 10 * time.Minute
	OrdersTTL     = time.Minute
)

func OrdersUserKey(userID uint) string {
	return fmt.Sprintf("orders:%d", userID)
}

// Store is a keyed JSON response cache. Every entry has an explicit TTL
// and every mutation path deletes the keys it invalidates. A Store with
// no backing client is valid and caches nothing.
type Store struct {
	rdb *redis.Client
}

func Connect() *Store {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable, response cache disabled: %v", err)
		return &Store{}
	}

	log.Println("Redis connected")
	return &Store{rdb: rdb}
}

// GetJSON reports whether the key was present and decoded into v.
func (s *Store) GetJSON(ctx context.Context, key string, v interface{}) bool {
	if s == nil || s.rdb == nil {
		return false
	}
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (s *Store) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration) {
	if s == nil || s.rdb == nil {
		return
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		log.Printf("failed to cache %s: %v", key, err)
	}
}

func (s *Store) Invalidate(ctx context.Context, keys ...string) {
	if s == nil || s.rdb == nil || len(keys) == 0 {
		return
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		log.Printf("failed to invalidate cache keys %v: %v", keys, err)
	}
}
