package cache

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 200

// deleteByPattern deletes all keys matching pattern. Keys are collected over a
// full SCAN before anything is deleted, since deleting mid-iteration can make
// the cursor skip keys.
func deleteByPattern(ctx context.Context, rdb redis.Cmdable, pattern string) error {
	var (
		cursor uint64
		keys   []string
	)
	for {
		page, next, err := rdb.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return err
		}
		keys = append(keys, page...)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	for len(keys) > 0 {
		n := min(len(keys), scanBatch)
		if err := rdb.Del(ctx, keys[:n]...).Err(); err != nil {
			return err
		}
		keys = keys[n:]
	}
	return nil
}

// safe escapes characters that would break the key layout.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
