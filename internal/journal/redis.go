package journal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// MaxEntries: сколько последних сессий держим в списке.
const MaxEntries = 1000

// Redis stores each entry as a JSON string at <prefix>:game:<id> and keeps the
// newest ids first in the list <prefix>:games.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

// NewRedis connects and pings the server.
func NewRedis(ctx context.Context, addr, prefix string) (*Redis, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s: %w", addr, err)
	}
	return NewRedisWithClient(rdb, prefix), nil
}

func NewRedisWithClient(rdb *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "wordle"
	}
	return &Redis{rdb: rdb, prefix: prefix}
}

func (r *Redis) gameKey(id string) string { return r.prefix + ":game:" + id }
func (r *Redis) listKey() string          { return r.prefix + ":games" }

func (r *Redis) Record(ctx context.Context, e Entry) error {
	if e.SessionID == "" {
		return errors.New("journal: entry without session id")
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("journal: encode: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.gameKey(e.SessionID), data, 0)
		p.LPush(ctx, r.listKey(), e.SessionID)
		p.LTrim(ctx, r.listKey(), 0, MaxEntries-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("journal: record %s: %w", e.SessionID, err)
	}
	return nil
}

// Recent returns up to n newest entries. Ids whose document is gone are skipped.
func (r *Redis) Recent(ctx context.Context, n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}
	ids, err := r.rdb.LRange(ctx, r.listKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("journal: list: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.gameKey(id)
	}
	vals, err := r.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("journal: load: %w", err)
	}

	out := make([]Entry, 0, len(vals))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(s), &e); err != nil {
			return nil, fmt.Errorf("journal: decode %s: %w", ids[i], err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *Redis) Close() error { return r.rdb.Close() }
