package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const feedKey = "list:notices"

// RedisFeed keeps the latest notices in a capped Redis list.
type RedisFeed struct {
	rdb *redis.Client
}

var _ Feed = (*RedisFeed)(nil)

func NewRedisFeed(addr string) (*RedisFeed, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisFeed{rdb: rdb}, nil
}

func (f *RedisFeed) Close() error {
	return f.rdb.Close()
}

func (f *RedisFeed) Notify(ctx context.Context, n Notice) error {
	data, err := json.Marshal(n)
	if err != nil {
		return err
	}
	pipe := f.rdb.Pipeline()
	pipe.LPush(ctx, feedKey, data)
	pipe.LTrim(ctx, feedKey, 0, FeedCap-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (f *RedisFeed) Recent(ctx context.Context, limit int) ([]Notice, error) {
	if limit <= 0 || limit > FeedCap {
		limit = FeedCap
	}
	vals, err := f.rdb.LRange(ctx, feedKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]Notice, 0, len(vals))
	for _, v := range vals {
		var n Notice
		if err := json.Unmarshal([]byte(v), &n); err == nil {
			out = append(out, n)
		}
	}
	return out, nil
}
