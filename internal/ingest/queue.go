// Package ingest turns queued URLs into pending articles.
package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type JobKind string

const (
	JobPage JobKind = "page"
	JobFeed JobKind = "feed"
)

type Job struct {
	Kind       JobKind   `json:"kind"`
	URL        string    `json:"url"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Queue interface {
	Push(ctx context.Context, job Job) error
	Pop(ctx context.Context) (Job, error)
}

const queueKey = "queue:ingest"

// RedisQueue is a FIFO of jobs on a Redis list.
type RedisQueue struct {
	rdb *redis.Client
}

var _ Queue = (*RedisQueue)(nil)

func NewRedisQueue(addr string) (*RedisQueue, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return &RedisQueue{rdb: rdb}, nil
}

func (q *RedisQueue) Close() error {
	return q.rdb.Close()
}

func (q *RedisQueue) Push(ctx context.Context, job Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return q.rdb.LPush(ctx, queueKey, data).Err()
}

// Pop blocks until a job arrives or ctx is done.
func (q *RedisQueue) Pop(ctx context.Context) (Job, error) {
	result, err := q.rdb.BRPop(ctx, 0, queueKey).Result()
	if err != nil {
		return Job{}, err
	}
	var job Job
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		return Job{}, fmt.Errorf("decode job: %w", err)
	}
	return job, nil
}

// ChanQueue is an in-process Queue for running without Redis.
type ChanQueue struct {
	jobs chan Job
}

var _ Queue = (*ChanQueue)(nil)

func NewChanQueue(size int) *ChanQueue {
	return &ChanQueue{jobs: make(chan Job, size)}
}

func (q *ChanQueue) Push(ctx context.Context, job Job) error {
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *ChanQueue) Pop(ctx context.Context) (Job, error) {
	select {
	case job := <-q.jobs:
		return job, nil
	case <-ctx.Done():
		return Job{}, ctx.Err()
	}
}
