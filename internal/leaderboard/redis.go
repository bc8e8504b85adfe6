package leaderboard

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// RedisStore keeps the board in Redis: a sorted set of entry IDs by score,
// one hash per entry and a pub/sub channel for new entries. It implements
// both Repository and Feed.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	logger *log.Logger
}

var (
	_ Repository = (*RedisStore)(nil)
	_ Feed       = (*RedisStore)(nil)
)

// DialRedis connects to addr and checks the connection.
func DialRedis(ctx context.Context, addr string) (redis.UniversalClient, error) {
	rdb := redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{addr}})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("leaderboard: redis %s: %w", addr, err)
	}
	return rdb, nil
}

// NewRedisStore uses keys under prefix. An empty prefix means "thrifty".
func NewRedisStore(rdb redis.UniversalClient, prefix string, logger *log.Logger) *RedisStore {
	if prefix == "" {
		prefix = "thrifty"
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &RedisStore{rdb: rdb, prefix: prefix, logger: logger}
}

func (r *RedisStore) rankKey() string          { return r.prefix + ":leaderboard" }
func (r *RedisStore) entryKey(id string) string { return r.prefix + ":entry:" + id }
func (r *RedisStore) channel() string          { return r.prefix + ":leaderboard:feed" }

// Insert implements Repository.
func (r *RedisStore) Insert(ctx context.Context, e Entry) error {
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, r.entryKey(e.ID), map[string]any{
			"name":       e.Name,
			"score":      e.Score,
			"created_at": e.CreatedAt.UTC().Format(time.RFC3339),
		})
		pipe.ZAdd(ctx, r.rankKey(), redis.Z{Score: rankScore(e), Member: e.ID})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis insert: %w", err)
	}
	return nil
}

// tieHorizon bounds the creation times rankScore can order, in unix seconds.
const tieHorizon = 1e10

// rankScore is the sorted-set score of an entry: the integer score plus a
// fraction in (0, 1) that shrinks with creation time, so equal scores rank
// oldest first at one second resolution.
func rankScore(e Entry) float64 {
	sec := float64(e.CreatedAt.Unix())
	sec = max(0, min(sec, tieHorizon-1))
	return float64(e.Score) + (tieHorizon-sec)/(tieHorizon+1)
}

// Top implements Repository.
func (r *RedisStore) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	ids, err := r.rdb.ZRevRange(ctx, r.rankKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis top: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	cmds := make([]*redis.MapStringStringCmd, len(ids))
	_, err = r.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, id := range ids {
			cmds[i] = pipe.HGetAll(ctx, r.entryKey(id))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("redis top: %w", err)
	}

	entries := make([]Entry, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			r.logger.Warn("ranked entry has no data", "id", ids[i])
			continue
		}
		score, _ := strconv.Atoi(fields["score"])
		created, _ := time.Parse(time.RFC3339, fields["created_at"])
		entries = append(entries, Entry{
			ID:        ids[i],
			Name:      fields["name"],
			Score:     score,
			CreatedAt: created,
		})
	}
	return entries, nil
}

// Publish implements Feed.
func (r *RedisStore) Publish(ctx context.Context, e Entry) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	if err := r.rdb.Publish(ctx, r.channel(), payload).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe implements Feed. It returns once the subscription is confirmed.
func (r *RedisStore) Subscribe(ctx context.Context) (<-chan Entry, error) {
	ps := r.rdb.Subscribe(ctx, r.channel())
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan Entry, feedBuffer)
	go func() {
		defer close(out)
		defer ps.Close()
		msgs := ps.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var e Entry
				if err := json.Unmarshal([]byte(msg.Payload), &e); err != nil {
					r.logger.Warn("bad feed message", "err", err)
					continue
				}
				select {
				case out <- e:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
