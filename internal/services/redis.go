package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"casino-backend/internal/config"
	"casino-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisStore keeps every entity as a JSON document. Multi-document writes run
// inside WATCH/MULTI so the funds check and the balance update cannot interleave
// with another request for the same player.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisStore(ctx context.Context, cfg *config.Config) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return NewRedisStoreFromClient(client), nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Collections(ctx context.Context) ([]string, error) {
	seen := make(map[string]bool)
	var cursor uint64
	for scanned := 0; scanned < 1000; {
		keys, next, err := s.client.Scan(ctx, cursor, "*", 100).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to scan keys: %w", err)
		}
		for _, key := range keys {
			prefix, _, _ := strings.Cut(key, ":")
			if prefix != "ratelimit" {
				seen[prefix] = true
			}
		}
		scanned += len(keys)
		cursor = next
		if cursor == 0 {
			break
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	if len(out) > 10 {
		out = out[:10]
	}
	return out, nil
}

func (s *RedisStore) CreatePlayer(ctx context.Context, p *models.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	key := fmt.Sprintf(KeyPlayer, p.ID)
	created, err := s.client.SetNX(ctx, key, data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	if !created {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	return nil
}

func (s *RedisStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return s.loadPlayer(ctx, s.client, id)
}

func (s *RedisStore) ListHistory(ctx context.Context, playerID string, limit int64) ([]*models.BetHistory, error) {
	limit = clampHistoryLimit(limit)

	ids, err := s.client.ZRevRange(ctx, fmt.Sprintf(KeyPlayerHistory, playerID), 0, limit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history ids: %w", err)
	}
	if len(ids) == 0 {
		return []*models.BetHistory{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, fmt.Sprintf(KeyBetHistory, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("pipeline execution failed: %w", err)
	}

	records := make([]*models.BetHistory, 0, len(ids))
	for i, cmd := range cmds {
		data, err := cmd.Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get bet history %s: %w", ids[i], err)
		}

		var h models.BetHistory
		if err := json.Unmarshal([]byte(data), &h); err != nil {
			return nil, fmt.Errorf("failed to unmarshal bet history %s: %w", ids[i], err)
		}
		if err := h.Validate(); err != nil {
			return nil, err
		}
		records = append(records, &h)
	}

	return records, nil
}

func (s *RedisStore) GetSession(ctx context.Context, id string) (*models.BlackjackSession, error) {
	return s.loadSession(ctx, s.client, id)
}

func (s *RedisStore) SaveSession(ctx context.Context, sess *models.BlackjackSession) error {
	key := fmt.Sprintf(KeyBlackjack, sess.ID)

	return s.watch(ctx, func(tx *redis.Tx) error {
		if err := s.checkSession(ctx, tx, sess); err != nil {
			return err
		}

		next := sess.Clone()
		next.Version++
		next.UpdatedAt = s.now()
		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, 0)
			pipe.ZAdd(ctx, KeyPlayingSessions, playingEntry(next))
			return nil
		}); err != nil {
			return err
		}

		sess.Version = next.Version
		sess.UpdatedAt = next.UpdatedAt
		return nil
	}, key)
}

func (s *RedisStore) ApplyBet(ctx context.Context, w *Wager) (*models.Player, error) {
	key := fmt.Sprintf(KeyPlayer, w.PlayerID)
	seqKey := fmt.Sprintf(KeyHistorySeq, w.PlayerID)

	var result *models.Player
	err := s.watch(ctx, func(tx *redis.Tx) error {
		p, err := s.loadPlayer(ctx, tx, w.PlayerID)
		if err != nil {
			return err
		}

		if err := applyWager(p, w, s.now()); err != nil {
			return err
		}

		seq, err := s.nextHistorySeq(ctx, tx, w.PlayerID)
		if err != nil {
			return err
		}

		playerData, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal player: %w", err)
		}
		historyData, err := json.Marshal(w.History)
		if err != nil {
			return fmt.Errorf("failed to marshal bet history: %w", err)
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, playerData, 0)
			s.appendHistory(ctx, pipe, w.History, historyData, seq)
			return nil
		}); err != nil {
			return err
		}

		result = p
		return nil
	}, key, seqKey)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *RedisStore) OpenSession(ctx context.Context, sess *models.BlackjackSession) (*models.Player, error) {
	if err := sess.Validate(); err != nil {
		return nil, err
	}

	playerKey := fmt.Sprintf(KeyPlayer, sess.PlayerID)
	sessionKey := fmt.Sprintf(KeyBlackjack, sess.ID)

	var result *models.Player
	err := s.watch(ctx, func(tx *redis.Tx) error {
		p, err := s.loadPlayer(ctx, tx, sess.PlayerID)
		if err != nil {
			return err
		}

		exists, err := tx.Exists(ctx, sessionKey).Result()
		if err != nil {
			return fmt.Errorf("failed to check session: %w", err)
		}
		if exists > 0 {
			return fmt.Errorf("session %s already exists", sess.ID)
		}

		if err := lockStake(p, sess.Bet, s.now()); err != nil {
			return err
		}

		playerData, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal player: %w", err)
		}
		sessionData, err := json.Marshal(sess)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, playerKey, playerData, 0)
			pipe.Set(ctx, sessionKey, sessionData, 0)
			pipe.ZAdd(ctx, KeyPlayingSessions, playingEntry(sess))
			return nil
		}); err != nil {
			return err
		}

		result = p
		return nil
	}, playerKey, sessionKey)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *RedisStore) CloseSession(ctx context.Context, sess *models.BlackjackSession, h *models.BetHistory) (*models.Player, error) {
	playerKey := fmt.Sprintf(KeyPlayer, sess.PlayerID)
	sessionKey := fmt.Sprintf(KeyBlackjack, sess.ID)
	seqKey := fmt.Sprintf(KeyHistorySeq, sess.PlayerID)

	var result *models.Player
	err := s.watch(ctx, func(tx *redis.Tx) error {
		if err := s.checkSession(ctx, tx, sess); err != nil {
			return err
		}

		p, err := s.loadPlayer(ctx, tx, sess.PlayerID)
		if err != nil {
			return err
		}

		now := s.now()
		if err := releaseStake(p, sess, h, now); err != nil {
			return err
		}

		seq, err := s.nextHistorySeq(ctx, tx, sess.PlayerID)
		if err != nil {
			return err
		}

		next := sess.Clone()
		next.Version++
		next.UpdatedAt = now

		playerData, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("failed to marshal player: %w", err)
		}
		sessionData, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}
		historyData, err := json.Marshal(h)
		if err != nil {
			return fmt.Errorf("failed to marshal bet history: %w", err)
		}

		if _, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, playerKey, playerData, 0)
			pipe.Set(ctx, sessionKey, sessionData, TTLFinishedSession)
			pipe.ZRem(ctx, KeyPlayingSessions, sess.ID)
			s.appendHistory(ctx, pipe, h, historyData, seq)
			return nil
		}); err != nil {
			return err
		}

		sess.Version = next.Version
		sess.UpdatedAt = next.UpdatedAt
		result = p
		return nil
	}, playerKey, sessionKey, seqKey)
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (s *RedisStore) StaleSessions(ctx context.Context, before time.Time, limit int64) ([]string, error) {
	ids, err := s.client.ZRangeByScore(ctx, KeyPlayingSessions, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(before.UnixMilli(), 10),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list stale sessions: %w", err)
	}
	return ids, nil
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rk := fmt.Sprintf(KeyRateLimit, key)

	count, err := s.client.Incr(ctx, rk).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check rate limit: %w", err)
	}

	if count == 1 {
		s.client.Expire(ctx, rk, window)
	}

	return count <= int64(limit), nil
}

// watch runs fn under WATCH on keys, retrying when another client wins the race.
func (s *RedisStore) watch(ctx context.Context, fn func(tx *redis.Tx) error, keys ...string) error {
	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, fn, keys...)
		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return fmt.Errorf("%w: gave up after %d attempts", ErrConflict, maxTxRetries)
}

func (s *RedisStore) checkSession(ctx context.Context, tx *redis.Tx, sess *models.BlackjackSession) error {
	stored, err := s.loadSession(ctx, tx, sess.ID)
	if err != nil {
		return err
	}
	if !stored.Playing() {
		return ErrSessionClosed
	}
	if stored.Version != sess.Version {
		return fmt.Errorf("%w: session %s is at version %d, have %d", ErrConflict, sess.ID, stored.Version, sess.Version)
	}
	return nil
}

// nextHistorySeq reads the player's append counter. The caller watches the
// counter key and writes the new value back through appendHistory.
func (s *RedisStore) nextHistorySeq(ctx context.Context, tx *redis.Tx, playerID string) (int64, error) {
	n, err := tx.Get(ctx, fmt.Sprintf(KeyHistorySeq, playerID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read history sequence: %w", err)
	}
	return n + 1, nil
}

// appendHistory scores records by append order so same-millisecond bets keep
// their order.
func (s *RedisStore) appendHistory(ctx context.Context, pipe redis.Pipeliner, h *models.BetHistory, data []byte, seq int64) {
	pipe.Set(ctx, fmt.Sprintf(KeyHistorySeq, h.PlayerID), seq, 0)
	pipe.Set(ctx, fmt.Sprintf(KeyBetHistory, h.ID), data, 0)
	pipe.ZAdd(ctx, fmt.Sprintf(KeyPlayerHistory, h.PlayerID), redis.Z{
		Score:  float64(seq),
		Member: h.ID,
	})
}

func playingEntry(sess *models.BlackjackSession) redis.Z {
	return redis.Z{
		Score:  float64(sess.UpdatedAt.UnixMilli()),
		Member: sess.ID,
	}
}

func (s *RedisStore) loadPlayer(ctx context.Context, c getter, id string) (*models.Player, error) {
	data, err := c.Get(ctx, fmt.Sprintf(KeyPlayer, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var p models.Player
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *RedisStore) loadSession(ctx context.Context, c getter, id string) (*models.BlackjackSession, error) {
	data, err := c.Get(ctx, fmt.Sprintf(KeyBlackjack, id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var sess models.BlackjackSession
	if err := json.Unmarshal([]byte(data), &sess); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if err := sess.Validate(); err != nil {
		return nil, err
	}
	return &sess, nil
}
