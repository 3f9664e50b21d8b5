package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"casino-backend/internal/models"
)

// MemoryStore keeps everything in process. It backs tests and STORE_BACKEND=memory.
type MemoryStore struct {
	mu       sync.Mutex
	players  map[string]*models.Player
	sessions map[string]*models.BlackjackSession
	history  map[string][]*models.BetHistory
	limits   map[string]*rateWindow
	now      func() time.Time
}

type rateWindow struct {
	count   int
	resetAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		players:  make(map[string]*models.Player),
		sessions: make(map[string]*models.BlackjackSession),
		history:  make(map[string][]*models.BetHistory),
		limits:   make(map[string]*rateWindow),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MemoryStore) Name() string { return "memory" }

func (m *MemoryStore) Ping(ctx context.Context) error { return ctx.Err() }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) Collections(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []string
	if len(m.players) > 0 {
		out = append(out, "player")
	}
	if len(m.history) > 0 {
		out = append(out, "bethistory")
	}
	if len(m.sessions) > 0 {
		out = append(out, "blackjacksession")
	}
	return out, nil
}

func (m *MemoryStore) CreatePlayer(ctx context.Context, p *models.Player) error {
	if err := p.Validate(); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.players[p.ID]; ok {
		return fmt.Errorf("player %s already exists", p.ID)
	}
	m.players[p.ID] = p.Clone()
	return nil
}

func (m *MemoryStore) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, id)
	}
	return p.Clone(), nil
}

func (m *MemoryStore) ListHistory(ctx context.Context, playerID string, limit int64) ([]*models.BetHistory, error) {
	limit = clampHistoryLimit(limit)

	m.mu.Lock()
	defer m.mu.Unlock()

	records := m.history[playerID]
	out := make([]*models.BetHistory, 0, min(int64(len(records)), limit))
	for i := len(records) - 1; i >= 0 && int64(len(out)) < limit; i-- {
		h := *records[i]
		out = append(out, &h)
	}
	return out, nil
}

func (m *MemoryStore) GetSession(ctx context.Context, id string) (*models.BlackjackSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return s.Clone(), nil
}

func (m *MemoryStore) SaveSession(ctx context.Context, s *models.BlackjackSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkSession(s); err != nil {
		return err
	}

	s.Version++
	s.UpdatedAt = m.now()
	m.sessions[s.ID] = s.Clone()
	return nil
}

func (m *MemoryStore) StaleSessions(ctx context.Context, before time.Time, limit int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var stale []*models.BlackjackSession
	for _, s := range m.sessions {
		if s.Playing() && !s.UpdatedAt.After(before) {
			stale = append(stale, s)
		}
	}
	sort.Slice(stale, func(i, j int) bool {
		return stale[i].UpdatedAt.Before(stale[j].UpdatedAt)
	})

	ids := make([]string, 0, len(stale))
	for _, s := range stale {
		if limit > 0 && int64(len(ids)) >= limit {
			break
		}
		ids = append(ids, s.ID)
	}
	return ids, nil
}

func (m *MemoryStore) ApplyBet(ctx context.Context, w *Wager) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[w.PlayerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, w.PlayerID)
	}

	updated := p.Clone()
	if err := applyWager(updated, w, m.now()); err != nil {
		return nil, err
	}

	m.players[p.ID] = updated
	m.appendHistory(w.History)
	return updated.Clone(), nil
}

func (m *MemoryStore) OpenSession(ctx context.Context, s *models.BlackjackSession) (*models.Player, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.players[s.PlayerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, s.PlayerID)
	}
	if _, exists := m.sessions[s.ID]; exists {
		return nil, fmt.Errorf("session %s already exists", s.ID)
	}

	updated := p.Clone()
	if err := lockStake(updated, s.Bet, m.now()); err != nil {
		return nil, err
	}

	m.players[p.ID] = updated
	m.sessions[s.ID] = s.Clone()
	return updated.Clone(), nil
}

func (m *MemoryStore) CloseSession(ctx context.Context, s *models.BlackjackSession, h *models.BetHistory) (*models.Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkSession(s); err != nil {
		return nil, err
	}

	p, ok := m.players[s.PlayerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrPlayerNotFound, s.PlayerID)
	}

	updated := p.Clone()
	if err := releaseStake(updated, s, h, m.now()); err != nil {
		return nil, err
	}

	s.Version++
	s.UpdatedAt = m.now()
	m.sessions[s.ID] = s.Clone()
	m.players[p.ID] = updated
	m.appendHistory(h)
	return updated.Clone(), nil
}

func (m *MemoryStore) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	w, ok := m.limits[key]
	if !ok || now.After(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(window)}
		m.limits[key] = w
	}
	w.count++
	return w.count <= limit, nil
}

// checkSession verifies the caller's copy is current and still playing.
// The caller holds m.mu.
func (m *MemoryStore) checkSession(s *models.BlackjackSession) error {
	stored, ok := m.sessions[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, s.ID)
	}
	if !stored.Playing() {
		return ErrSessionClosed
	}
	if stored.Version != s.Version {
		return fmt.Errorf("%w: session %s is at version %d, have %d", ErrConflict, s.ID, stored.Version, s.Version)
	}
	return nil
}

// appendHistory keeps records in append order, which is what ListHistory
// reverses.
func (m *MemoryStore) appendHistory(h *models.BetHistory) {
	c := *h
	m.history[h.PlayerID] = append(m.history[h.PlayerID], &c)
}
