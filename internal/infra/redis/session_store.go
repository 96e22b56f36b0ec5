package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"summit-quiz-service/internal/app"
)

// SessionStore is a Redis-aware implementation of app.SessionRepository.
// Notes:
//   - It still keeps a local in-memory map of aggregates to reuse the
//     in-process mutation and broadcast logic.
//   - Redis marks session liveness, mirrors the join-code index and records
//     per-player presence heartbeats (the "is this player active" signal a
//     sibling instance or ops tooling can read).
//   - For true distribution you'd pair this with a pub/sub projector that
//     fans out snapshots.
type SessionStore struct {
	client      *redis.Client
	ttl         time.Duration
	presenceTTL time.Duration
	mu          sync.RWMutex
	byID        map[string]*app.Session
	byCode      map[string]*app.Session
}

func NewSessionStore(client *redis.Client, ttl, presenceTTL time.Duration) *SessionStore {
	return &SessionStore{
		client:      client,
		ttl:         ttl,
		presenceTTL: presenceTTL,
		byID:        make(map[string]*app.Session),
		byCode:      make(map[string]*app.Session),
	}
}

func (s *SessionStore) Insert(session *app.Session) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.byCode[session.Code()]; taken {
		return false
	}
	s.byID[session.ID()] = session
	s.byCode[session.Code()] = session
	// best-effort liveness marker + code index
	ctx := context.Background()
	_ = s.client.Set(ctx, s.liveKey(session.ID()), "1", s.ttl).Err()
	_ = s.client.Set(ctx, s.codeKey(session.Code()), session.ID(), s.ttl).Err()
	return true
}

func (s *SessionStore) Get(id string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byID[id]
	return session, ok
}

func (s *SessionStore) GetByCode(code string) (*app.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.byCode[code]
	return session, ok
}

func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	delete(s.byCode, session.Code())
	ctx := context.Background()
	_ = s.client.Del(ctx, s.liveKey(id), s.codeKey(session.Code())).Err()
}

// Touch implements app.PresenceTracker: a TTL key per player that expires on
// its own when heartbeats stop.
func (s *SessionStore) Touch(ctx context.Context, sessionID, playerID string) {
	_ = s.client.Set(ctx, s.presenceKey(sessionID, playerID), "1", s.presenceTTL).Err()
}

// ActiveCount reports how many players currently hold a presence key.
func (s *SessionStore) ActiveCount(ctx context.Context, sessionID string) (int, error) {
	var cursor uint64
	count := 0
	for {
		keys, next, err := s.client.Scan(ctx, cursor, s.presenceKey(sessionID, "*"), 100).Result()
		if err != nil {
			return 0, err
		}
		count += len(keys)
		cursor = next
		if cursor == 0 {
			return count, nil
		}
	}
}

func (s *SessionStore) liveKey(sessionID string) string {
	return "game:session:" + sessionID
}

func (s *SessionStore) codeKey(code string) string {
	return "game:code:" + code
}

func (s *SessionStore) presenceKey(sessionID, playerID string) string {
	return "game:session:" + sessionID + ":presence:" + playerID
}
