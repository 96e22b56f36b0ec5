package app

import (
	"context"

	"github.com/google/uuid"

	"summit-quiz-service/internal/domain"
)

// SessionRepository abstracts how live session aggregates are stored
// (in-memory, Redis-backed, etc).
type SessionRepository interface {
	// Insert stores a new session; it returns false when the join code is
	// already taken so the caller can regenerate.
	Insert(session *Session) bool
	Get(id string) (*Session, bool)
	GetByCode(code string) (*Session, bool)
	Delete(id string)
}

// QuestionSetRepository loads importable quiz content (from cache/backing
// store).
type QuestionSetRepository interface {
	GetQuestionSet(ctx context.Context, setID string) (domain.QuestionSet, error)
}

// PresenceTracker mirrors player heartbeats into an external liveness store.
// Session repositories may optionally implement it.
type PresenceTracker interface {
	Touch(ctx context.Context, sessionID, playerID string)
}

// GameService contains the session-facing use cases. It resolves the session
// aggregate and delegates; each aggregate operation is one atomic mutation.
type GameService struct {
	sessions SessionRepository
	sets     QuestionSetRepository
}

func NewGameService(sessions SessionRepository, sets QuestionSetRepository) *GameService {
	return &GameService{sessions: sessions, sets: sets}
}

// CreateSession makes a fresh lobby owned by hostID and returns the
// aggregate; the caller hands Code to players and HostToken to the host only.
func (g *GameService) CreateSession(_ context.Context, hostID string) *Session {
	if hostID == "" {
		hostID = uuid.NewString()
	}
	for {
		session := newSession(hostID)
		if g.sessions.Insert(session) {
			return session
		}
		// join code collision; roll again
	}
}

// Session resolves by id.
func (g *GameService) Session(id string) (*Session, error) {
	session, ok := g.sessions.Get(id)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// SessionByCode resolves by join code.
func (g *GameService) SessionByCode(code string) (*Session, error) {
	session, ok := g.sessions.GetByCode(code)
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// Join registers a player by join code. A blank playerID mints a new one.
func (g *GameService) Join(ctx context.Context, code, playerID, name string) (domain.Player, error) {
	session, err := g.SessionByCode(code)
	if err != nil {
		return domain.Player{}, err
	}
	if playerID == "" {
		playerID = uuid.NewString()
	}
	player, _ := session.Join(playerID, name)
	g.touch(ctx, session.ID(), playerID)
	return player, nil
}

// Heartbeat refreshes a player's liveness signal.
func (g *GameService) Heartbeat(ctx context.Context, sessionID, playerID string) error {
	session, err := g.Session(sessionID)
	if err != nil {
		return err
	}
	if err := session.Heartbeat(playerID); err != nil {
		return err
	}
	g.touch(ctx, sessionID, playerID)
	return nil
}

// Leave removes a player from the session roster. The session itself stays
// up even when empty; the host owns teardown via DeleteSession. Missing
// sessions are a no-op.
func (g *GameService) Leave(_ context.Context, sessionID, playerID string) {
	session, ok := g.sessions.Get(sessionID)
	if !ok {
		return
	}
	session.Leave(playerID)
}

func (g *GameService) touch(ctx context.Context, sessionID, playerID string) {
	if tracker, ok := g.sessions.(PresenceTracker); ok {
		tracker.Touch(ctx, sessionID, playerID)
	}
}

// ImportQuestions loads a question set and appends it to the session.
func (g *GameService) ImportQuestions(ctx context.Context, sessionID, token, setID string) (int, error) {
	session, err := g.Session(sessionID)
	if err != nil {
		return 0, err
	}
	set, err := g.sets.GetQuestionSet(ctx, setID)
	if err != nil {
		return 0, err
	}
	return session.ImportQuestions(token, set)
}

// SubmitAnswer admits or rejects a player's answer for the current question.
func (g *GameService) SubmitAnswer(ctx context.Context, sessionID, playerID string, optionIndex int) (domain.Answer, error) {
	session, err := g.Session(sessionID)
	if err != nil {
		return domain.Answer{}, err
	}
	answer, err := session.Submit(playerID, optionIndex)
	if err != nil {
		return domain.Answer{}, err
	}
	g.touch(ctx, sessionID, playerID)
	return answer, nil
}

// Subscribe returns a channel of state snapshots for a session. The caller
// must invoke the returned cancel function to avoid leaks.
func (g *GameService) Subscribe(_ context.Context, sessionID string) (<-chan Snapshot, func(), error) {
	session, err := g.Session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel := session.Subscribe()
	return ch, cancel, nil
}

// DeleteSession tears the whole session down, host-only.
func (g *GameService) DeleteSession(_ context.Context, sessionID, token string) error {
	session, err := g.Session(sessionID)
	if err != nil {
		return err
	}
	if token != session.HostToken() {
		return domain.ErrNotHost
	}
	g.sessions.Delete(sessionID)
	return nil
}
