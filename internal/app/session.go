package app

import (
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"summit-quiz-service/internal/domain"
	"summit-quiz-service/internal/scoring"
)

// defaultActivityWindow is how recent a heartbeat must be for a player to
// count as active.
const defaultActivityWindow = 30 * time.Second

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// Session is the in-memory aggregate for one game. Every operation takes the
// single mutex for its whole validate-then-write span, which is what makes
// phase checks, admission checks and score batches atomic; sessions never
// share state, so they stay independent actors.
type Session struct {
	mu          sync.RWMutex
	now         func() time.Time
	state       domain.Session
	questions   []*domain.Question // kept sorted by Order
	players     map[string]*domain.Player
	answers     map[string]map[string]*domain.Answer // questionID → playerID
	subscribers map[chan Snapshot]struct{}
}

func newSession(hostID string) *Session {
	return newSessionWithClock(hostID, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(hostID string, now func() time.Time) *Session {
	return &Session{
		now: now,
		state: domain.Session{
			ID:                   uuid.NewString(),
			Code:                 generateCode(),
			HostID:               hostID,
			SecretToken:          uuid.NewString(),
			Status:               domain.StatusLobby,
			CurrentQuestionIndex: -1,
			SummitThreshold:      domain.DefaultSummitThreshold,
			CreatedAt:            now(),
		},
		players:     make(map[string]*domain.Player),
		answers:     make(map[string]map[string]*domain.Answer),
		subscribers: make(map[chan Snapshot]struct{}),
	}
}

func generateCode() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = codeAlphabet[rand.Intn(len(codeAlphabet))]
	}
	return string(b)
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(hostID string) *Session {
	return newSession(hostID)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(hostID string, now func() time.Time) *Session {
	return newSessionWithClock(hostID, now)
}

// ID returns the immutable session id.
func (s *Session) ID() string {
	return s.state.ID
}

// Code returns the immutable join code.
func (s *Session) Code() string {
	return s.state.Code
}

// HostToken returns the host credential; only the create path hands it out.
func (s *Session) HostToken() string {
	return s.state.SecretToken
}

func (s *Session) authorizeHostLocked(token string) error {
	if token != s.state.SecretToken {
		return domain.ErrNotHost
	}
	return nil
}

// IsEmpty reports whether the session has no players.
func (s *Session) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.players) == 0
}

// ---- lobby: players ----

// Join adds a player (or refreshes the name of an existing one). Players may
// join in any status; latecomers simply start at elevation 0.
func (s *Session) Join(playerID, name string) (domain.Player, Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	p, ok := s.players[playerID]
	if !ok {
		p = &domain.Player{
			ID:        playerID,
			SessionID: s.state.ID,
			Name:      name,
		}
		s.players[playerID] = p
	} else if name != "" {
		p.Name = name
	}
	p.LastSeenAt = now
	return *p, s.broadcastLocked()
}

// Leave removes a player. Their already-scored answers stay in the batch
// history; only the roster entry goes.
func (s *Session) Leave(playerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.players[playerID]; !ok {
		return
	}
	delete(s.players, playerID)
	s.broadcastLocked()
}

// Heartbeat refreshes the player's liveness timestamp. It does not broadcast;
// presence changes surface with the next state push.
func (s *Session) Heartbeat(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.players[playerID]
	if !ok {
		return domain.ErrPlayerNotFound
	}
	p.LastSeenAt = s.now()
	return nil
}

// ---- lobby: questions ----

func validateSpec(spec domain.QuestionSpec) error {
	if len(spec.Options) < 2 {
		return fmt.Errorf("%w: question needs at least 2 options", domain.ErrValidation)
	}
	if spec.CorrectOptionIndex != nil {
		if i := *spec.CorrectOptionIndex; i < 0 || i >= len(spec.Options) {
			return fmt.Errorf("%w: correct option index %d out of range", domain.ErrValidation, i)
		}
	}
	if spec.TimeLimitSec <= 0 {
		return fmt.Errorf("%w: time limit must be positive", domain.ErrValidation)
	}
	return nil
}

func (s *Session) requireLobbyLocked(token string) error {
	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status != domain.StatusLobby {
		return fmt.Errorf("%w: questions are editable only in lobby, status is %s",
			domain.ErrIllegalTransition, s.state.Status)
	}
	return nil
}

// AddQuestion appends a question while in lobby.
func (s *Session) AddQuestion(token string, spec domain.QuestionSpec) (domain.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return domain.Question{}, err
	}
	if err := validateSpec(spec); err != nil {
		return domain.Question{}, err
	}

	q := &domain.Question{
		ID:                 uuid.NewString(),
		SessionID:          s.state.ID,
		Text:               spec.Text,
		Options:            append([]domain.Option(nil), spec.Options...),
		CorrectOptionIndex: spec.CorrectOptionIndex,
		Order:              len(s.questions),
		TimeLimitSec:       spec.TimeLimitSec,
		Enabled:            true,
		FollowUpText:       spec.FollowUpText,
	}
	s.questions = append(s.questions, q)
	s.broadcastLocked()
	return *q, nil
}

// UpdateQuestion replaces a question's content, keeping order and enablement.
func (s *Session) UpdateQuestion(token, questionID string, spec domain.QuestionSpec) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return err
	}
	if err := validateSpec(spec); err != nil {
		return err
	}
	q := s.questionByIDLocked(questionID)
	if q == nil {
		return domain.ErrQuestionNotFound
	}
	q.Text = spec.Text
	q.Options = append([]domain.Option(nil), spec.Options...)
	q.CorrectOptionIndex = spec.CorrectOptionIndex
	q.TimeLimitSec = spec.TimeLimitSec
	q.FollowUpText = spec.FollowUpText
	s.broadcastLocked()
	return nil
}

// SetQuestionEnabled toggles whether a question is played. Disabled questions
// are skipped but retained.
func (s *Session) SetQuestionEnabled(token, questionID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return err
	}
	q := s.questionByIDLocked(questionID)
	if q == nil {
		return domain.ErrQuestionNotFound
	}
	q.Enabled = enabled
	s.broadcastLocked()
	return nil
}

// ReorderQuestions applies an explicit id permutation; it must name every
// question exactly once.
func (s *Session) ReorderQuestions(token string, ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return err
	}
	if len(ids) != len(s.questions) {
		return fmt.Errorf("%w: reorder must list all %d questions", domain.ErrValidation, len(s.questions))
	}
	byID := make(map[string]*domain.Question, len(s.questions))
	for _, q := range s.questions {
		byID[q.ID] = q
	}
	ordered := make([]*domain.Question, 0, len(ids))
	for i, id := range ids {
		q, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: unknown or duplicate question id %q", domain.ErrValidation, id)
		}
		delete(byID, id)
		q.Order = i
		ordered = append(ordered, q)
	}
	s.questions = ordered
	s.broadcastLocked()
	return nil
}

// ShuffleQuestions randomizes play order. Plain math/rand on purpose: the
// result is persisted and observed through Order, so it does not need the
// cross-client determinism reveal sequencing needs.
func (s *Session) ShuffleQuestions(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return err
	}
	rand.Shuffle(len(s.questions), func(i, j int) {
		s.questions[i], s.questions[j] = s.questions[j], s.questions[i]
	})
	for i, q := range s.questions {
		q.Order = i
	}
	s.broadcastLocked()
	return nil
}

// ImportQuestions appends a loaded question set in order.
func (s *Session) ImportQuestions(token string, set domain.QuestionSet) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return 0, err
	}
	if len(set.Questions) == 0 {
		return 0, fmt.Errorf("%w: question set %q is empty", domain.ErrValidation, set.ID)
	}
	specs := make([]domain.QuestionSpec, len(set.Questions))
	copy(specs, set.Questions)
	for i := range specs {
		if specs[i].TimeLimitSec <= 0 {
			specs[i].TimeLimitSec = 30
		}
		if err := validateSpec(specs[i]); err != nil {
			return 0, err
		}
	}
	for _, spec := range specs {
		s.questions = append(s.questions, &domain.Question{
			ID:                 uuid.NewString(),
			SessionID:          s.state.ID,
			Text:               spec.Text,
			Options:            append([]domain.Option(nil), spec.Options...),
			CorrectOptionIndex: spec.CorrectOptionIndex,
			Order:              len(s.questions),
			TimeLimitSec:       spec.TimeLimitSec,
			Enabled:            true,
			FollowUpText:       spec.FollowUpText,
		})
	}
	s.broadcastLocked()
	return len(specs), nil
}

// SetSummitThreshold tunes game pacing; bounds per the rules.
func (s *Session) SetSummitThreshold(token string, threshold float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireLobbyLocked(token); err != nil {
		return err
	}
	if threshold < 0.5 || threshold > 1.0 {
		return fmt.Errorf("%w: summit threshold %.2f outside [0.5,1.0]", domain.ErrValidation, threshold)
	}
	s.state.SummitThreshold = threshold
	s.broadcastLocked()
	return nil
}

// ---- phase state machine: forward ----

// Start moves lobby → active with phase pre_game.
func (s *Session) Start(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status != domain.StatusLobby {
		return fmt.Errorf("%w: cannot start from %s", domain.ErrIllegalTransition, s.state.Status)
	}
	if len(s.enabledLocked()) == 0 {
		return fmt.Errorf("%w: no enabled questions", domain.ErrValidation)
	}
	s.state.Status = domain.StatusActive
	s.state.QuestionPhase = domain.PhasePreGame
	s.state.CurrentQuestionIndex = -1
	s.state.QuestionStartedAt = time.Time{}
	s.broadcastLocked()
	return nil
}

// NextQuestion advances to the next enabled question, or finishes the session
// when none remain.
func (s *Session) NextQuestion(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status != domain.StatusActive {
		return fmt.Errorf("%w: session is %s", domain.ErrIllegalTransition, s.state.Status)
	}
	if p := s.state.QuestionPhase; p != domain.PhasePreGame && p != domain.PhaseResults {
		return fmt.Errorf("%w: cannot advance question from %s", domain.ErrIllegalTransition, p)
	}

	enabled := s.enabledLocked()
	next := s.state.CurrentQuestionIndex + 1
	if next >= len(enabled) {
		s.state.Status = domain.StatusFinished
		s.state.QuestionPhase = domain.PhaseNone
		s.state.QuestionStartedAt = time.Time{}
		s.broadcastLocked()
		return nil
	}
	s.state.CurrentQuestionIndex = next
	s.state.QuestionPhase = domain.PhaseQuestionShown
	s.state.QuestionStartedAt = s.now()
	s.broadcastLocked()
	return nil
}

// ShowAnswers opens the answer window.
func (s *Session) ShowAnswers(token string) error {
	return s.advancePhase(token, domain.PhaseQuestionShown, domain.PhaseAnswersShown)
}

// ShowResults moves revealed → results.
func (s *Session) ShowResults(token string) error {
	return s.advancePhase(token, domain.PhaseRevealed, domain.PhaseResults)
}

func (s *Session) advancePhase(token string, from, to domain.QuestionPhase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status != domain.StatusActive || s.state.QuestionPhase != from {
		return fmt.Errorf("%w: can only move to %s from %s, currently %s/%s",
			domain.ErrIllegalTransition, to, from, s.state.Status, s.state.QuestionPhase)
	}
	if !from.CanAdvanceTo(to) {
		return fmt.Errorf("%w: %s does not advance to %s", domain.ErrIllegalTransition, from, to)
	}
	s.state.QuestionPhase = to
	s.broadcastLocked()
	return nil
}

// RevealAnswer is the sole scoring operation: it flips answers_shown →
// revealed and, in the same critical section, scores every answer on the
// current question, applies the elevation gains and assigns summit places.
// Subscribers never observe a partially scored question.
func (s *Session) RevealAnswer(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status != domain.StatusActive || s.state.QuestionPhase != domain.PhaseAnswersShown {
		return fmt.Errorf("%w: can only reveal from answers_shown, currently %s/%s",
			domain.ErrIllegalTransition, s.state.Status, s.state.QuestionPhase)
	}

	q := s.currentQuestionLocked()
	if q == nil {
		return domain.ErrQuestionNotFound
	}
	batch := s.answers[q.ID]
	totalAnswered := len(batch)

	counts := make([]int, len(q.Options))
	var first time.Time
	for _, a := range batch {
		counts[a.OptionIndex]++
		if first.IsZero() || a.AnsweredAt.Before(first) {
			first = a.AnsweredAt
		}
	}

	maxGain := scoring.DynamicMax(s.leaderElevationLocked(), s.pacingQuestionsRemainingLocked())

	var crossers []scoring.Crosser
	unclamped := make(map[string]int)
	for _, a := range batch {
		responseMs := a.AnsweredAt.Sub(first).Milliseconds()
		g := scoring.ElevationGain(responseMs, counts[a.OptionIndex], totalAnswered)
		if !q.PollMode() && a.OptionIndex != *q.CorrectOptionIndex {
			g.Total = 0
		}
		if g.Total > maxGain {
			g.Total = maxGain
		}

		base, bonus, total := g.Base, g.Bonus, g.Total
		a.BaseScore = &base
		a.MinorityBonus = &bonus
		a.ElevationGain = &total

		p := s.players[a.PlayerID]
		if p == nil {
			continue
		}
		before := p.Elevation
		after := before + total
		p.Elevation = scoring.ApplyGain(before, total)
		if before < domain.Summit && after >= domain.Summit && !p.Summited() {
			crossers = append(crossers, scoring.Crosser{PlayerID: p.ID, FinalElevation: after})
			unclamped[p.ID] = after
		}
	}

	if len(crossers) > 0 {
		start := s.maxSummitPlaceLocked() + 1
		for playerID, place := range scoring.SummitPlaces(crossers, start) {
			p := s.players[playerID]
			pl, el := place, unclamped[playerID]
			p.SummitPlace = &pl
			p.SummitElevation = &el
		}
	}

	s.state.QuestionPhase = domain.PhaseRevealed
	s.broadcastLocked()
	return nil
}

// ---- phase state machine: backward ----

// PreviousPhase is the unified backward operator. Only the answers_shown →
// question_shown step is destructive: it deletes the current question's
// answers and restores each affected player's elevation to the snapshot
// taken at submit time.
func (s *Session) PreviousPhase(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status != domain.StatusActive {
		return fmt.Errorf("%w: session is %s", domain.ErrIllegalTransition, s.state.Status)
	}

	switch s.state.QuestionPhase {
	case domain.PhasePreGame:
		s.state.Status = domain.StatusLobby
		s.state.QuestionPhase = domain.PhaseNone
		s.state.CurrentQuestionIndex = -1
		s.state.QuestionStartedAt = time.Time{}
		s.resetProgressLocked()
	case domain.PhaseResults:
		s.state.QuestionPhase = domain.PhaseRevealed
	case domain.PhaseRevealed:
		// scores stay written, merely re-hidden
		s.state.QuestionPhase = domain.PhaseAnswersShown
	case domain.PhaseAnswersShown:
		q := s.currentQuestionLocked()
		if q == nil {
			return domain.ErrQuestionNotFound
		}
		s.rollbackAnswersLocked(q.ID)
		s.state.QuestionPhase = domain.PhaseQuestionShown
	case domain.PhaseQuestionShown:
		if s.state.CurrentQuestionIndex > 0 {
			s.state.CurrentQuestionIndex--
			s.state.QuestionPhase = domain.PhaseResults
		} else if s.state.CurrentQuestionIndex == 0 {
			s.state.CurrentQuestionIndex = -1
			s.state.QuestionPhase = domain.PhasePreGame
		} else {
			return fmt.Errorf("%w: cannot go back from current state", domain.ErrIllegalTransition)
		}
	default:
		return fmt.Errorf("%w: cannot go back from current state", domain.ErrIllegalTransition)
	}
	s.broadcastLocked()
	return nil
}

// rollbackAnswersLocked deletes a question's answers and rewinds elevations.
// A player whose restored elevation drops below the summit loses their place;
// anyone who summited on an earlier question carries a snapshot of 1000 and
// keeps it.
func (s *Session) rollbackAnswersLocked(questionID string) {
	for _, a := range s.answers[questionID] {
		p := s.players[a.PlayerID]
		if p == nil {
			continue
		}
		p.Elevation = a.ElevationAtAnswer
		if a.ElevationAtAnswer < domain.Summit {
			p.SummitPlace = nil
			p.SummitElevation = nil
		}
	}
	delete(s.answers, questionID)
}

// ResetToLobby is the explicit active → lobby reset: all answers deleted,
// every player's climb wiped.
func (s *Session) ResetToLobby(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorizeHostLocked(token); err != nil {
		return err
	}
	if s.state.Status == domain.StatusLobby {
		return fmt.Errorf("%w: already in lobby", domain.ErrIllegalTransition)
	}
	s.state.Status = domain.StatusLobby
	s.state.QuestionPhase = domain.PhaseNone
	s.state.CurrentQuestionIndex = -1
	s.state.QuestionStartedAt = time.Time{}
	s.answers = make(map[string]map[string]*domain.Answer)
	s.resetProgressLocked()
	s.broadcastLocked()
	return nil
}

func (s *Session) resetProgressLocked() {
	for _, p := range s.players {
		p.Elevation = 0
		p.LastOptionIndex = nil
		p.SummitPlace = nil
		p.SummitElevation = nil
	}
}

// ---- answer admission ----

// Submit admits or rejects a player's answer. The admission checks and the
// insert share the session lock, so two racing submits cannot both pass the
// not-already-answered check. Scoring is deferred to RevealAnswer; the only
// writes here are the answer row (with its elevation snapshot) and the
// player's last-option cache.
func (s *Session) Submit(playerID string, optionIndex int) (domain.Answer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Status != domain.StatusActive || s.state.QuestionPhase != domain.PhaseAnswersShown {
		return domain.Answer{}, fmt.Errorf("%w: answers are not open, currently %s/%s",
			domain.ErrIllegalTransition, s.state.Status, s.state.QuestionPhase)
	}
	q := s.currentQuestionLocked()
	if q == nil {
		return domain.Answer{}, domain.ErrQuestionNotFound
	}
	p, ok := s.players[playerID]
	if !ok {
		return domain.Answer{}, domain.ErrPlayerNotFound
	}
	if optionIndex < 0 || optionIndex >= len(q.Options) {
		return domain.Answer{}, fmt.Errorf("%w: option index %d out of range", domain.ErrValidation, optionIndex)
	}

	batch := s.answers[q.ID]
	if _, dup := batch[playerID]; dup {
		return domain.Answer{}, domain.ErrAlreadyAnswered
	}

	now := s.now()
	if len(batch) > 0 {
		// the earliest answer, not question_shown, starts the countdown
		var first time.Time
		for _, a := range batch {
			if first.IsZero() || a.AnsweredAt.Before(first) {
				first = a.AnsweredAt
			}
		}
		if now.Sub(first) >= time.Duration(q.TimeLimitSec)*time.Second {
			return domain.Answer{}, domain.ErrWindowExpired
		}
	}

	a := &domain.Answer{
		QuestionID:        q.ID,
		PlayerID:          playerID,
		OptionIndex:       optionIndex,
		AnsweredAt:        now,
		ElevationAtAnswer: p.Elevation,
	}
	if batch == nil {
		batch = make(map[string]*domain.Answer)
		s.answers[q.ID] = batch
	}
	batch[playerID] = a

	idx := optionIndex
	p.LastOptionIndex = &idx
	p.LastSeenAt = now

	s.broadcastLocked()
	return *a, nil
}

// ---- internals ----

func (s *Session) questionByIDLocked(id string) *domain.Question {
	for _, q := range s.questions {
		if q.ID == id {
			return q
		}
	}
	return nil
}

// enabledLocked is the filtered, order-sorted view the question index runs
// over.
func (s *Session) enabledLocked() []*domain.Question {
	enabled := make([]*domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		if q.Enabled {
			enabled = append(enabled, q)
		}
	}
	return enabled
}

func (s *Session) currentQuestionLocked() *domain.Question {
	enabled := s.enabledLocked()
	i := s.state.CurrentQuestionIndex
	if i < 0 || i >= len(enabled) {
		return nil
	}
	return enabled[i]
}

func (s *Session) leaderElevationLocked() int {
	leader := 0
	for _, p := range s.players {
		if p.Elevation > leader {
			leader = p.Elevation
		}
	}
	return leader
}

// pacingQuestionsRemainingLocked feeds the rubber-band cap: the summit
// threshold sets how many questions the leader is expected to need, and the
// remainder is counted from the current position. Past the target the cap
// function falls back to its ceiling and compression comes from leader
// elevation alone.
func (s *Session) pacingQuestionsRemainingLocked() int {
	target := int(math.Ceil(s.state.SummitThreshold * float64(len(s.enabledLocked()))))
	remaining := target - (s.state.CurrentQuestionIndex + 1)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *Session) maxSummitPlaceLocked() int {
	best := 0
	for _, p := range s.players {
		if p.SummitPlace != nil && *p.SummitPlace > best {
			best = *p.SummitPlace
		}
	}
	return best
}

// ---- subscriptions ----

// Subscribe returns a channel receiving state snapshots, seeded with the
// current one. The caller must invoke cancel to avoid leaks.
func (s *Session) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.snapshotLocked()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() Snapshot {
	snap := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- snap:
		default:
			// drop the stale snapshot so a slow client never blocks the rest
			select {
			case <-ch:
			default:
			}
			ch <- snap
		}
	}
	return snap
}

// Snapshot returns the current state without mutating anything.
func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}
