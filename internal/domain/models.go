package domain

import "time"

// Summit is the elevation a player must reach to win.
const Summit = 1000

// DefaultSummitThreshold is the fraction of enabled questions the pacing
// logic expects a leader to need before summiting.
const DefaultSummitThreshold = 0.75

// Session is the host-owned root of one game. It is mutated only through
// GameService operations.
type Session struct {
	ID                   string        `json:"id"`
	Code                 string        `json:"code"`
	HostID               string        `json:"hostId"`
	SecretToken          string        `json:"-"`
	Status               SessionStatus `json:"status"`
	CurrentQuestionIndex int           `json:"currentQuestionIndex"` // -1 before the first question
	QuestionPhase        QuestionPhase `json:"questionPhase,omitempty"`
	QuestionStartedAt    time.Time     `json:"questionStartedAt,omitempty"`
	SummitThreshold      float64       `json:"summitThreshold"`
	CreatedAt            time.Time     `json:"createdAt"`
}

// Option is one selectable answer for a question.
type Option struct {
	Text string `json:"text"`
}

// Question belongs to a session. Order defines the sequence and changes only
// through explicit reorder/shuffle operations. A nil CorrectOptionIndex puts
// the question in poll mode (no correctness).
type Question struct {
	ID                 string   `json:"id"`
	SessionID          string   `json:"sessionId"`
	Text               string   `json:"text"`
	Options            []Option `json:"options"`
	CorrectOptionIndex *int     `json:"correctOptionIndex,omitempty"`
	Order              int      `json:"order"`
	TimeLimitSec       int      `json:"timeLimitSec"`
	Enabled            bool     `json:"enabled"`
	FollowUpText       string   `json:"followUpText,omitempty"`
}

// PollMode reports whether the question has no correct option.
func (q *Question) PollMode() bool {
	return q.CorrectOptionIndex == nil
}

// Answer records one player's submission for one question. ElevationAtAnswer
// is the player's elevation before this question's gain, snapshotted at
// submit time. The three score fields are written together by the reveal
// transition and stay nil until then.
type Answer struct {
	QuestionID        string    `json:"questionId"`
	PlayerID          string    `json:"playerId"`
	OptionIndex       int       `json:"optionIndex"`
	AnsweredAt        time.Time `json:"answeredAt"`
	ElevationAtAnswer int       `json:"elevationAtAnswer"`
	BaseScore         *int      `json:"baseScore,omitempty"`
	MinorityBonus     *int      `json:"minorityBonus,omitempty"`
	ElevationGain     *int      `json:"elevationGain,omitempty"`
}

// Scored reports whether the reveal transition has written this answer's
// score batch.
func (a *Answer) Scored() bool {
	return a.ElevationGain != nil
}

// Player persists for the session's lifetime. SummitPlace and SummitElevation
// are assigned at most once, the first time elevation crosses the summit.
type Player struct {
	ID              string    `json:"id"`
	SessionID       string    `json:"sessionId"`
	Name            string    `json:"name"`
	Elevation       int       `json:"elevation"`
	LastOptionIndex *int      `json:"lastOptionIndex,omitempty"`
	SummitPlace     *int      `json:"summitPlace,omitempty"`
	SummitElevation *int      `json:"summitElevation,omitempty"`
	LastSeenAt      time.Time `json:"lastSeenAt"`
}

// Summited reports whether the player has been assigned a summit place.
func (p *Player) Summited() bool {
	return p.SummitPlace != nil
}

// QuestionSet is importable quiz content, loaded from a backing store.
type QuestionSet struct {
	ID        string         `json:"id"`
	Title     string         `json:"title,omitempty"`
	Questions []QuestionSpec `json:"questions"`
}

// QuestionSpec is one question inside a QuestionSet, before it is attached
// to a session.
type QuestionSpec struct {
	Text               string   `json:"text"`
	Options            []Option `json:"options"`
	CorrectOptionIndex *int     `json:"correctOptionIndex,omitempty"`
	TimeLimitSec       int      `json:"timeLimitSec"`
	FollowUpText       string   `json:"followUpText,omitempty"`
}
