package app

import (
	"sort"
	"time"

	"summit-quiz-service/internal/domain"
	"summit-quiz-service/internal/reveal"
	"summit-quiz-service/internal/sequence"
)

// Snapshot is the full read-only projection pushed to subscribers after every
// committed mutation. Observers derive reveal animation schedules from it
// locally; the server never streams animation frames.
type Snapshot struct {
	Session   domain.Session    `json:"session"`
	Questions []domain.Question `json:"questions"`
	Players   []domain.Player   `json:"players"`
	Rope      *RopeState        `json:"rope,omitempty"`
	Standings []SummitStanding  `json:"standings,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// RopeState is the per-question "rope climbing" view: who hangs on which
// option, who has not answered, and the countdown block.
type RopeState struct {
	QuestionID    string       `json:"questionId"`
	QuestionIndex int          `json:"questionIndex"`
	OptionOrder   []int        `json:"optionOrder"` // shared visual left-to-right order
	Options       []RopeOption `json:"options"`
	Unanswered    []RopeMember `json:"unanswered"`
	ActivePlayers int          `json:"activePlayers"`
	TotalPlayers  int          `json:"totalPlayers"`
	Timing        TimingBlock  `json:"timing"`
	Reveal        *RevealPlan  `json:"reveal,omitempty"`
}

// RevealPlan is the shared cut animation schedule, present once the phase
// reaches revealed. Offsets are milliseconds relative to each client's own
// observation of the phase flip.
type RevealPlan struct {
	CutOrder     []int         `json:"cutOrder"`
	CutAtMs      map[int]int64 `json:"cutAtMs"`
	CompleteAtMs int64         `json:"completeAtMs"`
}

// RopeOption lists the climbers on one option, in answer order.
type RopeOption struct {
	OptionIndex int          `json:"optionIndex"`
	Text        string       `json:"text"`
	Climbers    []RopeMember `json:"climbers"`
}

// RopeMember is one player as rendered on a rope.
type RopeMember struct {
	PlayerID          string `json:"playerId"`
	Name              string `json:"name"`
	ElevationAtAnswer int    `json:"elevationAtAnswer"`
	ElevationGain     *int   `json:"elevationGain,omitempty"`
	Active            bool   `json:"active"`
}

// TimingBlock carries what a client needs to render the countdown. The
// window opens with the question's first answer, not with answers_shown.
type TimingBlock struct {
	TimeLimitSec    int       `json:"timeLimitSec"`
	FirstAnsweredAt time.Time `json:"firstAnsweredAt,omitempty"`
	WindowClosesAt  time.Time `json:"windowClosesAt,omitempty"`
	WindowOpen      bool      `json:"windowOpen"`
}

// SummitStanding is one summited player's final placing.
type SummitStanding struct {
	PlayerID        string `json:"playerId"`
	Name            string `json:"name"`
	SummitPlace     int    `json:"summitPlace"`
	SummitElevation int    `json:"summitElevation"`
}

func (s *Session) snapshotLocked() Snapshot {
	now := s.now()

	questions := make([]domain.Question, 0, len(s.questions))
	for _, q := range s.questions {
		questions = append(questions, *q)
	}

	players := make([]domain.Player, 0, len(s.players))
	for _, p := range s.players {
		players = append(players, *p)
	}
	sort.Slice(players, func(i, j int) bool {
		if players[i].Elevation != players[j].Elevation {
			return players[i].Elevation > players[j].Elevation
		}
		return players[i].Name < players[j].Name
	})

	var standings []SummitStanding
	for _, p := range players {
		if p.SummitPlace != nil {
			standings = append(standings, SummitStanding{
				PlayerID:        p.ID,
				Name:            p.Name,
				SummitPlace:     *p.SummitPlace,
				SummitElevation: *p.SummitElevation,
			})
		}
	}
	sort.Slice(standings, func(i, j int) bool {
		return standings[i].SummitPlace < standings[j].SummitPlace
	})

	snap := Snapshot{
		Session:   s.state,
		Questions: questions,
		Players:   players,
		Standings: standings,
		UpdatedAt: now,
	}
	if q := s.currentQuestionLocked(); q != nil {
		snap.Rope = s.ropeStateLocked(q, now)
	}
	return snap
}

func (s *Session) ropeStateLocked(q *domain.Question, now time.Time) *RopeState {
	batch := s.answers[q.ID]

	rope := &RopeState{
		QuestionID:    q.ID,
		QuestionIndex: s.state.CurrentQuestionIndex,
		OptionOrder:   sequence.OptionOrder(s.state.Code, s.state.CurrentQuestionIndex, len(q.Options)),
		Options:       make([]RopeOption, len(q.Options)),
		TotalPlayers:  len(s.players),
		Timing:        TimingBlock{TimeLimitSec: q.TimeLimitSec},
	}
	for i := range rope.Options {
		rope.Options[i] = RopeOption{OptionIndex: i, Text: q.Options[i].Text}
	}

	var first time.Time
	for _, p := range s.players {
		active := now.Sub(p.LastSeenAt) < defaultActivityWindow
		if active {
			rope.ActivePlayers++
		}
		a, answered := batch[p.ID]
		if !answered {
			rope.Unanswered = append(rope.Unanswered, RopeMember{
				PlayerID: p.ID, Name: p.Name, ElevationAtAnswer: p.Elevation, Active: active,
			})
			continue
		}
		rope.Options[a.OptionIndex].Climbers = append(rope.Options[a.OptionIndex].Climbers, RopeMember{
			PlayerID:          p.ID,
			Name:              p.Name,
			ElevationAtAnswer: a.ElevationAtAnswer,
			ElevationGain:     a.ElevationGain,
			Active:            active,
		})
		if first.IsZero() || a.AnsweredAt.Before(first) {
			first = a.AnsweredAt
		}
	}

	for i := range rope.Options {
		climbers := rope.Options[i].Climbers
		sort.Slice(climbers, func(a, b int) bool { return climbers[a].Name < climbers[b].Name })
	}
	sort.Slice(rope.Unanswered, func(a, b int) bool { return rope.Unanswered[a].Name < rope.Unanswered[b].Name })

	if !first.IsZero() {
		rope.Timing.FirstAnsweredAt = first
		rope.Timing.WindowClosesAt = first.Add(time.Duration(q.TimeLimitSec) * time.Second)
		rope.Timing.WindowOpen = s.state.QuestionPhase == domain.PhaseAnswersShown &&
			now.Before(rope.Timing.WindowClosesAt)
	} else {
		rope.Timing.WindowOpen = s.state.QuestionPhase == domain.PhaseAnswersShown
	}

	if s.state.QuestionPhase == domain.PhaseRevealed || s.state.QuestionPhase == domain.PhaseResults {
		rope.Reveal = revealPlanLocked(q, batch)
	}
	return rope
}

func revealPlanLocked(q *domain.Question, batch map[string]*domain.Answer) *RevealPlan {
	counts := make([]int, len(q.Options))
	for _, a := range batch {
		counts[a.OptionIndex]++
	}
	correct := -1
	if !q.PollMode() {
		correct = *q.CorrectOptionIndex
	}
	sched := reveal.Build(sequence.WrongOptionOrder(correct, counts))

	plan := &RevealPlan{
		CutOrder:     sched.Order,
		CutAtMs:      make(map[int]int64, len(sched.CutAt)),
		CompleteAtMs: sched.Complete.Milliseconds(),
	}
	for opt, at := range sched.CutAt {
		plan.CutAtMs[opt] = at.Milliseconds()
	}
	return plan
}

// AnswerCounts returns per-option respondent counts for the question, the
// shared input to the wrong-option cut order.
func (s *Session) AnswerCounts(questionID string) []int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q := s.questionByIDLocked(questionID)
	if q == nil {
		return nil
	}
	counts := make([]int, len(q.Options))
	for _, a := range s.answers[questionID] {
		counts[a.OptionIndex]++
	}
	return counts
}
