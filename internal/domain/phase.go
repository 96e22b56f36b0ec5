package domain

// SessionStatus is the session-level state.
type SessionStatus string

const (
	StatusLobby    SessionStatus = "lobby"
	StatusActive   SessionStatus = "active"
	StatusFinished SessionStatus = "finished"
)

// QuestionPhase is the per-question sub-state, meaningful only while the
// session is active. The zero value means "no phase" (session not active).
type QuestionPhase string

const (
	PhaseNone          QuestionPhase = ""
	PhasePreGame       QuestionPhase = "pre_game"
	PhaseQuestionShown QuestionPhase = "question_shown"
	PhaseAnswersShown  QuestionPhase = "answers_shown"
	PhaseRevealed      QuestionPhase = "revealed"
	PhaseResults       QuestionPhase = "results"
)

// forwardPhase maps each phase to the single phase a plain forward operation
// may move it to. pre_game and results advance via nextQuestion instead and
// are absent here.
var forwardPhase = map[QuestionPhase]QuestionPhase{
	PhaseQuestionShown: PhaseAnswersShown,
	PhaseAnswersShown:  PhaseRevealed,
	PhaseRevealed:      PhaseResults,
}

// CanAdvanceTo reports whether target is the legal forward step from p.
func (p QuestionPhase) CanAdvanceTo(target QuestionPhase) bool {
	next, ok := forwardPhase[p]
	return ok && next == target
}

func (p QuestionPhase) String() string {
	return string(p)
}

func (s SessionStatus) String() string {
	return string(s)
}
