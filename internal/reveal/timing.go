// Package reveal computes the client-side reveal animation schedule. Once a
// client observes the phase flip to revealed it derives every offset locally
// from the deterministic wrong-option order; nothing further crosses the
// wire during the multi-second sequence. All offsets are relative to the
// client's own observation of the flip, which absorbs subscription delivery
// skew.
package reveal

import "time"

const (
	// TensionDelay is the pause before the first cut.
	TensionDelay = 1500 * time.Millisecond
	// PerCutInterval spaces successive cuts.
	PerCutInterval = 800 * time.Millisecond
	// PostCutBuffer is the pause after the last cut before "complete".
	PostCutBuffer = 500 * time.Millisecond
)

// Schedule maps each wrong option to the moment its rope is cut, plus the
// moment the whole sequence completes.
type Schedule struct {
	Order    []int                 // wrong options in cut order
	CutAt    map[int]time.Duration // option index → cut offset
	Complete time.Duration
}

// Build derives the schedule from the shared wrong-option cut order. With no
// wrong options the sequence completes right after the tension pause.
func Build(wrongOrder []int) Schedule {
	s := Schedule{
		Order: append([]int(nil), wrongOrder...),
		CutAt: make(map[int]time.Duration, len(wrongOrder)),
	}
	for i, opt := range wrongOrder {
		s.CutAt[opt] = TensionDelay + time.Duration(i)*PerCutInterval
	}
	if len(wrongOrder) == 0 {
		s.Complete = TensionDelay
	} else {
		s.Complete = TensionDelay + time.Duration(len(wrongOrder)-1)*PerCutInterval + PostCutBuffer
	}
	return s
}

// OwnResultAt is when this client's own result flips from pending to shown:
// at completion for a correct answer, at the chosen rope's cut otherwise.
func (s Schedule) OwnResultAt(correct bool, chosenOption int) time.Duration {
	if correct {
		return s.Complete
	}
	if at, ok := s.CutAt[chosenOption]; ok {
		return at
	}
	return s.Complete
}
