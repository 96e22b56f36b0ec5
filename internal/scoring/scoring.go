// Package scoring holds the pure score math: per-answer base score from
// response latency, minority popularity bonus, the rubber-band per-question
// cap, elevation accumulation and summit place assignment. Everything here is
// deterministic and side-effect free; the reveal transition is the only caller
// that writes results back.
package scoring

import (
	"math"
	"sort"

	"summit-quiz-service/internal/domain"
)

const (
	baseScoreMax = 100
	bonusMax     = 50
	capFloor     = 50
	capCeiling   = 150
)

// Gain is one answer's score breakdown. Total is Base+Bonus for correct (or
// poll-mode) answers and forced to zero for incorrect ones by the caller.
type Gain struct {
	Base  int `json:"base"`
	Bonus int `json:"bonus"`
	Total int `json:"total"`
}

// BaseScore decays linearly from 100 at 0ms to 0 at 10s. responseMs is
// measured from the question's earliest answer, not from wall clock, so the
// first responder always scores the maximum. Negative input counts as 0.
func BaseScore(responseMs int64) int {
	if responseMs < 0 {
		responseMs = 0
	}
	s := int(math.Round(baseScoreMax - float64(responseMs)/1000*10))
	return clamp(s, 0, baseScoreMax)
}

// MinorityBonus rewards picking an option few other respondents picked.
// A lone answer among n respondents approaches the full bonus; a unanimous
// choice earns nothing.
func MinorityBonus(sameOption, totalAnswered int) int {
	if totalAnswered == 0 {
		return 0
	}
	b := int(math.Round((1 - float64(sameOption)/float64(totalAnswered)) * bonusMax))
	return clamp(b, 0, bonusMax)
}

// ElevationGain combines base score and minority bonus for one answer.
func ElevationGain(responseMs int64, sameOption, totalAnswered int) Gain {
	base := BaseScore(responseMs)
	bonus := MinorityBonus(sameOption, totalAnswered)
	return Gain{Base: base, Bonus: bonus, Total: base + bonus}
}

// DynamicMax is the advisory rubber-band cap on per-question gain: the
// remaining climb split over the remaining questions, clamped to [50,150].
// It does not clamp anything itself; callers apply it.
func DynamicMax(leaderElevation, questionsRemaining int) int {
	if leaderElevation >= domain.Summit || questionsRemaining <= 0 {
		return capCeiling
	}
	c := int(math.Round(float64(domain.Summit-leaderElevation) / float64(questionsRemaining)))
	return clamp(c, capFloor, capCeiling)
}

// ApplyGain accumulates a gain onto an elevation, clamped at the summit.
func ApplyGain(elevation, gain int) int {
	return min(domain.Summit, elevation+gain)
}

// Crosser is a player whose elevation crossed the summit in the current
// reveal batch. FinalElevation is the unclamped value (elevation before the
// question plus the full gain); ranking on the clamped value would tie every
// crosser at exactly the summit.
type Crosser struct {
	PlayerID       string
	FinalElevation int
}

// SummitPlaces dense-ranks a reveal batch's crossers by unclamped final
// elevation descending, numbering from startPlace: equal elevations share a
// place, the next distinct elevation gets place+1. Returns playerID → place.
func SummitPlaces(crossers []Crosser, startPlace int) map[string]int {
	ranked := make([]Crosser, len(crossers))
	copy(ranked, crossers)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].FinalElevation > ranked[j].FinalElevation
	})

	places := make(map[string]int, len(ranked))
	place := startPlace
	for i, c := range ranked {
		if i > 0 && c.FinalElevation < ranked[i-1].FinalElevation {
			place++
		}
		places[c.PlayerID] = place
	}
	return places
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
