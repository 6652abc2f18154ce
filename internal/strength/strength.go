// Package strength derives a qualitative connection-strength signal for a
// contact from its circle classification and interaction history. Scoring is
// a pure function of its inputs and is recomputed on every read; nothing here
// is persisted.
package strength

import (
	"sort"
	"time"

	"circl/backend/internal/repository"
)

// Level is the qualitative bucket a score falls into.
type Level string

const (
	LevelWeak     Level = "weak"
	LevelModerate Level = "moderate"
	LevelStrong   Level = "strong"
)

// Strength is the derived value returned to callers. Score is on a 0-100
// scale; Suggestions name the weakest factor holding the score down.
type Strength struct {
	Score       int      `json:"score"`
	Level       Level    `json:"level"`
	Suggestions []string `json:"suggestions"`
}

const (
	weakCutoff     = 40
	moderateCutoff = 70

	frequencyWindow = 90 * 24 * time.Hour
)

// circleBase maps the circle classification to the starting score. Inner
// circle contacts start closest to moderate; outer circle contacts have to
// earn their score through interactions.
func circleBase(c repository.Circle) int {
	switch c {
	case repository.CircleInner:
		return 50
	case repository.CircleMiddle:
		return 35
	default:
		return 20
	}
}

// Score computes the connection strength for one contact. It never fails: a
// contact with no interaction history scores weak with a generic suggestion.
// now is injected so scoring stays deterministic under test.
func Score(contact *repository.Contact, interactions []repository.Interaction, now time.Time) Strength {
	times := make([]time.Time, 0, len(interactions))
	for _, in := range interactions {
		if !in.OccurredAt.After(now) {
			times = append(times, in.OccurredAt)
		}
	}
	if len(times) == 0 {
		base := circleBase(contact.Circle)
		return Strength{
			Score:       base,
			Level:       levelFor(base),
			Suggestions: []string{"No interactions logged yet. Reach out and log your first interaction."},
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	score := circleBase(contact.Circle)

	last := times[len(times)-1]
	gap := now.Sub(last)
	recency := recencyBonus(gap)
	score += recency

	recent := 0
	for _, t := range times {
		if now.Sub(t) <= frequencyWindow {
			recent++
		}
	}
	frequency := frequencyBonus(recent)
	score += frequency

	// When the contact has an established cadence and the current gap has
	// blown well past it, the relationship is fading regardless of the
	// raw recency bucket.
	if cadence, ok := historicalCadence(times); ok && gap > 2*cadence {
		score -= 15
	}

	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	return Strength{
		Score:       score,
		Level:       levelFor(score),
		Suggestions: suggestions(contact, recency, frequency),
	}
}

func levelFor(score int) Level {
	switch {
	case score < weakCutoff:
		return LevelWeak
	case score < moderateCutoff:
		return LevelModerate
	default:
		return LevelStrong
	}
}

func recencyBonus(gap time.Duration) int {
	switch {
	case gap <= 7*24*time.Hour:
		return 30
	case gap <= 30*24*time.Hour:
		return 20
	case gap <= 90*24*time.Hour:
		return 10
	default:
		return 0
	}
}

func frequencyBonus(recentCount int) int {
	switch {
	case recentCount >= 6:
		return 20
	case recentCount >= 3:
		return 15
	case recentCount >= 1:
		return 10
	default:
		return 0
	}
}

// historicalCadence returns the average gap between consecutive interactions.
// A cadence needs at least two interactions to exist.
func historicalCadence(sorted []time.Time) (time.Duration, bool) {
	if len(sorted) < 2 {
		return 0, false
	}
	total := sorted[len(sorted)-1].Sub(sorted[0])
	return total / time.Duration(len(sorted)-1), true
}

// suggestions picks template advice keyed to the weakest factor.
func suggestions(contact *repository.Contact, recencyB, frequencyB int) []string {
	var out []string
	if recencyB == 0 {
		out = append(out, "You haven't logged an interaction with this contact recently. Reach out to reconnect.")
	}
	if frequencyB < 15 {
		out = append(out, "Interactions have been infrequent lately. Try scheduling a recurring check-in.")
	}
	if contact.Circle == repository.CircleOuter && recencyB > 0 && frequencyB >= 15 {
		out = append(out, "You interact with this contact often. Consider moving them to a closer circle.")
	}
	if len(out) == 0 {
		out = append(out, "This connection is in good shape. Keep up the current cadence.")
	}
	return out
}
