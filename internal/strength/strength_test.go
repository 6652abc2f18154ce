package strength

import (
	"testing"
	"time"

	"circl/backend/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func contact(c repository.Circle) *repository.Contact {
	return &repository.Contact{ID: uuid.New(), UserID: uuid.New(), FullName: "Jon Smith", Circle: c}
}

func interactionsAt(offsets ...time.Duration) []repository.Interaction {
	out := make([]repository.Interaction, 0, len(offsets))
	for _, off := range offsets {
		out = append(out, repository.Interaction{
			ID:         uuid.New(),
			Kind:       "call",
			OccurredAt: now.Add(-off),
		})
	}
	return out
}

func days(n int) time.Duration { return time.Duration(n) * 24 * time.Hour }

func TestScore_InnerWithRecentInteractionIsStrong(t *testing.T) {
	result := Score(contact(repository.CircleInner), interactionsAt(days(1)), now)

	assert.Equal(t, LevelStrong, result.Level)
	assert.GreaterOrEqual(t, result.Score, moderateCutoff)
}

func TestScore_OuterWithNoHistoryIsWeak(t *testing.T) {
	result := Score(contact(repository.CircleOuter), nil, now)

	assert.Equal(t, LevelWeak, result.Level)
	assert.Equal(t, 20, result.Score)
	assert.Equal(t, []string{"No interactions logged yet. Reach out and log your first interaction."}, result.Suggestions)
}

func TestScore_NeverFailsOnEmptyHistory(t *testing.T) {
	for _, c := range []repository.Circle{repository.CircleInner, repository.CircleMiddle, repository.CircleOuter} {
		result := Score(contact(c), []repository.Interaction{}, now)
		assert.NotEmpty(t, result.Level)
		assert.NotEmpty(t, result.Suggestions)
	}
}

func TestScore_FrequencyRaisesScore(t *testing.T) {
	sparse := Score(contact(repository.CircleMiddle), interactionsAt(days(5)), now)
	busy := Score(contact(repository.CircleMiddle), interactionsAt(
		days(2), days(10), days(20), days(35), days(50), days(70),
	), now)

	assert.Greater(t, busy.Score, sparse.Score)
}

func TestScore_StaleGapAgainstOwnCadencePenalizes(t *testing.T) {
	// Weekly cadence that stopped four months ago.
	lapsed := Score(contact(repository.CircleMiddle), interactionsAt(
		days(120), days(127), days(134),
	), now)

	// Same count and cadence, still active.
	active := Score(contact(repository.CircleMiddle), interactionsAt(
		days(2), days(9), days(16),
	), now)

	assert.Equal(t, LevelWeak, lapsed.Level)
	assert.Equal(t, LevelStrong, active.Level)
	assert.Greater(t, active.Score, lapsed.Score)
}

func TestScore_FutureInteractionsIgnored(t *testing.T) {
	planned := []repository.Interaction{{ID: uuid.New(), Kind: "meeting", OccurredAt: now.Add(days(3))}}
	result := Score(contact(repository.CircleOuter), planned, now)

	assert.Equal(t, LevelWeak, result.Level)
	assert.Equal(t, []string{"No interactions logged yet. Reach out and log your first interaction."}, result.Suggestions)
}

func TestScore_ScoreStaysInBounds(t *testing.T) {
	maxed := Score(contact(repository.CircleInner), interactionsAt(
		days(1), days(2), days(3), days(4), days(5), days(6), days(7),
	), now)
	assert.LessOrEqual(t, maxed.Score, 100)
	assert.GreaterOrEqual(t, maxed.Score, 0)
}

func TestScore_SuggestionsNameWeakestFactor(t *testing.T) {
	stale := Score(contact(repository.CircleInner), interactionsAt(days(200)), now)
	assert.Contains(t, stale.Suggestions[0], "recently")

	healthy := Score(contact(repository.CircleInner), interactionsAt(
		days(1), days(8), days(15), days(22),
	), now)
	assert.Equal(t, []string{"This connection is in good shape. Keep up the current cadence."}, healthy.Suggestions)

	promotable := Score(contact(repository.CircleOuter), interactionsAt(
		days(1), days(8), days(15), days(22), days(29), days(36),
	), now)
	assert.Contains(t, promotable.Suggestions[0], "closer circle")
}

func TestScore_DeterministicForSameInputs(t *testing.T) {
	c := contact(repository.CircleMiddle)
	history := interactionsAt(days(3), days(40), days(80))

	first := Score(c, history, now)
	second := Score(c, history, now)
	assert.Equal(t, first, second)
}
