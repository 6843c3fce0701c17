package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogQueryMatchesIsInclusive(t *testing.T) {
	from := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
	q := LogQuery{From: from, To: to, Limit: 10}

	assert.True(t, q.Matches(from))
	assert.True(t, q.Matches(to))
	assert.True(t, q.Matches(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, q.Matches(from.Add(-time.Nanosecond)))
	assert.False(t, q.Matches(to.Add(time.Nanosecond)))
}

func TestErrorHelpersSeeThroughWrapping(t *testing.T) {
	assert.True(t, IsNotFound(fmt.Errorf("pg: get user: %w", ErrNotFound)))
	assert.True(t, IsInvalidInput(fmt.Errorf("date: %w", ErrInvalidInput)))
	assert.False(t, IsNotFound(ErrInvalidInput))
}

func TestSummaryDropsExercises(t *testing.T) {
	u := User{ID: "u1", Username: "ana", Exercises: []Exercise{{Description: "run"}}}
	assert.Equal(t, UserSummary{ID: "u1", Username: "ana"}, u.Summary())
}
