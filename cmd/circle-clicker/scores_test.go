package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/plus3/circles/scores"
)

func TestRenderScoresEmpty(t *testing.T) {
	out := renderScores("hard", nil, 0, time.Now())
	assert.Contains(t, out, "High Scores - hard")
	assert.Contains(t, out, "No scores recorded yet.")
}

func TestRenderScoresTable(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []scores.Run{
		{Difficulty: "easy", Score: 42, Hits: 45, Misses: 3, Expired: 0, Duration: 61 * time.Second, CreatedAt: now.Add(-2 * time.Hour)},
		{Difficulty: "hard", Score: 7, Hits: 10, Misses: 10, Expired: 3, Duration: 20 * time.Second, CreatedAt: now.Add(-72 * time.Hour)},
	}

	out := renderScores("", runs, 1234, now)
	assert.Contains(t, out, "High Scores")
	assert.Contains(t, out, "42")
	assert.Contains(t, out, "94%")
	assert.Contains(t, out, "50%")
	assert.Contains(t, out, "1m1s")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "3 days ago")
	assert.Contains(t, out, "1,234 runs recorded")
}
